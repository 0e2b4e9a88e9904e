package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/backoffice-ledger/internal/domain/registry"
	"github.com/backoffice-ledger/internal/domain/shared"
	"github.com/backoffice-ledger/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	contractColumns = "id, client_id, name, start_date, end_date, active, billing_day, created_at, updated_at"
	itemColumns     = "id, contract_id, service_id, kind, agreed_value::text, notes, created_at, updated_at"
)

// ContractRepository implements the registry.ContractRepository interface for PostgreSQL
type ContractRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

func NewContractRepository(logger *slog.Logger, db *persistence.PostgresDB) registry.ContractRepository {
	return &ContractRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

func (r *ContractRepository) WithTx(tx pgx.Tx) registry.ContractRepository {
	return &ContractRepository{
		querier: tx,
		logger:  r.logger,
	}
}

func (r *ContractRepository) Create(ctx context.Context, c *registry.Contract) error {
	query := `
		INSERT INTO contracts (id, client_id, name, start_date, end_date, active, billing_day, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.querier.Exec(ctx, query,
		c.ID,
		c.ClientID,
		c.Name,
		c.StartDate,
		c.EndDate,
		c.Active,
		c.BillingDay,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create contract", "client_id", c.ClientID.String(), "error", err)
		return fmt.Errorf("failed to create contract: %w", err)
	}

	return nil
}

func (r *ContractRepository) GetByID(ctx context.Context, id uuid.UUID) (*registry.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE id = $1`

	var c registry.Contract
	err := scanContract(r.querier.QueryRow(ctx, query, id), &c)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, registry.ErrContractNotFound{ContractID: id}
		}
		r.logger.Error("Failed to get contract", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}

	return &c, nil
}

func (r *ContractRepository) AddItem(ctx context.Context, item *registry.ContractItem) error {
	query := `
		INSERT INTO contract_items (id, contract_id, service_id, kind, agreed_value, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.querier.Exec(ctx, query,
		item.ID,
		item.ContractID,
		item.ServiceID,
		item.Kind,
		item.AgreedValue.StringFixed(2),
		item.Notes,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to add contract item", "contract_id", item.ContractID.String(), "error", err)
		return fmt.Errorf("failed to add contract item: %w", err)
	}

	return nil
}

func (r *ContractRepository) GetItem(ctx context.Context, id uuid.UUID) (*registry.ContractItem, error) {
	query := `SELECT ` + itemColumns + ` FROM contract_items WHERE id = $1`

	var item registry.ContractItem
	err := scanItem(r.querier.QueryRow(ctx, query, id), &item)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, registry.ErrContractItemNotFound{ItemID: id}
		}
		r.logger.Error("Failed to get contract item", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get contract item: %w", err)
	}

	return &item, nil
}

func (r *ContractRepository) ListItems(ctx context.Context, contractID uuid.UUID) ([]*registry.ContractItem, error) {
	query := `SELECT ` + itemColumns + ` FROM contract_items WHERE contract_id = $1 ORDER BY created_at, id`

	rows, err := r.querier.Query(ctx, query, contractID)
	if err != nil {
		r.logger.Error("Failed to list contract items", "contract_id", contractID.String(), "error", err)
		return nil, fmt.Errorf("failed to list contract items: %w", err)
	}
	defer rows.Close()

	var items []*registry.ContractItem
	for rows.Next() {
		var item registry.ContractItem
		if err := scanItem(rows, &item); err != nil {
			return nil, fmt.Errorf("failed to scan contract item: %w", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over contract items: %w", err)
	}

	return items, nil
}

// ListBillableRecurring selects recurring items of active contracts with a
// billing day, ordered by contract then item creation.
func (r *ContractRepository) ListBillableRecurring(ctx context.Context) ([]*registry.BillableItem, error) {
	query := `
		SELECT ci.id, ci.contract_id, ci.service_id, ci.kind, ci.agreed_value::text, ci.notes, ci.created_at, ci.updated_at,
		       c.id, c.client_id, c.name, c.start_date, c.end_date, c.active, c.billing_day, c.created_at, c.updated_at,
		       s.name
		FROM contract_items ci
		JOIN contracts c ON c.id = ci.contract_id
		JOIN services s ON s.id = ci.service_id
		WHERE ci.kind = $1 AND c.active AND c.billing_day IS NOT NULL
		ORDER BY c.created_at, c.id, ci.created_at, ci.id
	`

	rows, err := r.querier.Query(ctx, query, shared.ItemKindRecurring)
	if err != nil {
		r.logger.Error("Failed to list billable recurring items", "error", err)
		return nil, fmt.Errorf("failed to list billable recurring items: %w", err)
	}
	defer rows.Close()

	var billable []*registry.BillableItem
	for rows.Next() {
		var (
			item     registry.ContractItem
			contract registry.Contract
			value    string
			b        registry.BillableItem
		)
		err := rows.Scan(
			&item.ID, &item.ContractID, &item.ServiceID, &item.Kind, &value, &item.Notes, &item.CreatedAt, &item.UpdatedAt,
			&contract.ID, &contract.ClientID, &contract.Name, &contract.StartDate, &contract.EndDate, &contract.Active, &contract.BillingDay, &contract.CreatedAt, &contract.UpdatedAt,
			&b.ServiceName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan billable item: %w", err)
		}
		if item.AgreedValue, err = parseMoney(value); err != nil {
			return nil, err
		}
		b.Item = &item
		b.Contract = &contract
		billable = append(billable, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over billable items: %w", err)
	}

	return billable, nil
}

func scanContract(row rowScanner, c *registry.Contract) error {
	return row.Scan(
		&c.ID,
		&c.ClientID,
		&c.Name,
		&c.StartDate,
		&c.EndDate,
		&c.Active,
		&c.BillingDay,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
}

func scanItem(row rowScanner, item *registry.ContractItem) error {
	var value string
	err := row.Scan(
		&item.ID,
		&item.ContractID,
		&item.ServiceID,
		&item.Kind,
		&value,
		&item.Notes,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return err
	}
	item.AgreedValue, err = parseMoney(value)
	return err
}
