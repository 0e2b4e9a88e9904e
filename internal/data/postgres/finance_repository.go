package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/backoffice-ledger/internal/domain/finance"
	"github.com/backoffice-ledger/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// FinanceRepository implements the finance.Repository interface for PostgreSQL
type FinanceRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

func NewFinanceRepository(logger *slog.Logger, db *persistence.PostgresDB) finance.Repository {
	return &FinanceRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

func (r *FinanceRepository) WithTx(tx pgx.Tx) finance.Repository {
	return &FinanceRepository{
		querier: tx,
		logger:  r.logger,
	}
}

func (r *FinanceRepository) exec(ctx context.Context, kind, query string, args ...any) error {
	if _, err := r.querier.Exec(ctx, query, args...); err != nil {
		r.logger.Error("Failed to create "+kind, "error", err)
		return fmt.Errorf("failed to create %s: %w", kind, err)
	}
	return nil
}

// notFound maps pgx.ErrNoRows to finance.ErrNotFound and wraps anything else
func (r *FinanceRepository) notFound(err error, kind string, id uuid.UUID) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return finance.ErrNotFound{Kind: kind, ID: id}
	}
	r.logger.Error("Failed to get "+kind, "id", id.String(), "error", err)
	return fmt.Errorf("failed to get %s: %w", kind, err)
}

func (r *FinanceRepository) CreateCategory(ctx context.Context, c *finance.Category) error {
	return r.exec(ctx, finance.KindCategory,
		`INSERT INTO categories (id, name, kind, created_at) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.Kind, c.CreatedAt,
	)
}

func (r *FinanceRepository) GetCategory(ctx context.Context, id uuid.UUID) (*finance.Category, error) {
	var c finance.Category
	err := r.querier.QueryRow(ctx,
		`SELECT id, name, kind, created_at FROM categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Kind, &c.CreatedAt)
	if err != nil {
		return nil, r.notFound(err, finance.KindCategory, id)
	}
	return &c, nil
}

func (r *FinanceRepository) CreateCostCenter(ctx context.Context, cc *finance.CostCenter) error {
	return r.exec(ctx, finance.KindCostCenter,
		`INSERT INTO cost_centers (id, name, description, created_at) VALUES ($1, $2, $3, $4)`,
		cc.ID, cc.Name, cc.Description, cc.CreatedAt,
	)
}

func (r *FinanceRepository) GetCostCenter(ctx context.Context, id uuid.UUID) (*finance.CostCenter, error) {
	var cc finance.CostCenter
	err := r.querier.QueryRow(ctx,
		`SELECT id, name, description, created_at FROM cost_centers WHERE id = $1`, id,
	).Scan(&cc.ID, &cc.Name, &cc.Description, &cc.CreatedAt)
	if err != nil {
		return nil, r.notFound(err, finance.KindCostCenter, id)
	}
	return &cc, nil
}

func (r *FinanceRepository) CreateBank(ctx context.Context, b *finance.Bank) error {
	return r.exec(ctx, finance.KindBank,
		`INSERT INTO banks (id, name, code, statement_layout, active, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		b.ID, b.Name, b.Code, b.StatementLayout, b.Active, b.CreatedAt,
	)
}

func (r *FinanceRepository) GetBank(ctx context.Context, id uuid.UUID) (*finance.Bank, error) {
	var b finance.Bank
	err := r.querier.QueryRow(ctx,
		`SELECT id, name, code, statement_layout, active, created_at FROM banks WHERE id = $1`, id,
	).Scan(&b.ID, &b.Name, &b.Code, &b.StatementLayout, &b.Active, &b.CreatedAt)
	if err != nil {
		return nil, r.notFound(err, finance.KindBank, id)
	}
	return &b, nil
}

func (r *FinanceRepository) CreateAccount(ctx context.Context, a *finance.BankAccount) error {
	query := `
		INSERT INTO bank_accounts (id, bank_id, name, account_type, branch, number, opening_balance, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	return r.exec(ctx, finance.KindAccount, query,
		a.ID, a.BankID, a.Name, a.Type, a.Branch, a.Number, a.OpeningBalance.StringFixed(2), a.Active, a.CreatedAt, a.UpdatedAt,
	)
}

func (r *FinanceRepository) GetAccount(ctx context.Context, id uuid.UUID) (*finance.BankAccount, error) {
	query := `
		SELECT id, bank_id, name, account_type, branch, number, opening_balance::text, active, created_at, updated_at
		FROM bank_accounts
		WHERE id = $1
	`

	var (
		a       finance.BankAccount
		opening string
	)
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.BankID, &a.Name, &a.Type, &a.Branch, &a.Number, &opening, &a.Active, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, r.notFound(err, finance.KindAccount, id)
	}

	if a.OpeningBalance, err = parseMoney(opening); err != nil {
		return nil, err
	}
	return &a, nil
}
