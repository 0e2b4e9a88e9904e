// Package postgres provides PostgreSQL implementations of the domain repositories.
// Repositories accept a persistence.Querier so the same code runs against the
// pool or inside a transaction obtained from PostgresDB.ExecuteTx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/backoffice-ledger/internal/domain/registry"
	"github.com/backoffice-ledger/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const clientColumns = "id, person_type, name, document, email, phone, active, created_at, updated_at"

// rowScanner is satisfied by pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// ClientRepository implements the registry.ClientRepository interface for PostgreSQL
type ClientRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

func NewClientRepository(logger *slog.Logger, db *persistence.PostgresDB) registry.ClientRepository {
	return &ClientRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to tx
func (r *ClientRepository) WithTx(tx pgx.Tx) registry.ClientRepository {
	return &ClientRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create inserts a client; a taken document yields ErrDuplicateDocument
func (r *ClientRepository) Create(ctx context.Context, c *registry.Client) error {
	query := `
		INSERT INTO clients (id, person_type, name, document, email, phone, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.querier.Exec(ctx, query,
		c.ID,
		c.PersonType,
		c.Name,
		c.Document,
		c.Email,
		c.Phone,
		c.Active,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		if persistence.IsUniqueViolation(err, "") {
			return registry.ErrDuplicateDocument{Document: c.Document}
		}
		r.logger.Error("Failed to create client", "error", err)
		return fmt.Errorf("failed to create client: %w", err)
	}

	return nil
}

// GetByID retrieves a client by its ID
func (r *ClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*registry.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`

	c, err := scanClient(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, registry.ErrClientNotFound{ClientID: id}
		}
		r.logger.Error("Failed to get client", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	return c, nil
}

// GetByDocument looks a client up by normalized document; it returns nil, nil when absent
func (r *ClientRepository) GetByDocument(ctx context.Context, document string) (*registry.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE document = $1`

	c, err := scanClient(r.querier.QueryRow(ctx, query, document))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get client by document", "error", err)
		return nil, fmt.Errorf("failed to get client by document: %w", err)
	}

	return c, nil
}

func scanClient(row rowScanner) (*registry.Client, error) {
	var c registry.Client
	err := row.Scan(
		&c.ID,
		&c.PersonType,
		&c.Name,
		&c.Document,
		&c.Email,
		&c.Phone,
		&c.Active,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
