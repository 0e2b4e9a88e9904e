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

// ServiceRepository implements the registry.ServiceRepository interface for PostgreSQL
type ServiceRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

func NewServiceRepository(logger *slog.Logger, db *persistence.PostgresDB) registry.ServiceRepository {
	return &ServiceRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

func (r *ServiceRepository) WithTx(tx pgx.Tx) registry.ServiceRepository {
	return &ServiceRepository{
		querier: tx,
		logger:  r.logger,
	}
}

func (r *ServiceRepository) Create(ctx context.Context, s *registry.Service) error {
	query := `
		INSERT INTO services (id, name, description, default_price, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.querier.Exec(ctx, query,
		s.ID,
		s.Name,
		s.Description,
		s.DefaultPrice.StringFixed(2),
		s.Active,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create service", "error", err)
		return fmt.Errorf("failed to create service: %w", err)
	}

	return nil
}

func (r *ServiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*registry.Service, error) {
	query := `
		SELECT id, name, description, default_price::text, active, created_at, updated_at
		FROM services
		WHERE id = $1
	`

	var (
		s     registry.Service
		price string
	)
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.Name,
		&s.Description,
		&price,
		&s.Active,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, registry.ErrServiceNotFound{ServiceID: id}
		}
		r.logger.Error("Failed to get service", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get service: %w", err)
	}

	if s.DefaultPrice, err = parseMoney(price); err != nil {
		return nil, err
	}
	return &s, nil
}
