package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository persists the financial reference data entries point at.
type Repository interface {
	CreateCategory(ctx context.Context, category *Category) error
	GetCategory(ctx context.Context, id uuid.UUID) (*Category, error)
	CreateCostCenter(ctx context.Context, costCenter *CostCenter) error
	GetCostCenter(ctx context.Context, id uuid.UUID) (*CostCenter, error)
	CreateBank(ctx context.Context, bank *Bank) error
	GetBank(ctx context.Context, id uuid.UUID) (*Bank, error)
	CreateAccount(ctx context.Context, account *BankAccount) error
	GetAccount(ctx context.Context, id uuid.UUID) (*BankAccount, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrNotFound indicates a missing finance record of the named kind.
type ErrNotFound struct {
	Kind string
	ID   uuid.UUID
}

func (e ErrNotFound) Error() string {
	return e.Kind + " not found: " + e.ID.String()
}

// Is matches on kind; a nil ID in the target matches any ID.
func (e ErrNotFound) Is(target error) bool {
	t, ok := target.(ErrNotFound)
	if !ok {
		return false
	}
	if t.Kind != "" && t.Kind != e.Kind {
		return false
	}
	return t.ID == uuid.Nil || e.ID == t.ID
}

const (
	KindCategory   = "category"
	KindCostCenter = "cost center"
	KindBank       = "bank"
	KindAccount    = "bank account"
)
