// Package bookkeeping holds the application services behind the API, the
// worker and the CLI: registry and finance setup, ledger entries, balances,
// the recurrence generator and the notice scanner.
package bookkeeping

import (
	"context"
	"time"

	"github.com/backoffice-ledger/internal/domain/finance"
	"github.com/backoffice-ledger/internal/domain/ledger"
	"github.com/backoffice-ledger/internal/domain/registry"
	"github.com/backoffice-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RegistryService manages clients, the service catalog and contracts
type RegistryService interface {
	// CreateClient returns ErrDuplicateDocument when the document is taken
	CreateClient(ctx context.Context, in ClientInput) (*registry.Client, error)
	GetClient(ctx context.Context, id uuid.UUID) (*registry.Client, error)
	CreateService(ctx context.Context, name, description string, defaultPrice decimal.Decimal) (*registry.Service, error)
	GetService(ctx context.Context, id uuid.UUID) (*registry.Service, error)
	CreateContract(ctx context.Context, in ContractInput) (*registry.Contract, error)

	// GetContract returns the contract with its items
	GetContract(ctx context.Context, id uuid.UUID) (*registry.Contract, error)
	AddContractItem(ctx context.Context, contractID uuid.UUID, in ItemInput) (*registry.ContractItem, error)
}

// FinanceService manages the financial setup and answers balance queries
type FinanceService interface {
	CreateCategory(ctx context.Context, name string, kind shared.EntryKind) (*finance.Category, error)
	CreateCostCenter(ctx context.Context, name, description string) (*finance.CostCenter, error)
	CreateBank(ctx context.Context, name, code, statementLayout string) (*finance.Bank, error)
	CreateAccount(ctx context.Context, in AccountInput) (*finance.BankAccount, error)
	GetAccount(ctx context.Context, id uuid.UUID) (*finance.BankAccount, error)

	// CurrentBalance recomputes the balance from the stored entries on every call
	CurrentBalance(ctx context.Context, accountID uuid.UUID) (*finance.Balance, error)
	ContractTotals(ctx context.Context, contractID uuid.UUID) (*ledger.ContractTotals, error)
}

// EntryService runs the ledger entry lifecycle
type EntryService interface {
	// Create normalizes and validates entry, then stores it with its
	// ENTRY_CREATED event. Problems come back as ledger.ValidationErrors.
	Create(ctx context.Context, entry *ledger.Entry) (*ledger.Entry, error)

	// Validate is a dry run of Create that persists nothing
	Validate(ctx context.Context, entry *ledger.Entry) (*ledger.Entry, error)

	// Import stores entry after normalization only, skipping the
	// consistency rules. It is meant for historical records and corrections.
	Import(ctx context.Context, entry *ledger.Entry) (*ledger.Entry, error)
	Get(ctx context.Context, id uuid.UUID) (*ledger.Entry, error)
	List(ctx context.Context, filter ledger.Filter, page, perPage int) ([]*ledger.Entry, int64, error)
	ChangeSituation(ctx context.Context, id uuid.UUID, next shared.Situation, paidOn *time.Time) (*ledger.Entry, error)
}

// Generator creates the recurring income entries of a billing period
type Generator interface {
	Generate(ctx context.Context, params GenerateParams) ([]*ledger.Entry, error)
}

// ClientInput carries the fields of a new client
type ClientInput struct {
	PersonType shared.PersonType
	Name       string
	Document   string
	Email      string
	Phone      string
}

// ContractInput carries the fields of a new contract
type ContractInput struct {
	ClientID   uuid.UUID
	Name       string
	StartDate  time.Time
	EndDate    *time.Time
	BillingDay *int
}

// ItemInput carries a new contract item. A nil AgreedValue takes the
// service's default price.
type ItemInput struct {
	ServiceID   uuid.UUID
	Kind        shared.ItemKind
	AgreedValue *decimal.Decimal
	Notes       string
}

// AccountInput carries the fields of a new bank account
type AccountInput struct {
	BankID         uuid.UUID
	Name           string
	Type           shared.AccountType
	Branch         string
	Number         string
	OpeningBalance decimal.Decimal
}

// GenerateParams are the defaults stamped on generated entries. A nil
// ReferenceDate means today.
type GenerateParams struct {
	CategoryID    uuid.UUID
	AccountID     uuid.UUID
	CostCenterID  *uuid.UUID
	ReferenceDate *time.Time
}
