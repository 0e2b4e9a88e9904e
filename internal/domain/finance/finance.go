package finance

import (
	"errors"
	"strings"
	"time"

	"github.com/backoffice-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrEmptyName          = errors.New("name cannot be empty")
	ErrInvalidAccountType = errors.New("invalid account type")
)

// Category classifies ledger entries; its kind must match every entry filed under it.
type Category struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Kind      shared.EntryKind `json:"kind"`
	CreatedAt time.Time        `json:"created_at"`
}

func NewCategory(name string, kind shared.EntryKind) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if !kind.Valid() {
		return nil, shared.ErrInvalidEntryKind
	}
	return &Category{ID: uuid.New(), Name: name, Kind: kind, CreatedAt: time.Now()}, nil
}

// CostCenter is an optional grouping label for entries.
type CostCenter struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewCostCenter(name, description string) (*CostCenter, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	return &CostCenter{ID: uuid.New(), Name: name, Description: strings.TrimSpace(description), CreatedAt: time.Now()}, nil
}

// Bank is a financial institution holding accounts.
// StatementLayout identifies the statement file layout the bank exports.
type Bank struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Code            string    `json:"code,omitempty"`
	StatementLayout string    `json:"statement_layout,omitempty"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
}

func NewBank(name, code, statementLayout string) (*Bank, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	return &Bank{
		ID:              uuid.New(),
		Name:            name,
		Code:            strings.TrimSpace(code),
		StatementLayout: strings.TrimSpace(statementLayout),
		Active:          true,
		CreatedAt:       time.Now(),
	}, nil
}

// BankAccount holds ledger entries. Its current balance is never stored;
// see ComputeBalance.
type BankAccount struct {
	ID             uuid.UUID          `json:"id"`
	BankID         uuid.UUID          `json:"bank_id"`
	Name           string             `json:"name"`
	Type           shared.AccountType `json:"type"`
	Branch         string             `json:"branch,omitempty"`
	Number         string             `json:"number,omitempty"`
	OpeningBalance decimal.Decimal    `json:"opening_balance"`
	Active         bool               `json:"active"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

func NewBankAccount(bankID uuid.UUID, name string, accountType shared.AccountType, branch, number string, openingBalance decimal.Decimal) (*BankAccount, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if accountType == "" {
		accountType = shared.AccountTypeChecking
	}
	if !accountType.Valid() {
		return nil, ErrInvalidAccountType
	}

	now := time.Now()
	return &BankAccount{
		ID:             uuid.New(),
		BankID:         bankID,
		Name:           name,
		Type:           accountType,
		Branch:         strings.TrimSpace(branch),
		Number:         strings.TrimSpace(number),
		OpeningBalance: openingBalance.Round(2),
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}
