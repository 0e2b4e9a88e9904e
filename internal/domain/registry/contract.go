package registry

import (
	"strings"
	"time"

	"github.com/backoffice-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Contract binds a client to a set of billed items.
// BillingDay is the day of month recurring entries fall due; nil means the
// contract is never billed automatically.
type Contract struct {
	ID         uuid.UUID       `json:"id"`
	ClientID   uuid.UUID       `json:"client_id"`
	Name       string          `json:"name"`
	StartDate  time.Time       `json:"start_date"`
	EndDate    *time.Time      `json:"end_date,omitempty"`
	Active     bool            `json:"active"`
	BillingDay *int            `json:"billing_day,omitempty"`
	Items      []*ContractItem `json:"items,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func NewContract(clientID uuid.UUID, name string, startDate time.Time, endDate *time.Time, billingDay *int) (*Contract, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	start := shared.DateOf(startDate)
	var end *time.Time
	if endDate != nil {
		e := shared.DateOf(*endDate)
		if e.Before(start) {
			return nil, ErrInvalidPeriod
		}
		end = &e
	}
	if billingDay != nil && (*billingDay < 1 || *billingDay > 31) {
		return nil, ErrInvalidBilling
	}

	now := time.Now()
	return &Contract{
		ID:         uuid.New(),
		ClientID:   clientID,
		Name:       name,
		StartDate:  start,
		EndDate:    end,
		Active:     true,
		BillingDay: billingDay,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// InForceOn reports whether the contract is active and day falls within its term.
func (c *Contract) InForceOn(day time.Time) bool {
	if !c.Active {
		return false
	}
	d := shared.DateOf(day)
	if d.Before(shared.DateOf(c.StartDate)) {
		return false
	}
	return c.EndDate == nil || !d.After(shared.DateOf(*c.EndDate))
}

// Billable reports whether the recurrence generator should consider the contract.
func (c *Contract) Billable() bool {
	return c.Active && c.BillingDay != nil
}

// ContractItem is one billed line of a contract.
type ContractItem struct {
	ID          uuid.UUID       `json:"id"`
	ContractID  uuid.UUID       `json:"contract_id"`
	ServiceID   uuid.UUID       `json:"service_id"`
	Kind        shared.ItemKind `json:"kind"`
	AgreedValue decimal.Decimal `json:"agreed_value"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func NewContractItem(contractID, serviceID uuid.UUID, kind shared.ItemKind, agreedValue decimal.Decimal, notes string) (*ContractItem, error) {
	if !kind.Valid() {
		return nil, shared.ErrInvalidItemKind
	}
	if agreedValue.IsNegative() {
		return nil, ErrNegativeValue
	}

	now := time.Now()
	return &ContractItem{
		ID:          uuid.New(),
		ContractID:  contractID,
		ServiceID:   serviceID,
		Kind:        kind,
		AgreedValue: agreedValue.Round(2),
		Notes:       strings.TrimSpace(notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// BillableItem is a recurring item joined with its contract and service name,
// as selected for recurrence generation.
type BillableItem struct {
	Item        *ContractItem
	Contract    *Contract
	ServiceName string
}
