package ledger

import (
	"testing"
	"time"

	"github.com/backoffice-ledger/internal/domain/registry"
	"github.com/backoffice-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDueDateFor(t *testing.T) {
	testCases := []struct {
		name       string
		billingDay int
		reference  time.Time
		want       time.Time
	}{
		{"MidMonth", 10, time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC), time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)},
		{"ClampedInFebruary", 31, time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC), time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)},
		{"ClampedInLeapFebruary", 31, time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"ClampedInApril", 31, time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC), time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)},
		{"LastDayOfLongMonth", 31, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DueDateFor(tc.billingDay, tc.reference))
		})
	}
}

func TestCompetence(t *testing.T) {
	ref := time.Date(2025, 2, 20, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), Competence(ref))
}

func TestNewRecurringEntry(t *testing.T) {
	day := 15
	contract := &registry.Contract{ID: uuid.New(), ClientID: uuid.New(), Active: true, BillingDay: &day}
	item := &registry.ContractItem{ID: uuid.New(), ContractID: contract.ID, Kind: shared.ItemKindRecurring, AgreedValue: decimal.RequireFromString("150.00")}
	costCenter := uuid.New()
	defaults := RecurrenceDefaults{CategoryID: uuid.New(), AccountID: uuid.New(), CostCenterID: &costCenter}

	e := NewRecurringEntry(&registry.BillableItem{Item: item, Contract: contract, ServiceName: "Suporte mensal"}, defaults, time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC))

	require.NotNil(t, e.Competence)
	require.NotNil(t, e.DueDate)
	assert.Equal(t, shared.EntryKindIncome, e.Kind)
	assert.Equal(t, shared.SituationPending, e.Situation)
	assert.Equal(t, "Suporte mensal - 02/2025", e.Description)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), *e.Competence)
	assert.Equal(t, *e.Competence, e.Date)
	assert.Equal(t, time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC), *e.DueDate)
	assert.True(t, e.Value.Equal(item.AgreedValue))
	assert.Equal(t, contract.ClientID, *e.ClientID)
	assert.Equal(t, contract.ID, *e.ContractID)
	assert.Equal(t, item.ID, *e.ContractItemID)
	assert.Equal(t, defaults.CategoryID, e.CategoryID)
	assert.Equal(t, defaults.AccountID, e.AccountID)
	assert.Equal(t, &costCenter, e.CostCenterID)
	assert.False(t, e.InvoiceIssued)
	assert.False(t, e.Extra)
}
