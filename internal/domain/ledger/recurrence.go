package ledger

import (
	"fmt"
	"time"

	"github.com/backoffice-ledger/internal/domain/registry"
	"github.com/backoffice-ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// RecurrenceDefaults are the classification fields stamped on generated entries.
type RecurrenceDefaults struct {
	CategoryID   uuid.UUID
	AccountID    uuid.UUID
	CostCenterID *uuid.UUID
}

// Competence is the billing period of reference, i.e. the first day of its month.
func Competence(reference time.Time) time.Time {
	return shared.FirstOfMonth(reference)
}

// DueDateFor places billingDay in the reference month, clamped to the month's last day.
func DueDateFor(billingDay int, reference time.Time) time.Time {
	y, m, _ := reference.Date()
	day := min(billingDay, shared.LastDayOfMonth(reference))
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// RecurringDescription renders "<service> - MM/YYYY".
func RecurringDescription(serviceName string, competence time.Time) string {
	return fmt.Sprintf("%s - %02d/%04d", serviceName, int(competence.Month()), competence.Year())
}

// NewRecurringEntry builds the PENDING income entry a billable item yields for
// the reference month.
func NewRecurringEntry(b *registry.BillableItem, defaults RecurrenceDefaults, reference time.Time) *Entry {
	competence := Competence(reference)
	due := DueDateFor(*b.Contract.BillingDay, reference)
	clientID := b.Contract.ClientID
	contractID := b.Contract.ID
	itemID := b.Item.ID

	return &Entry{
		Kind:           shared.EntryKindIncome,
		ClientID:       &clientID,
		ContractID:     &contractID,
		ContractItemID: &itemID,
		CategoryID:     defaults.CategoryID,
		AccountID:      defaults.AccountID,
		CostCenterID:   defaults.CostCenterID,
		Description:    RecurringDescription(b.ServiceName, competence),
		Value:          b.Item.AgreedValue,
		Date:           competence,
		DueDate:        &due,
		Competence:     &competence,
		Situation:      shared.SituationPending,
	}
}
