package ledger

import (
	"errors"
	"time"

	"github.com/backoffice-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInvalidTransition = errors.New("situation transition not allowed")

// Entry is a single income or expense on a bank account.
// Client, contract and item links are optional and become NULL when the
// referenced record is deleted.
type Entry struct {
	ID                uuid.UUID        `json:"id"`
	Kind              shared.EntryKind `json:"kind"`
	ClientID          *uuid.UUID       `json:"client_id,omitempty"`
	ContractID        *uuid.UUID       `json:"contract_id,omitempty"`
	ContractItemID    *uuid.UUID       `json:"contract_item_id,omitempty"`
	CategoryID        uuid.UUID        `json:"category_id"`
	AccountID         uuid.UUID        `json:"account_id"`
	CostCenterID      *uuid.UUID       `json:"cost_center_id,omitempty"`
	Description       string           `json:"description"`
	Value             decimal.Decimal  `json:"value"`
	Date              time.Time        `json:"date"`
	DueDate           *time.Time       `json:"due_date,omitempty"`
	Competence        *time.Time       `json:"competence,omitempty"`
	Situation         shared.Situation `json:"situation"`
	InvoiceIssued     bool             `json:"invoice_issued"`
	Extra             bool             `json:"extra"`
	DueNoticeSent     bool             `json:"due_notice_sent"`
	InvoiceNoticeSent bool             `json:"invoice_notice_sent"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// Prepare assigns an ID and timestamps to a new entry and fills defaults.
func (e *Entry) Prepare(now time.Time) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Situation == "" {
		e.Situation = shared.SituationPending
	}
	e.Value = e.Value.Round(2)
	e.Date = shared.DateOf(e.Date)
	if e.DueDate != nil {
		d := shared.DateOf(*e.DueDate)
		e.DueDate = &d
	}
	if e.Competence != nil {
		c := shared.FirstOfMonth(*e.Competence)
		e.Competence = &c
	}
	e.CreatedAt = now
	e.UpdatedAt = now
}

// ChangeSituation moves the entry to next. A PAID transition may carry the
// payment date, which replaces the entry date.
func (e *Entry) ChangeSituation(next shared.Situation, paidOn *time.Time, now time.Time) error {
	if !next.Valid() {
		return shared.ErrInvalidSituation
	}
	if !e.Situation.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	e.Situation = next
	if next == shared.SituationPaid && paidOn != nil {
		e.Date = shared.DateOf(*paidOn)
	}
	e.UpdatedAt = now
	return nil
}

// MarkNotice flags the given notice as sent.
func (e *Entry) MarkNotice(notice shared.NoticeType) {
	switch notice {
	case shared.NoticeTypeDueDate:
		e.DueNoticeSent = true
	case shared.NoticeTypeInvoicePending:
		e.InvoiceNoticeSent = true
	}
}

// Event builds the message describing a change to the entry.
func (e *Entry) Event(eventType shared.EntryEventType, correlationID string) shared.EntryEvent {
	return shared.EntryEvent{
		EventID:        uuid.New(),
		Type:           eventType,
		EntryID:        e.ID,
		AccountID:      e.AccountID,
		ContractItemID: e.ContractItemID,
		Kind:           e.Kind,
		Situation:      e.Situation,
		Value:          e.Value.StringFixed(2),
		Competence:     e.Competence,
		CorrelationID:  correlationID,
		OccurredAt:     time.Now().UTC(),
	}
}

// ContractTotals sums a contract's income entries by situation.
type ContractTotals struct {
	ContractID uuid.UUID       `json:"contract_id"`
	Pending    decimal.Decimal `json:"pending"`
	Paid       decimal.Decimal `json:"paid"`
}
