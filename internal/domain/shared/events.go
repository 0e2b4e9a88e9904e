package shared

import (
	"time"

	"github.com/google/uuid"
)

// EntryEventType names what happened to a ledger entry.
type EntryEventType string

const (
	EntryEventCreated          EntryEventType = "ENTRY_CREATED"
	EntryEventSituationChanged EntryEventType = "ENTRY_SITUATION_CHANGED"
	EntryEventNoticeSent       EntryEventType = "ENTRY_NOTICE_SENT"
)

// NoticeType identifies the reminder sent for an entry.
type NoticeType string

const (
	NoticeTypeDueDate        NoticeType = "DUE_DATE"
	NoticeTypeInvoicePending NoticeType = "INVOICE_PENDING"
)

// EntryEvent is the Kafka message describing a change to a ledger entry.
// Value is the decimal amount rendered as a string.
type EntryEvent struct {
	EventID        uuid.UUID      `json:"event_id"`
	Type           EntryEventType `json:"type"`
	EntryID        uuid.UUID      `json:"entry_id"`
	AccountID      uuid.UUID      `json:"account_id"`
	ContractItemID *uuid.UUID     `json:"contract_item_id,omitempty"`
	Kind           EntryKind      `json:"kind"`
	Situation      Situation      `json:"situation"`
	Value          string         `json:"value"`
	Competence     *time.Time     `json:"competence,omitempty"`
	Notice         NoticeType     `json:"notice,omitempty"`
	CorrelationID  string         `json:"correlation_id,omitempty"`
	OccurredAt     time.Time      `json:"occurred_at"`
}

// Notice is the Kafka message sent to the notices topic.
type Notice struct {
	NoticeID    uuid.UUID  `json:"notice_id"`
	Type        NoticeType `json:"type"`
	EntryID     uuid.UUID  `json:"entry_id"`
	ClientID    *uuid.UUID `json:"client_id,omitempty"`
	Description string     `json:"description"`
	Value       string     `json:"value"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	SentAt      time.Time  `json:"sent_at"`
}
