// Package activity holds the append-only history of ledger entry events as
// stored in MongoDB.
package activity

import (
	"time"

	"github.com/backoffice-ledger/internal/domain/shared"
)

// Record is one event in an entry's history. IDs are kept as strings so the
// documents stay readable in the Mongo shell.
type Record struct {
	EventID        string                `bson:"event_id" json:"event_id"`
	EntryID        string                `bson:"entry_id" json:"entry_id"`
	AccountID      string                `bson:"account_id" json:"account_id"`
	ContractItemID string                `bson:"contract_item_id,omitempty" json:"contract_item_id,omitempty"`
	Type           shared.EntryEventType `bson:"type" json:"type"`
	Kind           shared.EntryKind      `bson:"kind" json:"kind"`
	Situation      shared.Situation      `bson:"situation" json:"situation"`
	Value          string                `bson:"value" json:"value"`
	Competence     *time.Time            `bson:"competence,omitempty" json:"competence,omitempty"`
	Notice         shared.NoticeType     `bson:"notice,omitempty" json:"notice,omitempty"`
	CorrelationID  string                `bson:"correlation_id,omitempty" json:"correlation_id,omitempty"`
	OccurredAt     time.Time             `bson:"occurred_at" json:"occurred_at"`
	RecordedAt     time.Time             `bson:"recorded_at" json:"recorded_at"`
}

// FromEvent converts a consumed entry event into a record.
func FromEvent(event shared.EntryEvent, recordedAt time.Time) *Record {
	r := &Record{
		EventID:       event.EventID.String(),
		EntryID:       event.EntryID.String(),
		AccountID:     event.AccountID.String(),
		Type:          event.Type,
		Kind:          event.Kind,
		Situation:     event.Situation,
		Value:         event.Value,
		Competence:    event.Competence,
		Notice:        event.Notice,
		CorrelationID: event.CorrelationID,
		OccurredAt:    event.OccurredAt,
		RecordedAt:    recordedAt,
	}
	if event.ContractItemID != nil {
		r.ContractItemID = event.ContractItemID.String()
	}
	return r
}
