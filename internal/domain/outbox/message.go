package outbox

import (
	"encoding/json"
	"time"

	"github.com/backoffice-ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// Message stores an entry event until it is published to Kafka. It is written
// in the same database transaction as the change it describes.
type Message struct {
	ID            int64                 `json:"id"`
	EventID       uuid.UUID             `json:"event_id"`
	EntryID       uuid.UUID             `json:"entry_id"`
	EventType     shared.EntryEventType `json:"event_type"`
	Payload       json.RawMessage       `json:"payload"`
	Status        shared.OutboxStatus   `json:"status"`
	Attempts      int                   `json:"attempts"`
	CreatedAt     time.Time             `json:"created_at"`
	LastAttemptAt *time.Time            `json:"last_attempt_at,omitempty"`
}

func NewMessage(event shared.EntryEvent) (*Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	return &Message{
		EventID:   event.EventID,
		EntryID:   event.EntryID,
		EventType: event.Type,
		Payload:   payload,
		Status:    shared.OutboxStatusPending,
		CreatedAt: time.Now(),
	}, nil
}

func (m *Message) IncrementAttempts() {
	m.Attempts++
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsProcessed() {
	m.Status = shared.OutboxStatusProcessed
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsFailed() {
	m.Status = shared.OutboxStatusFailedToPublish
	now := time.Now()
	m.LastAttemptAt = &now
}

// Event decodes the entry event carried in the payload
func (m *Message) Event() (*shared.EntryEvent, error) {
	var event shared.EntryEvent
	if err := json.Unmarshal(m.Payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
