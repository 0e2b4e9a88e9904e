package outbox

import (
	"context"
	"strconv"

	"github.com/backoffice-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository stores entry events written in the same transaction as the entry
// change, until the worker relays them to Kafka
type Repository interface {
	Create(ctx context.Context, message *Message) error
	GetPending(ctx context.Context, limit int) ([]*Message, error)
	UpdateStatus(ctx context.Context, id int64, status shared.OutboxStatus) error
	// RecordFailure counts a failed relay and moves the message to
	// FAILED_TO_PUBLISH once maxAttempts is reached, returning the new status.
	RecordFailure(ctx context.Context, id int64, maxAttempts int) (shared.OutboxStatus, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrMessageNotFound is returned when a relay update targets a missing row
type ErrMessageNotFound struct {
	ID int64
}

func (e ErrMessageNotFound) Error() string {
	return "outbox message not found: " + strconv.FormatInt(e.ID, 10)
}

// Is matches any ErrMessageNotFound when the target ID is zero
func (e ErrMessageNotFound) Is(target error) bool {
	t, ok := target.(ErrMessageNotFound)
	return ok && (t.ID == 0 || t.ID == e.ID)
}

// ErrDuplicateMessage means the entry event was already written to the outbox
type ErrDuplicateMessage struct {
	EventID uuid.UUID
}

func (e ErrDuplicateMessage) Error() string {
	return "duplicate outbox message for event " + e.EventID.String()
}

// Is matches any ErrDuplicateMessage when the target event ID is nil
func (e ErrDuplicateMessage) Is(target error) bool {
	t, ok := target.(ErrDuplicateMessage)
	return ok && (t.EventID == uuid.Nil || t.EventID == e.EventID)
}
