package activity

import (
	"context"

	"github.com/google/uuid"
)

// Repository stores entry history. Append is idempotent per event ID.
type Repository interface {
	Append(ctx context.Context, record *Record) error
	ListByEntry(ctx context.Context, entryID uuid.UUID, limit, offset int) ([]*Record, error)
	CountByEntry(ctx context.Context, entryID uuid.UUID) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

// ErrDuplicateRecord indicates the event was already recorded
type ErrDuplicateRecord struct {
	EventID string
}

func (e ErrDuplicateRecord) Error() string {
	return "activity already recorded for event " + e.EventID
}

// Is implements the errors.Is interface for ErrDuplicateRecord
func (e ErrDuplicateRecord) Is(target error) bool {
	t, ok := target.(ErrDuplicateRecord)
	if !ok {
		return false
	}
	return t.EventID == "" || t.EventID == e.EventID
}
