package service

import (
	"context"

	"github.com/backoffice-ledger/internal/domain/shared"
)

// ActivityRecorder stores consumed entry events in the activity history
type ActivityRecorder interface {
	Record(ctx context.Context, event *shared.EntryEvent) error
}
