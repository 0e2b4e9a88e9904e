package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/backoffice-ledger/internal/domain/activity"
	"github.com/backoffice-ledger/internal/domain/shared"
	"github.com/backoffice-ledger/internal/logger"
)

// ActivityService appends entry events to the history store. Redelivered
// events are recognized by event ID and acknowledged without a second write.
type ActivityService struct {
	repo   activity.Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewActivityService(logger *slog.Logger, repo activity.Repository) *ActivityService {
	return &ActivityService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *ActivityService) Record(ctx context.Context, event *shared.EntryEvent) error {
	log := logger.FromContext(ctx, s.logger).With("event_id", event.EventID.String(), "entry_id", event.EntryID.String())

	record := activity.FromEvent(*event, s.now().UTC())
	if err := s.repo.Append(ctx, record); err != nil {
		if errors.Is(err, activity.ErrDuplicateRecord{}) {
			log.Info("Entry event already recorded, skipping")
			return nil
		}
		return fmt.Errorf("failed to record event %s: %w", event.EventID, err)
	}

	log.Info("Entry event recorded", "type", string(event.Type))
	return nil
}
