package outbox_poller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/backoffice-ledger/internal/domain/outbox"
	"github.com/backoffice-ledger/internal/domain/shared"
	"github.com/backoffice-ledger/internal/logger"
	"github.com/backoffice-ledger/internal/platform/messaging/producers"
)

// EventRelay publishes one outbox message and marks it processed
type EventRelay interface {
	Relay(ctx context.Context, message *outbox.Message) error
}

// KafkaEventRelay publishes entry events keyed by entry ID so every event of
// an entry lands on the same partition in order.
type KafkaEventRelay struct {
	outboxRepo outbox.Repository
	publisher  producers.MessagePublisher
	logger     *slog.Logger
}

func NewKafkaEventRelay(
	outboxRepo outbox.Repository,
	publisher producers.MessagePublisher,
	logger *slog.Logger,
) *KafkaEventRelay {
	return &KafkaEventRelay{
		outboxRepo: outboxRepo,
		publisher:  publisher,
		logger:     logger,
	}
}

func (r *KafkaEventRelay) Relay(ctx context.Context, message *outbox.Message) error {
	event, err := message.Event()
	if err != nil {
		r.logger.Error("Failed to decode entry event from outbox payload", "outbox_id", message.ID, "error", err)
		if updateErr := r.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusFailedToPublish); updateErr != nil {
			r.logger.Error("Also failed to update outbox status to FAILED_TO_PUBLISH after decode error", "outbox_id", message.ID, "update_error", updateErr)
		} else {
			message.MarkAsFailed()
		}
		return fmt.Errorf("decode payload for outbox %d failed: %w", message.ID, err)
	}

	if event.CorrelationID != "" {
		ctx = logger.WithCorrelationID(ctx, event.CorrelationID)
	}
	log := logger.FromContext(ctx, r.logger)

	if err := r.publisher.Publish(ctx, event.EntryID.String(), event); err != nil {
		return fmt.Errorf("publish event %s failed: %w", event.EventID, err)
	}

	if err := r.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusProcessed); err != nil {
		log.Error("Failed to update outbox message status to PROCESSED", "outbox_id", message.ID, "error", err)
		return fmt.Errorf("event %s published, but failed to mark outbox %d as PROCESSED: %w", event.EventID, message.ID, err)
	}
	message.MarkAsProcessed()

	log.Info("Entry event published",
		"outbox_id", message.ID,
		"event_id", event.EventID.String(),
		"entry_id", event.EntryID.String(),
		"type", string(event.Type),
	)
	return nil
}
