package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/backoffice-ledger/internal/domain/shared"
	"github.com/backoffice-ledger/internal/ledger_worker/service"
	"github.com/backoffice-ledger/internal/logger"
	"github.com/backoffice-ledger/internal/platform/messaging/producers"
	"github.com/google/uuid"
)

var errMissingEventID = errors.New("entry event has no event_id")

// EntryEventHandler records entry events consumed from Kafka
type EntryEventHandler struct {
	recorder service.ActivityRecorder
	producer producers.DeadLetterPublisher
	logger   *slog.Logger
}

func NewEntryEventHandler(
	logger *slog.Logger,
	recorder service.ActivityRecorder,
	producer producers.DeadLetterPublisher,
) *EntryEventHandler {
	return &EntryEventHandler{
		recorder: recorder,
		producer: producer,
		logger:   logger,
	}
}

// HandleMessage returns nil once the event is stored or parked in the DLQ,
// which lets the consumer commit the offset.
func (h *EntryEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	log := logger.FromContext(ctx, h.logger)

	var event shared.EntryEvent
	err := json.Unmarshal(value, &event)
	if err == nil && event.EventID == uuid.Nil {
		err = errMissingEventID
	}
	if err != nil {
		reason := fmt.Sprintf("Unprocessable entry event: %s", err.Error())
		log.Error("Failed to decode entry event from Kafka message", "error", err, "message_key", string(key))

		if h.producer != nil {
			if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, reason); dlqErr != nil {
				log.Error("Failed to publish message to DLQ after decode error",
					"dlq_error", dlqErr,
					"original_error", err,
					"message_key", string(key),
				)
			} else {
				log.Info("Published unprocessable message to DLQ", "message_key", string(key))
				return nil
			}
		}
		return fmt.Errorf("failed to decode message value: %w", err)
	}

	if event.CorrelationID != "" && logger.CorrelationID(ctx) == "" {
		ctx = logger.WithCorrelationID(ctx, event.CorrelationID)
		log = logger.FromContext(ctx, h.logger)
	}

	if err := h.recorder.Record(ctx, &event); err != nil {
		log.Error("Failed to record entry event",
			"event_id", event.EventID.String(),
			"entry_id", event.EntryID.String(),
			"error", err,
		)
		return fmt.Errorf("recording event %s failed: %w", event.EventID, err)
	}
	return nil
}
