package outbox_poller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/backoffice-ledger/internal/config"
	"github.com/backoffice-ledger/internal/domain/outbox"
	"github.com/backoffice-ledger/internal/domain/shared"
)

// Poller relays pending outbox messages to Kafka
type Poller struct {
	outboxRepo       outbox.Repository
	relay            EventRelay
	logger           *slog.Logger
	pollInterval     time.Duration
	batchSize        int
	maxRetryAttempts int
}

func NewPoller(
	cfg *config.OutboxConfig,
	outboxRepo outbox.Repository,
	relay EventRelay,
	logger *slog.Logger,
) *Poller {
	return &Poller{
		outboxRepo:       outboxRepo,
		relay:            relay,
		logger:           logger,
		pollInterval:     cfg.PollingInterval,
		batchSize:        cfg.BatchSize,
		maxRetryAttempts: cfg.MaxRetryAttempts,
	}
}

// Start begins polling until context is canceled
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("Starting Outbox Poller",
		"poll_interval", p.pollInterval.String(),
		"batch_size", p.batchSize,
		"max_retry_attempts", p.maxRetryAttempts,
	)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Outbox Poller stopping due to context cancellation.")
			return
		case <-ticker.C:
			if err := p.processPendingMessages(ctx); err != nil {
				p.logger.Error("Error during batch processing of pending outbox messages", "error", err)
			}
		}
	}
}

func (p *Poller) processPendingMessages(ctx context.Context) error {
	messages, err := p.outboxRepo.GetPending(ctx, p.batchSize)
	if err != nil {
		return fmt.Errorf("failed to get pending outbox messages: %w", err)
	}

	if len(messages) == 0 {
		p.logger.Debug("No pending outbox messages found.")
		return nil
	}

	p.logger.Info("Fetched pending outbox messages", "count", len(messages))

	for _, msg := range messages {
		logger := p.logger.With("outbox_id", msg.ID, "entry_id", msg.EntryID.String(), "event_type", string(msg.EventType))

		if err := p.relay.Relay(ctx, msg); err != nil {
			logger.Error("Failed to relay outbox message", "current_attempts", msg.Attempts, "error", err)

			status, errRec := p.outboxRepo.RecordFailure(ctx, msg.ID, p.maxRetryAttempts)
			if errRec != nil {
				logger.Error("Failed to record relay failure for outbox message", "error", errRec)
				continue
			}
			msg.IncrementAttempts()
			if status == shared.OutboxStatusFailedToPublish {
				msg.MarkAsFailed()
				logger.Warn("Outbox message gave up after max retry attempts", "attempts_made", msg.Attempts)
			}
			continue
		}
		logger.Debug("Outbox message relayed")
	}
	return nil
}
