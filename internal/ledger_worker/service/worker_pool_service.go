package service

import (
	"context"
	"log/slog"

	"github.com/backoffice-ledger/internal/domain/shared"
	"github.com/backoffice-ledger/internal/logger"
	"github.com/panjf2000/ants/v2"
)

// WorkerPoolRecorder bounds how many events are recorded concurrently.
// Record still blocks until its event is stored so the consumer commits the
// offset only after the write.
type WorkerPoolRecorder struct {
	base   ActivityRecorder
	pool   *ants.Pool
	logger *slog.Logger
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolRecorder(
	base ActivityRecorder,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolRecorder, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolRecorder{
		base:   base,
		pool:   pool,
		logger: logger,
	}, nil
}

func (s *WorkerPoolRecorder) Record(ctx context.Context, event *shared.EntryEvent) error {
	resultChan := make(chan error, 1)
	eventCopy := *event

	err := s.pool.Submit(func() {
		resultChan <- s.base.Record(ctx, &eventCopy)
	})
	if err != nil {
		logger.FromContext(ctx, s.logger).Error("Failed to submit event to worker pool",
			"event_id", event.EventID.String(),
			"error", err,
		)
		return err
	}

	select {
	case err := <-resultChan:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown gracefully shuts down the worker pool.
func (s *WorkerPoolRecorder) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *WorkerPoolRecorder) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *WorkerPoolRecorder) Capacity() int {
	return s.pool.Cap()
}
