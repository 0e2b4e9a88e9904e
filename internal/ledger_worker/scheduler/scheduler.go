// Package scheduler runs the periodic ledger jobs of the worker: recurring
// entry generation and the notice scan.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/backoffice-ledger/internal/bookkeeping"
	"github.com/backoffice-ledger/internal/config"
	"github.com/google/uuid"
)

// NoticeSender sends one batch of pending notices
type NoticeSender interface {
	Scan(ctx context.Context) (int, error)
}

// Scheduler triggers the recurrence generator and the notice scanner on
// their own intervals. A job without its configuration is not started.
type Scheduler struct {
	generator  bookkeeping.Generator
	notices    NoticeSender
	recurrence config.RecurrenceConfig
	noticeCfg  config.NoticesConfig
	logger     *slog.Logger
}

func NewScheduler(
	cfg *config.Config,
	generator bookkeeping.Generator,
	notices NoticeSender,
	logger *slog.Logger,
) *Scheduler {
	return &Scheduler{
		generator:  generator,
		notices:    notices,
		recurrence: cfg.Recurrence,
		noticeCfg:  cfg.Notices,
		logger:     logger,
	}
}

// Start runs the enabled jobs until ctx is canceled
func (s *Scheduler) Start(ctx context.Context) {
	var wg sync.WaitGroup

	if params, ok := s.recurrenceParams(); ok {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.loop(ctx, "recurrence", s.recurrence.Interval, func(ctx context.Context) {
				s.generate(ctx, params)
			})
		}()
	}

	if s.noticeCfg.Enabled && s.notices != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.loop(ctx, "notices", s.noticeCfg.Interval, s.scanNotices)
		}()
	}

	wg.Wait()
}

// recurrenceParams reports whether generation can run with the configured defaults
func (s *Scheduler) recurrenceParams() (bookkeeping.GenerateParams, bool) {
	if !s.recurrence.Enabled || s.generator == nil {
		return bookkeeping.GenerateParams{}, false
	}
	category, account, costCenter, err := s.recurrence.DefaultIDs()
	if err != nil || category == uuid.Nil || account == uuid.Nil {
		s.logger.Warn("Recurrence enabled without default category and account, not scheduling it", "error", err)
		return bookkeeping.GenerateParams{}, false
	}
	return bookkeeping.GenerateParams{
		CategoryID:   category,
		AccountID:    account,
		CostCenterID: costCenter,
	}, true
}

// loop runs job once right away and then on every tick
func (s *Scheduler) loop(ctx context.Context, name string, interval time.Duration, job func(ctx context.Context)) {
	s.logger.Info("Starting scheduled job", "job", name, "interval", interval.String())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	job(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduled job stopping due to context cancellation.", "job", name)
			return
		case <-ticker.C:
			job(ctx)
		}
	}
}

func (s *Scheduler) generate(ctx context.Context, params bookkeeping.GenerateParams) {
	created, err := s.generator.Generate(ctx, params)
	if err != nil {
		s.logger.Error("Scheduled recurrence run failed", "error", err)
		return
	}
	s.logger.Debug("Scheduled recurrence run finished", "created", len(created))
}

func (s *Scheduler) scanNotices(ctx context.Context) {
	if _, err := s.notices.Scan(ctx); err != nil {
		s.logger.Error("Scheduled notice scan failed", "error", err)
	}
}
