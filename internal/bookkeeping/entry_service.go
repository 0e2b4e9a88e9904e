package bookkeeping

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/backoffice-ledger/internal/domain/finance"
	"github.com/backoffice-ledger/internal/domain/ledger"
	"github.com/backoffice-ledger/internal/domain/outbox"
	"github.com/backoffice-ledger/internal/domain/registry"
	"github.com/backoffice-ledger/internal/domain/shared"
	"github.com/backoffice-ledger/internal/logger"
	"github.com/backoffice-ledger/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// EntryServiceImpl implements the EntryService interface. Every write runs in
// one transaction together with the outbox message describing it.
type EntryServiceImpl struct {
	db        persistence.TxRunner
	entries   ledger.Repository
	outbox    outbox.Repository
	contracts registry.ContractRepository
	finance   finance.Repository
	logger    *slog.Logger
	now       func() time.Time
}

func NewEntryService(
	logger *slog.Logger,
	db persistence.TxRunner,
	entries ledger.Repository,
	outboxRepo outbox.Repository,
	contracts registry.ContractRepository,
	financeRepo finance.Repository,
) *EntryServiceImpl {
	return &EntryServiceImpl{
		db:        db,
		entries:   entries,
		outbox:    outboxRepo,
		contracts: contracts,
		finance:   financeRepo,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *EntryServiceImpl) lookup(tx pgx.Tx) repoLookup {
	if tx == nil {
		return repoLookup{contracts: s.contracts, finance: s.finance}
	}
	return repoLookup{contracts: s.contracts.WithTx(tx), finance: s.finance.WithTx(tx)}
}

func (s *EntryServiceImpl) Create(ctx context.Context, entry *ledger.Entry) (*ledger.Entry, error) {
	log := logger.FromContext(ctx, s.logger)
	now := s.now()
	entry.Prepare(now)

	err := s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := checkEntry(ctx, entry, s.lookup(tx), now); err != nil {
			return err
		}
		if err := s.entries.WithTx(tx).Create(ctx, entry); err != nil {
			return err
		}
		return writeEvent(ctx, s.outbox.WithTx(tx), entry, shared.EntryEventCreated)
	})
	if err != nil {
		if v, ok := ledger.AsValidationErrors(err); ok {
			log.Info("Entry rejected by validation", "fields", len(v))
			return nil, err
		}
		log.Error("Failed to create entry", "entry_id", entry.ID.String(), "error", err)
		return nil, err
	}

	log.Info("Entry created",
		"entry_id", entry.ID.String(),
		"kind", string(entry.Kind),
		"situation", string(entry.Situation),
		"value", entry.Value.StringFixed(2),
	)
	return entry, nil
}

func (s *EntryServiceImpl) Validate(ctx context.Context, entry *ledger.Entry) (*ledger.Entry, error) {
	now := s.now()
	entry.Prepare(now)
	if err := checkEntry(ctx, entry, s.lookup(nil), now); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *EntryServiceImpl) Import(ctx context.Context, entry *ledger.Entry) (*ledger.Entry, error) {
	entry.Prepare(s.now())

	err := s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if _, err := ledger.Normalize(ctx, entry, s.lookup(tx)); err != nil {
			return err
		}
		if err := s.entries.WithTx(tx).Create(ctx, entry); err != nil {
			return err
		}
		return writeEvent(ctx, s.outbox.WithTx(tx), entry, shared.EntryEventCreated)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx, s.logger).Info("Entry imported without consistency checks", "entry_id", entry.ID.String())
	return entry, nil
}

func (s *EntryServiceImpl) Get(ctx context.Context, id uuid.UUID) (*ledger.Entry, error) {
	return s.entries.GetByID(ctx, id)
}

// List returns a page of entries and the total matching the filter
func (s *EntryServiceImpl) List(ctx context.Context, filter ledger.Filter, page, perPage int) ([]*ledger.Entry, int64, error) {
	offset := (page - 1) * perPage

	entries, err := s.entries.List(ctx, filter, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.entries.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// ChangeSituation applies a situation transition and re-validates the entry
// as of today before storing it.
func (s *EntryServiceImpl) ChangeSituation(ctx context.Context, id uuid.UUID, next shared.Situation, paidOn *time.Time) (*ledger.Entry, error) {
	now := s.now()
	var entry *ledger.Entry

	err := s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		entries := s.entries.WithTx(tx)

		var err error
		if entry, err = entries.GetByID(ctx, id); err != nil {
			return err
		}
		if err := entry.ChangeSituation(next, paidOn, now); err != nil {
			return err
		}
		if err := checkEntry(ctx, entry, s.lookup(tx), now); err != nil {
			return err
		}
		if err := entries.UpdateSituation(ctx, entry); err != nil {
			return err
		}
		return writeEvent(ctx, s.outbox.WithTx(tx), entry, shared.EntryEventSituationChanged)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx, s.logger).Info("Entry situation changed",
		"entry_id", id.String(),
		"situation", string(entry.Situation),
	)
	return entry, nil
}

// writeEvent stores the entry event in the outbox for the worker to relay
func writeEvent(ctx context.Context, repo outbox.Repository, entry *ledger.Entry, eventType shared.EntryEventType) error {
	return writeEventValue(ctx, repo, entry.Event(eventType, logger.CorrelationID(ctx)))
}

func writeEventValue(ctx context.Context, repo outbox.Repository, event shared.EntryEvent) error {
	message, err := outbox.NewMessage(event)
	if err != nil {
		return fmt.Errorf("failed to build outbox message for entry %s: %w", event.EntryID, err)
	}
	if err := repo.Create(ctx, message); err != nil {
		return fmt.Errorf("failed to create outbox message for entry %s: %w", event.EntryID, err)
	}
	return nil
}
