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

// RecurrenceGenerator creates the PENDING income entries recurring contract
// items yield for a billing period. A run is one transaction: either every
// qualifying item is generated or skipped, or nothing is stored.
type RecurrenceGenerator struct {
	db        persistence.TxRunner
	contracts registry.ContractRepository
	finance   finance.Repository
	entries   ledger.Repository
	outbox    outbox.Repository
	logger    *slog.Logger
	now       func() time.Time
	lock      func(ctx context.Context, tx pgx.Tx, key string) error
}

func NewRecurrenceGenerator(
	logger *slog.Logger,
	db persistence.TxRunner,
	contracts registry.ContractRepository,
	financeRepo finance.Repository,
	entries ledger.Repository,
	outboxRepo outbox.Repository,
) *RecurrenceGenerator {
	return &RecurrenceGenerator{
		db:        db,
		contracts: contracts,
		finance:   financeRepo,
		entries:   entries,
		outbox:    outboxRepo,
		logger:    logger,
		now:       time.Now,
		lock: func(ctx context.Context, tx pgx.Tx, key string) error {
			return persistence.AdvisoryXactLock(ctx, tx, key)
		},
	}
}

// Generate returns the entries created, in selection order. Items whose
// entry for the period already exists are skipped silently.
func (g *RecurrenceGenerator) Generate(ctx context.Context, params GenerateParams) ([]*ledger.Entry, error) {
	var missing []string
	if params.CategoryID == uuid.Nil {
		missing = append(missing, "category")
	}
	if params.AccountID == uuid.Nil {
		missing = append(missing, "account")
	}
	if len(missing) > 0 {
		return nil, ConfigurationError{Missing: missing}
	}

	reference := g.now()
	if params.ReferenceDate != nil {
		reference = *params.ReferenceDate
	}
	reference = shared.DateOf(reference)
	log := logger.FromContext(ctx, g.logger).With("competence", ledger.Competence(reference).Format("2006-01"))

	// A racing insert on the slot index waits and becomes a skip, so only
	// serialization failures are retried.
	for attempt := 1; ; attempt++ {
		created, err := g.run(ctx, params, reference)
		if err == nil {
			log.Info("Recurring entries generated", "created", len(created))
			return created, nil
		}

		if attempt < 2 && persistence.IsSerializationFailure(err) {
			log.Warn("Recurrence run conflicted with a concurrent run, retrying", "error", err)
			continue
		}

		if _, ok := ledger.AsValidationErrors(err); ok {
			log.Warn("Recurrence run aborted by validation", "error", err)
		} else {
			log.Error("Recurrence run failed", "error", err)
		}
		return nil, err
	}
}

func (g *RecurrenceGenerator) run(ctx context.Context, params GenerateParams, reference time.Time) ([]*ledger.Entry, error) {
	defaults := ledger.RecurrenceDefaults{
		CategoryID:   params.CategoryID,
		AccountID:    params.AccountID,
		CostCenterID: params.CostCenterID,
	}
	now := g.now()
	var created []*ledger.Entry

	err := g.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := g.lock(ctx, tx, "recurrence:"+ledger.Competence(reference).Format("2006-01")); err != nil {
			return err
		}

		contracts := g.contracts.WithTx(tx)
		entries := g.entries.WithTx(tx)
		outboxRepo := g.outbox.WithTx(tx)
		lookup := repoLookup{contracts: contracts, finance: g.finance.WithTx(tx)}

		billable, err := contracts.ListBillableRecurring(ctx)
		if err != nil {
			return err
		}

		for _, b := range billable {
			entry := ledger.NewRecurringEntry(b, defaults, reference)
			entry.Prepare(now)

			inserted, err := entries.InsertIfAbsent(ctx, entry)
			if err != nil {
				return err
			}
			if !inserted {
				g.logger.Debug("Recurring entry already exists, skipping",
					"contract_item_id", b.Item.ID.String(),
					"competence", entry.Competence.Format("2006-01"),
				)
				continue
			}

			// Only new entries are checked; a failure rolls back the whole run.
			if err := checkEntry(ctx, entry, lookup, now); err != nil {
				return fmt.Errorf("contract item %s: %w", b.Item.ID, err)
			}

			if err := writeEvent(ctx, outboxRepo, entry, shared.EntryEventCreated); err != nil {
				return err
			}
			created = append(created, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
