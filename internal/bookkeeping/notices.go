package bookkeeping

import (
	"context"
	"log/slog"
	"time"

	"github.com/backoffice-ledger/internal/domain/ledger"
	"github.com/backoffice-ledger/internal/domain/outbox"
	"github.com/backoffice-ledger/internal/domain/shared"
	"github.com/backoffice-ledger/internal/logger"
	"github.com/backoffice-ledger/internal/platform/messaging/producers"
	"github.com/backoffice-ledger/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// NoticeScanner publishes due-date reminders for pending entries and
// invoice reminders for paid income without an issued invoice. Each entry is
// notified once per notice type.
type NoticeScanner struct {
	db        persistence.TxRunner
	entries   ledger.Repository
	outbox    outbox.Repository
	publisher producers.MessagePublisher
	leadDays  int
	batchSize int
	logger    *slog.Logger
	now       func() time.Time
}

func NewNoticeScanner(
	logger *slog.Logger,
	db persistence.TxRunner,
	entries ledger.Repository,
	outboxRepo outbox.Repository,
	publisher producers.MessagePublisher,
	leadDays, batchSize int,
) *NoticeScanner {
	return &NoticeScanner{
		db:        db,
		entries:   entries,
		outbox:    outboxRepo,
		publisher: publisher,
		leadDays:  leadDays,
		batchSize: batchSize,
		logger:    logger,
		now:       time.Now,
	}
}

// Scan sends one batch of each notice type and returns how many were sent.
// A failed entry is logged and retried on the next scan.
func (s *NoticeScanner) Scan(ctx context.Context) (int, error) {
	until := shared.DateOf(s.now()).AddDate(0, 0, s.leadDays)

	due, err := s.entries.ListDueForNotice(ctx, until, s.batchSize)
	if err != nil {
		return 0, err
	}
	invoices, err := s.entries.ListInvoicePending(ctx, s.batchSize)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, e := range due {
		if s.notify(ctx, e, shared.NoticeTypeDueDate) {
			sent++
		}
	}
	for _, e := range invoices {
		if s.notify(ctx, e, shared.NoticeTypeInvoicePending) {
			sent++
		}
	}

	if sent > 0 {
		s.logger.Info("Notices sent", "count", sent, "due_candidates", len(due), "invoice_candidates", len(invoices))
	}
	return sent, nil
}

func (s *NoticeScanner) notify(ctx context.Context, e *ledger.Entry, noticeType shared.NoticeType) bool {
	log := logger.FromContext(ctx, s.logger).With("entry_id", e.ID.String(), "notice", string(noticeType))
	now := s.now().UTC()

	notice := shared.Notice{
		NoticeID:    uuid.New(),
		Type:        noticeType,
		EntryID:     e.ID,
		ClientID:    e.ClientID,
		Description: e.Description,
		Value:       e.Value.StringFixed(2),
		DueDate:     e.DueDate,
		SentAt:      now,
	}
	if err := s.publisher.Publish(ctx, e.ID.String(), notice); err != nil {
		log.Error("Failed to publish notice", "error", err)
		return false
	}

	err := s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := s.entries.WithTx(tx).MarkNoticeSent(ctx, e.ID, noticeType); err != nil {
			return err
		}
		e.MarkNotice(noticeType)
		event := e.Event(shared.EntryEventNoticeSent, logger.CorrelationID(ctx))
		event.Notice = noticeType
		return writeEventValue(ctx, s.outbox.WithTx(tx), event)
	})
	if err != nil {
		log.Error("Failed to record sent notice", "error", err)
		return false
	}

	log.Debug("Notice sent")
	return true
}
