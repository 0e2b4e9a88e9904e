package ledger

import (
	"context"
	"time"

	"github.com/backoffice-ledger/internal/domain/finance"
	"github.com/backoffice-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Filter narrows entry listings; nil fields are ignored.
type Filter struct {
	Kind       *shared.EntryKind
	Situation  *shared.Situation
	AccountID  *uuid.UUID
	ClientID   *uuid.UUID
	ContractID *uuid.UUID
}

// Repository manages ledger entry persistence with pagination support
type Repository interface {
	Create(ctx context.Context, entry *Entry) error

	// InsertIfAbsent inserts entry unless another entry already holds its
	// (contract item, competence, kind) slot. It reports whether a row was written.
	InsertIfAbsent(ctx context.Context, entry *Entry) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Entry, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	UpdateSituation(ctx context.Context, entry *Entry) error
	MarkNoticeSent(ctx context.Context, id uuid.UUID, notice shared.NoticeType) error

	// SumPaid totals PAID entries of the account by kind.
	SumPaid(ctx context.Context, accountID uuid.UUID) (finance.PaidTotals, error)
	ContractTotals(ctx context.Context, contractID uuid.UUID) (*ContractTotals, error)

	// ListDueForNotice returns PENDING entries due on or before until whose due notice is unsent.
	ListDueForNotice(ctx context.Context, until time.Time, limit int) ([]*Entry, error)
	// ListInvoicePending returns PAID income entries without an issued invoice or invoice notice.
	ListInvoicePending(ctx context.Context, limit int) ([]*Entry, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrEntryNotFound indicates missing ledger entry
type ErrEntryNotFound struct {
	EntryID uuid.UUID
}

func (e ErrEntryNotFound) Error() string {
	return "ledger entry not found: " + e.EntryID.String()
}

// Is implements the errors.Is interface for ErrEntryNotFound
func (e ErrEntryNotFound) Is(target error) bool {
	t, ok := target.(ErrEntryNotFound)
	if !ok {
		return false
	}
	// A nil target ID matches any ErrEntryNotFound
	if t.EntryID == uuid.Nil {
		return true
	}
	return e.EntryID == t.EntryID
}

// ErrDuplicateEntry indicates that the (contract item, competence, kind) slot is taken
type ErrDuplicateEntry struct {
	ContractItemID uuid.UUID
	Competence     time.Time
}

func (e ErrDuplicateEntry) Error() string {
	return "ledger entry already exists for contract item " + e.ContractItemID.String() + " competence " + e.Competence.Format("2006-01")
}

// Is implements the errors.Is interface for ErrDuplicateEntry
func (e ErrDuplicateEntry) Is(target error) bool {
	t, ok := target.(ErrDuplicateEntry)
	if !ok {
		return false
	}
	if t.ContractItemID == uuid.Nil {
		return true
	}
	return e.ContractItemID == t.ContractItemID && e.Competence.Equal(t.Competence)
}
