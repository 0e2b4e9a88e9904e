package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/backoffice-ledger/internal/domain/finance"
	"github.com/backoffice-ledger/internal/domain/ledger"
	"github.com/backoffice-ledger/internal/domain/shared"
	"github.com/backoffice-ledger/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UniqueCompetenceIndex guards one entry per (contract item, competence, kind).
const UniqueCompetenceIndex = "uniq_entry_item_competence_kind"

const (
	entryColumns = `id, kind, client_id, contract_id, contract_item_id, category_id, account_id, cost_center_id,
		description, value::text, date, due_date, competence, situation,
		invoice_issued, extra, due_notice_sent, invoice_notice_sent, created_at, updated_at`

	entryInsert = `
		INSERT INTO ledger_entries (id, kind, client_id, contract_id, contract_item_id, category_id, account_id, cost_center_id,
			description, value, date, due_date, competence, situation,
			invoice_issued, extra, due_notice_sent, invoice_notice_sent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
)

// EntryRepository implements the ledger.Repository interface for PostgreSQL
type EntryRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

func NewEntryRepository(logger *slog.Logger, db *persistence.PostgresDB) ledger.Repository {
	return &EntryRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx returns a repository bound to tx
func (r *EntryRepository) WithTx(tx pgx.Tx) ledger.Repository {
	return &EntryRepository{
		querier: tx,
		logger:  r.logger,
	}
}

func entryArgs(e *ledger.Entry) []any {
	return []any{
		e.ID,
		e.Kind,
		e.ClientID,
		e.ContractID,
		e.ContractItemID,
		e.CategoryID,
		e.AccountID,
		e.CostCenterID,
		e.Description,
		e.Value.StringFixed(2),
		e.Date,
		e.DueDate,
		e.Competence,
		e.Situation,
		e.InvoiceIssued,
		e.Extra,
		e.DueNoticeSent,
		e.InvoiceNoticeSent,
		e.CreatedAt,
		e.UpdatedAt,
	}
}

// Create inserts entry. Taking an occupied (contract item, competence, kind)
// slot yields ledger.ErrDuplicateEntry.
func (r *EntryRepository) Create(ctx context.Context, e *ledger.Entry) error {
	_, err := r.querier.Exec(ctx, entryInsert, entryArgs(e)...)
	if err != nil {
		if persistence.IsUniqueViolation(err, UniqueCompetenceIndex) && e.ContractItemID != nil && e.Competence != nil {
			return ledger.ErrDuplicateEntry{ContractItemID: *e.ContractItemID, Competence: *e.Competence}
		}
		r.logger.Error("Failed to create ledger entry", "entry_id", e.ID.String(), "error", err)
		return fmt.Errorf("failed to create ledger entry: %w", err)
	}

	return nil
}

// InsertIfAbsent inserts entry unless its competence slot is already taken.
func (r *EntryRepository) InsertIfAbsent(ctx context.Context, e *ledger.Entry) (bool, error) {
	query := entryInsert + `
		ON CONFLICT (contract_item_id, competence, kind)
			WHERE contract_item_id IS NOT NULL AND competence IS NOT NULL
		DO NOTHING
		RETURNING id`

	var id uuid.UUID
	err := r.querier.QueryRow(ctx, query, entryArgs(e)...).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		r.logger.Error("Failed to insert ledger entry", "entry_id", e.ID.String(), "error", err)
		return false, fmt.Errorf("failed to insert ledger entry: %w", err)
	}

	return true, nil
}

// GetByID retrieves a ledger entry by its ID
func (r *EntryRepository) GetByID(ctx context.Context, id uuid.UUID) (*ledger.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE id = $1`

	e, err := scanEntry(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrEntryNotFound{EntryID: id}
		}
		r.logger.Error("Failed to get ledger entry", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get ledger entry: %w", err)
	}

	return e, nil
}

// whereClause renders the filter as SQL conditions with positional arguments
func whereClause(f ledger.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		conds = append(conds, column+" = $"+strconv.Itoa(len(args)))
	}

	if f.Kind != nil {
		add("kind", *f.Kind)
	}
	if f.Situation != nil {
		add("situation", *f.Situation)
	}
	if f.AccountID != nil {
		add("account_id", *f.AccountID)
	}
	if f.ClientID != nil {
		add("client_id", *f.ClientID)
	}
	if f.ContractID != nil {
		add("contract_id", *f.ContractID)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns entries newest first
func (r *EntryRepository) List(ctx context.Context, f ledger.Filter, limit, offset int) ([]*ledger.Entry, error) {
	where, args := whereClause(f)
	n := len(args)
	query := `SELECT ` + entryColumns + ` FROM ledger_entries` + where +
		` ORDER BY date DESC, id DESC LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
	args = append(args, limit, offset)

	return r.queryEntries(ctx, "list ledger entries", query, args...)
}

func (r *EntryRepository) Count(ctx context.Context, f ledger.Filter) (int64, error) {
	where, args := whereClause(f)

	var count int64
	if err := r.querier.QueryRow(ctx, `SELECT COUNT(*) FROM ledger_entries`+where, args...).Scan(&count); err != nil {
		r.logger.Error("Failed to count ledger entries", "error", err)
		return 0, fmt.Errorf("failed to count ledger entries: %w", err)
	}
	return count, nil
}

// UpdateSituation persists the situation and date of entry
func (r *EntryRepository) UpdateSituation(ctx context.Context, e *ledger.Entry) error {
	query := `
		UPDATE ledger_entries
		SET situation = $1, date = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := r.querier.Exec(ctx, query, e.Situation, e.Date, e.UpdatedAt, e.ID)
	if err != nil {
		r.logger.Error("Failed to update ledger entry situation", "id", e.ID.String(), "error", err)
		return fmt.Errorf("failed to update ledger entry situation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ledger.ErrEntryNotFound{EntryID: e.ID}
	}

	return nil
}

func (r *EntryRepository) MarkNoticeSent(ctx context.Context, id uuid.UUID, notice shared.NoticeType) error {
	var column string
	switch notice {
	case shared.NoticeTypeDueDate:
		column = "due_notice_sent"
	case shared.NoticeTypeInvoicePending:
		column = "invoice_notice_sent"
	default:
		return fmt.Errorf("unknown notice type %q", notice)
	}

	result, err := r.querier.Exec(ctx, `UPDATE ledger_entries SET `+column+` = TRUE, updated_at = $1 WHERE id = $2`, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to mark notice sent", "id", id.String(), "notice", string(notice), "error", err)
		return fmt.Errorf("failed to mark notice sent: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ledger.ErrEntryNotFound{EntryID: id}
	}

	return nil
}

// SumPaid totals PAID entries of the account by kind; no entries sum to zero
func (r *EntryRepository) SumPaid(ctx context.Context, accountID uuid.UUID) (finance.PaidTotals, error) {
	query := `
		SELECT COALESCE(SUM(value) FILTER (WHERE kind = $2), 0)::text,
		       COALESCE(SUM(value) FILTER (WHERE kind = $3), 0)::text
		FROM ledger_entries
		WHERE account_id = $1 AND situation = $4
	`

	var income, expense string
	err := r.querier.QueryRow(ctx, query, accountID, shared.EntryKindIncome, shared.EntryKindExpense, shared.SituationPaid).
		Scan(&income, &expense)
	if err != nil {
		r.logger.Error("Failed to sum paid entries", "account_id", accountID.String(), "error", err)
		return finance.PaidTotals{}, fmt.Errorf("failed to sum paid entries: %w", err)
	}

	var totals finance.PaidTotals
	if totals.Income, err = parseMoney(income); err != nil {
		return finance.PaidTotals{}, err
	}
	if totals.Expense, err = parseMoney(expense); err != nil {
		return finance.PaidTotals{}, err
	}
	return totals, nil
}

// ContractTotals sums a contract's income entries that are pending and paid
func (r *EntryRepository) ContractTotals(ctx context.Context, contractID uuid.UUID) (*ledger.ContractTotals, error) {
	query := `
		SELECT COALESCE(SUM(value) FILTER (WHERE situation = $2), 0)::text,
		       COALESCE(SUM(value) FILTER (WHERE situation = $3), 0)::text
		FROM ledger_entries
		WHERE contract_id = $1 AND kind = $4
	`

	var pending, paid string
	err := r.querier.QueryRow(ctx, query, contractID, shared.SituationPending, shared.SituationPaid, shared.EntryKindIncome).
		Scan(&pending, &paid)
	if err != nil {
		r.logger.Error("Failed to sum contract entries", "contract_id", contractID.String(), "error", err)
		return nil, fmt.Errorf("failed to sum contract entries: %w", err)
	}

	totals := &ledger.ContractTotals{ContractID: contractID}
	if totals.Pending, err = parseMoney(pending); err != nil {
		return nil, err
	}
	if totals.Paid, err = parseMoney(paid); err != nil {
		return nil, err
	}
	return totals, nil
}

func (r *EntryRepository) ListDueForNotice(ctx context.Context, until time.Time, limit int) ([]*ledger.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries
		WHERE situation = $1 AND NOT due_notice_sent AND due_date IS NOT NULL AND due_date <= $2
		ORDER BY due_date, id
		LIMIT $3`

	return r.queryEntries(ctx, "list entries due for notice", query, shared.SituationPending, shared.DateOf(until), limit)
}

func (r *EntryRepository) ListInvoicePending(ctx context.Context, limit int) ([]*ledger.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries
		WHERE situation = $1 AND kind = $2 AND NOT invoice_issued AND NOT invoice_notice_sent
		ORDER BY date, id
		LIMIT $3`

	return r.queryEntries(ctx, "list entries pending invoice", query, shared.SituationPaid, shared.EntryKindIncome, limit)
}

func (r *EntryRepository) queryEntries(ctx context.Context, op, query string, args ...any) ([]*ledger.Entry, error) {
	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to "+op, "error", err)
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	defer rows.Close()

	var entries []*ledger.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			r.logger.Error("Failed to scan ledger entry", "error", err)
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over ledger entries: %w", err)
	}

	return entries, nil
}

func scanEntry(row rowScanner) (*ledger.Entry, error) {
	var (
		e     ledger.Entry
		value string
	)
	err := row.Scan(
		&e.ID,
		&e.Kind,
		&e.ClientID,
		&e.ContractID,
		&e.ContractItemID,
		&e.CategoryID,
		&e.AccountID,
		&e.CostCenterID,
		&e.Description,
		&value,
		&e.Date,
		&e.DueDate,
		&e.Competence,
		&e.Situation,
		&e.InvoiceIssued,
		&e.Extra,
		&e.DueNoticeSent,
		&e.InvoiceNoticeSent,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if e.Value, err = parseMoney(value); err != nil {
		return nil, err
	}
	return &e, nil
}
