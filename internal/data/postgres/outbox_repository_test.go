package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/backoffice-ledger/internal/domain/outbox"
	"github.com/backoffice-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutboxRepository_WithTx(t *testing.T) {
	repo := &OutboxRepository{logger: newTestLogger()}

	mockTx := pgx.Tx(nil)
	txRepo := repo.WithTx(mockTx)

	outboxRepo, ok := txRepo.(*OutboxRepository)
	require.True(t, ok)
	assert.Equal(t, mockTx, outboxRepo.querier)
}

func TestOutboxRepository_Create(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: newTestLogger()}
	message, err := outbox.NewMessage(shared.EntryEvent{
		EventID:    uuid.New(),
		Type:       shared.EntryEventCreated,
		EntryID:    uuid.New(),
		Value:      "10.00",
		OccurredAt: time.Now(),
	})
	require.NoError(t, err)

	query := sqlPattern("INSERT INTO entry_outbox (event_id, entry_id, event_type, payload, status, attempts, created_at)")
	args := []any{message.EventID, message.EntryID, message.EventType, message.Payload, message.Status, message.Attempts, message.CreatedAt}

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(args...).WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))

		require.NoError(t, repo.Create(ctx, message))
		assert.Equal(t, int64(42), message.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate event", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(args...).WillReturnError(uniqueViolation("entry_outbox_event_id_key"))

		err := repo.Create(ctx, message)
		var dup outbox.ErrDuplicateMessage
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, message.EventID, dup.EventID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_GetPending(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: newTestLogger()}
	query := sqlPattern("FROM entry_outbox WHERE status = $1 ORDER BY created_at ASC, id ASC LIMIT $2")

	t.Run("success", func(t *testing.T) {
		now := time.Now()
		payload := json.RawMessage(`{"type":"ENTRY_CREATED"}`)
		rows := pgxmock.NewRows([]string{"id", "event_id", "entry_id", "event_type", "payload", "status", "attempts", "created_at", "last_attempt_at"}).
			AddRow(int64(1), uuid.New(), uuid.New(), shared.EntryEventCreated, payload, shared.OutboxStatusPending, 0, now, (*time.Time)(nil))
		mock.ExpectQuery(query).WithArgs(shared.OutboxStatusPending, 10).WillReturnRows(rows)

		messages, err := repo.GetPending(ctx, 10)
		require.NoError(t, err)
		require.Len(t, messages, 1)
		assert.Equal(t, int64(1), messages[0].ID)
		assert.Equal(t, shared.EntryEventCreated, messages[0].EventType)
		assert.Nil(t, messages[0].LastAttemptAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		dbErr := errors.New("db error")
		mock.ExpectQuery(query).WithArgs(shared.OutboxStatusPending, 10).WillReturnError(dbErr)

		messages, err := repo.GetPending(ctx, 10)
		assert.Nil(t, messages)
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_Updates(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: newTestLogger()}

	t.Run("update status", func(t *testing.T) {
		mock.ExpectExec(sqlPattern("UPDATE entry_outbox SET status = $1, last_attempt_at = $2 WHERE id = $3")).
			WithArgs(shared.OutboxStatusProcessed, pgxmock.AnyArg(), int64(5)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, repo.UpdateStatus(ctx, 5, shared.OutboxStatusProcessed))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update status missing", func(t *testing.T) {
		mock.ExpectExec(sqlPattern("UPDATE entry_outbox SET status = $1")).
			WithArgs(shared.OutboxStatusProcessed, pgxmock.AnyArg(), int64(6)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateStatus(ctx, 6, shared.OutboxStatusProcessed)
		assert.Equal(t, outbox.ErrMessageNotFound{ID: 6}, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("record failure below the limit", func(t *testing.T) {
		mock.ExpectQuery(sqlPattern("SET attempts = attempts + 1")).
			WithArgs(pgxmock.AnyArg(), 3, shared.OutboxStatusFailedToPublish, int64(5)).
			WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow(shared.OutboxStatusPending))

		status, err := repo.RecordFailure(ctx, 5, 3)
		require.NoError(t, err)
		assert.Equal(t, shared.OutboxStatusPending, status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("record failure exhausts attempts", func(t *testing.T) {
		mock.ExpectQuery(sqlPattern("RETURNING status")).
			WithArgs(pgxmock.AnyArg(), 3, shared.OutboxStatusFailedToPublish, int64(7)).
			WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow(shared.OutboxStatusFailedToPublish))

		status, err := repo.RecordFailure(ctx, 7, 3)
		require.NoError(t, err)
		assert.Equal(t, shared.OutboxStatusFailedToPublish, status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("record failure missing", func(t *testing.T) {
		mock.ExpectQuery(sqlPattern("RETURNING status")).
			WithArgs(pgxmock.AnyArg(), 3, shared.OutboxStatusFailedToPublish, int64(8)).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.RecordFailure(ctx, 8, 3)
		assert.Equal(t, outbox.ErrMessageNotFound{ID: 8}, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
