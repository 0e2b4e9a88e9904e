package outbox

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/backoffice-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	t.Run("SuccessfulCreation", func(t *testing.T) {
		competence := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
		itemID := uuid.New()
		event := shared.EntryEvent{
			EventID:        uuid.New(),
			Type:           shared.EntryEventCreated,
			EntryID:        uuid.New(),
			AccountID:      uuid.New(),
			ContractItemID: &itemID,
			Kind:           shared.EntryKindIncome,
			Situation:      shared.SituationPending,
			Value:          "100.00",
			Competence:     &competence,
			OccurredAt:     time.Now().UTC(),
		}

		beforeCreation := time.Now()
		msg, err := NewMessage(event)
		afterCreation := time.Now()

		require.NoError(t, err)
		assert.Equal(t, event.EventID, msg.EventID)
		assert.Equal(t, event.EntryID, msg.EntryID)
		assert.Equal(t, shared.EntryEventCreated, msg.EventType)
		assert.Equal(t, shared.OutboxStatusPending, msg.Status)
		assert.Equal(t, 0, msg.Attempts)
		assert.Nil(t, msg.LastAttemptAt)
		assert.WithinDuration(t, beforeCreation, msg.CreatedAt, afterCreation.Sub(beforeCreation)+time.Millisecond)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(msg.Payload, &decoded))
		assert.Equal(t, "100.00", decoded["value"])
		assert.Equal(t, "ENTRY_CREATED", decoded["type"])
	})
}

func TestMessage_Attempts(t *testing.T) {
	t.Run("IncrementAttempts", func(t *testing.T) {
		initialTime := time.Now().Add(-time.Hour)
		msg := &Message{Attempts: 1, LastAttemptAt: &initialTime}

		msg.IncrementAttempts()

		assert.Equal(t, 2, msg.Attempts)
		require.NotNil(t, msg.LastAttemptAt)
		assert.True(t, msg.LastAttemptAt.After(initialTime))
	})

	t.Run("MarkAsProcessed", func(t *testing.T) {
		msg := &Message{Status: shared.OutboxStatusPending}
		msg.MarkAsProcessed()
		assert.Equal(t, shared.OutboxStatusProcessed, msg.Status)
		assert.NotNil(t, msg.LastAttemptAt)
	})

	t.Run("MarkAsFailed", func(t *testing.T) {
		msg := &Message{Status: shared.OutboxStatusPending}
		msg.MarkAsFailed()
		assert.Equal(t, shared.OutboxStatusFailedToPublish, msg.Status)
		assert.NotNil(t, msg.LastAttemptAt)
	})
}

func TestMessage_Event(t *testing.T) {
	t.Run("RoundTripsTheEvent", func(t *testing.T) {
		event := shared.EntryEvent{
			EventID:    uuid.New(),
			Type:       shared.EntryEventNoticeSent,
			EntryID:    uuid.New(),
			Notice:     shared.NoticeTypeDueDate,
			Value:      "42.10",
			OccurredAt: time.Now().UTC().Truncate(time.Millisecond),
		}
		msg, err := NewMessage(event)
		require.NoError(t, err)

		decoded, err := msg.Event()
		require.NoError(t, err)
		assert.Equal(t, event.EventID, decoded.EventID)
		assert.Equal(t, shared.NoticeTypeDueDate, decoded.Notice)
		assert.True(t, event.OccurredAt.Equal(decoded.OccurredAt))
	})

	t.Run("MalformedPayload", func(t *testing.T) {
		msg := &Message{Payload: json.RawMessage(`{"event_id":`)}
		_, err := msg.Event()
		assert.Error(t, err)
	})
}
