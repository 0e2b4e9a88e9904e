package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/backoffice-ledger/internal/domain/activity"
)

const (
	// ActivityCollectionName is the name of the entry activity collection in MongoDB
	ActivityCollectionName = "entry_activity"
)

// ActivityRepository implements the activity.Repository interface for MongoDB
type ActivityRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

func NewActivityRepository(logger *slog.Logger, db *mongo.Database) activity.Repository {
	return &ActivityRepository{
		db:     db,
		logger: logger,
	}
}

// EnsureIndexes creates the unique event index that makes Append idempotent
// and the per-entry history index.
func (r *ActivityRepository) EnsureIndexes(ctx context.Context) error {
	collection := r.db.Collection(ActivityCollectionName)

	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "event_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_event_id"),
		},
		{
			Keys:    bson.D{{Key: "entry_id", Value: 1}, {Key: "occurred_at", Value: -1}},
			Options: options.Index().SetName("entry_history"),
		},
	})
	if err != nil {
		r.logger.Error("Failed to create activity indexes", "error", err)
		return fmt.Errorf("failed to create activity indexes: %w", err)
	}

	return nil
}

// Append stores a record. A redelivered event yields ErrDuplicateRecord.
func (r *ActivityRepository) Append(ctx context.Context, record *activity.Record) error {
	collection := r.db.Collection(ActivityCollectionName)

	if _, err := collection.InsertOne(ctx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return activity.ErrDuplicateRecord{EventID: record.EventID}
		}
		r.logger.Error("Failed to append activity record",
			"event_id", record.EventID,
			"entry_id", record.EntryID,
			"error", err)
		return fmt.Errorf("failed to append activity record: %w", err)
	}

	return nil
}

// ListByEntry returns an entry's history, newest first.
func (r *ActivityRepository) ListByEntry(ctx context.Context, entryID uuid.UUID, limit, offset int) ([]*activity.Record, error) {
	collection := r.db.Collection(ActivityCollectionName)

	filter := bson.M{"entry_id": entryID.String()}
	opts := options.Find().
		SetSort(bson.D{{Key: "occurred_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get activity records",
			"entry_id", entryID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get activity records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*activity.Record
	if err := cursor.All(ctx, &records); err != nil {
		r.logger.Error("Failed to decode activity records",
			"entry_id", entryID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to decode activity records: %w", err)
	}

	return records, nil
}

func (r *ActivityRepository) CountByEntry(ctx context.Context, entryID uuid.UUID) (int64, error) {
	collection := r.db.Collection(ActivityCollectionName)

	count, err := collection.CountDocuments(ctx, bson.M{"entry_id": entryID.String()})
	if err != nil {
		r.logger.Error("Failed to count activity records",
			"entry_id", entryID.String(),
			"error", err)
		return 0, fmt.Errorf("failed to count activity records: %w", err)
	}

	return count, nil
}
