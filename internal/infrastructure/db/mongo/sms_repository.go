package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskifye/integration-hub/internal/core/domain"
	"github.com/taskifye/integration-hub/internal/core/ports"
)

const collectionSms = "sms_messages"

type SmsRepository struct {
	col *mongo.Collection
}

func NewSmsRepository(db *mongo.Database) *SmsRepository {
	return &SmsRepository{col: db.Collection(collectionSms)}
}

// Insert appends msg to the log, assigning an id and timestamp when missing.
func (r *SmsRepository) Insert(ctx context.Context, msg *domain.SmsMessage) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	if _, err := r.col.InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("insert sms: %w", err)
	}
	return nil
}

// List returns one page of the tenant's messages, newest first. The filter is
// always scoped to filter.ClientID.
func (r *SmsRepository) List(ctx context.Context, filter ports.ListSmsFilter) ([]domain.SmsMessage, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{"client_id": filter.ClientID}
	if filter.Direction != "" {
		query["direction"] = filter.Direction
	}
	if filter.JobID != "" {
		query["job_id"] = filter.JobID
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count sms: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(filter.Skip()).
		SetLimit(int64(filter.Limit))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find sms: %w", err)
	}
	defer cur.Close(ctx)

	messages := make([]domain.SmsMessage, 0, filter.Limit)
	if err := cur.All(ctx, &messages); err != nil {
		return nil, 0, fmt.Errorf("decode sms: %w", err)
	}
	return messages, total, nil
}

// CountByStatus aggregates every message of the tenant by status.
func (r *SmsRepository) CountByStatus(ctx context.Context, clientID string) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"client_id": clientID}}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate sms: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode sms stats: %w", err)
	}

	stats := make(map[string]int64, len(rows))
	for _, row := range rows {
		stats[row.Status] = row.Count
	}
	return stats, nil
}

// EnsureIndexes creates the indexes backing List and CountByStatus.
func (r *SmsRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "direction", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "job_id", Value: 1}}},
		{Keys: bson.D{{Key: "provider_sid", Value: 1}}, Options: options.Index().SetSparse(true)},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
