package repo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"turnserver/internal/domain/turn"
)

const TurnsCollection = "turns"

type MongoTurnRecorder struct {
	collection *mongo.Collection
	timeout    time.Duration
}

func NewMongoTurnRecorder(db *mongo.Database) *MongoTurnRecorder {
	return &MongoTurnRecorder{
		collection: db.Collection(TurnsCollection),
		timeout:    5 * time.Second,
	}
}

func (m *MongoTurnRecorder) RecordTurn(ctx context.Context, rec turn.Record) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if _, err := m.collection.InsertOne(ctx, TurnDocument(rec)); err != nil {
		return fmt.Errorf("archive turn %s: %w", rec.ID, err)
	}
	return nil
}

// TurnDocument is the archived form of a turn.
func TurnDocument(rec turn.Record) bson.M {
	doc := bson.M{
		"_id":         rec.ID,
		"received_at": rec.ReceivedAt.UTC(),
		"duration_ms": rec.DurationMillis(),
		"failed":      rec.Failed(),
	}
	if rec.Input != nil {
		doc["input"] = map[string]any(rec.Input)
	}
	if rec.Response != nil {
		doc["response"] = rec.Response.ToMap()
	}
	if rec.Failed() {
		doc["error"] = rec.Err
	}
	return doc
}
