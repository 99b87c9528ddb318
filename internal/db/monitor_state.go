package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/polycopy/trade-monitor/internal/db/model"
)

// GetBackfillCompleted reports whether the one-time backfill suppression
// has already run to completion. Persisted so a process restart does not
// re-trigger the sweep.
func (db *Database) GetBackfillCompleted(ctx context.Context) (bool, error) {
	var state model.MonitorState
	err := db.collection(model.MonitorStateCollection).
		FindOne(ctx, bson.M{"_id": model.MonitorStateID}).Decode(&state)
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return state.BackfillCompleted, nil
}

func (db *Database) SetBackfillCompleted(ctx context.Context) error {
	update := bson.M{
		"$set": bson.M{
			"backfill_completed": true,
			"completed_at":       time.Now().Unix(),
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := db.collection(model.MonitorStateCollection).
		UpdateOne(ctx, bson.M{"_id": model.MonitorStateID}, update, opts)
	return err
}
