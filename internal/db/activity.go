package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/polycopy/trade-monitor/internal/db/model"
)

// SaveNewActivity inserts one trade event into the address's activity
// collection. The unique index on transaction_hash makes concurrent
// inserts of the same trade race-safe: the loser gets a DuplicateKeyError.
func (db *Database) SaveNewActivity(
	ctx context.Context, address string, activityDoc *model.ActivityDocument,
) error {
	_, err := db.collection(model.UserActivityCollection(address)).
		InsertOne(ctx, activityDoc)
	if err != nil {
		var writeErr mongo.WriteException
		if errors.As(err, &writeErr) {
			for _, e := range writeErr.WriteErrors {
				if mongo.IsDuplicateKeyError(e) {
					return &DuplicateKeyError{
						Key:     activityDoc.TransactionHash,
						Message: "trade activity already exists",
					}
				}
			}
		}
		return err
	}
	return nil
}

// HasActivity reports whether a trade with the given transaction hash has
// already been stored for the address.
func (db *Database) HasActivity(
	ctx context.Context, address string, txHash string,
) (bool, error) {
	filter := bson.M{"transaction_hash": txHash}
	err := db.collection(model.UserActivityCollection(address)).
		FindOne(ctx, filter).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (db *Database) CountActivities(ctx context.Context, address string) (int64, error) {
	return db.collection(model.UserActivityCollection(address)).
		CountDocuments(ctx, bson.M{})
}

// MarkActivitiesProcessed bulk-marks every not-yet-processed activity
// record for the address as processed, returning the number of records
// modified. Keyed on processed=false, so re-running it is a no-op.
func (db *Database) MarkActivitiesProcessed(ctx context.Context, address string) (int64, error) {
	filter := bson.M{"processed": false}
	update := bson.M{
		"$set": bson.M{
			"processed":        true,
			"process_attempts": model.BackfillAttemptsSentinel,
		},
	}

	res, err := db.collection(model.UserActivityCollection(address)).
		UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
