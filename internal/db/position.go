package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/polycopy/trade-monitor/internal/db/model"
)

// UpsertPosition replaces the stored snapshot for the (asset, conditionId)
// pair wholesale, inserting it if it does not exist yet. The single
// UpdateOne with upsert keeps the operation atomic per key.
func (db *Database) UpsertPosition(
	ctx context.Context, address string, positionDoc *model.PositionDocument,
) error {
	filter := bson.M{
		"asset":        positionDoc.Asset,
		"condition_id": positionDoc.ConditionID,
	}
	update := bson.M{"$set": positionDoc}
	opts := options.Update().SetUpsert(true)

	_, err := db.collection(model.UserPositionCollection(address)).
		UpdateOne(ctx, filter, update, opts)
	return err
}

func (db *Database) GetPositions(ctx context.Context, address string) ([]model.PositionDocument, error) {
	cursor, err := db.collection(model.UserPositionCollection(address)).
		Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var positions []model.PositionDocument
	if err := cursor.All(ctx, &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

func (db *Database) CountPositions(ctx context.Context, address string) (int64, error) {
	return db.collection(model.UserPositionCollection(address)).
		CountDocuments(ctx, bson.M{})
}
