package model

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/polycopy/trade-monitor/internal/config"
)

const (
	userActivityCollectionPrefix = "user_activity_"
	userPositionCollectionPrefix = "user_positions_"
)

// UserActivityCollection returns the activity collection name owned by one
// tracked address. Each address gets its own pair of collections, mirroring
// the 1:1 ownership in the data model.
func UserActivityCollection(address string) string {
	return userActivityCollectionPrefix + strings.ToLower(address)
}

// UserPositionCollection returns the position collection name owned by one
// tracked address.
func UserPositionCollection(address string) string {
	return userPositionCollectionPrefix + strings.ToLower(address)
}

type index struct {
	// Keys is ordered: compound indexes depend on key order.
	Keys   bson.D
	Unique bool
}

// Setup creates the per-address collections and their indexes. The unique
// index on transaction_hash is the dedup authority for ingestion; the
// compound unique index on (asset, condition_id) is the upsert key for
// positions. Safe to call on every startup.
func Setup(ctx context.Context, cfg *config.DbConfig, addresses []string) error {
	credential := options.Credential{
		Username: cfg.Username,
		Password: cfg.Password,
	}
	clientOps := options.Client().ApplyURI(cfg.Address).SetAuth(credential)
	client, err := mongo.Connect(ctx, clientOps)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	database := client.Database(cfg.DbName)

	collections := map[string]index{
		MonitorStateCollection: {},
	}
	for _, address := range addresses {
		collections[UserActivityCollection(address)] = index{
			Keys:   bson.D{{Key: "transaction_hash", Value: 1}},
			Unique: true,
		}
		collections[UserPositionCollection(address)] = index{
			Keys:   bson.D{{Key: "asset", Value: 1}, {Key: "condition_id", Value: 1}},
			Unique: true,
		}
	}

	for name, idx := range collections {
		if err := createCollection(ctx, database, name); err != nil {
			return err
		}
		if len(idx.Keys) > 0 {
			if err := createIndex(ctx, database, name, idx); err != nil {
				return err
			}
		}
	}

	return client.Disconnect(ctx)
}

func createCollection(ctx context.Context, database *mongo.Database, collectionName string) error {
	names, err := database.ListCollectionNames(ctx, bson.M{"name": collectionName})
	if err != nil {
		return err
	}
	if len(names) > 0 {
		return nil
	}

	if err := database.CreateCollection(ctx, collectionName); err != nil {
		return err
	}

	log.Debug().Msgf("Collection created successfully: %s", collectionName)
	return nil
}

func createIndex(ctx context.Context, database *mongo.Database, collectionName string, idx index) error {
	indexModel := mongo.IndexModel{
		Keys:    idx.Keys,
		Options: options.Index().SetUnique(idx.Unique),
	}

	if _, err := database.Collection(collectionName).Indexes().CreateOne(ctx, indexModel); err != nil {
		return err
	}

	log.Debug().Msgf("Index created successfully on collection: %s", collectionName)
	return nil
}
