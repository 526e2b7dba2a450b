package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"intelliquiz-service/internal/config"
)

// Connect opens a Mongo client and verifies the connection.
func Connect(ctx context.Context, cfg config.MongoDBConfig) (*mongo.Client, *mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}
	return client, client.Database(cfg.Database), nil
}

// EnsureIndexes creates the indexes the invariants rely on. The compound
// unique index on answers is the safety net against duplicate (attempt,
// question) rows under concurrent saves.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	indexes := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		},
		"categories": {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique},
		},
		"subcategories": {
			{Keys: bson.D{{Key: "category_id", Value: 1}, {Key: "slug", Value: 1}}, Options: unique},
		},
		"quizzes": {
			{Keys: bson.D{
				{Key: "category_id", Value: 1},
				{Key: "subcategory_id", Value: 1},
				{Key: "difficulty", Value: 1},
				{Key: "is_active", Value: 1},
			}},
		},
		"questions": {
			{Keys: bson.D{{Key: "quiz_id", Value: 1}, {Key: "order", Value: 1}}},
		},
		"attempts": {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "completed", Value: 1}, {Key: "completed_at", Value: -1}}},
		},
		"answers": {
			{Keys: bson.D{{Key: "attempt_id", Value: 1}, {Key: "question_id", Value: 1}}, Options: unique},
		},
	}

	for collection, models := range indexes {
		if _, err := database.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}
