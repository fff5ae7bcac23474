package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// EnsureIndexes creates the query-path indexes the application relies on.
// Safe to call on every boot; Mongo treats existing indexes as a no-op.
//
// Note there is deliberately NO uniqueness constraint on customer
// (name, phone): duplicates are reconciled after the fact by the signup
// merge engine, not prevented at write time.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		Orders: {
			{Keys: bson.D{{Key: "productId", Value: 1}}},
			{Keys: bson.D{{Key: "customerId", Value: 1}}},
			{Keys: bson.D{{Key: "customerEmail", Value: 1}}},
		},
		Customers: {
			{Keys: bson.D{{Key: "email", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: 1}}},
		},
		Products: {
			{Keys: bson.D{{Key: "category", Value: 1}}},
		},
		Accounts: {
			{Keys: bson.D{{Key: "email", Value: 1}}},
		},
	}

	for collection, models := range indexes {
		if _, err := s.db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("store: ensure indexes on %s: %w", collection, err)
		}
	}
	return nil
}
