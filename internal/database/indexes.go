package database

import (
	"context"
	"fmt"
	"strings"

	"explorerhub/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IndexSpec is one index to create on a collection.
type IndexSpec struct {
	Collection string
	Name       string
	Keys       bson.D
	Unique     bool
}

// IndexSpecs lists the indexes the service relies on. The unique counter index is what
// makes concurrent first-use upserts of a sequence collapse onto one document.
func IndexSpecs() []IndexSpec {
	cols := global.MongoDB_ColNames
	return []IndexSpec{
		{Collection: cols.Counters, Name: "counter_collection_name", Keys: bson.D{{Key: "collection_name", Value: 1}}, Unique: true},

		{Collection: cols.Users, Name: "user_email", Keys: bson.D{{Key: "email", Value: 1}}, Unique: true},
		{Collection: cols.Users, Name: "user_id", Keys: bson.D{{Key: "id", Value: 1}}, Unique: true},

		{Collection: cols.Businesses, Name: "business_id", Keys: bson.D{{Key: "id", Value: 1}}, Unique: true},
		{Collection: cols.Businesses, Name: "business_category", Keys: bson.D{{Key: "category", Value: 1}}},
		{Collection: cols.Businesses, Name: "business_owner", Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Collection: cols.Businesses, Name: "business_city_category", Keys: bson.D{{Key: "location.city", Value: 1}, {Key: "category", Value: 1}}},
		{Collection: cols.Businesses, Name: "business_rating", Keys: bson.D{{Key: "rating", Value: -1}}},

		{Collection: cols.Reviews, Name: "review_id", Keys: bson.D{{Key: "id", Value: 1}}, Unique: true},
		{Collection: cols.Reviews, Name: "review_business", Keys: bson.D{{Key: "business_id", Value: 1}}},
		{Collection: cols.Reviews, Name: "review_user", Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Collection: cols.Reviews, Name: "review_business_created", Keys: bson.D{{Key: "business_id", Value: 1}, {Key: "created_at", Value: -1}}},

		{Collection: cols.Trips, Name: "trip_id", Keys: bson.D{{Key: "id", Value: 1}}, Unique: true},
		{Collection: cols.Trips, Name: "trip_user", Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Collection: cols.Trips, Name: "trip_user_start", Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "start_date", Value: -1}}},
	}
}

// CreateIndexes creates every index from IndexSpecs. Indexes that already exist are skipped.
func CreateIndexes(ctx context.Context, db *mongo.Database) error {
	for _, spec := range IndexSpecs() {
		opts := options.Index().SetName(spec.Name)
		if spec.Unique {
			opts.SetUnique(true)
		}
		_, err := db.Collection(spec.Collection).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    spec.Keys,
			Options: opts,
		})
		if err != nil && !isIndexExistsError(err) {
			return fmt.Errorf("create index %s on %s: %w", spec.Name, spec.Collection, err)
		}
	}
	return nil
}

func isIndexExistsError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "already exists") || strings.Contains(s, "IndexOptionsConflict")
}
