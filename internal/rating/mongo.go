package rating

import (
	"context"

	"explorerhub/internal/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore aggregates the reviews collection and writes to the businesses collection.
type MongoStore struct {
	reviews    *mongo.Collection
	businesses *mongo.Collection
}

// NewMongoStore returns a store on the two collections.
func NewMongoStore(reviews, businesses *mongo.Collection) *MongoStore {
	return &MongoStore{reviews: reviews, businesses: businesses}
}

func (s *MongoStore) ReviewStats(ctx context.Context, businessID int64) (Stats, error) {
	pipe := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"business_id": businessID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"count": bson.M{"$sum": 1},
			"sum":   bson.M{"$sum": "$rating"},
		}}},
	}

	cursor, err := s.reviews.Aggregate(ctx, pipe)
	if err != nil {
		return Stats{}, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	var stats Stats
	if cursor.Next(ctx) {
		if err := cursor.Decode(&stats); err != nil {
			return Stats{}, common.ConvertMongoError(err)
		}
	}
	if err := cursor.Err(); err != nil {
		return Stats{}, common.ConvertMongoError(err)
	}
	return stats, nil
}

func (s *MongoStore) WriteSummary(ctx context.Context, businessID int64, summary Summary) (bool, error) {
	res, err := s.businesses.UpdateOne(ctx,
		bson.M{"id": businessID},
		bson.M{"$set": bson.M{
			"rating":       summary.Rating,
			"review_count": summary.ReviewCount,
		}},
	)
	if err != nil {
		return false, common.ConvertMongoError(err)
	}
	return res.MatchedCount > 0, nil
}

// BusinessIDs returns up to limit business ids greater than afterID, ascending.
func (s *MongoStore) BusinessIDs(ctx context.Context, afterID int64, limit int64) ([]int64, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "id", Value: 1}}).
		SetLimit(limit).
		SetProjection(bson.M{"id": 1, "_id": 0})
	cursor, err := s.businesses.Find(ctx, bson.M{"id": bson.M{"$gt": afterID}}, opts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	var ids []int64
	for cursor.Next(ctx) {
		var doc struct {
			ID int64 `bson:"id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		ids = append(ids, doc.ID)
	}
	if err := cursor.Err(); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return ids, nil
}
