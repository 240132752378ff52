package sequence

import (
	"context"
	"errors"
	"fmt"

	"explorerhub/internal/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Counter is the document stored in the counters collection.
type Counter struct {
	CollectionName string `json:"collection_name" bson:"collection_name"`
	SequenceValue  int64  `json:"sequence_value" bson:"sequence_value"`
}

// MongoStore keeps one Counter document per sequence. The collection needs a unique
// index on collection_name.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore returns a store on the counters collection.
func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

// Increment runs one find-and-modify ($inc, upsert, return the post-update document).
// Two first-time upserts racing on the unique index make one of them fail with a
// duplicate key error; that call is repeated once and then finds the document.
func (s *MongoStore) Increment(ctx context.Context, name string) (int64, error) {
	value, err := s.increment(ctx, name)
	if err != nil && mongo.IsDuplicateKeyError(err) {
		value, err = s.increment(ctx, name)
	}
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return value, nil
}

func (s *MongoStore) increment(ctx context.Context, name string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc Counter
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"collection_name": name},
		bson.M{"$inc": bson.M{"sequence_value": 1}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.SequenceValue, nil
}

func (s *MongoStore) CompareAndSet(ctx context.Context, name string, oldValue, newValue int64) (bool, error) {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"collection_name": name, "sequence_value": oldValue},
		bson.M{"$set": bson.M{"sequence_value": newValue}},
	)
	if err != nil {
		return false, common.ConvertMongoError(err)
	}
	return res.MatchedCount == 1, nil
}

func (s *MongoStore) Ensure(ctx context.Context, name string) (bool, error) {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"collection_name": name},
		bson.M{"$setOnInsert": bson.M{"sequence_value": int64(0)}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, common.ConvertMongoError(err)
	}
	return res.UpsertedCount == 1, nil
}

func (s *MongoStore) Current(ctx context.Context, name string) (int64, bool, error) {
	var doc Counter
	err := s.coll.FindOne(ctx, bson.M{"collection_name": name}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read counter: %w", common.ConvertMongoError(err))
	}
	return doc.SequenceValue, true, nil
}
