// Package basesvc provides the generic MongoDB service embedded by the domain services.
package basesvc

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"explorerhub/internal/common"
)

// UpdateData is a partial update. Empty operators are omitted.
type UpdateData struct {
	Set   map[string]any `bson:"$set,omitempty"`
	Unset map[string]any `bson:"$unset,omitempty"`
	Inc   map[string]any `bson:"$inc,omitempty"`
	Push  map[string]any `bson:"$push,omitempty"`
	Pull  map[string]any `bson:"$pull,omitempty"`
}

// IsEmpty reports whether the update carries no operator.
func (u *UpdateData) IsEmpty() bool {
	return u == nil || (len(u.Set) == 0 && len(u.Unset) == 0 && len(u.Inc) == 0 && len(u.Push) == 0 && len(u.Pull) == 0)
}

// BaseServiceMongo is the CRUD surface shared by the domain services. Documents are
// addressed by their integer "id" field, never by _id.
type BaseServiceMongo[T any] interface {
	InsertOne(ctx context.Context, data T) (T, error)
	FindOne(ctx context.Context, filter any, opts *options.FindOneOptions) (T, error)
	Find(ctx context.Context, filter any, opts *options.FindOptions) ([]T, error)
	FindOneByID(ctx context.Context, id int64) (T, error)
	FindWithSkip(ctx context.Context, filter any, skip, limit int64, sort bson.D) ([]T, error)
	FindOneAndUpdate(ctx context.Context, filter any, update *UpdateData) (T, error)
	DeleteOne(ctx context.Context, filter any) error
	CountDocuments(ctx context.Context, filter any) (int64, error)
	DocumentExists(ctx context.Context, filter any) (bool, error)
}

// BaseServiceMongoImpl implements BaseServiceMongo on one collection.
type BaseServiceMongoImpl[T any] struct {
	collection *mongo.Collection
}

// NewBaseServiceMongo returns a service on collection.
func NewBaseServiceMongo[T any](collection *mongo.Collection) *BaseServiceMongoImpl[T] {
	return &BaseServiceMongoImpl[T]{collection: collection}
}

// Collection returns the underlying collection for queries the base service does not cover.
func (s *BaseServiceMongoImpl[T]) Collection() *mongo.Collection {
	return s.collection
}

// InsertOne inserts data as is and returns it.
func (s *BaseServiceMongoImpl[T]) InsertOne(ctx context.Context, data T) (T, error) {
	var zero T
	if _, err := s.collection.InsertOne(ctx, data); err != nil {
		return zero, common.ConvertMongoError(err)
	}
	return data, nil
}

// FindOne returns the first match or common.ErrNotFound.
func (s *BaseServiceMongoImpl[T]) FindOne(ctx context.Context, filter any, opts *options.FindOneOptions) (T, error) {
	var zero, result T
	if filter == nil {
		filter = bson.D{}
	}
	if opts == nil {
		opts = options.FindOne()
	}

	err := s.collection.FindOne(ctx, filter, opts).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, common.ErrNotFound
		}
		var cmdErr mongo.CommandError
		if errors.As(err, &cmdErr) || mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
			return zero, common.ConvertMongoError(err)
		}
		return zero, common.NewError(common.ErrCodeValidationFormat, "Stored document could not be decoded", common.StatusInternalServerError, err)
	}
	return result, nil
}

// FindOneByID finds by the integer id field.
func (s *BaseServiceMongoImpl[T]) FindOneByID(ctx context.Context, id int64) (T, error) {
	return s.FindOne(ctx, bson.M{"id": id}, nil)
}

// Find returns every match; never nil.
func (s *BaseServiceMongoImpl[T]) Find(ctx context.Context, filter any, opts *options.FindOptions) ([]T, error) {
	if filter == nil {
		filter = bson.D{}
	}
	if opts == nil {
		opts = options.Find()
	}

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	var results []T
	if err := cursor.All(ctx, &results); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	if results == nil {
		results = []T{}
	}
	return results, nil
}

// FindWithSkip is Find with skip/limit paging and a sort order.
func (s *BaseServiceMongoImpl[T]) FindWithSkip(ctx context.Context, filter any, skip, limit int64, sort bson.D) ([]T, error) {
	opts := options.Find()
	if skip > 0 {
		opts.SetSkip(skip)
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}
	if len(sort) > 0 {
		opts.SetSort(sort)
	}
	return s.Find(ctx, filter, opts)
}

// FindOneAndUpdate applies update to the first match and returns the document after the
// update. updated_at is set on every call.
func (s *BaseServiceMongoImpl[T]) FindOneAndUpdate(ctx context.Context, filter any, update *UpdateData) (T, error) {
	var zero, result T
	if update == nil {
		update = &UpdateData{}
	}
	if update.Set == nil {
		update.Set = make(map[string]any)
	}
	update.Set["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&result)
	if err != nil {
		return zero, common.ConvertMongoError(err)
	}
	return result, nil
}

// DeleteOne removes the first match or returns common.ErrNotFound.
func (s *BaseServiceMongoImpl[T]) DeleteOne(ctx context.Context, filter any) error {
	res, err := s.collection.DeleteOne(ctx, filter)
	if err != nil {
		return common.ConvertMongoError(err)
	}
	if res.DeletedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

// CountDocuments counts matches.
func (s *BaseServiceMongoImpl[T]) CountDocuments(ctx context.Context, filter any) (int64, error) {
	if filter == nil {
		filter = bson.D{}
	}
	n, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return n, nil
}

// DocumentExists reports whether at least one document matches.
func (s *BaseServiceMongoImpl[T]) DocumentExists(ctx context.Context, filter any) (bool, error) {
	if filter == nil {
		filter = bson.D{}
	}
	n, err := s.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, common.ConvertMongoError(err)
	}
	return n > 0, nil
}
