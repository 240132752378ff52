package basesvc

import (
	"context"
	"fmt"

	"explorerhub/internal/global"

	"go.mongodb.org/mongo-driver/mongo"
)

// IDAllocator issues the integer ids of new documents. *sequence.Allocator implements it.
type IDAllocator interface {
	NextValue(ctx context.Context, name string) (int64, error)
}

// Collection returns a registered collection by name.
func Collection(name string) (*mongo.Collection, error) {
	col, err := global.RegistryCollections.MustGet(name)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s collection: %w", name, err)
	}
	return col, nil
}
