package database

import (
	"fmt"

	"explorerhub/internal/global"

	"go.mongodb.org/mongo-driver/mongo"
)

// RegisterCollections registers every collection of global.MongoDB_ColNames from db in
// global.RegistryCollections. Names already registered are replaced.
func RegisterCollections(db *mongo.Database) error {
	for _, name := range global.MongoDB_ColNames.All() {
		if name == "" {
			return fmt.Errorf("collection names are not initialized")
		}
		if _, err := global.RegistryCollections.Clear(name, nil); err != nil {
			return fmt.Errorf("clear collection %s: %w", name, err)
		}
		if _, err := global.RegistryCollections.Register(name, db.Collection(name)); err != nil {
			return fmt.Errorf("register collection %s: %w", name, err)
		}
	}
	return nil
}

// UnregisterCollections empties global.RegistryCollections and returns how many
// collections were registered.
func UnregisterCollections() int {
	count, _ := global.RegistryCollections.ClearAll(nil)
	return count
}

// RegisteredCollections lists the registered collection names in sorted order.
func RegisteredCollections() []string {
	return global.RegistryCollections.Names()
}
