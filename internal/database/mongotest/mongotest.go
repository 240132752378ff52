// Package mongotest provides throwaway MongoDB databases for integration tests.
package mongotest

import (
	"context"
	"os"
	"testing"
	"time"

	"explorerhub/internal/database"
	"explorerhub/internal/global"
	"explorerhub/internal/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnvURI names the variable holding the test server URI.
const EnvURI = "TEST_MONGODB_URI"

// Database connects to $TEST_MONGODB_URI and returns a fresh database with the service
// indexes, registered in global.RegistryCollections. The database is dropped when t ends.
// The test is skipped when the variable is unset. Logging goes to stdout at error level.
func Database(t testing.TB) *mongo.Database {
	t.Helper()
	uri := os.Getenv(EnvURI)
	if uri == "" {
		t.Skip(EnvURI + " not set")
	}
	require.NoError(t, logger.Init(&logger.LogConfig{Level: "error", Format: "text", Output: "stdout", FilterModules: "*"}))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	require.NoError(t, client.Ping(ctx, nil))

	db := client.Database("explorerhub_test_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		database.UnregisterCollections()
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	global.InitColNames()
	require.NoError(t, database.CreateIndexes(ctx, db))
	require.NoError(t, database.RegisterCollections(db))
	return db
}
