package database

import (
	"context"
	"testing"

	"explorerhub/internal/common"
	"explorerhub/internal/global"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestRegisterAndUnregisterCollections(t *testing.T) {
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://127.0.0.1:1"))
	require.NoError(t, err)
	defer client.Disconnect(context.Background())

	global.InitColNames()
	UnregisterCollections()
	db := client.Database("explorerhub_registry")

	require.NoError(t, RegisterCollections(db))
	require.NoError(t, RegisterCollections(db))
	names := RegisteredCollections()
	assert.ElementsMatch(t, global.MongoDB_ColNames.All(), names)
	assert.IsIncreasing(t, names)

	reviews, err := global.RegistryCollections.MustGet(global.MongoDB_ColNames.Reviews)
	require.NoError(t, err)
	assert.Equal(t, "explorerhub_registry", reviews.Database().Name())

	assert.Equal(t, len(names), UnregisterCollections())
	assert.Empty(t, RegisteredCollections())
	_, err = global.RegistryCollections.MustGet(global.MongoDB_ColNames.Reviews)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
