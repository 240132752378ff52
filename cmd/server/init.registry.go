package main

import (
	"context"
	"time"

	"explorerhub/internal/database"
	"explorerhub/internal/global"
	"explorerhub/internal/logger"
)

// InitRegistry registers the collections and creates their indexes.
func InitRegistry() {
	log := logger.GetAppLogger()
	db := global.MongoDB_Session.Database(global.MongoDB_ServerConfig.MongoDB_DBName)

	if err := database.RegisterCollections(db); err != nil {
		log.Fatalf("Failed to initialize collections: %v", err)
	}
	log.WithField("collections", database.RegisteredCollections()).Info("Initialized collection registry")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.CreateIndexes(ctx, db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	log.Info("Ensured indexes")
}
