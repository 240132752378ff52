package main

import (
	"explorerhub/config"
	"explorerhub/internal/database"
	"explorerhub/internal/global"
	"explorerhub/internal/logger"
)

// InitGlobal sets the collection names, the validator, the config and the MongoDB session.
func InitGlobal() {
	initColNames()
	initValidator()
	initConfig()
	initDatabase_MongoDB()
}

func initColNames() {
	global.InitColNames()
	logger.GetAppLogger().Info("Initialized collection names")
}

// initValidator registers the custom rules (no_xss, iso_date) on the shared validator.
func initValidator() {
	global.InitValidator()
	logger.GetAppLogger().Info("Initialized validator")
}

func initConfig() {
	cfg, err := config.NewConfig()
	if err != nil {
		logger.GetAppLogger().Fatalf("Failed to initialize config: %v", err)
	}
	global.MongoDB_ServerConfig = cfg
	logger.GetAppLogger().Info("Initialized server config")
}

func initDatabase_MongoDB() {
	var err error
	global.MongoDB_Session, err = database.GetInstance(global.MongoDB_ServerConfig)
	if err != nil {
		logger.GetAppLogger().Fatalf("Failed to get database instance: %v", err)
	}
	logger.GetAppLogger().Info("Connected to MongoDB")
}
