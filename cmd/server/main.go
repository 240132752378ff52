package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"explorerhub/config"
	"explorerhub/internal/database"
	"explorerhub/internal/global"
	"explorerhub/internal/logger"
	"explorerhub/internal/metrics"
	"explorerhub/internal/worker"

	"github.com/gofiber/fiber/v3"
)

const shutdownTimeout = 10 * time.Second

// initLogger reads LOG_* from the environment.
func initLogger() {
	if err := logger.Init(nil); err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	logger.GetAppLogger().Info("Logger system initialized successfully")
}

func main() {
	initLogger()
	defer logger.Shutdown()

	InitGlobal()
	InitRegistry()

	cfg := global.MongoDB_ServerConfig
	m := metrics.Default()
	deps, ratingStore := InitDefaultData(cfg, m)

	log := logger.GetAppLogger()
	app, err := InitFiberApp(cfg, m, deps)
	if err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	startRatingReconcile(workerCtx, cfg, ratingStore, deps.Ratings)

	listenErr := make(chan error, 1)
	go func() {
		log.WithField("address", cfg.Address).Info("Starting server with HTTP")
		listenErr <- app.Listen(cfg.Address, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Shutting down")
	case err := <-listenErr:
		if err != nil {
			log.WithError(err).Error("Error in Fiber Listen")
		}
	}

	stopWorkers()
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.WithError(err).Error("Fiber shutdown failed")
	}
	if err := deps.Sequences.Close(); err != nil {
		log.WithError(err).Error("Failed to close sequence store")
	}
	log.WithField("collections", database.UnregisterCollections()).Info("Collection registry cleared")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := database.CloseInstance(ctx, global.MongoDB_Session); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Error("Failed to close MongoDB")
	}
	log.Info("Server stopped")
}

// startRatingReconcile runs the reconcile worker in the background unless it is disabled.
// It reports whether the worker was started.
func startRatingReconcile(ctx context.Context, cfg *config.Configuration, source worker.BusinessIDSource, ratings worker.Recomputer) bool {
	log := logger.GetAppLogger()
	if cfg.RatingReconcile_Interval <= 0 {
		log.Info("Rating reconcile worker disabled")
		return false
	}

	w := worker.NewRatingReconcileWorker(
		source,
		ratings,
		time.Duration(cfg.RatingReconcile_Interval)*time.Minute,
		cfg.RatingReconcile_BatchSize,
	)
	go w.Start(ctx)
	return true
}
