package main

import (
	"context"
	"time"

	"explorerhub/config"
	authtoken "explorerhub/internal/api/auth/token"
	"explorerhub/internal/api/router"
	basesvc "explorerhub/internal/api/base/service"
	"explorerhub/internal/global"
	"explorerhub/internal/logger"
	"explorerhub/internal/metrics"
	"explorerhub/internal/rating"
	"explorerhub/internal/sequence"
)

// InitDefaultData builds the id allocator, the rating aggregator and the token manager,
// and creates the default counters when INIT_COUNTERS is set. The returned rating store
// is the one behind the aggregator.
func InitDefaultData(cfg *config.Configuration, m *metrics.Metrics) (router.Deps, *rating.MongoStore) {
	log := logger.GetAppLogger()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	counters, err := basesvc.Collection(global.MongoDB_ColNames.Counters)
	if err != nil {
		log.Fatalf("Failed to get counters collection: %v", err)
	}
	store, err := sequence.NewStore(ctx, cfg, counters)
	if err != nil {
		log.Fatalf("Failed to create sequence store: %v", err)
	}
	allocator := sequence.NewAllocator(store, sequence.WithObserver(m))
	log.WithField("backend", cfg.SequenceBackend).Info("Sequence allocator ready")

	if cfg.InitCounters {
		created, err := allocator.Ensure(ctx, sequence.DefaultNames()...)
		if err != nil {
			log.Fatalf("Failed to initialize counters: %v", err)
		}
		log.WithField("created", created).Info("Counters initialized")
	}

	reviews, err := basesvc.Collection(global.MongoDB_ColNames.Reviews)
	if err != nil {
		log.Fatalf("Failed to get reviews collection: %v", err)
	}
	businesses, err := basesvc.Collection(global.MongoDB_ColNames.Businesses)
	if err != nil {
		log.Fatalf("Failed to get businesses collection: %v", err)
	}
	ratingStore := rating.NewMongoStore(reviews, businesses)
	aggregator := rating.NewAggregator(ratingStore, rating.WithObserver(m))

	tokens, err := authtoken.NewManager(cfg.JwtSecret, time.Duration(cfg.JwtExpireMinutes)*time.Minute)
	if err != nil {
		log.Fatalf("Failed to create token manager: %v", err)
	}

	return router.Deps{
		Sequences: allocator,
		Ratings:   aggregator,
		Tokens:    tokens,
	}, ratingStore
}
