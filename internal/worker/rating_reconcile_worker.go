// Package worker - RatingReconcileWorker recomputes every business's rating summary on a
// schedule. A review write whose recompute failed leaves a stale summary until the next
// recompute of that business; this worker bounds how long that lasts.
package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"explorerhub/internal/logger"
	"explorerhub/internal/rating"
)

const (
	defaultReconcileBatch = 200
	minReconcileInterval  = time.Minute
)

// BusinessIDSource pages through business ids in ascending order.
type BusinessIDSource interface {
	BusinessIDs(ctx context.Context, afterID int64, limit int64) ([]int64, error)
}

// Recomputer refreshes one business's summary.
type Recomputer interface {
	Recompute(ctx context.Context, businessID int64) (rating.Summary, error)
}

// RatingReconcileWorker walks all businesses in id order and recomputes each summary.
type RatingReconcileWorker struct {
	source    BusinessIDSource
	ratings   Recomputer
	interval  time.Duration
	batchSize int64
	log       *logrus.Logger
}

// NewRatingReconcileWorker creates the worker. An interval under a minute is raised to a
// minute and a non-positive batch size falls back to 200.
func NewRatingReconcileWorker(source BusinessIDSource, ratings Recomputer, interval time.Duration, batchSize int) *RatingReconcileWorker {
	if interval < minReconcileInterval {
		interval = minReconcileInterval
	}
	if batchSize <= 0 {
		batchSize = defaultReconcileBatch
	}
	return &RatingReconcileWorker{
		source:    source,
		ratings:   ratings,
		interval:  interval,
		batchSize: int64(batchSize),
		log:       logger.GetAppLogger(),
	}
}

// Start runs a pass every interval until ctx is done.
func (w *RatingReconcileWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.WithFields(map[string]any{
		"interval":  w.interval.String(),
		"batchSize": w.batchSize,
	}).Info("Starting rating reconcile worker")

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Rating reconcile worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce recomputes every business once and returns how many succeeded. A failing
// business is logged and skipped; a failing page ends the pass.
func (w *RatingReconcileWorker) RunOnce(ctx context.Context) (processed int) {
	defer func() {
		if r := recover(); r != nil {
			w.log.WithField("panic", r).Error("Rating reconcile pass panicked, retrying next tick")
		}
	}()

	var after int64
	failed := 0
	for {
		if ctx.Err() != nil {
			return processed
		}
		ids, err := w.source.BusinessIDs(ctx, after, w.batchSize)
		if err != nil {
			w.log.WithError(err).WithField("after_id", after).Error("Failed to list businesses for reconcile")
			return processed
		}
		for _, id := range ids {
			if _, err := w.ratings.Recompute(ctx, id); err != nil {
				failed++
				w.log.WithError(err).WithField("business_id", id).Warn("Reconcile recompute failed, skipping")
				continue
			}
			processed++
		}
		if int64(len(ids)) < w.batchSize {
			break
		}
		after = ids[len(ids)-1]
	}

	w.log.WithFields(map[string]any{"processed": processed, "failed": failed}).Info("Rating reconcile pass finished")
	return processed
}
