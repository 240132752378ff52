package rating

import (
	"context"
	"fmt"
	"time"

	"explorerhub/internal/common"
	"explorerhub/internal/logger"

	"github.com/sirupsen/logrus"
)

// Store reads review stats and writes business summaries.
type Store interface {
	ReviewStats(ctx context.Context, businessID int64) (Stats, error)
	// WriteSummary overwrites rating and review_count. found is false when no business
	// has businessID.
	WriteSummary(ctx context.Context, businessID int64, summary Summary) (found bool, err error)
}

// Observer receives recompute outcomes. *metrics.Metrics implements it.
type Observer interface {
	ObserveRecompute(err error, elapsed time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObserveRecompute(error, time.Duration) {}

// Aggregator recomputes business summaries from the review set.
type Aggregator struct {
	store    Store
	observer Observer
	log      *logrus.Entry
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithObserver reports recomputes to o.
func WithObserver(o Observer) Option {
	return func(a *Aggregator) {
		if o != nil {
			a.observer = o
		}
	}
}

// WithLogger replaces the default "rating" module logger.
func WithLogger(entry *logrus.Entry) Option {
	return func(a *Aggregator) {
		if entry != nil {
			a.log = entry
		}
	}
}

// NewAggregator returns an Aggregator on store.
func NewAggregator(store Store, opts ...Option) *Aggregator {
	a := &Aggregator{store: store, observer: noopObserver{}}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = logger.WithModule("rating")
	}
	return a
}

// Recompute derives the summary of businessID from all of its reviews and overwrites it
// on the business. It does not depend on the previous summary, so repeated or reordered
// calls converge on the same value. A business that does not exist is not an error.
func (a *Aggregator) Recompute(ctx context.Context, businessID int64) (Summary, error) {
	start := time.Now()
	summary, err := a.recompute(ctx, businessID)
	a.observer.ObserveRecompute(err, time.Since(start))
	if err != nil {
		a.log.WithError(err).WithField("business_id", businessID).Error("Rating recompute failed")
		return Summary{}, err
	}
	return summary, nil
}

func (a *Aggregator) recompute(ctx context.Context, businessID int64) (Summary, error) {
	stats, err := a.store.ReviewStats(ctx, businessID)
	if err != nil {
		return Summary{}, storageError(businessID, "aggregate reviews", err)
	}
	summary := Summarize(stats)

	found, err := a.store.WriteSummary(ctx, businessID, summary)
	if err != nil {
		return Summary{}, storageError(businessID, "write summary", err)
	}
	entry := a.log.WithFields(logrus.Fields{
		"business_id":  businessID,
		"rating":       summary.Rating,
		"review_count": summary.ReviewCount,
	})
	if !found {
		entry.Debug("No business to update")
	} else {
		entry.Debug("Rating recomputed")
	}
	return summary, nil
}

func storageError(businessID int64, op string, cause error) error {
	return fmt.Errorf("business %d %s: %w", businessID, op, common.Wrap(common.ErrStorageUnavailable, cause))
}
