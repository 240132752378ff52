package sequence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"explorerhub/internal/common"
	"explorerhub/internal/logger"

	"github.com/sirupsen/logrus"
)

// Observer receives allocation outcomes. *metrics.Metrics implements it.
type Observer interface {
	ObserveAllocation(sequence string, err error, elapsed time.Duration)
	ObserveRecovery(sequence string, won bool)
}

type noopObserver struct{}

func (noopObserver) ObserveAllocation(string, error, time.Duration) {}
func (noopObserver) ObserveRecovery(string, bool)                   {}

// Allocator hands out the next value of a named sequence.
// It keeps no state of its own; all coordination happens in the Store.
type Allocator struct {
	store    Store
	observer Observer
	log      *logrus.Entry
}

// Option configures an Allocator.
type Option func(*Allocator)

// WithObserver reports allocations and recoveries to o.
func WithObserver(o Observer) Option {
	return func(a *Allocator) {
		if o != nil {
			a.observer = o
		}
	}
}

// WithLogger replaces the default "sequence" module logger.
func WithLogger(entry *logrus.Entry) Option {
	return func(a *Allocator) {
		if entry != nil {
			a.log = entry
		}
	}
}

// NewAllocator returns an Allocator backed by store.
func NewAllocator(store Store, opts ...Option) *Allocator {
	a := &Allocator{
		store:    store,
		observer: noopObserver{},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = logger.WithModule("sequence")
	}
	return a
}

// NextValue returns the next integer of the sequence name. The first value of a new
// sequence is 1.
//
// A counter that reads zero or below after the increment (pre-created at -1, or a backend
// returning the pre-update image) is corrected to 1 with a compare-and-set. When another
// caller moved the counter first, one more increment is taken instead, so 1 is never
// handed out twice.
//
// Store failures are returned wrapped in common.ErrStorageUnavailable.
func (a *Allocator) NextValue(ctx context.Context, name string) (int64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, common.ErrInvalidSequenceName
	}

	start := time.Now()
	value, err := a.next(ctx, name)
	a.observer.ObserveAllocation(name, err, time.Since(start))
	if err != nil {
		a.log.WithError(err).WithField("sequence", name).Error("Sequence allocation failed")
		return 0, err
	}
	return value, nil
}

func (a *Allocator) next(ctx context.Context, name string) (int64, error) {
	value, err := a.store.Increment(ctx, name)
	if err != nil {
		return 0, storageError(name, "increment", err)
	}
	if value > 0 {
		return value, nil
	}

	won, err := a.store.CompareAndSet(ctx, name, value, 1)
	if err != nil {
		return 0, storageError(name, "reset", err)
	}
	a.observer.ObserveRecovery(name, won)
	a.log.WithFields(logrus.Fields{
		"sequence": name,
		"observed": value,
		"won":      won,
	}).Warn("Counter was not positive after increment, corrected")
	if won {
		return 1, nil
	}

	value, err = a.store.Increment(ctx, name)
	if err != nil {
		return 0, storageError(name, "increment", err)
	}
	if value <= 0 {
		return 0, storageError(name, "increment", fmt.Errorf("counter still at %d after corrective increment", value))
	}
	return value, nil
}

// Ensure creates the missing counters at zero and returns the names it created.
func (a *Allocator) Ensure(ctx context.Context, names ...string) ([]string, error) {
	var created []string
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return created, common.ErrInvalidSequenceName
		}
		ok, err := a.store.Ensure(ctx, name)
		if err != nil {
			return created, storageError(name, "ensure", err)
		}
		if ok {
			created = append(created, name)
			a.log.WithField("sequence", name).Info("Created counter")
		}
	}
	return created, nil
}

// Current returns the last value issued for name; found is false for an unknown sequence.
func (a *Allocator) Current(ctx context.Context, name string) (int64, bool, error) {
	if strings.TrimSpace(name) == "" {
		return 0, false, common.ErrInvalidSequenceName
	}
	value, found, err := a.store.Current(ctx, name)
	if err != nil {
		return 0, false, storageError(name, "read", err)
	}
	return value, found, nil
}

// Close releases the store connection when the store owns one.
func (a *Allocator) Close() error {
	if c, ok := a.store.(Closer); ok {
		return c.Close()
	}
	return nil
}

func storageError(name, op string, cause error) error {
	return fmt.Errorf("sequence %q %s: %w", name, op, common.Wrap(common.ErrStorageUnavailable, cause))
}
