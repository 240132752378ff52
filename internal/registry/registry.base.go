// Package registry holds process-wide named singletons (collections, stores, clients)
// behind a generic, mutex-guarded map.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"explorerhub/internal/common"
)

// Registry is a concurrency-safe map of named items.
//
// Example:
//
//	collections := NewRegistry[*mongo.Collection]()
//	collections.Register("reviews", db.Collection("reviews"))
//	coll, ok := collections.Get("reviews")
type Registry[T any] struct {
	items map[string]T
	mu    sync.RWMutex
}

// NewRegistry returns an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		items: make(map[string]T),
	}
}

// Register stores item under name, replacing any previous item.
// isNew is false when an existing item was overwritten.
func (r *Registry[T]) Register(name string, item T) (isNew bool, err error) {
	if name == "" {
		return false, fmt.Errorf("name cannot be empty: %w", common.ErrRequiredField)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.items[name]
	r.items[name] = item
	return !exists, nil
}

// Get returns the item registered under name.
func (r *Registry[T]) Get(name string) (item T, exists bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, exists = r.items[name]
	return item, exists
}

// MustGet returns the item registered under name or an ErrNotFound-wrapped error.
func (r *Registry[T]) MustGet(name string) (T, error) {
	item, ok := r.Get(name)
	if !ok {
		var zero T
		return zero, fmt.Errorf("registry item %q: %w", name, common.ErrNotFound)
	}
	return item, nil
}

// Names returns the registered names in sorted order.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clear removes name, running cleanup on the item first. The item stays registered
// when cleanup fails.
func (r *Registry[T]) Clear(name string, cleanup func(T) error) (deleted bool, err error) {
	if name == "" {
		return false, fmt.Errorf("name cannot be empty: %w", common.ErrRequiredField)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[name]
	if !ok {
		return false, nil
	}
	if cleanup != nil {
		if err := cleanup(item); err != nil {
			return false, fmt.Errorf("failed to cleanup item %s: %w", name, err)
		}
	}
	delete(r.items, name)
	return true, nil
}

// ClearAll runs cleanup on every item and empties the registry. Cleanup errors are
// joined; the registry is emptied regardless so shutdown can proceed.
func (r *Registry[T]) ClearAll(cleanup func(T) error) (count int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count = len(r.items)
	var errs []error
	if cleanup != nil {
		for name, item := range r.items {
			if cerr := cleanup(item); cerr != nil {
				errs = append(errs, fmt.Errorf("failed to cleanup %s: %w", name, cerr))
			}
		}
	}
	r.items = make(map[string]T)
	return count, errors.Join(errs...)
}
