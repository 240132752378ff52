package sequence

import (
	"context"
	"sync"
)

// MemoryStore keeps counters in process memory. Values are lost on restart, so it only
// suits tests and single-process tools.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[string]int64
}

// NewMemoryStore returns a store seeded with initial (which may be nil).
func NewMemoryStore(initial map[string]int64) *MemoryStore {
	counters := make(map[string]int64, len(initial))
	for k, v := range initial {
		counters[k] = v
	}
	return &MemoryStore{counters: counters}
}

func (s *MemoryStore) Increment(ctx context.Context, name string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[name]++
	return s.counters[name], nil
}

func (s *MemoryStore) CompareAndSet(ctx context.Context, name string, oldValue, newValue int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.counters[name]
	if !ok || current != oldValue {
		return false, nil
	}
	s.counters[name] = newValue
	return true, nil
}

func (s *MemoryStore) Ensure(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.counters[name]; ok {
		return false, nil
	}
	s.counters[name] = 0
	return true, nil
}

func (s *MemoryStore) Current(ctx context.Context, name string) (int64, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.counters[name]
	return v, ok, nil
}
