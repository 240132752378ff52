package rating

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store for tests and tools.
type MemoryStore struct {
	mu        sync.Mutex
	reviews   map[int64][]int
	summaries map[int64]Summary
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		reviews:   make(map[int64][]int),
		summaries: make(map[int64]Summary),
	}
}

// AddBusiness registers a business with an empty summary.
func (s *MemoryStore) AddBusiness(businessID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries[businessID] = Summary{}
}

// SetReviews replaces the ratings of businessID.
func (s *MemoryStore) SetReviews(businessID int64, ratings ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews[businessID] = append([]int(nil), ratings...)
}

// Summary returns the stored summary of businessID.
func (s *MemoryStore) Summary(businessID int64) (Summary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum, ok := s.summaries[businessID]
	return sum, ok
}

func (s *MemoryStore) ReviewStats(ctx context.Context, businessID int64) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return StatsOf(s.reviews[businessID]...), nil
}

func (s *MemoryStore) WriteSummary(ctx context.Context, businessID int64, summary Summary) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.summaries[businessID]; !ok {
		return false, nil
	}
	s.summaries[businessID] = summary
	return true, nil
}
