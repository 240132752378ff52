package worker

import (
	"context"
	"errors"
	"os"
	"sort"
	"testing"
	"time"

	"explorerhub/internal/logger"
	"explorerhub/internal/rating"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	_ = logger.Init(&logger.LogConfig{Level: "error", Format: "text", Output: "stdout", FilterModules: "*"})
	code := m.Run()
	logger.Shutdown()
	os.Exit(code)
}

type idSource struct {
	ids   []int64
	calls int
	err   error
}

func (s *idSource) BusinessIDs(_ context.Context, afterID int64, limit int64) ([]int64, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	var out []int64
	for _, id := range s.ids {
		if id > afterID && int64(len(out)) < limit {
			out = append(out, id)
		}
	}
	return out, nil
}

type failOn map[int64]bool

func TestRatingReconcileWorker_RepairsStaleSummaries(t *testing.T) {
	store := rating.NewMemoryStore()
	for id := int64(1); id <= 5; id++ {
		store.AddBusiness(id)
	}
	store.SetReviews(2, 5, 5, 4)
	store.SetReviews(4, 1)
	agg := rating.NewAggregator(store)

	source := &idSource{ids: []int64{1, 2, 3, 4, 5}}
	w := NewRatingReconcileWorker(source, agg, time.Hour, 2)

	assert.Equal(t, 5, w.RunOnce(context.Background()))
	// Pages of 2 over 5 ids: [1 2] [3 4] [5].
	assert.Equal(t, 3, source.calls)

	s, ok := store.Summary(2)
	require.True(t, ok)
	assert.Equal(t, rating.Summary{Rating: 4.7, ReviewCount: 3}, s)
	s, ok = store.Summary(4)
	require.True(t, ok)
	assert.Equal(t, rating.Summary{Rating: 1.0, ReviewCount: 1}, s)
}

type recorder struct {
	seen []int64
	fail failOn
}

func (r *recorder) Recompute(_ context.Context, id int64) (rating.Summary, error) {
	r.seen = append(r.seen, id)
	if r.fail[id] {
		return rating.Summary{}, errors.New("boom")
	}
	return rating.Summary{}, nil
}

func TestRatingReconcileWorker_SkipsFailures(t *testing.T) {
	rec := &recorder{fail: failOn{3: true}}
	w := NewRatingReconcileWorker(&idSource{ids: []int64{7, 3, 9, 1}}, rec, time.Hour, 10)

	assert.Equal(t, 3, w.RunOnce(context.Background()))
	sort.Slice(rec.seen, func(i, j int) bool { return rec.seen[i] < rec.seen[j] })
	assert.Equal(t, []int64{1, 3, 7, 9}, rec.seen)
}

func TestRatingReconcileWorker_StopsOnListError(t *testing.T) {
	rec := &recorder{}
	w := NewRatingReconcileWorker(&idSource{err: errors.New("down")}, rec, time.Hour, 10)
	assert.Zero(t, w.RunOnce(context.Background()))
	assert.Empty(t, rec.seen)
}

func TestNewRatingReconcileWorker_Defaults(t *testing.T) {
	w := NewRatingReconcileWorker(&idSource{}, &recorder{}, time.Second, 0)
	assert.Equal(t, minReconcileInterval, w.interval)
	assert.Equal(t, int64(defaultReconcileBatch), w.batchSize)
}

func TestRatingReconcileWorker_StartReturnsOnCancel(t *testing.T) {
	w := NewRatingReconcileWorker(&idSource{}, &recorder{}, time.Hour, 10)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}
