package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveAllocation(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveAllocation("reviews", nil, time.Millisecond)
	m.ObserveAllocation("reviews", nil, time.Millisecond)
	m.ObserveAllocation("reviews", errors.New("down"), time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.sequenceAllocations.WithLabelValues("reviews", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sequenceAllocations.WithLabelValues("reviews", ResultError)))
}

func TestObserveRecovery(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRecovery("users", true)
	m.ObserveRecovery("users", false)
	m.ObserveRecovery("users", false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.sequenceRecoveries.WithLabelValues("users", RecoveryCASWon)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.sequenceRecoveries.WithLabelValues("users", RecoveryCASLost)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveAllocation("x", nil, 0)
		m.ObserveRecovery("x", true)
		m.ObserveRecompute(nil, 0)
	})
}

func TestFiberMiddlewareUsesRoutePattern(t *testing.T) {
	m := New(prometheus.NewRegistry())
	app := fiber.New()
	app.Use(m.FiberMiddleware())
	app.Get("/businesses/:id", func(c fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for _, id := range []string{"1", "2", "3"} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/businesses/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.httpRequests.WithLabelValues(fiber.MethodGet, "/businesses/:id", "200")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveRecompute(nil, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `explorerhub_rating_recomputes_total{result="ok"} 1`))
}
