// Package metrics holds the Prometheus collectors of the service and the /metrics handler.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result labels.
const (
	ResultOK    = "ok"
	ResultError = "error"

	RecoveryCASWon  = "cas_won"
	RecoveryCASLost = "cas_lost"
)

// Metrics is the set of collectors exported on /metrics.
type Metrics struct {
	gatherer prometheus.Gatherer

	sequenceAllocations *prometheus.CounterVec
	sequenceRecoveries  *prometheus.CounterVec
	sequenceDuration    *prometheus.HistogramVec
	ratingRecomputes    *prometheus.CounterVec
	ratingDuration      prometheus.Histogram
	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// Default returns the process-wide metrics, registered on a dedicated registry together
// with the Go runtime and process collectors.
func Default() *Metrics {
	defaultOnce.Do(func() {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		defaultMetrics = New(reg)
	})
	return defaultMetrics
}

// New creates the collectors and registers them on reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		sequenceAllocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "explorerhub_sequence_allocations_total",
			Help: "Sequence values requested, by sequence name and result.",
		}, []string{"sequence", "result"}),
		sequenceRecoveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "explorerhub_sequence_recoveries_total",
			Help: "Counters found at or below zero after an increment, by corrective outcome.",
		}, []string{"sequence", "outcome"}),
		sequenceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "explorerhub_sequence_allocation_duration_seconds",
			Help:    "Latency of one sequence allocation.",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"sequence"}),
		ratingRecomputes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "explorerhub_rating_recomputes_total",
			Help: "Business rating recomputations, by result.",
		}, []string{"result"}),
		ratingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "explorerhub_rating_recompute_duration_seconds",
			Help:    "Latency of one rating recomputation (aggregate and write).",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "explorerhub_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "explorerhub_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		m.sequenceAllocations,
		m.sequenceRecoveries,
		m.sequenceDuration,
		m.ratingRecomputes,
		m.ratingDuration,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}

// ObserveAllocation records one NextValue call.
func (m *Metrics) ObserveAllocation(sequence string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.sequenceAllocations.WithLabelValues(sequence, result(err)).Inc()
	m.sequenceDuration.WithLabelValues(sequence).Observe(elapsed.Seconds())
}

// ObserveRecovery records one corrective set on a degenerate counter.
func (m *Metrics) ObserveRecovery(sequence string, won bool) {
	if m == nil {
		return
	}
	outcome := RecoveryCASLost
	if won {
		outcome = RecoveryCASWon
	}
	m.sequenceRecoveries.WithLabelValues(sequence, outcome).Inc()
}

// ObserveRecompute records one rating recomputation.
func (m *Metrics) ObserveRecompute(err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ratingRecomputes.WithLabelValues(result(err)).Inc()
	m.ratingDuration.Observe(elapsed.Seconds())
}

// FiberMiddleware counts requests by matched route so path ids do not explode cardinality.
func (m *Metrics) FiberMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else if status < http.StatusBadRequest {
				status = http.StatusInternalServerError
			}
		}
		route := c.Route().Path
		m.httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
