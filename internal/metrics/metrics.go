// Package metrics exposes Prometheus counters for commitment lookups,
// marketplace searches and wizard activity.
package metrics

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry. A nil *Collector is valid and records
// nothing, so services can run without metrics.
type Collector struct {
	registry          *prometheus.Registry
	lookups           *prometheus.CounterVec
	searches          *prometheus.CounterVec
	wizardTransitions *prometheus.CounterVec
	submissions       *prometheus.CounterVec
	activeSessions    prometheus.Gauge
	httpDuration      *prometheus.HistogramVec
	logger            *slog.Logger
}

// NewCollector registers all series on a fresh registry.
func NewCollector(logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()
	f := promauto.With(registry)

	return &Collector{
		registry: registry,
		lookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "commt_commitment_lookups_total",
			Help: "Commitment detail lookups by result",
		}, []string{"result"}),
		searches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "commt_marketplace_searches_total",
			Help: "Marketplace listing queries by kind",
		}, []string{"kind"}),
		wizardTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "commt_wizard_transitions_total",
			Help: "Wizard step transitions by direction and outcome",
		}, []string{"direction", "outcome"}),
		submissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "commt_wizard_submissions_total",
			Help: "Wizard submissions by commitment type and outcome",
		}, []string{"type", "outcome"}),
		activeSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "commt_wizard_active_sessions",
			Help: "Wizard sessions currently held in memory",
		}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "commt_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		logger: logger,
	}
}

// RecordLookup counts a commitment lookup; found=false means a 404.
func (m *Collector) RecordLookup(found bool) {
	if m == nil {
		return
	}
	result := "found"
	if !found {
		result = "not_found"
	}
	m.lookups.WithLabelValues(result).Inc()
}

// RecordSearch counts a marketplace query.
func (m *Collector) RecordSearch(filtered bool) {
	if m == nil {
		return
	}
	kind := "all"
	if filtered {
		kind = "filtered"
	}
	m.searches.WithLabelValues(kind).Inc()
}

// RecordTransition counts a Next/Back attempt.
func (m *Collector) RecordTransition(direction string, ok bool) {
	if m == nil {
		return
	}
	m.wizardTransitions.WithLabelValues(direction, outcome(ok)).Inc()
}

// RecordSubmission counts a submit attempt.
func (m *Collector) RecordSubmission(commitmentType string, ok bool) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(commitmentType, outcome(ok)).Inc()
}

// SetActiveSessions reports the live session count.
func (m *Collector) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}

// Middleware observes request latency per matched route.
func (m *Collector) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// GetHandler serves the registry in the Prometheus text format.
func (m *Collector) GetHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func outcome(ok bool) string {
	if ok {
		return "ok"
	}
	return "rejected"
}
