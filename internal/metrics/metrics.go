package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrSnakeDoc/webmark/internal/domain"
)

const namespace = "webmark"

// Metrics holds every Prometheus collector the service exposes.
// Each instance owns its registry so tests can build as many as they want.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Business outcomes
	OperationsTotal *prometheus.CounterVec
	ClicksTracked   prometheus.Counter
	RateLimited     prometheus.Counter

	// Maintenance
	OrphansSwept   prometheus.Counter
	SweepDuration  prometheus.Histogram
	SnapshotErrors prometheus.Counter

	// Global snapshot
	Users      prometheus.Gauge
	Categories prometheus.Gauge
	Bookmarks  prometheus.Gauge
	Clicks     prometheus.Gauge
}

// New creates and registers all collectors, including the Go and process
// collectors, on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "route", "status"},
		),

		OperationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Hierarchy operations by outcome kind",
			},
			[]string{"operation", "outcome"},
		),
		ClicksTracked: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clicks_tracked_total",
			Help:      "Bookmark clicks recorded",
		}),
		RateLimited: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter",
		}),

		OrphansSwept: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orphan_bookmarks_swept_total",
			Help:      "Bookmarks removed because their category no longer exists",
		}),
		SweepDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "orphan_sweep_duration_seconds",
			Help:      "Duration of orphan sweeps",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
		SnapshotErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stats_snapshot_errors_total",
			Help:      "Failed global statistics snapshots",
		}),

		Users: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "users",
			Help:      "Users known at the last snapshot",
		}),
		Categories: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "categories",
			Help:      "Categories at the last snapshot",
		}),
		Bookmarks: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bookmarks",
			Help:      "Bookmarks at the last snapshot",
		}),
		Clicks: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "clicks",
			Help:      "Total clicks at the last snapshot",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry (tests).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveOperation counts one business operation by its outcome.
func (m *Metrics) ObserveOperation(operation string, kind domain.Kind) {
	outcome := string(kind)
	if kind == domain.KindNone {
		outcome = "success"
	}
	m.OperationsTotal.WithLabelValues(operation, outcome).Inc()
}

// SetSnapshot publishes a global snapshot on the gauges.
func (m *Metrics) SetSnapshot(s domain.GlobalSnapshot) {
	m.Users.Set(float64(s.Users))
	m.Categories.Set(float64(s.Categories))
	m.Bookmarks.Set(float64(s.Bookmarks))
	m.Clicks.Set(float64(s.Clicks))
}
