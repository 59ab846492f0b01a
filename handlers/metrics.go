package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the service's Prometheus collectors. They are registered on
// the Registerer passed to NewMetrics so tests can use a private registry.
type Metrics struct {
	httpRequestsTotal      *prometheus.CounterVec
	requestDurationSeconds *prometheus.HistogramVec
	readingsGenerated      prometheus.Counter
	analyticsFailures      *prometheus.CounterVec
	snapshotsPublished     *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		requestDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "request_duration_seconds",
				Help:    "Request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		readingsGenerated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "readings_generated_total",
				Help: "Total number of synthetic sensor readings generated",
			},
		),
		analyticsFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analytics_failures_total",
				Help: "Total number of analytics requests that failed, by stage",
			},
			[]string{"stage"},
		),
		snapshotsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "snapshots_published_total",
				Help: "Total number of snapshot summaries broadcast, by result",
			},
			[]string{"result"},
		),
	}
}

// ObserveGenerated matches analytics.GeneratedCallback.
func (m *Metrics) ObserveGenerated(count int) {
	m.readingsGenerated.Add(float64(count))
}
