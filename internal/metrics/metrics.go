// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Board mutations by operation and outcome (changed, noop, error).
	Mutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planboard_mutations_total",
			Help: "Board mutations by operation and outcome",
		},
		[]string{"op", "outcome"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "planboard_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route", "status"},
	)

	SSEStreams = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "planboard_sse_streams",
			Help: "Open live-update streams",
		},
	)
)

const (
	OutcomeChanged = "changed"
	OutcomeNoop    = "noop"
	OutcomeError   = "error"
)

func RecordMutation(op, outcome string) {
	Mutations.WithLabelValues(op, outcome).Inc()
}

func RecordHTTPRequestDuration(method, route, status string, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}
