// Package telemetry holds the Prometheus metrics exposed on GET /metrics.
//
// HTTP metrics are labelled by route template (/api/keys/:id) rather than the raw
// URL so that key ids do not inflate label cardinality.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed, by method, route template, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, by method and route template.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)
)

// APIKeyOperationsTotal counts key store operations issued by the handlers.
//
// operation: list, get, create, rename, delete, stats, verify
// result:    ok, invalid, not_found, error
var APIKeyOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "apikey_operations_total",
		Help: "Total number of API key operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// UsageEventsTotal counts best-effort usage events by outcome: recorded, failed, dropped.
var UsageEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "apikey_usage_events_total",
		Help: "Total number of API key usage events, by outcome.",
	},
	[]string{"result"},
)

const (
	ResultOK       = "ok"
	ResultInvalid  = "invalid"
	ResultNotFound = "not_found"
	ResultError    = "error"

	UsageRecorded = "recorded"
	UsageFailed   = "failed"
	UsageDropped  = "dropped"
)

func RecordOperation(operation, result string) {
	APIKeyOperationsTotal.WithLabelValues(operation, result).Inc()
}
