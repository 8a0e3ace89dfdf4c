// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hub_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hub_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// GatewayRequestsTotal tracks calls to the remote backend.
	GatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hub_gateway_requests_total",
			Help: "Total remote gateway calls",
		},
		[]string{"operation", "outcome"},
	)

	// GatewayRequestDuration tracks remote backend latency.
	GatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hub_gateway_request_duration_seconds",
			Help:    "Remote gateway call duration",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	// StoreCommitsTotal tracks snapshot commits to the hub store.
	StoreCommitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_store_commits_total",
			Help: "Total snapshot commits",
		},
	)

	// BroadcastsTotal tracks snapshot broadcasts to attached windows.
	BroadcastsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_broadcasts_total",
			Help: "Total snapshot broadcasts",
		},
	)

	// WindowsAttached tracks the number of attached window clients.
	WindowsAttached = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hub_windows_attached",
			Help: "Number of attached window clients",
		},
	)

	// BroadcastDrops tracks broadcasts skipped for dead or slow windows.
	BroadcastDrops = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_broadcast_drops_total",
			Help: "Broadcasts skipped for dead or slow windows",
		},
	)

	// CompletionDuration tracks LLM completion duration.
	CompletionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hub_completion_duration_seconds",
			Help:    "LLM completion duration",
			Buckets: []float64{1, 2, 5, 10, 20, 30, 45, 60, 90, 120},
		},
		[]string{"provider", "status"},
	)

	// CompletionTokensTotal tracks LLM tokens processed.
	CompletionTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hub_completion_tokens_total",
			Help: "Total LLM tokens processed",
		},
		[]string{"provider", "direction"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordGatewayCall records one remote backend call.
func RecordGatewayCall(operation string, err error, duration float64) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	GatewayRequestsTotal.WithLabelValues(operation, outcome).Inc()
	GatewayRequestDuration.WithLabelValues(operation).Observe(duration)
}

// RecordCompletion records one LLM completion.
func RecordCompletion(provider, status string, duration float64, tokensIn, tokensOut int) {
	CompletionDuration.WithLabelValues(provider, status).Observe(duration)
	CompletionTokensTotal.WithLabelValues(provider, "in").Add(float64(tokensIn))
	CompletionTokensTotal.WithLabelValues(provider, "out").Add(float64(tokensOut))
}
