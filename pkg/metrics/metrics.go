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
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// StoreOperationsTotal tracks collection store operations.
	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operations_total",
			Help: "Total collection store operations",
		},
		[]string{"collection", "operation", "status"},
	)

	// CollectionRecords tracks record counts per collection at last access.
	CollectionRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "store_collection_records",
			Help: "Records in a collection at last access",
		},
		[]string{"collection"},
	)

	// SyncDispatchesTotal tracks fire-and-forget sync dispatch outcomes.
	SyncDispatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_dispatches_total",
			Help: "Total simulated remote sync dispatches",
		},
		[]string{"status"},
	)

	// SessionsActive tracks whether an authenticated session is active.
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sessions_active",
			Help: "Number of active authenticated sessions",
		},
	)

	// LoginsTotal tracks login attempts.
	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Total login attempts",
		},
		[]string{"status"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordStoreOperation records a collection store operation outcome.
func RecordStoreOperation(collection, operation, status string) {
	StoreOperationsTotal.WithLabelValues(collection, operation, status).Inc()
}

// RecordSyncDispatch records the outcome of a sync dispatch.
func RecordSyncDispatch(status string) {
	SyncDispatchesTotal.WithLabelValues(status).Inc()
}

// RecordLogin records a login attempt outcome.
func RecordLogin(status string) {
	LoginsTotal.WithLabelValues(status).Inc()
}
