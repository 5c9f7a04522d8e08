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
			Name:    "workbench_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workbench_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// SekhaCallDuration tracks memory service call duration.
	SekhaCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sekha_call_duration_seconds",
			Help:    "Memory service call duration in seconds",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "status"},
	)

	// MergesTotal tracks completed merges by sort policy.
	MergesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workbench_merges_total",
			Help: "Total conversations merges completed",
		},
		[]string{"sort_by"},
	)

	// TagOpsTotal tracks tag operations by kind.
	TagOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workbench_tag_ops_total",
			Help: "Total tag operations",
		},
		[]string{"operation"},
	)

	// BatchOpsTotal tracks batch operations by kind.
	BatchOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workbench_batch_ops_total",
			Help: "Total batch operations",
		},
		[]string{"operation"},
	)

	// SelectionSize tracks the current selection size.
	SelectionSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "workbench_selection_size",
			Help: "Number of currently selected conversations",
		},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordSekhaCall records metrics for a memory service call.
func RecordSekhaCall(method, status string, duration float64) {
	SekhaCallDuration.WithLabelValues(method, status).Observe(duration)
}
