// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the docmill gateway.
package observability

import "github.com/prometheus/client_golang/prometheus"

// APIBuckets defines histogram buckets for document API latencies,
// ranging from 5ms to 30s (uploads dominate the tail).
var APIBuckets = []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

var (
	// RequestsTotal counts all HTTP requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docmill_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docmill_request_duration_seconds",
			Help:    "Request duration",
			Buckets: APIBuckets,
		},
		[]string{"method"},
	)

	// RateLimitChecksTotal counts admission checks by check family and outcome.
	RateLimitChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docmill_ratelimit_checks_total",
			Help: "Admission checks",
		},
		[]string{"check", "outcome"},
	)

	// RateLimitRejectedTotal counts denials by limit type.
	RateLimitRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docmill_ratelimit_rejected_total",
			Help: "Rate limit rejections",
		},
		[]string{"limit_type"},
	)

	// TrackedClients reports the current size of each quota map.
	TrackedClients = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "docmill_ratelimit_tracked_clients",
			Help: "Clients currently tracked per quota map",
		},
		[]string{"quota"},
	)

	// JanitorSweepsTotal counts completed cleanup sweeps.
	JanitorSweepsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "docmill_ratelimit_janitor_sweeps_total",
			Help: "Janitor sweeps",
		},
	)

	// JanitorEvictionsTotal counts evicted client entries by reason (idle, capacity).
	JanitorEvictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docmill_ratelimit_janitor_evictions_total",
			Help: "Janitor evictions",
		},
		[]string{"reason"},
	)

	// UploadBytesTotal counts bytes admitted through the upload quota.
	UploadBytesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "docmill_upload_bytes_total",
			Help: "Admitted upload bytes",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		RateLimitChecksTotal,
		RateLimitRejectedTotal,
		TrackedClients,
		JanitorSweepsTotal,
		JanitorEvictionsTotal,
		UploadBytesTotal,
	)
}
