// Package metrics defines the Prometheus collectors exported by the effect worker
// and the HTTP service. Collectors register on the default registry; mount
// promhttp.Handler() to expose them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mocky_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mocky_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Effect metrics
var (
	EffectRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mocky_effect_requests_total",
			Help: "Total number of effect requests by effect and outcome",
		},
		[]string{"effect", "status"}, // status: success, failure
	)

	EffectDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mocky_effect_duration_seconds",
			Help:    "Wall time of an effect request, fetch to envelope",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"effect"},
	)

	AccelerationProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mocky_acceleration_probes_total",
			Help: "Hardware acceleration probe outcomes",
		},
		[]string{"result"}, // available, unavailable
	)

	FetchedBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mocky_fetched_bytes_total",
			Help: "Bytes of input media written to temporary files",
		},
	)
)
