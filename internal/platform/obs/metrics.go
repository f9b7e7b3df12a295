package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campus_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "campus_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// Nearby searches by view mode and outcome (ok, error, stale).
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campus_discovery_searches_total",
			Help: "Nearby searches issued by view mode and outcome",
		},
		[]string{"view", "outcome"},
	)

	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "campus_operation_duration_seconds",
			Help:    "Duration of timed internal operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	operationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "campus_operation_errors_total",
			Help: "Failed timed internal operations",
		},
		[]string{"op"},
	)
)
