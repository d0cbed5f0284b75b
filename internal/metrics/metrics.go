// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cineniche_http_requests_total",
			Help: "Total number of HTTP requests by route pattern and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cineniche_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cineniche_recommendation_requests_total",
			Help: "Recommendation lookups by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"}, // outcome: "success", "failure", "rejected"
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cineniche_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CatalogTitles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cineniche_catalog_titles",
			Help: "Number of titles in the current catalog snapshot",
		},
	)

	CatalogSyncs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cineniche_catalog_syncs_total",
			Help: "Catalog sync runs by outcome",
		},
		[]string{"outcome"},
	)

	PosterThumbnails = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cineniche_poster_thumbnails_total",
			Help: "Number of poster thumbnails rendered",
		},
	)
)

// ObserveRequest records one finished HTTP request.
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
