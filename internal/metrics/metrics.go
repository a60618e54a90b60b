// Package metrics declares the Prometheus collectors of the service.  They
// register on the default registry, which /metrics exposes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mrw_http_requests_total",
			Help: "HTTP requests by route, method and envelope status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mrw_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// Response cache
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mrw_response_cache_hits_total",
		Help: "Responses served from the Redis cache",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mrw_response_cache_misses_total",
		Help: "Cacheable responses not found in the Redis cache",
	})

	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mrw_rate_limited_total",
			Help: "Requests rejected by the token bucket",
		},
		[]string{"bucket"},
	)

	// Catalog client
	CatalogRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mrw_catalog_requests_total",
			Help: "Outbound catalog requests by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"}, // ok, not_found, error, rejected, canceled
	)

	CatalogDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mrw_catalog_request_duration_seconds",
			Help:    "Outbound catalog request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mrw_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mrw_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Mail
	MailSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mrw_mail_total",
			Help: "Outbound emails by kind and outcome",
		},
		[]string{"kind", "outcome"}, // sent, failed, queued
	)
)
