// Package metrics holds the Prometheus collectors of the board. They are
// registered on the default registry at init and exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "board"

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route pattern and status code.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// AuthFailures counts rejected session tokens. reason is one of the
	// Reason* constants.
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Requests rejected by the token validator, by reason.",
	}, []string{"reason"})

	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "like_toggles_total",
		Help:      "Like toggles by resulting state.",
	}, []string{"state"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Post cache lookups by result (hit, miss, error).",
	}, []string{"result"})
)

const (
	ReasonMissing  = "missing"
	ReasonScheme   = "scheme"
	ReasonTampered = "tampered"
	ReasonExpired  = "expired"
	ReasonStale    = "stale_principal"
)
