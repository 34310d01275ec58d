package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upstream outcome label values.
const (
	OutcomeSuccess    = "success"
	OutcomeStatus     = "status_error"
	OutcomeTransport  = "request_error"
	OutcomeUnexpected = "unexpected_error"
)

var (
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "argocd_gateway_upstream_requests_total",
			Help: "Total number of ArgoCD API calls by path and outcome",
		},
		[]string{"path", "outcome"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "argocd_gateway_upstream_request_duration_seconds",
			Help:    "Duration of ArgoCD API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	// MissingItems counts upstream collections that came back without items.
	MissingItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "argocd_gateway_missing_items_total",
			Help: "Total number of upstream collections with a null or absent items field",
		},
		[]string{"kind"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "argocd_gateway_http_request_duration_seconds",
			Help:    "Duration of inbound HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)
)

// RecordUpstream records one upstream call.
func RecordUpstream(path, outcome string, seconds float64) {
	UpstreamRequests.WithLabelValues(path, outcome).Inc()
	UpstreamDuration.WithLabelValues(path).Observe(seconds)
}
