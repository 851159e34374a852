// Package metrics registers the Prometheus collectors exposed on the
// monitoring port.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "birs_http_requests_total",
			Help: "Total HTTP requests by method, path and status code",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "birs_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	EntriesSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "birs_tax_entries_submitted_total",
			Help: "Tax entry submissions by outcome",
		},
		[]string{"outcome"},
	)

	VerificationCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "birs_gateway_verifications_total",
			Help: "Payment gateway verification calls by channel and outcome",
		},
		[]string{"channel", "outcome"},
	)

	LeagueBuilds = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "birs_league_builds_total",
			Help: "Number of league table computations",
		},
	)
)
