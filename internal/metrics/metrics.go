// README: Prometheus collectors for downstream calls, token logins, replies and audit writes.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AirlineRequests counts airline API calls by endpoint and outcome
	// (ok, auth_failure, downstream_http, transport).
	AirlineRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "airchat_airline_requests_total",
		Help: "Airline API calls by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	AirlineRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "airchat_airline_request_duration_seconds",
		Help:    "Airline API call latency",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	TokenLogins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "airchat_token_logins_total",
		Help: "Airline login attempts made by the token cache",
	}, []string{"result"})

	ChatReplies = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "airchat_chat_replies_total",
		Help: "Chat replies by resolved action and outcome",
	}, []string{"action", "outcome"})

	AuditFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "airchat_audit_failures_total",
		Help: "Chat-log writes that failed and were dropped",
	}, []string{"sink"})
)

// ObserveAirlineCall records one finished airline API call.
func ObserveAirlineCall(endpoint, outcome string, took time.Duration) {
	AirlineRequests.WithLabelValues(endpoint, outcome).Inc()
	AirlineRequestDuration.WithLabelValues(endpoint).Observe(took.Seconds())
}
