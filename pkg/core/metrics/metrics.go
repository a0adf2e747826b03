package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics of the registration client
type Metrics struct {
	RemoteChecks        *prometheus.CounterVec
	RemoteCheckDuration *prometheus.HistogramVec
	StaleResponses      *prometheus.CounterVec
	SubmitAttempts      *prometheus.CounterVec
}

// New creates the metrics and registers them with reg.
// A nil reg registers nothing, which keeps tests and one-shot commands isolated.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RemoteChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "joyjoin_remote_checks_total",
			Help: "Remote field checks by endpoint and verdict",
		}, []string{"endpoint", "verdict"}),
		RemoteCheckDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "joyjoin_remote_check_duration_seconds",
			Help:    "Latency of remote field checks",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		StaleResponses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "joyjoin_stale_responses_total",
			Help: "Remote verdicts that arrived for a superseded field value",
		}, []string{"field"}),
		SubmitAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "joyjoin_submit_attempts_total",
			Help: "Submit attempts by outcome (forwarded, blocked)",
		}, []string{"outcome"}),
	}
}

// ObserveRemoteCheck records one finished remote check
func (m *Metrics) ObserveRemoteCheck(endpoint, verdict string, seconds float64) {
	if m == nil {
		return
	}
	m.RemoteChecks.WithLabelValues(endpoint, verdict).Inc()
	m.RemoteCheckDuration.WithLabelValues(endpoint).Observe(seconds)
}

// IncStaleResponse counts a discarded verdict for field
func (m *Metrics) IncStaleResponse(field string) {
	if m == nil {
		return
	}
	m.StaleResponses.WithLabelValues(field).Inc()
}

// IncSubmitAttempt counts a submit attempt
func (m *Metrics) IncSubmitAttempt(forwarded bool) {
	if m == nil {
		return
	}
	outcome := "blocked"
	if forwarded {
		outcome = "forwarded"
	}
	m.SubmitAttempts.WithLabelValues(outcome).Inc()
}
