// Package metrics provides Prometheus metrics for compliance validation runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Validation outcomes.
const (
	OutcomeCompliant    = "compliant"
	OutcomeNonCompliant = "non_compliant"
	OutcomeDegraded     = "degraded"
	OutcomeCanceled     = "canceled"
	OutcomeInvalid      = "invalid_input"
)

type Metrics struct {
	ValidationsTotal       *prometheus.CounterVec   // runs by outcome
	ValidationDuration     prometheus.Histogram     // end to end run latency
	ComplianceScore        prometheus.Histogram     // distribution of report scores
	CheckResultsTotal      *prometheus.CounterVec   // results by check type and status
	AuthorityCallDuration  *prometheus.HistogramVec // outbound latency by authority
	AuthorityFailuresTotal *prometheus.CounterVec   // failures by authority, category and policy
	BreakerTransitions     *prometheus.CounterVec   // circuit state changes by authority
	EventsPublishedTotal   prometheus.Counter
	EventsDroppedTotal     *prometheus.CounterVec // dropped events by reason
}

// New registers the metrics with reg, or the default registerer when nil.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		ValidationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fuelguard_validations_total",
			Help: "Compliance validation runs by outcome",
		}, []string{"outcome"}),
		ValidationDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "fuelguard_validation_duration_seconds",
			Help:    "End to end duration of compliance validation runs",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 35},
		}),
		ComplianceScore: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "fuelguard_compliance_score",
			Help:    "Distribution of compliance scores",
			Buckets: []float64{0, 25, 50, 70, 85, 90, 95, 100},
		}),
		CheckResultsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fuelguard_check_results_total",
			Help: "Check results by check type and status",
		}, []string{"check_type", "status"}),
		AuthorityCallDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fuelguard_authority_call_duration_seconds",
			Help:    "Latency of authority checks",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 15, 30},
		}, []string{"authority"}),
		AuthorityFailuresTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fuelguard_authority_failures_total",
			Help: "Authority failures by category and the failure policy applied",
		}, []string{"authority", "category", "policy"}),
		BreakerTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fuelguard_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions by authority",
		}, []string{"authority", "state"}),
		EventsPublishedTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "fuelguard_events_published_total",
			Help: "Validation completed events delivered to the sink",
		}),
		EventsDroppedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fuelguard_events_dropped_total",
			Help: "Validation completed events that could not be delivered",
		}, []string{"reason"}),
	}
}

func (m *Metrics) ObserveValidation(outcome string, d time.Duration) {
	m.ValidationsTotal.WithLabelValues(outcome).Inc()
	m.ValidationDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveScore(score float64) {
	m.ComplianceScore.Observe(score)
}

func (m *Metrics) RecordCheck(checkType, status string) {
	m.CheckResultsTotal.WithLabelValues(checkType, status).Inc()
}

func (m *Metrics) ObserveAuthorityCall(authority string, d time.Duration) {
	m.AuthorityCallDuration.WithLabelValues(authority).Observe(d.Seconds())
}

func (m *Metrics) RecordAuthorityFailure(authority, category, policy string) {
	m.AuthorityFailuresTotal.WithLabelValues(authority, category, policy).Inc()
}

func (m *Metrics) RecordBreakerTransition(authority, state string) {
	m.BreakerTransitions.WithLabelValues(authority, state).Inc()
}

func (m *Metrics) RecordEventPublished() {
	m.EventsPublishedTotal.Inc()
}

func (m *Metrics) RecordEventDropped(reason string) {
	m.EventsDroppedTotal.WithLabelValues(reason).Inc()
}
