package metrics_test

import (
	"testing"
	"time"

	"fuelguard/internal/compliance/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorders(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.ObserveValidation(metrics.OutcomeCompliant, 120*time.Millisecond)
	m.RecordCheck("permit", "PASSED")
	m.RecordCheck("permit", "PASSED")
	m.RecordAuthorityFailure("environmental", "timeout", "FAIL_OPEN")
	m.RecordBreakerTransition("customs", "open")
	m.RecordEventPublished()
	m.RecordEventDropped("buffer_full")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationsTotal.WithLabelValues(metrics.OutcomeCompliant)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CheckResultsTotal.WithLabelValues("permit", "PASSED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthorityFailuresTotal.WithLabelValues("environmental", "timeout", "FAIL_OPEN")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BreakerTransitions.WithLabelValues("customs", "open")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsPublishedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsDroppedTotal.WithLabelValues("buffer_full")))
}

func TestSeparateRegistriesDoNotCollide(t *testing.T) {
	assert.NotPanics(t, func() {
		metrics.New(prometheus.NewRegistry())
		metrics.New(prometheus.NewRegistry())
	})
}
