package circuit_test

import (
	"testing"
	"time"

	"fuelguard/pkg/platform/circuit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type BreakerSuite struct {
	suite.Suite
	now     time.Time
	changes []circuit.State
	breaker *circuit.Breaker
}

func TestBreakerSuite(t *testing.T) {
	suite.Run(t, new(BreakerSuite))
}

func (s *BreakerSuite) SetupTest() {
	s.now = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.changes = nil
	s.breaker = circuit.New("permit",
		circuit.WithFailureThreshold(2),
		circuit.WithCooldown(time.Minute),
		circuit.WithClock(func() time.Time { return s.now }),
		circuit.WithStateChange(func(_ string, _, to circuit.State) { s.changes = append(s.changes, to) }),
	)
}

func (s *BreakerSuite) TestOpensAfterThreshold() {
	s.True(s.breaker.Allow())
	s.breaker.RecordFailure()
	s.Equal(circuit.StateClosed, s.breaker.State())
	s.breaker.RecordFailure()
	s.Equal(circuit.StateOpen, s.breaker.State())
	s.False(s.breaker.Allow())
}

func (s *BreakerSuite) TestSuccessResetsFailureCount() {
	s.breaker.RecordFailure()
	s.breaker.RecordSuccess()
	s.breaker.RecordFailure()
	s.Equal(circuit.StateClosed, s.breaker.State())
}

func (s *BreakerSuite) TestHalfOpenTrial() {
	s.breaker.RecordFailure()
	s.breaker.RecordFailure()

	s.now = s.now.Add(time.Minute)
	s.True(s.breaker.Allow())
	s.Equal(circuit.StateHalfOpen, s.breaker.State())
	s.False(s.breaker.Allow(), "only one trial while half-open")

	s.breaker.RecordFailure()
	s.Equal(circuit.StateOpen, s.breaker.State())

	s.now = s.now.Add(time.Minute)
	s.True(s.breaker.Allow())
	s.breaker.RecordSuccess()
	s.Equal(circuit.StateClosed, s.breaker.State())

	s.Equal([]circuit.State{
		circuit.StateOpen, circuit.StateHalfOpen, circuit.StateOpen, circuit.StateHalfOpen, circuit.StateClosed,
	}, s.changes)
}

func (s *BreakerSuite) TestAbortedTrialReleasesSlot() {
	s.breaker.RecordFailure()
	s.breaker.RecordFailure()

	s.now = s.now.Add(time.Minute)
	s.True(s.breaker.Allow())
	s.breaker.Abort()
	s.Equal(circuit.StateHalfOpen, s.breaker.State())

	s.now = s.now.Add(time.Hour)
	s.True(s.breaker.Allow(), "next caller gets the trial")
	s.False(s.breaker.Allow())
	s.breaker.RecordSuccess()
	s.Equal(circuit.StateClosed, s.breaker.State())
	s.True(s.breaker.Allow())
}

func (s *BreakerSuite) TestAbortWhileClosedKeepsState() {
	s.breaker.RecordFailure()
	s.breaker.Abort()
	s.breaker.RecordFailure()
	s.Equal(circuit.StateOpen, s.breaker.State(), "abort does not reset the failure count")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", circuit.StateClosed.String())
	assert.Equal(t, "open", circuit.StateOpen.String())
	assert.Equal(t, "half_open", circuit.StateHalfOpen.String())
}
