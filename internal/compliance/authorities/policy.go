package authorities

import (
	"fmt"
	"time"
)

// FailureMode decides how an unreachable authority affects a check.
type FailureMode string

const (
	// FailClosed reports the check as FAILED with score 0.
	FailClosed FailureMode = "FAIL_CLOSED"
	// FailOpen reports the check as WARNING with the policy's default score.
	FailOpen FailureMode = "FAIL_OPEN"
)

// Policy is the failure contract of one authority client.
type Policy struct {
	Mode    FailureMode
	Timeout time.Duration
	// DefaultScore is reported on fail-open. Ignored when failing closed.
	DefaultScore int
}

func (p Policy) Validate() error {
	if p.Mode != FailClosed && p.Mode != FailOpen {
		return fmt.Errorf("unknown failure mode %q", p.Mode)
	}
	if p.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", p.Timeout)
	}
	if p.DefaultScore < 0 || p.DefaultScore > 100 {
		return fmt.Errorf("default score %d out of range 0-100", p.DefaultScore)
	}
	return nil
}

// Policies binds a policy to every authority-backed check.
type Policies struct {
	Permit        Policy
	Customs       Policy
	Environmental Policy
	Quality       Policy
	Subsidy       Policy
}

// DefaultPolicies keeps regulatory and fiscal gating fail-closed and
// advisory scoring fail-open.
func DefaultPolicies() Policies {
	return Policies{
		Permit:        Policy{Mode: FailClosed, Timeout: 30 * time.Second},
		Customs:       Policy{Mode: FailClosed, Timeout: 30 * time.Second},
		Environmental: Policy{Mode: FailOpen, Timeout: 15 * time.Second, DefaultScore: 70},
		Quality:       Policy{Mode: FailOpen, Timeout: 15 * time.Second, DefaultScore: 75},
		Subsidy:       Policy{Mode: FailOpen, Timeout: 15 * time.Second, DefaultScore: 70},
	}
}

// Slowest returns the longest timeout across all policies.
func (p Policies) Slowest() time.Duration {
	slowest := p.Permit.Timeout
	for _, t := range []time.Duration{p.Customs.Timeout, p.Environmental.Timeout, p.Quality.Timeout, p.Subsidy.Timeout} {
		slowest = max(slowest, t)
	}
	return slowest
}

func (p Policies) Validate() error {
	for _, named := range []struct {
		name   string
		policy Policy
	}{
		{"permit", p.Permit},
		{"customs", p.Customs},
		{"environmental", p.Environmental},
		{"quality", p.Quality},
		{"subsidy", p.Subsidy},
	} {
		if err := named.policy.Validate(); err != nil {
			return fmt.Errorf("%s policy: %w", named.name, err)
		}
	}
	return nil
}
