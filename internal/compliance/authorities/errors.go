// Package authorities holds what the external authority clients share: the
// failure taxonomy and the per-authority failure policy.
package authorities

import (
	"context"
	"errors"
	"fmt"
)

// ErrorCategory normalizes authority failures regardless of protocol.
type ErrorCategory string

const (
	ErrorTimeout          ErrorCategory = "timeout"
	ErrorBadData          ErrorCategory = "bad_data"
	ErrorAuthentication   ErrorCategory = "authentication"
	ErrorAuthorityOutage  ErrorCategory = "authority_outage"
	ErrorContractMismatch ErrorCategory = "contract_mismatch"
	ErrorNotFound         ErrorCategory = "not_found"
	ErrorRateLimited      ErrorCategory = "rate_limited"
	ErrorCircuitOpen      ErrorCategory = "circuit_open"
	ErrorCanceled         ErrorCategory = "canceled"
	ErrorInternal         ErrorCategory = "internal"
)

// Error is a categorized authority failure. It never escapes the aggregator:
// the failure policy turns it into a check result.
type Error struct {
	Category   ErrorCategory
	Authority  string
	Message    string
	Underlying error
	// Transient failures (timeout, outage, rate limit, open circuit) may
	// succeed on a later run.
	Transient bool
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("authority %s [%s]: %s: %v", e.Authority, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("authority %s [%s]: %s", e.Authority, e.Category, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

func NewError(category ErrorCategory, authority, message string, underlying error) *Error {
	return &Error{
		Category:   category,
		Authority:  authority,
		Message:    message,
		Underlying: underlying,
		Transient: category == ErrorTimeout ||
			category == ErrorAuthorityOutage ||
			category == ErrorRateLimited ||
			category == ErrorCircuitOpen,
	}
}

// CategoryOf classifies any error. Context errors map to timeout or
// canceled; anything else unknown is internal.
func CategoryOf(err error) ErrorCategory {
	var ae *Error
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ae):
		return ae.Category
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorTimeout
	case errors.Is(err, context.Canceled):
		return ErrorCanceled
	default:
		return ErrorInternal
	}
}

func IsTransient(err error) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Transient
	}
	return errors.Is(err, context.DeadlineExceeded)
}
