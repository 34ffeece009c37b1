// Package tracer provides a lightweight tracing abstraction for the compliance engine.
//
// The interface does not depend on OpenTelemetry APIs directly, so the
// aggregator and authority clients can emit spans while tests run against
// the no-op implementation.
//
// Implementations:
//   - NoopTracer: for tests (zero overhead)
//   - OTelTracer: OpenTelemetry adapter for production
package tracer

import (
	"context"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span, marking it failed when err is non-nil.
	// End must be called exactly once, typically via defer.
	End(err error)

	SetAttributes(attrs ...Attribute)

	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a new span with the given name and attributes.
	// The returned context carries the span for child operations.
	//
	// Example:
	//   ctx, span := tracer.Start(ctx, tracer.SpanValidate,
	//       tracer.String(tracer.AttrDeliveryNumber, fact.DeliveryNumber),
	//   )
	//   defer span.End(nil)
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

func Float64(key string, value float64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names.
const (
	SpanValidate      = "compliance.validate"
	SpanCheck         = "compliance.check"
	SpanAuthorityCall = "compliance.authority.call"
)

// Attribute keys.
const (
	AttrDeliveryID     = "delivery.id"
	AttrDeliveryNumber = "delivery.number"
	AttrCheckType      = "check.type"
	AttrCheckStatus    = "check.status"
	AttrCheckScore     = "check.score"
	AttrAuthority      = "authority"
	AttrFailurePolicy  = "failure_policy"
	AttrErrorCategory  = "error.category"
	AttrScore          = "compliance.score"
	AttrCompliant      = "compliance.compliant"
	AttrDegraded       = "compliance.degraded"
)

// Event names.
const (
	EventPolicyApplied = "policy.applied"
	EventEmitted       = "event.emitted"
)
