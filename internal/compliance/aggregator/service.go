// Package aggregator runs every compliance check for one delivery and
// reduces the results into a ComplianceReport.
package aggregator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fuelguard/internal/compliance/authorities"
	"fuelguard/internal/compliance/events"
	"fuelguard/internal/compliance/metrics"
	"fuelguard/internal/compliance/models"
	"fuelguard/internal/platform/privacy"
	"fuelguard/internal/platform/tracer"
	dErrors "fuelguard/pkg/domain-errors"
)

// runDeadlineMargin is added to the slowest policy timeout when no run
// deadline is configured.
const runDeadlineMargin = 5 * time.Second

// Service is stateless between runs and safe for concurrent use.
type Service struct {
	authorities Authorities
	tax         TaxEngine
	policies    authorities.Policies
	runDeadline time.Duration
	publisher   EventPublisher
	metrics     *metrics.Metrics
	logger      *slog.Logger
	tracer      tracer.Tracer
	now         func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithPolicies replaces the default failure policies.
func WithPolicies(p authorities.Policies) Option {
	return func(s *Service) {
		s.policies = p
	}
}

// WithRunDeadline bounds a whole run. Breaching it yields a degraded report.
func WithRunDeadline(d time.Duration) Option {
	return func(s *Service) {
		s.runDeadline = d
	}
}

// WithPublisher sets where validation completed events are emitted.
func WithPublisher(p EventPublisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithClock overrides the time source used for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates the aggregator. Panics if a required dependency is nil or the
// policies are inconsistent - fail fast at startup.
func New(auth Authorities, tax TaxEngine, opts ...Option) *Service {
	switch {
	case auth.Permit == nil:
		panic("aggregator.New: permit validator is required")
	case auth.Customs == nil:
		panic("aggregator.New: customs validator is required")
	case auth.Environmental == nil:
		panic("aggregator.New: environmental assessor is required")
	case auth.Quality == nil:
		panic("aggregator.New: quality evaluator is required")
	case auth.Subsidy == nil:
		panic("aggregator.New: subsidy checker is required")
	case tax == nil:
		panic("aggregator.New: tax engine is required")
	}

	s := &Service{
		authorities: auth,
		tax:         tax,
		policies:    authorities.DefaultPolicies(),
		logger:      slog.Default(),
		tracer:      tracer.NewNoop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.policies.Validate(); err != nil {
		panic("aggregator.New: " + err.Error())
	}
	if s.runDeadline <= 0 {
		s.runDeadline = s.policies.Slowest() + runDeadlineMargin
	}
	return s
}

// Validate runs all checks for fact and returns its report.
//
// Business non-compliance is returned as data. Authority failures are folded
// into check results by their failure policy. A breached run deadline or an
// internal fault yields a degraded report. The only errors are an invalid
// fact (CodeInvalidInput) and caller cancellation (CodeCanceled), in which
// case no report is produced and no event is emitted.
func (s *Service) Validate(ctx context.Context, fact models.DeliveryFact) (*models.ComplianceReport, error) {
	start := time.Now()
	if err := fact.Validate(); err != nil {
		s.observeOutcome(metrics.OutcomeInvalid, start)
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, tracer.SpanValidate,
		tracer.String(tracer.AttrDeliveryID, fact.DeliveryID.String()),
		tracer.String(tracer.AttrDeliveryNumber, fact.DeliveryNumber),
	)

	at := s.now()
	report, err := s.run(ctx, fact, at)
	if err != nil {
		span.End(err)
		s.observeOutcome(metrics.OutcomeCanceled, start)
		s.logger.InfoContext(ctx, "compliance validation canceled",
			"delivery_number", fact.DeliveryNumber,
			"error", err,
		)
		return nil, err
	}

	span.SetAttributes(
		tracer.Float64(tracer.AttrScore, report.ComplianceScore),
		tracer.Bool(tracer.AttrCompliant, report.IsCompliant),
		tracer.Bool(tracer.AttrDegraded, report.Degraded),
	)
	s.emit(ctx, span, report, at)
	span.End(nil)

	s.observeReport(report, start)
	s.logger.InfoContext(ctx, "compliance validation completed",
		"delivery_number", report.DeliveryNumber,
		"compliant", report.IsCompliant,
		"score", report.ComplianceScore,
		"degraded", report.Degraded,
		"missing_documents", len(report.MissingDocuments),
		"permit_number", privacy.MaskIdentifier(fact.PermitNumber),
		"customer_id", privacy.MaskIdentifier(fact.CustomerID),
	)
	return &report, nil
}

// run gathers the check results under the run deadline and reduces them.
func (s *Service) run(ctx context.Context, fact models.DeliveryFact, at time.Time) (models.ComplianceReport, error) {
	runCtx, cancel := context.WithTimeout(ctx, s.runDeadline)
	defer cancel()

	missing := missingDocuments(fact)
	gathered, runErr := s.gather(runCtx, fact, missing, at)

	// Caller cancellation wins over everything: partial results are never
	// reported.
	if err := ctx.Err(); err != nil {
		return models.ComplianceReport{}, dErrors.Wrap(err, dErrors.CodeCanceled, "validation canceled")
	}
	if runErr == nil && runCtx.Err() != nil {
		runErr = errRunDeadline
	}
	if runErr != nil {
		return s.degraded(ctx, fact, missing, runErr, at), nil
	}

	report, err := s.reduceSafely(fact, gathered, missing, at)
	if err != nil {
		return s.degraded(ctx, fact, missing, err, at), nil
	}
	return report, nil
}

var errRunDeadline = errors.New("validation run deadline exceeded")

// degraded stands in for a run the engine could not complete.
func (s *Service) degraded(ctx context.Context, fact models.DeliveryFact, missing []string, cause error, at time.Time) models.ComplianceReport {
	s.logger.ErrorContext(ctx, "compliance validation degraded",
		"delivery_number", fact.DeliveryNumber,
		"error", cause,
	)
	return degradedReport(fact, missing, cause, at)
}

// emit publishes the completion event. Failures never alter the report.
func (s *Service) emit(ctx context.Context, span tracer.Span, report models.ComplianceReport, at time.Time) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewValidationCompleted(report, at)); err != nil {
		s.logger.WarnContext(ctx, "failed to emit validation completed event",
			"delivery_number", report.DeliveryNumber,
			"error", err,
		)
		return
	}
	span.AddEvent(tracer.EventEmitted)
}

func (s *Service) observeOutcome(outcome string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveValidation(outcome, time.Since(start))
	}
}

func (s *Service) observeReport(report models.ComplianceReport, start time.Time) {
	if s.metrics == nil {
		return
	}
	outcome := metrics.OutcomeNonCompliant
	switch {
	case report.Degraded:
		outcome = metrics.OutcomeDegraded
	case report.IsCompliant:
		outcome = metrics.OutcomeCompliant
	}
	s.metrics.ObserveValidation(outcome, time.Since(start))
	s.metrics.ObserveScore(report.ComplianceScore)
	for _, r := range report.ValidationResults {
		s.metrics.RecordCheck(string(r.Type), string(r.Status))
	}
}
