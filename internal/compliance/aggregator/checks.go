package aggregator

import (
	"context"
	"fmt"
	"time"

	"fuelguard/internal/compliance/authorities"
	"fuelguard/internal/compliance/models"
	"fuelguard/internal/compliance/normalizer"
	"fuelguard/internal/platform/tracer"

	"golang.org/x/sync/errgroup"
)

// Identifiers recorded in missingDocuments when a check cannot be attempted.
const (
	DocPermitNumber       = "NPA Permit Number"
	DocCustomsEntry       = "Customs Entry Number"
	DocQualityCertificate = "Quality Certificate"
	DocCustomerID         = "Customer ID"
)

// Authority labels used in logs, metrics and spans.
const (
	authorityPermit        = "permit"
	authorityCustoms       = "customs"
	authorityTax           = "tax"
	authorityEnvironmental = "environmental"
	authorityQuality       = "quality"
	authoritySubsidy       = "subsidy"
)

// gathered holds one isolated slot per check in models.CheckOrder. Each
// goroutine writes only to its own slot.
type gathered struct {
	results       [len(models.CheckOrder)]models.CheckResult
	discrepancies []models.TaxDiscrepancy
}

const (
	slotPermit = iota
	slotCustoms
	slotTax
	slotEnvironmental
	slotQuality
	slotSubsidy
)

// missingDocuments lists absent identifiers in check order.
func missingDocuments(fact models.DeliveryFact) []string {
	var missing []string
	if fact.PermitNumber == "" {
		missing = append(missing, DocPermitNumber)
	}
	if fact.CustomsEntryNumber == "" {
		missing = append(missing, DocCustomsEntry)
	}
	if fact.QualityCertificate == "" {
		missing = append(missing, DocQualityCertificate)
	}
	if fact.CustomerID == "" {
		missing = append(missing, DocCustomerID)
	}
	return missing
}

// gather dispatches every applicable check concurrently and joins them.
// Checks whose identifier is absent are filled in without a call. It returns
// early when ctx ends, leaving late goroutines to write slots nobody reads.
func (s *Service) gather(ctx context.Context, fact models.DeliveryFact, missing []string, at time.Time) (*gathered, error) {
	g, gctx := errgroup.WithContext(ctx)
	result := &gathered{}

	if fact.PermitNumber == "" {
		result.results[slotPermit] = normalizer.Missing(models.CheckPermit, DocPermitNumber, at)
	} else {
		s.consult(gctx, g, &result.results[slotPermit], models.CheckPermit, authorityPermit, s.policies.Permit, at,
			func(ctx context.Context) (models.CheckResult, error) {
				j, err := s.authorities.Permit.Validate(ctx, fact.PermitNumber, fact.ProductType, fact.Quantity)
				if err != nil {
					return models.CheckResult{}, err
				}
				return normalizer.Permit(j, at), nil
			})
	}

	if fact.CustomsEntryNumber == "" {
		result.results[slotCustoms] = normalizer.Missing(models.CheckCustomsEntry, DocCustomsEntry, at)
	} else {
		s.consult(gctx, g, &result.results[slotCustoms], models.CheckCustomsEntry, authorityCustoms, s.policies.Customs, at,
			func(ctx context.Context) (models.CheckResult, error) {
				j, err := s.authorities.Customs.Validate(ctx, fact.CustomsEntryNumber, fact.ProductType, fact.Quantity)
				if err != nil {
					return models.CheckResult{}, err
				}
				return normalizer.Customs(j, at), nil
			})
	}

	s.assessTax(gctx, g, result, fact, at)

	s.consult(gctx, g, &result.results[slotEnvironmental], models.CheckEnvironmental, authorityEnvironmental, s.policies.Environmental, at,
		func(ctx context.Context) (models.CheckResult, error) {
			j, err := s.authorities.Environmental.Assess(ctx, fact.ProductType, fact.Quantity, fact.DeliveryLocation)
			if err != nil {
				return models.CheckResult{}, err
			}
			return normalizer.Environmental(j, at), nil
		})

	if fact.QualityCertificate == "" {
		result.results[slotQuality] = normalizer.Missing(models.CheckQuality, DocQualityCertificate, at)
	} else {
		s.consult(gctx, g, &result.results[slotQuality], models.CheckQuality, authorityQuality, s.policies.Quality, at,
			func(ctx context.Context) (models.CheckResult, error) {
				j, err := s.authorities.Quality.Evaluate(ctx, fact.QualityCertificate, fact.ProductType, fact.QualityResults)
				if err != nil {
					return models.CheckResult{}, err
				}
				return normalizer.Quality(j, at), nil
			})
	}

	if fact.CustomerID == "" {
		result.results[slotSubsidy] = normalizer.Missing(models.CheckSubsidy, DocCustomerID, at)
	} else {
		s.consult(gctx, g, &result.results[slotSubsidy], models.CheckSubsidy, authoritySubsidy, s.policies.Subsidy, at,
			func(ctx context.Context) (models.CheckResult, error) {
				j, err := s.authorities.Subsidy.Eligibility(ctx, fact.CustomerID, fact.ProductType, fact.Quantity)
				if err != nil {
					return models.CheckResult{}, err
				}
				return normalizer.Subsidy(j, at), nil
			})
	}

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
	}()

	select {
	case err := <-done:
		return result, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// consult runs one authority-backed check under its policy timeout. An
// authority error is folded into a result by the policy and never returned;
// only a panic fails the group.
func (s *Service) consult(
	ctx context.Context,
	g *errgroup.Group,
	slot *models.CheckResult,
	check models.CheckType,
	authority string,
	policy authorities.Policy,
	at time.Time,
	call func(ctx context.Context) (models.CheckResult, error),
) {
	g.Go(func() (err error) {
		ctx, span := s.tracer.Start(ctx, tracer.SpanCheck,
			tracer.String(tracer.AttrCheckType, string(check)),
			tracer.String(tracer.AttrAuthority, authority),
			tracer.String(tracer.AttrFailurePolicy, string(policy.Mode)),
		)
		var callErr error
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s check panicked: %v", check, r)
				span.End(err)
				return
			}
			span.End(callErr)
		}()

		callCtx, cancel := context.WithTimeout(ctx, policy.Timeout)
		defer cancel()

		start := time.Now()
		result, callErr := call(callCtx)
		if s.metrics != nil {
			s.metrics.ObserveAuthorityCall(authority, time.Since(start))
		}
		if callErr != nil {
			result = s.applyPolicy(ctx, span, check, authority, policy, callErr, at)
		}

		span.SetAttributes(
			tracer.String(tracer.AttrCheckStatus, string(result.Status)),
			tracer.Int64(tracer.AttrCheckScore, int64(result.Score)),
		)
		*slot = result
		return nil
	})
}

func (s *Service) applyPolicy(
	ctx context.Context,
	span tracer.Span,
	check models.CheckType,
	authority string,
	policy authorities.Policy,
	callErr error,
	at time.Time,
) models.CheckResult {
	category := string(authorities.CategoryOf(callErr))
	s.logger.WarnContext(ctx, "authority unavailable, applying failure policy",
		"authority", authority,
		"check", string(check),
		"category", category,
		"policy", string(policy.Mode),
		"error", callErr,
	)
	if s.metrics != nil {
		s.metrics.RecordAuthorityFailure(authority, category, string(policy.Mode))
	}
	span.AddEvent(tracer.EventPolicyApplied,
		tracer.String(tracer.AttrErrorCategory, category),
		tracer.String(tracer.AttrFailurePolicy, string(policy.Mode)),
	)
	return normalizer.Unavailable(check, policy, callErr, at)
}

// assessTax runs the in-process tax engine alongside the authority calls.
func (s *Service) assessTax(ctx context.Context, g *errgroup.Group, result *gathered, fact models.DeliveryFact, at time.Time) {
	g.Go(func() (err error) {
		_, span := s.tracer.Start(ctx, tracer.SpanCheck,
			tracer.String(tracer.AttrCheckType, string(models.CheckTax)),
			tracer.String(tracer.AttrAuthority, authorityTax),
		)
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s check panicked: %v", models.CheckTax, r)
			}
			span.End(err)
		}()

		assessment := s.tax.Evaluate(fact)
		r := normalizer.Tax(assessment, at)
		span.SetAttributes(
			tracer.String(tracer.AttrCheckStatus, string(r.Status)),
			tracer.Int64(tracer.AttrCheckScore, int64(r.Score)),
		)
		result.results[slotTax] = r
		result.discrepancies = assessment.Discrepancies
		return nil
	})
}
