package aggregator

import (
	"context"

	"fuelguard/internal/compliance/authorities/customs"
	"fuelguard/internal/compliance/authorities/environmental"
	"fuelguard/internal/compliance/authorities/permit"
	"fuelguard/internal/compliance/authorities/quality"
	"fuelguard/internal/compliance/authorities/subsidy"
	"fuelguard/internal/compliance/events"
	"fuelguard/internal/compliance/models"
	"fuelguard/internal/compliance/taxrules"

	"github.com/shopspring/decimal"
)

// PermitValidator queries the permit authority.
type PermitValidator interface {
	Validate(ctx context.Context, permitNumber string, product models.ProductType, quantity decimal.Decimal) (*permit.Judgement, error)
}

// CustomsValidator queries the customs authority.
type CustomsValidator interface {
	Validate(ctx context.Context, entryNumber string, product models.ProductType, quantity decimal.Decimal) (*customs.Judgement, error)
}

// EnvironmentalAssessor queries the environmental authority.
type EnvironmentalAssessor interface {
	Assess(ctx context.Context, product models.ProductType, quantity decimal.Decimal, location string) (*environmental.Judgement, error)
}

// QualityEvaluator compares certificate results against the standards table.
type QualityEvaluator interface {
	Evaluate(ctx context.Context, certificate string, product models.ProductType, results map[string]float64) (*quality.Judgement, error)
}

// SubsidyChecker queries the subsidy-eligibility authority.
type SubsidyChecker interface {
	Eligibility(ctx context.Context, customerID string, product models.ProductType, quantity decimal.Decimal) (*subsidy.Judgement, error)
}

// TaxEngine recomputes declared taxes. It never blocks.
type TaxEngine interface {
	Evaluate(f models.DeliveryFact) taxrules.Assessment
}

// EventPublisher receives one event per completed run.
type EventPublisher interface {
	Publish(ctx context.Context, e events.ValidationCompleted) error
}

// Authorities groups the authority clients consulted on every run. All are
// required.
type Authorities struct {
	Permit        PermitValidator
	Customs       CustomsValidator
	Environmental EnvironmentalAssessor
	Quality       QualityEvaluator
	Subsidy       SubsidyChecker
}
