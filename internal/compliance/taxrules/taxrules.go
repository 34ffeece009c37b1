// Package taxrules recomputes the levies owed on a delivery and grades the
// variance against what was declared.
package taxrules

import (
	"fmt"

	"fuelguard/internal/compliance/models"

	"github.com/shopspring/decimal"
)

// Base selects the quantity a rate is applied to.
type Base int

const (
	// BaseValue applies the rate to the delivery's monetary value.
	BaseValue Base = iota
	// BaseQuantity applies the rate per litre delivered.
	BaseQuantity
)

func (b Base) String() string {
	if b == BaseQuantity {
		return "quantity"
	}
	return "value"
}

// Rule is one row of the levy schedule. Tolerance is a fraction of the
// computed amount.
type Rule struct {
	Base      Base
	Rate      decimal.Decimal
	Tolerance decimal.Decimal
}

// Schedule has exactly one rule per tax type.
type Schedule [models.NumTaxTypes]Rule

// DefaultSchedule is the statutory levy schedule. The price stabilization
// rate is zero until configured and the subsidy levy rate is per litre.
func DefaultSchedule() Schedule {
	return Schedule{
		models.TaxPetroleum:          {Base: BaseValue, Rate: decimal.RequireFromString("0.17"), Tolerance: decimal.RequireFromString("0.02")},
		models.TaxEnergyFund:         {Base: BaseValue, Rate: decimal.RequireFromString("0.05"), Tolerance: decimal.RequireFromString("0.02")},
		models.TaxRoadFund:           {Base: BaseValue, Rate: decimal.RequireFromString("0.18"), Tolerance: decimal.RequireFromString("0.02")},
		models.TaxPriceStabilization: {Base: BaseValue, Rate: decimal.Zero, Tolerance: decimal.RequireFromString("0.05")},
		models.TaxSubsidyLevy:        {Base: BaseQuantity, Rate: decimal.RequireFromString("0.16"), Tolerance: decimal.RequireFromString("0.01")},
	}
}

// WithRate returns a copy of s with t's rate replaced.
func (s Schedule) WithRate(t models.TaxType, rate decimal.Decimal) Schedule {
	s[t].Rate = rate
	return s
}

var (
	thresholdCritical = decimal.RequireFromString("0.10")
	thresholdHigh     = decimal.RequireFromString("0.05")
	thresholdMedium   = decimal.RequireFromString("0.02")
	hundred           = decimal.NewFromInt(100)
)

// Classify grades a variance fraction that is already outside tolerance.
func Classify(variancePct decimal.Decimal) models.Severity {
	switch {
	case variancePct.GreaterThan(thresholdCritical):
		return models.SeverityCritical
	case variancePct.GreaterThan(thresholdHigh):
		return models.SeverityHigh
	case variancePct.GreaterThan(thresholdMedium):
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

// Line is the recomputation of one tax.
type Line struct {
	Tax             models.TaxType
	Base            decimal.Decimal
	Computed        decimal.Decimal
	Declared        decimal.Decimal
	Variance        decimal.Decimal
	VariancePct     decimal.Decimal
	WithinTolerance bool
}

// Assessment is the outcome of evaluating every tax on a delivery.
type Assessment struct {
	Lines         [models.NumTaxTypes]Line
	Discrepancies []models.TaxDiscrepancy
	// Score starts at 100 and loses each discrepancy's severity penalty,
	// floored at 0.
	Score int
}

// Passed reports whether every declared amount was within tolerance.
func (a Assessment) Passed() bool {
	return len(a.Discrepancies) == 0
}

type Engine struct {
	schedule Schedule
}

type Option func(*Engine)

func WithSchedule(s Schedule) Option {
	return func(e *Engine) {
		e.schedule = s
	}
}

func New(opts ...Option) *Engine {
	e := &Engine{schedule: DefaultSchedule()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Schedule() Schedule {
	return e.schedule
}

// Evaluate recomputes all taxes on f. It is pure and safe for concurrent use.
func (e *Engine) Evaluate(f models.DeliveryFact) Assessment {
	a := Assessment{Score: models.ScorePassed}
	for _, t := range models.AllTaxTypes() {
		line := e.line(t, f)
		a.Lines[t] = line
		if line.WithinTolerance {
			continue
		}
		severity := Classify(line.VariancePct)
		a.Discrepancies = append(a.Discrepancies, discrepancy(line, severity))
		a.Score -= severity.Penalty()
	}
	if a.Score < 0 {
		a.Score = 0
	}
	return a
}

func (e *Engine) line(t models.TaxType, f models.DeliveryFact) Line {
	rule := e.schedule[t]
	base := f.TotalValue
	if rule.Base == BaseQuantity {
		base = f.Quantity
	}

	computed := base.Mul(rule.Rate)
	declared := f.DeclaredTaxes.Amount(t)
	variance := declared.Sub(computed)

	pct := decimal.Zero
	if !computed.IsZero() {
		pct = variance.Abs().Div(computed)
	}

	return Line{
		Tax:             t,
		Base:            base,
		Computed:        computed,
		Declared:        declared,
		Variance:        variance,
		VariancePct:     pct,
		WithinTolerance: pct.LessThanOrEqual(rule.Tolerance),
	}
}

func discrepancy(l Line, severity models.Severity) models.TaxDiscrepancy {
	direction := "over"
	if l.Variance.IsNegative() {
		direction = "under"
	}
	return models.TaxDiscrepancy{
		TaxType:     l.Tax,
		Expected:    l.Computed,
		Actual:      l.Declared,
		Variance:    l.Variance,
		VariancePct: l.VariancePct,
		Severity:    severity,
		Explanation: fmt.Sprintf("%s %s-declared: declared %s, computed %s (%s%% variance)",
			l.Tax.Label(), direction, l.Declared.StringFixed(2), l.Computed.StringFixed(2),
			l.VariancePct.Mul(hundred).StringFixed(2)),
		SuggestedCorrection: fmt.Sprintf("Amend declared %s to %s",
			l.Tax.Label(), l.Computed.StringFixed(2)),
	}
}
