// Package quality evaluates certificate measurements against the in-process
// product specification table of a jurisdiction.
package quality

import (
	"context"
	"fmt"
	"strings"

	"fuelguard/internal/compliance/models"
)

type ParameterResult struct {
	Parameter Parameter
	Measured  *float64
	Conforms  bool
}

type Judgement struct {
	Certificate  string
	Jurisdiction string
	Version      string
	// HasStandard is false when the jurisdiction has no specification for
	// the product.
	HasStandard bool
	Parameters  []ParameterResult
	// CriticalFailure is set when a critical parameter is out of spec.
	CriticalFailure bool

	Errors   []string
	Warnings []string
}

// IsValid reports whether every specified parameter was measured in spec.
func (j Judgement) IsValid() bool {
	return j.HasStandard && len(j.Errors) == 0 && len(j.Warnings) == 0
}

type Evaluator struct {
	standard Standard
}

// New selects the standard for jurisdiction from tables.
func New(jurisdiction string, tables map[string]Standard) (*Evaluator, error) {
	s, ok := tables[strings.ToUpper(jurisdiction)]
	if !ok {
		return nil, fmt.Errorf("no quality standard for jurisdiction %q", jurisdiction)
	}
	return &Evaluator{standard: s}, nil
}

// NewDefault uses the embedded tables.
func NewDefault(jurisdiction string) (*Evaluator, error) {
	tables, err := DefaultStandards()
	if err != nil {
		return nil, err
	}
	return New(jurisdiction, tables)
}

func (e *Evaluator) Standard() Standard {
	return e.standard
}

// Evaluate compares measured results against the product's specification.
// Parameters missing from results are reported as warnings.
func (e *Evaluator) Evaluate(ctx context.Context, certificate string, product models.ProductType, results map[string]float64) (*Judgement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	j := &Judgement{
		Certificate:  certificate,
		Jurisdiction: e.standard.Jurisdiction,
		Version:      e.standard.Version,
	}
	params, ok := e.standard.Products[product.String()]
	if !ok || len(params) == 0 {
		return j, nil
	}
	j.HasStandard = true

	for _, p := range params {
		pr := ParameterResult{Parameter: p}
		v, measured := results[p.Name]
		if !measured {
			j.Warnings = append(j.Warnings, fmt.Sprintf("%s not reported on certificate (%s)", p.Name, p.TestMethod))
			j.Parameters = append(j.Parameters, pr)
			continue
		}
		pr.Measured = &v
		pr.Conforms = p.Within(v)
		j.Parameters = append(j.Parameters, pr)
		if pr.Conforms {
			continue
		}

		msg := fmt.Sprintf("%s measured %g, specification %s (%s)", p.Name, v, p.Spec(), p.TestMethod)
		if p.Critical {
			j.CriticalFailure = true
			j.Errors = append(j.Errors, msg)
		} else {
			j.Warnings = append(j.Warnings, msg)
		}
	}
	return j, nil
}
