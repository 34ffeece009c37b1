package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TaxType enumerates the levies recomputed for every delivery.
type TaxType int

const (
	TaxPetroleum TaxType = iota
	TaxEnergyFund
	TaxRoadFund
	TaxPriceStabilization
	TaxSubsidyLevy

	// NumTaxTypes sizes per-tax tables.
	NumTaxTypes
)

var taxTypeNames = [NumTaxTypes]string{
	TaxPetroleum:          "petroleum_tax",
	TaxEnergyFund:         "energy_fund_levy",
	TaxRoadFund:           "road_fund_levy",
	TaxPriceStabilization: "price_stabilization_levy",
	TaxSubsidyLevy:        "subsidy_levy",
}

var taxTypeLabels = [NumTaxTypes]string{
	TaxPetroleum:          "Petroleum tax",
	TaxEnergyFund:         "Energy fund levy",
	TaxRoadFund:           "Road fund levy",
	TaxPriceStabilization: "Price stabilization levy",
	TaxSubsidyLevy:        "Subsidy-fund levy",
}

func (t TaxType) String() string {
	if t < 0 || t >= NumTaxTypes {
		return fmt.Sprintf("tax_type(%d)", int(t))
	}
	return taxTypeNames[t]
}

// Label is the human readable tax name.
func (t TaxType) Label() string {
	if t < 0 || t >= NumTaxTypes {
		return t.String()
	}
	return taxTypeLabels[t]
}

// AllTaxTypes lists tax types in evaluation order.
func AllTaxTypes() []TaxType {
	out := make([]TaxType, NumTaxTypes)
	for i := range out {
		out[i] = TaxType(i)
	}
	return out
}

// Severity grades a tax variance. Values are strictly ordered.
type Severity int

const (
	SeverityLow Severity = iota + 1
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Penalty is the number of points a discrepancy of this severity removes
// from the tax sub-score.
func (s Severity) Penalty() int {
	switch s {
	case SeverityCritical:
		return 25
	case SeverityHigh:
		return 15
	case SeverityMedium:
		return 10
	case SeverityLow:
		return 5
	default:
		return 0
	}
}

// TaxDiscrepancy records one tax whose declared amount falls outside tolerance.
type TaxDiscrepancy struct {
	TaxType             TaxType
	Expected            decimal.Decimal
	Actual              decimal.Decimal
	Variance            decimal.Decimal
	VariancePct         decimal.Decimal
	Severity            Severity
	Explanation         string
	SuggestedCorrection string
}
