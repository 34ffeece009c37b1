package models

import "time"

type CheckType string

const (
	CheckPermit        CheckType = "permit"
	CheckCustomsEntry  CheckType = "customs_entry"
	CheckTax           CheckType = "tax_calculation"
	CheckEnvironmental CheckType = "environmental"
	CheckQuality       CheckType = "quality_standard"
	CheckSubsidy       CheckType = "subsidy_eligibility"
	// CheckSystemError only appears on degraded reports.
	CheckSystemError CheckType = "system_error"
)

// CheckOrder is the fixed order of results in a report.
var CheckOrder = [...]CheckType{
	CheckPermit,
	CheckCustomsEntry,
	CheckTax,
	CheckEnvironmental,
	CheckQuality,
	CheckSubsidy,
}

// Name is the human readable check name used in recommendations.
func (t CheckType) Name() string {
	switch t {
	case CheckPermit:
		return "NPA Permit Validation"
	case CheckCustomsEntry:
		return "Customs Entry Validation"
	case CheckTax:
		return "Tax Calculation"
	case CheckEnvironmental:
		return "Environmental Compliance"
	case CheckQuality:
		return "Quality Standards"
	case CheckSubsidy:
		return "Subsidy Eligibility"
	case CheckSystemError:
		return "Compliance System"
	default:
		return string(t)
	}
}

type CheckStatus string

const (
	StatusPassed        CheckStatus = "PASSED"
	StatusFailed        CheckStatus = "FAILED"
	StatusWarning       CheckStatus = "WARNING"
	StatusNotApplicable CheckStatus = "NOT_APPLICABLE"
)

// Canonical scores per status. WARNING scores are supplied by the domain.
const (
	ScorePassed        = 100
	ScoreFailed        = 0
	ScoreNotApplicable = 50
)

// CheckResult is the uniform outcome of one validation dimension.
type CheckResult struct {
	Type                 CheckType
	Name                 string
	Status               CheckStatus
	Score                int
	Details              string
	RemediationActions   []string
	Warnings             []string
	ExpiresAt            *time.Time
	CheckedAt            time.Time
	CheckedBy            string
	JurisdictionSpecific bool
}

// ExpiresWithin reports whether the result has an expiry inside window of now.
// Already expired results also count.
func (c CheckResult) ExpiresWithin(now time.Time, window time.Duration) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return c.ExpiresAt.Before(now.Add(window))
}
