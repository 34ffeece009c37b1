package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	// MinCompliantScore is the lowest score a compliant report may carry.
	MinCompliantScore = 85.0

	// SystemErrorCorrection marks a report produced because the engine
	// itself failed rather than because of a regulatory finding.
	SystemErrorCorrection = "manual compliance review required"

	RevalidationInterval  = 90 * 24 * time.Hour
	ExpiryWarningWindow   = 30 * 24 * time.Hour
	RenewalReminderWindow = 60 * 24 * time.Hour
)

type OverallCertification string

const (
	CertificationValid        OverallCertification = "VALID"
	CertificationExpiringSoon OverallCertification = "EXPIRING_SOON"
	CertificationInvalid      OverallCertification = "INVALID"
)

// DimensionStatus is the certification view of one gating dimension.
type DimensionStatus struct {
	Valid     bool
	ExpiresAt *time.Time
}

type CertificationStatus struct {
	Permit        DimensionStatus
	Customs       DimensionStatus
	Environmental DimensionStatus
	Quality       DimensionStatus
	Overall       OverallCertification
}

// ComplianceReport is the result of one validation run. The engine keeps no
// reference to it after returning.
type ComplianceReport struct {
	DeliveryID          uuid.UUID
	DeliveryNumber      string
	IsCompliant         bool
	ComplianceScore     float64
	ValidationResults   []CheckResult
	TaxDiscrepancies    []TaxDiscrepancy
	MissingDocuments    []string
	CorrectionRequired  []string
	Warnings            []string
	Recommendations     []string
	ValidatedAt         time.Time
	NextRevalidation    time.Time
	CertificationStatus CertificationStatus
	// Degraded is set only when the report stands in for a failed run.
	Degraded bool
}

// Compliant applies the compliance rule: the score must reach
// MinCompliantScore and no correction may be outstanding.
func Compliant(score float64, corrections []string) bool {
	return score >= MinCompliantScore && len(corrections) == 0
}

// MeanScore is the arithmetic mean of result scores, or 0 for no results.
func MeanScore(results []CheckResult) float64 {
	if len(results) == 0 {
		return 0
	}
	total := 0
	for _, r := range results {
		total += r.Score
	}
	return float64(total) / float64(len(results))
}
