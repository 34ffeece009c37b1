// Package wire maps compliance models to and from their JSON representation.
package wire

import (
	"time"

	"fuelguard/internal/compliance/models"

	"github.com/shopspring/decimal"
)

type CheckResult struct {
	CheckType            string     `json:"checkType"`
	CheckName            string     `json:"checkName"`
	Status               string     `json:"status"`
	Score                int        `json:"score"`
	Details              string     `json:"details"`
	RemediationActions   []string   `json:"remediationActions"`
	Warnings             []string   `json:"warnings,omitempty"`
	ExpiryDate           *time.Time `json:"expiryDate,omitempty"`
	CheckedAt            time.Time  `json:"checkedAt"`
	CheckedBy            string     `json:"checkedBy"`
	JurisdictionSpecific bool       `json:"jurisdictionSpecific"`
}

type TaxDiscrepancy struct {
	TaxType             string          `json:"taxType"`
	ExpectedAmount      decimal.Decimal `json:"expectedAmount"`
	ActualAmount        decimal.Decimal `json:"actualAmount"`
	Variance            decimal.Decimal `json:"variance"`
	VariancePercent     decimal.Decimal `json:"variancePercent"`
	Severity            string          `json:"severity"`
	Explanation         string          `json:"explanation"`
	SuggestedCorrection string          `json:"suggestedCorrection"`
}

type Dimension struct {
	Valid      bool       `json:"valid"`
	ExpiryDate *time.Time `json:"expiryDate,omitempty"`
}

type CertificationStatus struct {
	Permit                     Dimension `json:"permit"`
	Customs                    Dimension `json:"customs"`
	Environmental              Dimension `json:"environmental"`
	Quality                    Dimension `json:"quality"`
	OverallCertificationStatus string    `json:"overallCertificationStatus"`
}

type Report struct {
	DeliveryID           string              `json:"deliveryId"`
	DeliveryNumber       string              `json:"deliveryNumber"`
	IsCompliant          bool                `json:"isCompliant"`
	ComplianceScore      float64             `json:"complianceScore"`
	ValidationResults    []CheckResult       `json:"validationResults"`
	TaxDiscrepancies     []TaxDiscrepancy    `json:"taxDiscrepancies"`
	MissingDocuments     []string            `json:"missingDocuments"`
	CorrectionRequired   []string            `json:"correctionRequired"`
	Warnings             []string            `json:"warnings"`
	Recommendations      []string            `json:"recommendations"`
	ValidatedAt          time.Time           `json:"validatedAt"`
	NextMandatoryRecheck time.Time           `json:"nextRevalidationDate"`
	CertificationStatus  CertificationStatus `json:"certificationStatus"`
	Degraded             bool                `json:"degraded,omitempty"`
}

// FromReport renders r for transport. Nil lists become empty arrays.
func FromReport(r models.ComplianceReport) Report {
	out := Report{
		DeliveryID:           r.DeliveryID.String(),
		DeliveryNumber:       r.DeliveryNumber,
		IsCompliant:          r.IsCompliant,
		ComplianceScore:      r.ComplianceScore,
		ValidationResults:    make([]CheckResult, 0, len(r.ValidationResults)),
		TaxDiscrepancies:     make([]TaxDiscrepancy, 0, len(r.TaxDiscrepancies)),
		MissingDocuments:     nonNil(r.MissingDocuments),
		CorrectionRequired:   nonNil(r.CorrectionRequired),
		Warnings:             nonNil(r.Warnings),
		Recommendations:      nonNil(r.Recommendations),
		ValidatedAt:          r.ValidatedAt,
		NextMandatoryRecheck: r.NextRevalidation,
		CertificationStatus: CertificationStatus{
			Permit:                     dimension(r.CertificationStatus.Permit),
			Customs:                    dimension(r.CertificationStatus.Customs),
			Environmental:              dimension(r.CertificationStatus.Environmental),
			Quality:                    dimension(r.CertificationStatus.Quality),
			OverallCertificationStatus: string(r.CertificationStatus.Overall),
		},
		Degraded: r.Degraded,
	}
	for _, c := range r.ValidationResults {
		out.ValidationResults = append(out.ValidationResults, CheckResult{
			CheckType:            string(c.Type),
			CheckName:            c.Name,
			Status:               string(c.Status),
			Score:                c.Score,
			Details:              c.Details,
			RemediationActions:   nonNil(c.RemediationActions),
			Warnings:             c.Warnings,
			ExpiryDate:           c.ExpiresAt,
			CheckedAt:            c.CheckedAt,
			CheckedBy:            c.CheckedBy,
			JurisdictionSpecific: c.JurisdictionSpecific,
		})
	}
	for _, d := range r.TaxDiscrepancies {
		out.TaxDiscrepancies = append(out.TaxDiscrepancies, TaxDiscrepancy{
			TaxType:             d.TaxType.String(),
			ExpectedAmount:      d.Expected,
			ActualAmount:        d.Actual,
			Variance:            d.Variance,
			VariancePercent:     d.VariancePct.Mul(decimal.NewFromInt(100)).Round(4),
			Severity:            d.Severity.String(),
			Explanation:         d.Explanation,
			SuggestedCorrection: d.SuggestedCorrection,
		})
	}
	return out
}

func dimension(d models.DimensionStatus) Dimension {
	return Dimension{Valid: d.Valid, ExpiryDate: d.ExpiresAt}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
