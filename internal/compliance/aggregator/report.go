package aggregator

import (
	"fmt"
	"slices"
	"time"

	"fuelguard/internal/compliance/certification"
	"fuelguard/internal/compliance/models"
	"fuelguard/internal/compliance/normalizer"
	"fuelguard/pkg/platform/strings"
)

// improvementThreshold is the score below which a check earns an
// improvement reminder.
const improvementThreshold = 90

// Standing recommendations appended to every report.
var standingRecommendations = []string{
	"Maintain periodic compliance monitoring for all deliveries",
	"Keep permits, customs entries and quality certificates current",
	"Enable automated alerts for upcoming permit and certificate expiries",
}

const degradedRecommendation = "Re-run validation once compliance infrastructure has recovered"

// reduceSafely converts a panic during reduction into an error so the caller
// can substitute a degraded report.
func (s *Service) reduceSafely(fact models.DeliveryFact, g *gathered, missing []string, at time.Time) (report models.ComplianceReport, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("report reduction panicked: %v", r)
		}
	}()
	return reduce(fact, g, missing, at), nil
}

// reduce folds the ordered check results into a report. It is pure: the same
// inputs always yield the same report.
func reduce(fact models.DeliveryFact, g *gathered, missing []string, at time.Time) models.ComplianceReport {
	results := slices.Clone(g.results[:])
	score := models.MeanScore(results)

	var corrections, warnings []string
	for _, r := range results {
		if r.Status == models.StatusFailed {
			corrections = append(corrections, r.RemediationActions...)
		}
		warnings = append(warnings, r.Warnings...)
		if r.Status == models.StatusWarning {
			warnings = append(warnings, r.Details)
		}
	}
	corrections = strings.DedupeAndTrim(corrections)

	return models.ComplianceReport{
		DeliveryID:          fact.DeliveryID,
		DeliveryNumber:      fact.DeliveryNumber,
		IsCompliant:         models.Compliant(score, corrections),
		ComplianceScore:     score,
		ValidationResults:   results,
		TaxDiscrepancies:    slices.Clone(g.discrepancies),
		MissingDocuments:    slices.Clone(missing),
		CorrectionRequired:  corrections,
		Warnings:            strings.DedupeAndTrim(warnings),
		Recommendations:     recommendations(results, at),
		ValidatedAt:         at,
		NextRevalidation:    at.Add(models.RevalidationInterval),
		CertificationStatus: certification.Derive(results, at),
	}
}

// recommendations derives advice from the results followed by the standing
// recommendations, deduplicated in order of first occurrence.
func recommendations(results []models.CheckResult, at time.Time) []string {
	var out []string
	for _, r := range results {
		switch r.Status {
		case models.StatusFailed:
			out = append(out, fmt.Sprintf("Address %s failures before proceeding", r.Name))
		case models.StatusWarning:
			out = append(out, fmt.Sprintf("Review %s warnings", r.Name))
		}
		if r.ExpiresWithin(at, models.RenewalReminderWindow) {
			out = append(out, fmt.Sprintf("Schedule renewal for %s before %s", r.Name, r.ExpiresAt.Format(time.DateOnly)))
		}
		if r.Score < improvementThreshold {
			out = append(out, fmt.Sprintf("Improve %s score (currently %d)", r.Name, r.Score))
		}
	}
	return strings.DedupeAndTrim(strings.Flatten(out, standingRecommendations))
}

// degradedReport is returned when a run could not complete. It is never
// compliant and carries the system error marker as its only correction.
func degradedReport(fact models.DeliveryFact, missing []string, cause error, at time.Time) models.ComplianceReport {
	results := []models.CheckResult{normalizer.SystemError(cause, at)}
	return models.ComplianceReport{
		DeliveryID:         fact.DeliveryID,
		DeliveryNumber:     fact.DeliveryNumber,
		IsCompliant:        false,
		ComplianceScore:    0,
		ValidationResults:  results,
		MissingDocuments:   slices.Clone(missing),
		CorrectionRequired: []string{models.SystemErrorCorrection},
		Warnings:           []string{},
		Recommendations:    strings.DedupeAndTrim(strings.Flatten([]string{degradedRecommendation}, standingRecommendations)),
		ValidatedAt:        at,
		// Nothing was certified, so revalidation is due immediately.
		NextRevalidation:    at,
		CertificationStatus: certification.Derive(nil, at),
		Degraded:            true,
	}
}
