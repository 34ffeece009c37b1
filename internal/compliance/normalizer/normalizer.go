// Package normalizer maps authority judgements and the tax assessment onto
// the uniform CheckResult record.
//
// Scores follow one convention: PASSED is 100, FAILED on permit, customs,
// tax-adjacent and quality gating is 0, WARNING carries the domain score and
// NOT_APPLICABLE is a neutral 50.
package normalizer

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"fuelguard/internal/compliance/authorities"
	"fuelguard/internal/compliance/authorities/customs"
	"fuelguard/internal/compliance/authorities/environmental"
	"fuelguard/internal/compliance/authorities/permit"
	"fuelguard/internal/compliance/authorities/quality"
	"fuelguard/internal/compliance/authorities/subsidy"
	"fuelguard/internal/compliance/models"
	"fuelguard/internal/compliance/taxrules"
)

const (
	QualityWarningScore    = 75
	SubsidyRestrictedScore = 85
)

// Checker identities recorded on each result.
const (
	CheckedByPermit        = "npa-permit-service"
	CheckedByCustoms       = "customs-entry-service"
	CheckedByTax           = "tax-rule-engine"
	CheckedByEnvironmental = "epa-compliance-service"
	CheckedByQuality       = "quality-standards-evaluator"
	CheckedBySubsidy       = "subsidy-fund-service"
	CheckedBySystem        = "compliance-aggregator"
)

func base(t models.CheckType, at time.Time) models.CheckResult {
	r := models.CheckResult{
		Type:      t,
		Name:      t.Name(),
		CheckedAt: at,
	}
	switch t {
	case models.CheckPermit:
		r.CheckedBy, r.JurisdictionSpecific = CheckedByPermit, true
	case models.CheckCustomsEntry:
		r.CheckedBy, r.JurisdictionSpecific = CheckedByCustoms, true
	case models.CheckTax:
		r.CheckedBy, r.JurisdictionSpecific = CheckedByTax, true
	case models.CheckEnvironmental:
		r.CheckedBy = CheckedByEnvironmental
	case models.CheckQuality:
		r.CheckedBy, r.JurisdictionSpecific = CheckedByQuality, true
	case models.CheckSubsidy:
		r.CheckedBy, r.JurisdictionSpecific = CheckedBySubsidy, true
	default:
		r.CheckedBy = CheckedBySystem
	}
	return r
}

func passed(r models.CheckResult, details string) models.CheckResult {
	r.Status, r.Score, r.Details = models.StatusPassed, models.ScorePassed, details
	return r
}

func Permit(j *permit.Judgement, at time.Time) models.CheckResult {
	r := base(models.CheckPermit, at)
	r.ExpiresAt = j.ExpiryDate
	r.Warnings = j.Warnings
	if j.IsValid() {
		return passed(r, fmt.Sprintf("Permit %s is active and covers the delivery", j.PermitNumber))
	}

	r.Status, r.Score = models.StatusFailed, models.ScoreFailed
	r.Details = strings.Join(j.Errors, "; ")
	if !j.Exists {
		r.RemediationActions = append(r.RemediationActions, "Obtain a valid NPA permit before delivery")
	}
	if !j.Active {
		r.RemediationActions = append(r.RemediationActions, "Reinstate the permit with the NPA")
	}
	if !j.NotExpired {
		r.RemediationActions = append(r.RemediationActions, "Renew the expired NPA permit")
	}
	if !j.HolderVerified {
		r.RemediationActions = append(r.RemediationActions, "Complete permit holder verification with the NPA")
	}
	if !j.ProductAuthorized {
		r.RemediationActions = append(r.RemediationActions, "Add the delivered product to the permit authorization")
	}
	if !j.WithinVolumeLimit {
		r.RemediationActions = append(r.RemediationActions, "Reduce the delivery to the permitted volume or request a higher limit")
	}
	return r
}

func Customs(j *customs.Judgement, at time.Time) models.CheckResult {
	r := base(models.CheckCustomsEntry, at)
	r.Warnings = j.Warnings
	if j.IsValid() {
		return passed(r, fmt.Sprintf("Customs entry %s is cleared for the delivered product", j.EntryNumber))
	}

	r.Status, r.Score = models.StatusFailed, models.ScoreFailed
	r.Details = strings.Join(j.Errors, "; ")
	if !j.Exists {
		r.RemediationActions = append(r.RemediationActions, "Register the import with customs and supply a valid entry number")
	}
	if !j.Cleared {
		r.RemediationActions = append(r.RemediationActions, "Complete customs clearance before delivery")
	}
	if !j.DutiesPaid {
		r.RemediationActions = append(r.RemediationActions, "Settle outstanding customs duties and taxes")
	}
	if !j.DocumentsComplete {
		r.RemediationActions = append(r.RemediationActions, "Submit the missing customs documents")
	}
	if !j.QuantityCovered {
		r.RemediationActions = append(r.RemediationActions, "Amend the customs declaration to cover the delivered quantity")
	}
	if !j.ProductDeclared {
		r.RemediationActions = append(r.RemediationActions, "Declare the delivered product on the customs entry")
	}
	return r
}

// Tax folds every tax line into one result. The score is the assessment's
// penalty-reduced sub-score.
func Tax(a taxrules.Assessment, at time.Time) models.CheckResult {
	r := base(models.CheckTax, at)
	if a.Passed() {
		return passed(r, fmt.Sprintf("All %d taxes and levies are within tolerance", models.NumTaxTypes))
	}

	r.Status, r.Score = models.StatusFailed, a.Score
	explanations := make([]string, 0, len(a.Discrepancies))
	for _, d := range a.Discrepancies {
		explanations = append(explanations, fmt.Sprintf("[%s] %s", d.Severity, d.Explanation))
		r.RemediationActions = append(r.RemediationActions, d.SuggestedCorrection)
	}
	r.Details = strings.Join(explanations, "; ")
	return r
}

func Environmental(j *environmental.Judgement, at time.Time) models.CheckResult {
	r := base(models.CheckEnvironmental, at)
	r.ExpiresAt = j.EarliestExpiry()
	r.Warnings = j.Warnings

	switch {
	case j.Compliant && len(j.Violations) == 0:
		return passed(r, fmt.Sprintf("Environmentally compliant, impact score %d", j.ImpactScore))
	case j.Compliant:
		r.Status, r.Score = models.StatusWarning, j.ImpactScore
		r.Details = fmt.Sprintf("Compliant with %d recorded violation(s), impact score %d", len(j.Violations), j.ImpactScore)
		r.RemediationActions = []string{"Close out recorded environmental violations"}
	default:
		r.Status, r.Score = models.StatusFailed, j.ImpactScore
		r.Details = strings.Join(slices.Concat(j.Errors, j.Warnings), "; ")
		r.RemediationActions = []string{"Resolve environmental non-compliance with the EPA before delivery"}
	}
	return r
}

func Quality(j *quality.Judgement, at time.Time) models.CheckResult {
	r := base(models.CheckQuality, at)
	r.Warnings = j.Warnings

	switch {
	case !j.HasStandard:
		r.Status, r.Score = models.StatusNotApplicable, models.ScoreNotApplicable
		r.Details = fmt.Sprintf("No %s quality specification for this product", j.Jurisdiction)
	case j.CriticalFailure:
		r.Status, r.Score = models.StatusFailed, models.ScoreFailed
		r.Details = strings.Join(j.Errors, "; ")
		r.RemediationActions = []string{
			"Quarantine the consignment and retest critical parameters at an accredited laboratory",
		}
	case len(j.Warnings) > 0:
		r.Status, r.Score = models.StatusWarning, QualityWarningScore
		r.Details = fmt.Sprintf("Certificate %s has %d non-critical finding(s) against %s %s",
			j.Certificate, len(j.Warnings), j.Jurisdiction, j.Version)
		r.RemediationActions = []string{"Obtain a complete quality certificate covering all specification parameters"}
	default:
		return passed(r, fmt.Sprintf("Certificate %s conforms to %s specification %s", j.Certificate, j.Jurisdiction, j.Version))
	}
	return r
}

func Subsidy(j *subsidy.Judgement, at time.Time) models.CheckResult {
	r := base(models.CheckSubsidy, at)
	r.Warnings = j.Warnings

	switch {
	case !j.Eligible:
		r.Status, r.Score = models.StatusNotApplicable, models.ScoreNotApplicable
		r.Details = "Customer is not eligible for a subsidy on this delivery"
	case len(j.Restrictions) > 0:
		r.Status, r.Score = models.StatusWarning, SubsidyRestrictedScore
		r.Details = fmt.Sprintf("Eligible for %s with %d restriction(s)", j.ClaimableAmount.StringFixed(2), len(j.Restrictions))
	default:
		return passed(r, fmt.Sprintf("Eligible for subsidy of %s", j.ClaimableAmount.StringFixed(2)))
	}
	return r
}

// Missing stands in for a check whose identifying document was not supplied.
// Subsidy eligibility simply does not apply; every other check fails.
func Missing(t models.CheckType, document string, at time.Time) models.CheckResult {
	r := base(t, at)
	if t == models.CheckSubsidy {
		r.Status, r.Score = models.StatusNotApplicable, models.ScoreNotApplicable
		r.Details = document + " not provided; subsidy eligibility not assessed"
		return r
	}
	r.Status, r.Score = models.StatusFailed, models.ScoreFailed
	r.Details = document + " not provided"
	r.RemediationActions = []string{"Provide " + document}
	return r
}

// unknownRecordRemediation applies when a gating authority answers that the
// referenced record does not exist. That is an answer, not an outage.
var unknownRecordRemediation = map[models.CheckType]string{
	models.CheckPermit:       "Obtain a valid NPA permit before delivery",
	models.CheckCustomsEntry: "Lodge a customs entry covering this delivery before release",
}

// Unavailable applies the failure policy to a check whose authority could
// not be consulted. A permit or customs record the authority does not know
// fails with a remediation for the missing record instead.
func Unavailable(t models.CheckType, p authorities.Policy, err error, at time.Time) models.CheckResult {
	r := base(t, at)
	category := authorities.CategoryOf(err)
	if remediation, ok := unknownRecordRemediation[t]; ok && category == authorities.ErrorNotFound {
		r.Status, r.Score = models.StatusFailed, models.ScoreFailed
		r.Details = fmt.Sprintf("%s: record does not exist at the authority", t.Name())
		r.RemediationActions = []string{remediation}
		return r
	}
	if p.Mode == authorities.FailOpen {
		r.Status, r.Score = models.StatusWarning, p.DefaultScore
		r.Details = fmt.Sprintf("%s unavailable (%s), advisory default score applied: %v", t.Name(), category, err)
		r.Warnings = []string{fmt.Sprintf("%s could not be verified (%s)", t.Name(), category)}
		return r
	}
	r.Status, r.Score = models.StatusFailed, models.ScoreFailed
	r.Details = fmt.Sprintf("%s unavailable (%s): %v", t.Name(), category, err)
	r.RemediationActions = []string{fmt.Sprintf("Re-run %s once the authority is reachable", t.Name())}
	return r
}

// SystemError is the single result carried by a degraded report.
func SystemError(err error, at time.Time) models.CheckResult {
	r := base(models.CheckSystemError, at)
	r.Status, r.Score = models.StatusFailed, models.ScoreFailed
	r.Details = fmt.Sprintf("Compliance validation could not complete: %v", err)
	r.RemediationActions = []string{models.SystemErrorCorrection}
	return r
}
