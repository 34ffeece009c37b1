// Package certification projects a set of check results onto the
// certification status of the four gating dimensions.
package certification

import (
	"time"

	"fuelguard/internal/compliance/models"
)

// Derive is a pure function of results and now. A gating dimension without a
// result is invalid.
func Derive(results []models.CheckResult, now time.Time) models.CertificationStatus {
	byType := make(map[models.CheckType]models.CheckResult, len(results))
	for _, r := range results {
		byType[r.Type] = r
	}

	status := models.CertificationStatus{
		Permit:        dimension(byType, models.CheckPermit, false),
		Customs:       dimension(byType, models.CheckCustomsEntry, false),
		Environmental: dimension(byType, models.CheckEnvironmental, true),
		Quality:       dimension(byType, models.CheckQuality, true),
	}

	switch {
	case !status.Permit.Valid || !status.Customs.Valid || !status.Environmental.Valid || !status.Quality.Valid:
		status.Overall = models.CertificationInvalid
	case expiringSoon(results, now):
		status.Overall = models.CertificationExpiringSoon
	default:
		status.Overall = models.CertificationValid
	}
	return status
}

// dimension treats WARNING as valid for advisory dimensions.
func dimension(byType map[models.CheckType]models.CheckResult, t models.CheckType, advisory bool) models.DimensionStatus {
	r, ok := byType[t]
	if !ok {
		return models.DimensionStatus{}
	}
	valid := r.Status == models.StatusPassed || (advisory && r.Status == models.StatusWarning)
	return models.DimensionStatus{Valid: valid, ExpiresAt: r.ExpiresAt}
}

func expiringSoon(results []models.CheckResult, now time.Time) bool {
	for _, r := range results {
		if r.ExpiresWithin(now, models.ExpiryWarningWindow) {
			return true
		}
	}
	return false
}
