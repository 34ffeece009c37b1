package certification_test

import (
	"testing"
	"time"

	"fuelguard/internal/compliance/certification"
	"fuelguard/internal/compliance/models"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func results(statuses map[models.CheckType]models.CheckStatus) []models.CheckResult {
	out := make([]models.CheckResult, 0, len(models.CheckOrder))
	for _, t := range models.CheckOrder {
		status, ok := statuses[t]
		if !ok {
			status = models.StatusPassed
		}
		out = append(out, models.CheckResult{Type: t, Status: status})
	}
	return out
}

func TestAllPassedIsValid(t *testing.T) {
	got := certification.Derive(results(nil), now)

	assert.Equal(t, models.CertificationValid, got.Overall)
	assert.True(t, got.Permit.Valid)
	assert.True(t, got.Customs.Valid)
	assert.True(t, got.Environmental.Valid)
	assert.True(t, got.Quality.Valid)
}

func TestAdvisoryDimensionsAcceptWarning(t *testing.T) {
	got := certification.Derive(results(map[models.CheckType]models.CheckStatus{
		models.CheckEnvironmental: models.StatusWarning,
		models.CheckQuality:       models.StatusWarning,
	}), now)
	assert.Equal(t, models.CertificationValid, got.Overall)
}

func TestGatingDimensionsRejectWarning(t *testing.T) {
	for _, ct := range []models.CheckType{models.CheckPermit, models.CheckCustomsEntry} {
		got := certification.Derive(results(map[models.CheckType]models.CheckStatus{ct: models.StatusWarning}), now)
		assert.Equal(t, models.CertificationInvalid, got.Overall, ct)
	}
}

func TestAnyFailedDimensionIsInvalid(t *testing.T) {
	for _, ct := range []models.CheckType{
		models.CheckPermit, models.CheckCustomsEntry, models.CheckEnvironmental, models.CheckQuality,
	} {
		got := certification.Derive(results(map[models.CheckType]models.CheckStatus{ct: models.StatusFailed}), now)
		assert.Equal(t, models.CertificationInvalid, got.Overall, ct)
	}
}

func TestNonGatingFailureDoesNotInvalidate(t *testing.T) {
	got := certification.Derive(results(map[models.CheckType]models.CheckStatus{
		models.CheckTax:     models.StatusFailed,
		models.CheckSubsidy: models.StatusNotApplicable,
	}), now)
	assert.Equal(t, models.CertificationValid, got.Overall)
}

func TestExpiringSoon(t *testing.T) {
	rs := results(nil)
	soon := now.AddDate(0, 0, 29)
	rs[0].ExpiresAt = &soon

	got := certification.Derive(rs, now)
	assert.Equal(t, models.CertificationExpiringSoon, got.Overall)
	assert.Equal(t, &soon, got.Permit.ExpiresAt)

	later := now.AddDate(0, 0, 31)
	rs[0].ExpiresAt = &later
	assert.Equal(t, models.CertificationValid, certification.Derive(rs, now).Overall)
}

func TestInvalidOutranksExpiring(t *testing.T) {
	rs := results(map[models.CheckType]models.CheckStatus{models.CheckCustomsEntry: models.StatusFailed})
	soon := now.AddDate(0, 0, 3)
	rs[0].ExpiresAt = &soon
	assert.Equal(t, models.CertificationInvalid, certification.Derive(rs, now).Overall)
}

func TestMissingDimensionIsInvalid(t *testing.T) {
	got := certification.Derive(nil, now)
	assert.Equal(t, models.CertificationInvalid, got.Overall)
}
