package models_test

import (
	"testing"
	"time"

	"fuelguard/internal/compliance/models"

	"github.com/stretchr/testify/assert"
)

func TestCompliant(t *testing.T) {
	assert.True(t, models.Compliant(85, nil))
	assert.True(t, models.Compliant(100, []string{}))
	assert.False(t, models.Compliant(84.99, nil))
	assert.False(t, models.Compliant(100, []string{"renew permit"}))
}

func TestMeanScore(t *testing.T) {
	assert.Zero(t, models.MeanScore(nil))
	results := []models.CheckResult{{Score: 100}, {Score: 75}, {Score: 50}, {Score: 0}}
	assert.InDelta(t, 56.25, models.MeanScore(results), 1e-9)
}

func TestExpiresWithin(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	soon := now.Add(10 * 24 * time.Hour)
	later := now.Add(45 * 24 * time.Hour)

	assert.False(t, models.CheckResult{}.ExpiresWithin(now, models.ExpiryWarningWindow))
	assert.True(t, models.CheckResult{ExpiresAt: &soon}.ExpiresWithin(now, models.ExpiryWarningWindow))
	assert.False(t, models.CheckResult{ExpiresAt: &later}.ExpiresWithin(now, models.ExpiryWarningWindow))
	assert.True(t, models.CheckResult{ExpiresAt: &later}.ExpiresWithin(now, models.RenewalReminderWindow))
}

func TestSeverityOrderingAndPenalty(t *testing.T) {
	ordered := []models.Severity{models.SeverityLow, models.SeverityMedium, models.SeverityHigh, models.SeverityCritical}
	for i := 1; i < len(ordered); i++ {
		assert.Less(t, ordered[i-1], ordered[i])
		assert.Less(t, ordered[i-1].Penalty(), ordered[i].Penalty())
	}
	assert.Equal(t, "CRITICAL", models.SeverityCritical.String())
	assert.Equal(t, 25, models.SeverityCritical.Penalty())
}

func TestCheckTypeNames(t *testing.T) {
	for _, ct := range models.CheckOrder {
		assert.NotEqual(t, string(ct), ct.Name())
	}
	assert.Equal(t, "subsidy_levy", models.TaxSubsidyLevy.String())
	assert.Equal(t, "Subsidy-fund levy", models.TaxSubsidyLevy.Label())
}
