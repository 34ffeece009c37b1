package normalizer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"fuelguard/internal/compliance/authorities"
	"fuelguard/internal/compliance/authorities/customs"
	"fuelguard/internal/compliance/authorities/environmental"
	"fuelguard/internal/compliance/authorities/permit"
	"fuelguard/internal/compliance/authorities/quality"
	"fuelguard/internal/compliance/authorities/subsidy"
	"fuelguard/internal/compliance/models"
	"fuelguard/internal/compliance/normalizer"
	"fuelguard/internal/compliance/taxrules"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type NormalizerSuite struct {
	suite.Suite
	at time.Time
}

func TestNormalizerSuite(t *testing.T) {
	suite.Run(t, new(NormalizerSuite))
}

func (s *NormalizerSuite) SetupTest() {
	s.at = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func validPermit() *permit.Judgement {
	return &permit.Judgement{
		PermitNumber: "NPA-1", Exists: true, Active: true, NotExpired: true,
		HolderVerified: true, ProductAuthorized: true, WithinVolumeLimit: true,
	}
}

func (s *NormalizerSuite) TestPermit() {
	expiry := s.at.AddDate(0, 0, 20)
	j := validPermit()
	j.ExpiryDate = &expiry
	j.Warnings = []string{"Permit expires within 30 days"}

	r := normalizer.Permit(j, s.at)
	s.Equal(models.StatusPassed, r.Status)
	s.Equal(100, r.Score)
	s.Equal(&expiry, r.ExpiresAt)
	s.Equal(normalizer.CheckedByPermit, r.CheckedBy)
	s.True(r.JurisdictionSpecific)
	s.Equal(s.at, r.CheckedAt)
	s.Len(r.Warnings, 1)

	j.ProductAuthorized = false
	j.WithinVolumeLimit = false
	j.Errors = []string{"a", "b"}
	r = normalizer.Permit(j, s.at)
	s.Equal(models.StatusFailed, r.Status)
	s.Equal(0, r.Score)
	s.Equal("a; b", r.Details)
	s.Len(r.RemediationActions, 2)
}

func (s *NormalizerSuite) TestCustoms() {
	j := &customs.Judgement{EntryNumber: "C-1", Exists: true, Cleared: true, DutiesPaid: true,
		DocumentsComplete: true, QuantityCovered: true, ProductDeclared: true}
	s.Equal(models.StatusPassed, normalizer.Customs(j, s.at).Status)

	j.DutiesPaid = false
	r := normalizer.Customs(j, s.at)
	s.Equal(models.StatusFailed, r.Status)
	s.Equal(0, r.Score)
	s.Equal([]string{"Settle outstanding customs duties and taxes"}, r.RemediationActions)
}

func (s *NormalizerSuite) TestTax() {
	engine := taxrules.New()
	f := models.DeliveryFact{
		Quantity:   decimal.NewFromInt(50000),
		TotalValue: decimal.NewFromInt(1000000),
		DeclaredTaxes: models.DeclaredTaxes{
			PetroleumTax:   decimal.NewFromInt(170000),
			EnergyFundLevy: decimal.NewFromInt(50000),
			RoadFundLevy:   decimal.NewFromInt(180000),
			SubsidyLevy:    decimal.NewFromInt(8000),
		},
	}
	r := normalizer.Tax(engine.Evaluate(f), s.at)
	s.Equal(models.StatusPassed, r.Status)
	s.Equal(100, r.Score)

	f.DeclaredTaxes.PetroleumTax = decimal.NewFromInt(200000)
	r = normalizer.Tax(engine.Evaluate(f), s.at)
	s.Equal(models.StatusFailed, r.Status)
	s.Equal(75, r.Score)
	s.Contains(r.Details, "[CRITICAL]")
	s.Equal([]string{"Amend declared Petroleum tax to 170000.00"}, r.RemediationActions)
}

func (s *NormalizerSuite) TestEnvironmental() {
	r := normalizer.Environmental(&environmental.Judgement{Compliant: true, ImpactScore: 88}, s.at)
	s.Equal(models.StatusPassed, r.Status)
	s.Equal(100, r.Score)
	s.False(r.JurisdictionSpecific)

	r = normalizer.Environmental(&environmental.Judgement{
		Compliant: true, ImpactScore: 72,
		Violations: []environmental.Violation{{Code: "EV-1"}},
		Warnings:   []string{"EV-1: noise"},
	}, s.at)
	s.Equal(models.StatusWarning, r.Status)
	s.Equal(72, r.Score)

	r = normalizer.Environmental(&environmental.Judgement{Compliant: false, ImpactScore: 30, Errors: []string{"x"}}, s.at)
	s.Equal(models.StatusFailed, r.Status)
	s.Equal(30, r.Score)
	s.NotEmpty(r.RemediationActions)
}

func (s *NormalizerSuite) TestQuality() {
	eval, err := quality.NewDefault("GH")
	s.Require().NoError(err)
	results := map[string]float64{
		"cetane_index": 51, "density_15c": 835, "sulphur": 40, "flash_point": 62, "kinematic_viscosity_40c": 3.1,
	}

	j, err := eval.Evaluate(context.Background(), "QC-1", models.ProductDiesel, results)
	s.Require().NoError(err)
	s.Equal(models.StatusPassed, normalizer.Quality(j, s.at).Status)

	results["density_15c"] = 900
	j, _ = eval.Evaluate(context.Background(), "QC-1", models.ProductDiesel, results)
	r := normalizer.Quality(j, s.at)
	s.Equal(models.StatusWarning, r.Status)
	s.Equal(normalizer.QualityWarningScore, r.Score)

	results["sulphur"] = 500
	j, _ = eval.Evaluate(context.Background(), "QC-1", models.ProductDiesel, results)
	r = normalizer.Quality(j, s.at)
	s.Equal(models.StatusFailed, r.Status)
	s.Equal(0, r.Score)

	r = normalizer.Quality(&quality.Judgement{Jurisdiction: "GH"}, s.at)
	s.Equal(models.StatusNotApplicable, r.Status)
	s.Equal(50, r.Score)
}

func (s *NormalizerSuite) TestSubsidy() {
	r := normalizer.Subsidy(&subsidy.Judgement{Eligible: true, ClaimableAmount: decimal.NewFromInt(10)}, s.at)
	s.Equal(models.StatusPassed, r.Status)

	r = normalizer.Subsidy(&subsidy.Judgement{Eligible: true, Restrictions: []string{"r"}}, s.at)
	s.Equal(models.StatusWarning, r.Status)
	s.Equal(normalizer.SubsidyRestrictedScore, r.Score)

	r = normalizer.Subsidy(&subsidy.Judgement{Eligible: false}, s.at)
	s.Equal(models.StatusNotApplicable, r.Status)
	s.Equal(50, r.Score)
	s.Empty(r.RemediationActions)
}

func (s *NormalizerSuite) TestMissing() {
	r := normalizer.Missing(models.CheckPermit, "NPA Permit Number", s.at)
	s.Equal(models.StatusFailed, r.Status)
	s.Equal(0, r.Score)
	s.Equal([]string{"Provide NPA Permit Number"}, r.RemediationActions)

	r = normalizer.Missing(models.CheckSubsidy, "Customer ID", s.at)
	s.Equal(models.StatusNotApplicable, r.Status)
	s.Equal(50, r.Score)
	s.Empty(r.RemediationActions)
}

func (s *NormalizerSuite) TestUnavailableHonoursPolicy() {
	timeout := authorities.NewError(authorities.ErrorTimeout, "permit", "request timeout", context.DeadlineExceeded)
	policies := authorities.DefaultPolicies()

	r := normalizer.Unavailable(models.CheckPermit, policies.Permit, timeout, s.at)
	s.Equal(models.StatusFailed, r.Status)
	s.Equal(0, r.Score)
	s.Contains(r.Details, "timeout")
	s.Equal([]string{"Re-run NPA Permit Validation once the authority is reachable"}, r.RemediationActions)

	r = normalizer.Unavailable(models.CheckEnvironmental, policies.Environmental, timeout, s.at)
	s.Equal(models.StatusWarning, r.Status)
	s.Equal(70, r.Score)
	s.Empty(r.RemediationActions)
	s.Len(r.Warnings, 1)
}

func (s *NormalizerSuite) TestUnknownRecordIsNotAnOutage() {
	notFound := authorities.NewError(authorities.ErrorNotFound, "permit", "record not found", nil)
	policies := authorities.DefaultPolicies()

	r := normalizer.Unavailable(models.CheckPermit, policies.Permit, notFound, s.at)
	s.Equal(models.StatusFailed, r.Status)
	s.Equal(0, r.Score)
	s.Equal([]string{"Obtain a valid NPA permit before delivery"}, r.RemediationActions)

	r = normalizer.Unavailable(models.CheckCustomsEntry, policies.Customs, notFound, s.at)
	s.Equal(models.StatusFailed, r.Status)
	s.Equal([]string{"Lodge a customs entry covering this delivery before release"}, r.RemediationActions)

	r = normalizer.Unavailable(models.CheckEnvironmental, policies.Environmental, notFound, s.at)
	s.Equal(models.StatusWarning, r.Status, "advisory authorities keep their policy")
}

func (s *NormalizerSuite) TestSystemError() {
	r := normalizer.SystemError(errors.New("boom"), s.at)
	s.Equal(models.CheckSystemError, r.Type)
	s.Equal(models.StatusFailed, r.Status)
	s.Equal([]string{models.SystemErrorCorrection}, r.RemediationActions)
}
