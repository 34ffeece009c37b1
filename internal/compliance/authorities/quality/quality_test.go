package quality_test

import (
	"context"
	"testing"
	"testing/fstest"

	"fuelguard/internal/compliance/authorities/quality"
	"fuelguard/internal/compliance/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type EvaluatorSuite struct {
	suite.Suite
	eval *quality.Evaluator
}

func TestEvaluatorSuite(t *testing.T) {
	suite.Run(t, new(EvaluatorSuite))
}

func (s *EvaluatorSuite) SetupTest() {
	e, err := quality.NewDefault("gh")
	s.Require().NoError(err)
	s.eval = e
}

func dieselInSpec() map[string]float64 {
	return map[string]float64{
		"cetane_index":            51,
		"density_15c":             835,
		"sulphur":                 40,
		"flash_point":             62,
		"kinematic_viscosity_40c": 3.1,
	}
}

func (s *EvaluatorSuite) TestEmbeddedStandard() {
	std := s.eval.Standard()
	s.Equal("GH", std.Jurisdiction)
	s.Equal("2024.1", std.Version)
	for _, p := range []models.ProductType{
		models.ProductPetrol, models.ProductDiesel, models.ProductKerosene, models.ProductLPG, models.ProductJetFuel,
	} {
		s.NotEmpty(std.Products[p.String()], p)
	}
}

func (s *EvaluatorSuite) TestAllInSpec() {
	j, err := s.eval.Evaluate(context.Background(), "QC-1", models.ProductDiesel, dieselInSpec())
	s.Require().NoError(err)
	s.True(j.IsValid())
	s.False(j.CriticalFailure)
	s.Len(j.Parameters, 5)
}

func (s *EvaluatorSuite) TestBoundsAreInclusive() {
	results := dieselInSpec()
	results["density_15c"] = 860
	results["sulphur"] = 50
	j, err := s.eval.Evaluate(context.Background(), "QC-1", models.ProductDiesel, results)
	s.Require().NoError(err)
	s.True(j.IsValid())
}

func (s *EvaluatorSuite) TestNonCriticalNonConformanceWarns() {
	results := dieselInSpec()
	results["density_15c"] = 870
	j, err := s.eval.Evaluate(context.Background(), "QC-1", models.ProductDiesel, results)
	s.Require().NoError(err)
	s.False(j.IsValid())
	s.False(j.CriticalFailure)
	s.Empty(j.Errors)
	s.Equal([]string{"density_15c measured 870, specification 820-860 kg/m3 (ASTM D4052)"}, j.Warnings)
}

func (s *EvaluatorSuite) TestCriticalNonConformanceFails() {
	results := dieselInSpec()
	results["flash_point"] = 48
	j, err := s.eval.Evaluate(context.Background(), "QC-1", models.ProductDiesel, results)
	s.Require().NoError(err)
	s.True(j.CriticalFailure)
	s.Len(j.Errors, 1)
	s.Contains(j.Errors[0], ">= 55 degC")
}

func (s *EvaluatorSuite) TestUnreportedParameterWarns() {
	results := dieselInSpec()
	delete(results, "kinematic_viscosity_40c")
	j, err := s.eval.Evaluate(context.Background(), "QC-1", models.ProductDiesel, results)
	s.Require().NoError(err)
	s.Len(j.Warnings, 1)
	s.Nil(j.Parameters[4].Measured)
}

func (s *EvaluatorSuite) TestCanceledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.eval.Evaluate(ctx, "QC-1", models.ProductDiesel, dieselInSpec())
	s.ErrorIs(err, context.Canceled)
}

func TestLoadStandardsFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"ng.yaml": {Data: []byte(`
version: "1"
products:
  diesel:
    - parameter: sulphur
      max: 10
      critical: true
`)},
	}
	tables, err := quality.LoadStandards(fsys)
	require.NoError(t, err)

	e, err := quality.New("NG", tables)
	require.NoError(t, err)

	j, err := e.Evaluate(context.Background(), "QC", models.ProductPetrol, nil)
	require.NoError(t, err)
	assert.False(t, j.HasStandard)
	assert.False(t, j.IsValid())

	_, err = quality.New("KE", tables)
	assert.Error(t, err)
}
