package validation

import (
	"strings"
	"testing"

	dErrors "fuelguard/pkg/domain-errors"

	"github.com/stretchr/testify/suite"
)

// LimitsSuite checks the "max passes, max+1 fails" boundary of each helper.
type LimitsSuite struct {
	suite.Suite
}

func TestLimitsSuite(t *testing.T) {
	suite.Run(t, new(LimitsSuite))
}

func (s *LimitsSuite) TestCheckCount() {
	s.Run("passes when count equals max", func() {
		s.NoError(CheckCount("qualityResults", MaxQualityResults, MaxQualityResults))
	})

	s.Run("passes when count is zero", func() {
		s.NoError(CheckCount("qualityResults", 0, MaxQualityResults))
	})

	s.Run("fails when count exceeds max", func() {
		err := CheckCount("qualityResults", MaxQualityResults+1, MaxQualityResults)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
		s.Contains(err.Error(), "too many qualityResults")
	})
}

func (s *LimitsSuite) TestCheckStringLength() {
	s.Run("passes at max length", func() {
		s.NoError(CheckStringLength("npaPermitNumber", strings.Repeat("a", MaxIdentifierLength), MaxIdentifierLength))
	})

	s.Run("fails one past max length", func() {
		err := CheckStringLength("npaPermitNumber", strings.Repeat("a", MaxIdentifierLength+1), MaxIdentifierLength)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *LimitsSuite) TestCheckEachKeyLength() {
	ok := map[string]float64{strings.Repeat("p", MaxParameterNameLength): 1}
	s.NoError(CheckEachKeyLength("qualityResults", ok, MaxParameterNameLength))

	long := map[string]float64{"sulphur": 40, strings.Repeat("p", MaxParameterNameLength+1): 1}
	s.Error(CheckEachKeyLength("qualityResults", long, MaxParameterNameLength))
}
