//go:build property

package aggregator

import (
	"testing"
	"time"

	"fuelguard/internal/compliance/models"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var statuses = []models.CheckStatus{
	models.StatusPassed,
	models.StatusFailed,
	models.StatusWarning,
	models.StatusNotApplicable,
}

// buildGathered assigns generated scores and statuses to every slot. A
// FAILED result carries a remediation only when withRemediation is set.
func buildGathered(scores []int, statusIdx []int, withRemediation bool) *gathered {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	g := &gathered{}
	for i, t := range models.CheckOrder {
		r := models.CheckResult{
			Type:      t,
			Name:      t.Name(),
			Status:    statuses[statusIdx[i]],
			Score:     scores[i],
			CheckedAt: at,
		}
		if r.Status == models.StatusFailed && withRemediation {
			r.RemediationActions = []string{"Fix " + t.Name()}
		}
		g.results[i] = r
	}
	return g
}

func TestReportProperties(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 500
	properties := gopter.NewProperties(params)
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	n := len(models.CheckOrder)

	scoresGen := gen.SliceOfN(n, gen.IntRange(0, 100))
	statusGen := gen.SliceOfN(n, gen.IntRange(0, len(statuses)-1))

	properties.Property("score is the mean of result scores and within 0..100", prop.ForAll(
		func(scores, statusIdx []int, withRemediation bool) bool {
			report := reduce(models.DeliveryFact{}, buildGathered(scores, statusIdx, withRemediation), nil, at)
			total := 0
			for _, s := range scores {
				total += s
			}
			mean := float64(total) / float64(n)
			return report.ComplianceScore >= 0 && report.ComplianceScore <= 100 && report.ComplianceScore == mean
		},
		scoresGen, statusGen, gen.Bool(),
	))

	properties.Property("compliant iff score reaches 85 and no correction is outstanding", prop.ForAll(
		func(scores, statusIdx []int, withRemediation bool) bool {
			report := reduce(models.DeliveryFact{}, buildGathered(scores, statusIdx, withRemediation), nil, at)
			want := report.ComplianceScore >= models.MinCompliantScore && len(report.CorrectionRequired) == 0
			return report.IsCompliant == want
		},
		scoresGen, statusGen, gen.Bool(),
	))

	properties.Property("a high score with a correction is never compliant", prop.ForAll(
		func(scores []int) bool {
			statusIdx := make([]int, n)
			statusIdx[0] = 1 // permit FAILED
			report := reduce(models.DeliveryFact{}, buildGathered(scores, statusIdx, true), nil, at)
			return !report.IsCompliant
		},
		gen.SliceOfN(n, gen.IntRange(85, 100)),
	))

	properties.Property("a low score without corrections is never compliant", prop.ForAll(
		func(scores []int) bool {
			statusIdx := make([]int, n)
			for i := range statusIdx {
				statusIdx[i] = 2 // WARNING
			}
			report := reduce(models.DeliveryFact{}, buildGathered(scores, statusIdx, true), nil, at)
			return len(report.CorrectionRequired) == 0 && !report.IsCompliant
		},
		gen.SliceOfN(n, gen.IntRange(0, 84)),
	))

	properties.Property("recommendations are unique and end with the standing list", prop.ForAll(
		func(scores, statusIdx []int) bool {
			report := reduce(models.DeliveryFact{}, buildGathered(scores, statusIdx, true), nil, at)
			seen := map[string]bool{}
			for _, r := range report.Recommendations {
				if seen[r] {
					return false
				}
				seen[r] = true
			}
			tail := report.Recommendations[len(report.Recommendations)-len(standingRecommendations):]
			for i := range standingRecommendations {
				if tail[i] != standingRecommendations[i] {
					return false
				}
			}
			return true
		},
		scoresGen, statusGen,
	))

	properties.TestingRun(t)
}

func TestEmptyResultsScoreZero(t *testing.T) {
	if got := models.MeanScore(nil); got != 0 {
		t.Fatalf("MeanScore(nil) = %v, want 0", got)
	}
}
