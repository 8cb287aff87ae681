package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeroclub-nitte/wing-analyzer/internal/polar"
)

func featureRow(name string, optCL, optCD, ratio, clMax, clZero, angleDiff float64) polar.FeatureRow {
	return polar.FeatureRow{
		AirfoilName:   name,
		Reynolds:      2e5,
		Velocity:      13,
		OptimumAngle:  2,
		OptimumCL:     optCL,
		OptimumCD:     optCD,
		MaxCLOverCD:   ratio,
		StallAngleDeg: 2 + angleDiff,
		CLMax:         clMax,
		CLAtZero:      clZero,
		CDAtZero:      optCD,
		AngleDiff:     angleDiff,
	}
}

func TestNewScorer_UnknownApplication(t *testing.T) {
	_, err := NewScorer("aerobatic", nil)
	require.ErrorIs(t, err, ErrUnknownApplication)

	// The message enumerates the valid choices.
	assert.Contains(t, err.Error(), "payload")
	assert.Contains(t, err.Error(), "endurance")
	assert.Contains(t, err.Error(), "trainer")
}

func TestNewScorer_RejectsBadWeightTable(t *testing.T) {
	tables := map[Application]Weights{
		"custom": {"bogus_feature_n": 0.5},
	}
	_, err := NewScorer("custom", tables)
	require.ErrorIs(t, err, ErrUnknownFeature)

	tables = map[Application]Weights{
		"custom": {FeatureCLMax: -0.1},
	}
	_, err = NewScorer("custom", tables)
	require.Error(t, err)
}

func TestRank_PayloadPrefersLiftOverDrag(t *testing.T) {
	// A dominates lift-side features, B only wins on drag; payload
	// weighting values lift far above drag.
	rows := []polar.FeatureRow{
		featureRow("A", 1.2, 0.050, 24, 1.6, 0.50, 8),
		featureRow("B", 0.8, 0.020, 22, 1.1, 0.45, 7),
	}

	scorer, err := NewScorer(ApplicationPayload, nil)
	require.NoError(t, err)

	ranked := scorer.Rank(rows)
	require.Len(t, ranked, 2)
	assert.Equal(t, "A", ranked[0].AirfoilName)
	assert.Greater(t, ranked[0].Score, ranked[1].Score)
}

func TestRank_KeepsAllRowsAndSortsDescending(t *testing.T) {
	rows := []polar.FeatureRow{
		featureRow("low", 0.5, 0.06, 9, 0.9, 0.1, 3),
		featureRow("high", 1.3, 0.03, 30, 1.7, 0.6, 10),
		featureRow("mid", 0.9, 0.04, 20, 1.3, 0.3, 6),
	}

	scorer, err := NewScorer(ApplicationEndurance, nil)
	require.NoError(t, err)

	ranked := scorer.Rank(rows)
	require.Len(t, ranked, len(rows))

	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}
	assert.Equal(t, "high", ranked[0].AirfoilName)
}

func TestRank_PopulationDependentScores(t *testing.T) {
	base := []polar.FeatureRow{
		featureRow("A", 1.2, 0.05, 24, 1.6, 0.50, 8),
		featureRow("B", 0.8, 0.02, 22, 1.1, 0.45, 7),
	}
	extended := append([]polar.FeatureRow{featureRow("C", 2.0, 0.01, 40, 2.2, 0.9, 14)}, base...)

	scorer, err := NewScorer(ApplicationPayload, nil)
	require.NoError(t, err)

	scoreOf := func(ranked []ScoredRow, name string) float64 {
		for _, r := range ranked {
			if r.AirfoilName == name {
				return r.Score
			}
		}
		t.Fatalf("row %s not found", name)
		return 0
	}

	small := scorer.Rank(base)
	large := scorer.Rank(extended)
	assert.NotEqual(t, scoreOf(small, "A"), scoreOf(large, "A"),
		"normalization spans the population, so scores must shift with it")
}

func TestRank_ScoresAreReproducible(t *testing.T) {
	rows := []polar.FeatureRow{
		featureRow("A", 1.2, 0.05, 24, 1.6, 0.50, 8),
		featureRow("B", 0.8, 0.02, 22, 1.1, 0.45, 7),
		featureRow("C", 1.0, 0.03, 23, 1.3, 0.48, 9),
	}

	scorer, err := NewScorer(ApplicationTrainer, nil)
	require.NoError(t, err)

	// Summation order is fixed, so repeated passes over the same
	// population produce bit-identical scores and the same rank order.
	first := scorer.Rank(rows)
	for i := 0; i < 50; i++ {
		again := scorer.Rank(rows)
		for j := range first {
			assert.Equal(t, first[j].AirfoilName, again[j].AirfoilName)
			assert.Equal(t, first[j].Score, again[j].Score)
		}
	}
}

func TestRank_NaNFeatureSortsLast(t *testing.T) {
	incomplete := featureRow("incomplete", 1.5, 0.03, 28, 1.8, math.NaN(), 9)
	rows := []polar.FeatureRow{
		incomplete,
		featureRow("ok1", 0.6, 0.05, 10, 1.0, 0.2, 4),
		featureRow("ok2", 0.9, 0.04, 18, 1.2, 0.4, 6),
	}

	scorer, err := NewScorer(ApplicationPayload, nil)
	require.NoError(t, err)

	ranked := scorer.Rank(rows)
	require.Len(t, ranked, 3)
	assert.Equal(t, "incomplete", ranked[2].AirfoilName)
	assert.True(t, math.IsNaN(ranked[2].Score))
}

func TestDefaultWeights_Valid(t *testing.T) {
	for app, weights := range DefaultWeights() {
		assert.NoError(t, weights.Validate(), "application %s", app)

		var sum float64
		for _, w := range weights {
			sum += w
		}
		assert.InDelta(t, 1.0, sum, 1e-12, "application %s", app)
	}
}
