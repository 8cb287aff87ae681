package scoring

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/aeroclub-nitte/wing-analyzer/internal/polar"
)

// ErrUnknownApplication is wrapped by NewScorer for application names
// without a weight table.
var ErrUnknownApplication = errors.New("unknown application")

// ScoredRow is a feature row extended with its normalized feature
// columns and the weighted score. Rows are created fresh per scoring
// pass and never mutated afterwards.
type ScoredRow struct {
	polar.FeatureRow

	OptimumCLNorm   float64
	OptimumCDNorm   float64 // drag is inverted before normalization: lower CD scores higher
	MaxCLOverCDNorm float64
	CLMaxNorm       float64
	CLAtZeroNorm    float64
	AngleDiffNorm   float64

	Score float64
}

func (r *ScoredRow) normalized(f Feature) float64 {
	switch f {
	case FeatureOptimumCL:
		return r.OptimumCLNorm
	case FeatureOptimumCD:
		return r.OptimumCDNorm
	case FeatureMaxCLOverCD:
		return r.MaxCLOverCDNorm
	case FeatureCLMax:
		return r.CLMaxNorm
	case FeatureCLAtZero:
		return r.CLAtZeroNorm
	case FeatureAngleDiff:
		return r.AngleDiffNorm
	}
	return math.NaN()
}

// Scorer scores and ranks feature rows for one mission application.
type Scorer struct {
	application Application
	weights     Weights
}

// NewScorer creates a Scorer for the given application. A nil tables
// argument selects the built-in DefaultWeights. The weight table is
// validated here, so a configuration mistake surfaces before scoring.
func NewScorer(application Application, tables map[Application]Weights) (*Scorer, error) {
	if tables == nil {
		tables = DefaultWeights()
	}

	weights, ok := tables[application]
	if !ok {
		return nil, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownApplication, application, applicationList(tables))
	}
	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("weights for %q: %w", application, err)
	}

	return &Scorer{application: application, weights: weights}, nil
}

// Application returns the mission profile this scorer was built for.
func (s *Scorer) Application() Application {
	return s.application
}

// Rank normalizes the six feature columns over the whole row set,
// computes the weighted score per row and returns the rows sorted by
// score, highest first. Because normalization spans the full
// population, a row's score changes when the candidate set changes.
//
// No rows are dropped. Rows with NaN features (for example a missing
// zero-alpha sample) keep a NaN score and sort after all valid rows;
// ties and NaNs keep their input order.
func (s *Scorer) Rank(rows []polar.FeatureRow) []ScoredRow {
	out := make([]ScoredRow, len(rows))

	optimumCL := make([]float64, len(rows))
	optimumCD := make([]float64, len(rows))
	maxRatio := make([]float64, len(rows))
	clMax := make([]float64, len(rows))
	clAtZero := make([]float64, len(rows))
	angleDiff := make([]float64, len(rows))
	for i, row := range rows {
		optimumCL[i] = row.OptimumCL
		optimumCD[i] = row.OptimumCD
		maxRatio[i] = row.MaxCLOverCD
		clMax[i] = row.CLMax
		clAtZero[i] = row.CLAtZero
		angleDiff[i] = row.AngleDiff
	}

	optimumCLN := Normalize(optimumCL, false)
	optimumCDN := Normalize(optimumCD, true)
	maxRatioN := Normalize(maxRatio, false)
	clMaxN := Normalize(clMax, false)
	clAtZeroN := Normalize(clAtZero, false)
	angleDiffN := Normalize(angleDiff, false)

	for i, row := range rows {
		out[i] = ScoredRow{
			FeatureRow:      row,
			OptimumCLNorm:   optimumCLN[i],
			OptimumCDNorm:   optimumCDN[i],
			MaxCLOverCDNorm: maxRatioN[i],
			CLMaxNorm:       clMaxN[i],
			CLAtZeroNorm:    clAtZeroN[i],
			AngleDiffNorm:   angleDiffN[i],
		}

		var score float64
		for _, feature := range featureOrder {
			weight, ok := s.weights[feature]
			if !ok || weight == 0 {
				continue
			}
			score += weight * out[i].normalized(feature)
		}
		out[i].Score = score
	}

	sort.SliceStable(out, func(i, j int) bool {
		return sortValue(out[i].Score) > sortValue(out[j].Score)
	})
	return out
}

// sortValue places NaN scores after every real score.
func sortValue(v float64) float64 {
	if math.IsNaN(v) {
		return math.Inf(-1)
	}
	return v
}
