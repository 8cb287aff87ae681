// Package scoring ranks extracted airfoil feature rows against a
// mission profile using normalized, weighted criteria.
package scoring

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	ApplicationPayload   Application = "payload"
	ApplicationEndurance Application = "endurance"
	ApplicationTrainer   Application = "trainer"
)

// ErrUnknownFeature is wrapped by Weights.Validate for weight table
// entries that do not name a scorable feature.
var ErrUnknownFeature = errors.New("unknown scoring feature")

// Application selects one of the mission-specific weight tables.
type Application string

func (a Application) String() string {
	return string(a)
}

// Feature names one normalized feature column. The names match the
// column labels used in exported tables.
type Feature string

const (
	FeatureOptimumCL   Feature = "Optimum_CL_n"
	FeatureOptimumCD   Feature = "Optimum_CD_n"
	FeatureMaxCLOverCD Feature = "MAX_CL/CD_n"
	FeatureCLMax       Feature = "CL_max_n"
	FeatureCLAtZero    Feature = "CL_at_0_deg_n"
	FeatureAngleDiff   Feature = "angle_diff_n"
)

// featureOrder fixes the summation order of the weighted score so that
// scoring is bit-for-bit reproducible across runs; iterating the weight
// map directly would let float addition order vary.
var featureOrder = []Feature{
	FeatureOptimumCL,
	FeatureOptimumCD,
	FeatureMaxCLOverCD,
	FeatureCLMax,
	FeatureCLAtZero,
	FeatureAngleDiff,
}

var knownFeatures = map[Feature]struct{}{
	FeatureOptimumCL:   {},
	FeatureOptimumCD:   {},
	FeatureMaxCLOverCD: {},
	FeatureCLMax:       {},
	FeatureCLAtZero:    {},
	FeatureAngleDiff:   {},
}

// Weights maps features to non-negative weights. Features absent from
// the map contribute nothing to the score. Weights are not required to
// sum to 1, although the default tables do.
type Weights map[Feature]float64

// Validate rejects entries naming unknown features and negative
// weights. It is called when a Scorer is constructed, so a bad table
// fails before any scoring pass runs.
func (w Weights) Validate() error {
	for feature, weight := range w {
		if _, ok := knownFeatures[feature]; !ok {
			return fmt.Errorf("%w: %q (valid: %s)", ErrUnknownFeature, feature, knownFeatureList())
		}
		if weight < 0 {
			return fmt.Errorf("weight for %q must not be negative: %v", feature, weight)
		}
	}
	return nil
}

// DefaultWeights returns the built-in mission weight tables.
func DefaultWeights() map[Application]Weights {
	return map[Application]Weights{
		ApplicationPayload: {
			FeatureMaxCLOverCD: 0.25,
			FeatureOptimumCL:   0.30,
			FeatureCLMax:       0.20,
			FeatureCLAtZero:    0.10,
			FeatureAngleDiff:   0.10,
			FeatureOptimumCD:   0.05,
		},
		ApplicationEndurance: {
			FeatureMaxCLOverCD: 0.40,
			FeatureOptimumCD:   0.20,
			FeatureOptimumCL:   0.15,
			FeatureAngleDiff:   0.15,
			FeatureCLAtZero:    0.10,
		},
		ApplicationTrainer: {
			FeatureAngleDiff:   0.35,
			FeatureCLAtZero:    0.20,
			FeatureCLMax:       0.20,
			FeatureMaxCLOverCD: 0.15,
			FeatureOptimumCL:   0.10,
		},
	}
}

func knownFeatureList() string {
	names := make([]string, 0, len(knownFeatures))
	for feature := range knownFeatures {
		names = append(names, string(feature))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func applicationList(tables map[Application]Weights) string {
	names := make([]string, 0, len(tables))
	for app := range tables {
		names = append(names, string(app))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
