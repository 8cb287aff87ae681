package wing

import (
	"errors"
	"fmt"

	"github.com/aeroclub-nitte/wing-analyzer/internal/scoring"
)

var (
	ErrNoAspectRatios = errors.New("at least one aspect ratio is required")
	ErrBadVelocity    = errors.New("velocity must be positive")
	ErrBadWingspan    = errors.New("maximum wingspan must be positive")
)

// Configuration is one candidate rectangular wing: a ranked airfoil row
// expanded with concrete geometry. Wingspan is always AspectRatio *
// Chord and Chord is always positive.
type Configuration struct {
	AirfoilName string
	Reynolds    float64
	Chord       float64
	AspectRatio float64
	Wingspan    float64
	Velocity    float64

	OptimumAngle  float64
	OptimumCL     float64
	OptimumCD     float64
	MaxCLOverCD   float64
	CLMax         float64
	CLAtZero      float64
	StallAngleDeg float64
	AngleDiff     float64
	Score         float64
}

// Designer expands ranked airfoil rows into wing configurations under a
// span constraint.
type Designer struct {
	env          Environment
	velocity     float64
	maxWingspan  float64
	aspectRatios []float64
}

// NewDesigner validates the design inputs up front; a Designer that
// constructs successfully cannot fail during expansion.
func NewDesigner(env Environment, velocity, maxWingspan float64, aspectRatios []float64) (*Designer, error) {
	if velocity <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrBadVelocity, velocity)
	}
	if maxWingspan <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrBadWingspan, maxWingspan)
	}
	if len(aspectRatios) == 0 {
		return nil, ErrNoAspectRatios
	}
	for _, ar := range aspectRatios {
		if ar <= 0 {
			return nil, fmt.Errorf("aspect ratio must be positive: %v", ar)
		}
	}

	return &Designer{
		env:          env,
		velocity:     velocity,
		maxWingspan:  maxWingspan,
		aspectRatios: aspectRatios,
	}, nil
}

// Chord returns the chord length in meters that reproduces the given
// Reynolds number at the design velocity.
func (d *Designer) Chord(reynolds float64) float64 {
	return reynolds * d.env.KinematicViscosity / (d.env.AirDensity * d.velocity)
}

// Expand enumerates every (row, aspect ratio) pair whose implied
// wingspan fits the span limit, boundary included. A row whose every
// aspect ratio overshoots the limit contributes nothing. Output order
// is input row order, then aspect-ratio order; no re-sort.
func (d *Designer) Expand(rows []scoring.ScoredRow) []Configuration {
	var configs []Configuration
	for _, row := range rows {
		chord := d.Chord(row.Reynolds)

		for _, ar := range d.aspectRatios {
			wingspan := ar * chord
			if wingspan > d.maxWingspan {
				continue
			}

			configs = append(configs, Configuration{
				AirfoilName:   row.AirfoilName,
				Reynolds:      row.Reynolds,
				Chord:         chord,
				AspectRatio:   ar,
				Wingspan:      wingspan,
				Velocity:      d.velocity,
				OptimumAngle:  row.OptimumAngle,
				OptimumCL:     row.OptimumCL,
				OptimumCD:     row.OptimumCD,
				MaxCLOverCD:   row.MaxCLOverCD,
				CLMax:         row.CLMax,
				CLAtZero:      row.CLAtZero,
				StallAngleDeg: row.StallAngleDeg,
				AngleDiff:     row.AngleDiff,
				Score:         row.Score,
			})
		}
	}
	return configs
}
