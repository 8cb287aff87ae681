package wing

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/aeroclub-nitte/wing-analyzer/internal/scoring"
)

var ErrBadWeight = errors.New("takeoff weight must be positive")

// SuitableWing is a wing configuration that generates enough lift for
// the required takeoff weight, extended with the derived lift figures
// and the final ranking score.
type SuitableWing struct {
	AirfoilName string
	Reynolds    float64
	Velocity    float64
	AspectRatio float64
	Chord       float64
	Wingspan    float64

	LiftN   float64
	LiftKgs float64

	OptimumAngle float64
	OptimumCL    float64
	MaxCLOverCD  float64

	LiftNorm   float64
	SpanNorm   float64
	FinalScore float64
}

// Selector filters evaluated wings against a required takeoff weight
// and ranks the survivors.
type Selector struct {
	env       Environment
	velocity  float64
	requiredN float64
}

// NewSelector creates a Selector for the given maximum takeoff weight
// in kilograms.
func NewSelector(env Environment, mtowKgs, velocity float64) (*Selector, error) {
	if mtowKgs <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrBadWeight, mtowKgs)
	}
	if velocity <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrBadVelocity, velocity)
	}

	return &Selector{
		env:       env,
		velocity:  velocity,
		requiredN: mtowKgs * env.Gravity,
	}, nil
}

// RequiredLiftN returns the lift threshold in Newtons.
func (s *Selector) RequiredLiftN() float64 {
	return s.requiredN
}

// Lift returns the lift force in Newtons for a rectangular wing of the
// given chord and span: CL * q * S with S = chord * wingspan.
func (s *Selector) Lift(cl, chord, wingspan float64) float64 {
	return cl * 0.5 * s.env.AirDensity * s.velocity * s.velocity * chord * wingspan
}

// FilterAndRank keeps results whose lift meets the required weight
// (boundary inclusive) and ranks survivors by an equally weighted
// combination of lift and span, both normalized over the surviving
// population only. Zero survivors is a legitimate outcome and yields
// an empty slice, not an error. Ties keep their input order.
func (s *Selector) FilterAndRank(results []Result) []SuitableWing {
	var wings []SuitableWing
	for _, r := range results {
		lift := s.Lift(r.CL, r.Chord, r.Wingspan)
		if lift < s.requiredN {
			continue
		}

		wings = append(wings, SuitableWing{
			AirfoilName:  r.AirfoilName,
			Reynolds:     r.Reynolds,
			Velocity:     r.Velocity,
			AspectRatio:  r.AspectRatio,
			Chord:        r.Chord,
			Wingspan:     r.Wingspan,
			LiftN:        lift,
			LiftKgs:      lift / s.env.Gravity,
			OptimumAngle: r.OptimumAngle,
			OptimumCL:    r.OptimumCL,
			MaxCLOverCD:  r.MaxCLOverCD,
		})
	}
	if len(wings) == 0 {
		return nil
	}

	lifts := make([]float64, len(wings))
	spans := make([]float64, len(wings))
	for i, w := range wings {
		lifts[i] = w.LiftKgs
		spans[i] = w.Wingspan
	}

	liftNorm := scoring.Normalize(lifts, false)
	spanNorm := scoring.Normalize(spans, false)
	for i := range wings {
		wings[i].LiftNorm = liftNorm[i]
		wings[i].SpanNorm = spanNorm[i]
		wings[i].FinalScore = 0.5*liftNorm[i] + 0.5*spanNorm[i]
	}

	sort.SliceStable(wings, func(i, j int) bool {
		return sortValue(wings[i].FinalScore) > sortValue(wings[j].FinalScore)
	})
	return wings
}

// sortValue places NaN final scores (a single-survivor population has
// no normalization range) after every real score.
func sortValue(v float64) float64 {
	if math.IsNaN(v) {
		return math.Inf(-1)
	}
	return v
}
