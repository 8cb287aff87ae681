// Package polar holds 2D airfoil sweep data and the grouped feature
// extraction that reduces a raw sweep to one operating-point row per
// (airfoil, Reynolds) pair.
package polar

import "math"

// Point is a single surrogate measurement for one (airfoil, alpha,
// Reynolds) triple. Points are immutable once produced.
type Point struct {
	AirfoilName string
	Reynolds    float64
	AlphaDeg    float64
	Velocity    float64 // m/s, the design velocity the sweep was run at
	CL          float64
	CD          float64
	CLOverCD    float64
	CM          float64
}

// AlphaGrid returns angles of attack from min to max (inclusive) in
// uniform steps. Accumulated floating-point noise is snapped, and the
// exact value 0.0 is always inserted when the range straddles it, so
// downstream zero-alpha extraction never depends on the step dividing
// evenly into zero.
func AlphaGrid(min, max, step float64) []float64 {
	if step <= 0 || max < min {
		return nil
	}

	eps := step * 1e-6
	n := int(math.Round((max-min)/step)) + 1
	grid := make([]float64, 0, n+1)

	sawZero := false
	for i := 0; i < n; i++ {
		a := min + float64(i)*step
		if math.Abs(a) < eps {
			a = 0
		}
		if math.Abs(a-max) < eps {
			a = max
		}
		if a > max {
			break
		}
		if a == 0 {
			sawZero = true
		}
		if !sawZero && a > 0 {
			grid = append(grid, 0)
			sawZero = true
		}
		grid = append(grid, a)
	}
	if !sawZero && min <= 0 && 0 <= max {
		grid = append(grid, 0)
	}
	return grid
}

// ReynoldsGrid returns points geometrically spaced between min and max
// (inclusive), mirroring how scale effects are sampled: multiplicative
// steps, not additive ones.
func ReynoldsGrid(min, max float64, points int) []float64 {
	if points <= 0 || min <= 0 || max < min {
		return nil
	}
	if points == 1 {
		return []float64{min}
	}

	grid := make([]float64, points)
	ratio := math.Pow(max/min, 1/float64(points-1))
	for i := range grid {
		grid[i] = min * math.Pow(ratio, float64(i))
	}
	grid[points-1] = max
	return grid
}
