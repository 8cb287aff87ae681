package scoring

import "math"

// Normalize rescales values linearly so that the minimum maps to 0.0 and
// the maximum maps to 1.0. When invert is true all values are negated
// first, which is used for lower-is-better columns such as drag.
//
// The result depends on the whole input slice: the same value normalizes
// differently over a different population. NaN inputs are ignored when
// locating the minimum and maximum and stay NaN in the output. A constant
// input has no range, so every element becomes NaN (0/0); callers are
// expected to let that propagate rather than treat it as an error.
func Normalize(values []float64, invert bool) []float64 {
	out := make([]float64, len(values))

	min, max := math.NaN(), math.NaN()
	for _, v := range values {
		if invert {
			v = -v
		}
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(min) || v < min {
			min = v
		}
		if math.IsNaN(max) || v > max {
			max = v
		}
	}

	span := max - min
	for i, v := range values {
		if invert {
			v = -v
		}
		out[i] = (v - min) / span
	}
	return out
}
