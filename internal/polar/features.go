package polar

import "math"

// Band is a closed angle-of-attack range in degrees.
type Band struct {
	Min float64
	Max float64
}

// Contains reports whether alpha lies inside the band, boundaries included.
func (b Band) Contains(alpha float64) bool {
	return alpha >= b.Min && alpha <= b.Max
}

// FeatureRow is the reduced operating-point view of one (airfoil,
// Reynolds) group. CLAtZero and CDAtZero are NaN when the sweep had no
// sample at exactly zero alpha; the NaN is deliberate so the gap stays
// visible in downstream scores and exports instead of being silently
// imputed.
type FeatureRow struct {
	AirfoilName string
	Reynolds    float64
	Velocity    float64

	OptimumAngle float64 // alpha of max CL/CD inside the operating band
	OptimumCL    float64
	OptimumCD    float64
	MaxCLOverCD  float64

	StallAngleDeg float64 // alpha of max CL over the whole sweep
	CLMax         float64

	CLAtZero float64
	CDAtZero float64

	AngleDiff float64 // stall margin: StallAngleDeg - OptimumAngle, may be negative
}

// Report summarises what Extract dropped or could not fill in. None of
// these are errors: a group without in-band samples is simply absent,
// and a missing zero-alpha sample leaves NaN in the emitted row.
type Report struct {
	Groups         int // distinct (airfoil, Reynolds) groups in the sweep
	Extracted      int // rows emitted
	MissingOptimum int // groups skipped: no samples inside the operating band
	MissingZero    int // rows emitted without an exact alpha == 0 sample
}

type groupKey struct {
	name     string
	reynolds float64
}

type groupAgg struct {
	stall   Point
	optimum Point
	hasOpt  bool
	zero    Point
	hasZero bool
}

// Extract reduces a raw sweep to one FeatureRow per (airfoil, Reynolds)
// group. Three grouped selections are made per group: the stall point
// (arg-max CL over all samples), the optimum operating point (arg-max
// CL/CD restricted to band) and the zero-alpha coefficients. Ties keep
// the first sample in input order. Output rows follow the first
// occurrence of each group in the input.
func Extract(points []Point, band Band) ([]FeatureRow, Report) {
	groups := make(map[groupKey]*groupAgg)
	var order []groupKey

	for _, p := range points {
		key := groupKey{p.AirfoilName, p.Reynolds}
		agg, ok := groups[key]
		if !ok {
			agg = &groupAgg{stall: p}
			groups[key] = agg
			order = append(order, key)
		} else if p.CL > agg.stall.CL {
			agg.stall = p
		}

		if band.Contains(p.AlphaDeg) && (!agg.hasOpt || p.CLOverCD > agg.optimum.CLOverCD) {
			agg.optimum = p
			agg.hasOpt = true
		}

		if p.AlphaDeg == 0 && !agg.hasZero {
			agg.zero = p
			agg.hasZero = true
		}
	}

	report := Report{Groups: len(order)}
	rows := make([]FeatureRow, 0, len(order))
	for _, key := range order {
		agg := groups[key]
		if !agg.hasOpt {
			report.MissingOptimum++
			continue
		}

		row := FeatureRow{
			AirfoilName:   key.name,
			Reynolds:      key.reynolds,
			Velocity:      agg.optimum.Velocity,
			OptimumAngle:  agg.optimum.AlphaDeg,
			OptimumCL:     agg.optimum.CL,
			OptimumCD:     agg.optimum.CD,
			MaxCLOverCD:   agg.optimum.CLOverCD,
			StallAngleDeg: agg.stall.AlphaDeg,
			CLMax:         agg.stall.CL,
			CLAtZero:      math.NaN(),
			CDAtZero:      math.NaN(),
		}
		if agg.hasZero {
			row.CLAtZero = agg.zero.CL
			row.CDAtZero = agg.zero.CD
		} else {
			report.MissingZero++
		}
		row.AngleDiff = row.StallAngleDeg - row.OptimumAngle

		rows = append(rows, row)
	}

	report.Extracted = len(rows)
	return rows, report
}
