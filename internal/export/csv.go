// Package export writes every pipeline stage table as flat CSV using
// the reference column labels, so the output stays drop-in compatible
// with existing downstream spreadsheets.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/aeroclub-nitte/wing-analyzer/internal/polar"
	"github.com/aeroclub-nitte/wing-analyzer/internal/scoring"
	"github.com/aeroclub-nitte/wing-analyzer/internal/wing"
)

// WriteSweep exports raw sweep points, one row per (airfoil, alpha, Re)
// sample.
func WriteSweep(w io.Writer, points []polar.Point) error {
	cw := csv.NewWriter(w)

	header := []string{"airfoil_name", "alpha_deg", "Re", "Velocity", "CL", "CD", "CL/CD", "CM"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, p := range points {
		record := []string{
			p.AirfoilName,
			formatFloat(p.AlphaDeg),
			formatFloat(p.Reynolds),
			formatFloat(p.Velocity),
			formatFloat(p.CL),
			formatFloat(p.CD),
			formatFloat(p.CLOverCD),
			formatFloat(p.CM),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteRanked exports scored feature rows in rank order, normalized
// columns included.
func WriteRanked(w io.Writer, rows []scoring.ScoredRow) error {
	cw := csv.NewWriter(w)

	header := []string{
		"airfoil_name", "Re", "Optimum_angle", "Optimum_CL", "Optimum_CD", "MAX_CL/CD",
		"CL_max", "CL_at_0_deg", "CD_at_0_deg", "stall_angle_deg", "angle_diff",
		"Optimum_CL_n", "Optimum_CD_n", "MAX_CL/CD_n", "CL_max_n", "CL_at_0_deg_n", "angle_diff_n",
		"score",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		record := []string{
			r.AirfoilName,
			formatFloat(r.Reynolds),
			formatFloat(r.OptimumAngle),
			formatFloat(r.OptimumCL),
			formatFloat(r.OptimumCD),
			formatFloat(r.MaxCLOverCD),
			formatFloat(r.CLMax),
			formatFloat(r.CLAtZero),
			formatFloat(r.CDAtZero),
			formatFloat(r.StallAngleDeg),
			formatFloat(r.AngleDiff),
			formatFloat(r.OptimumCLNorm),
			formatFloat(r.OptimumCDNorm),
			formatFloat(r.MaxCLOverCDNorm),
			formatFloat(r.CLMaxNorm),
			formatFloat(r.CLAtZeroNorm),
			formatFloat(r.AngleDiffNorm),
			formatFloat(r.Score),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteResults exports evaluated wing configurations with their solver
// coefficients.
func WriteResults(w io.Writer, results []wing.Result) error {
	cw := csv.NewWriter(w)

	header := []string{
		"airfoil_name", "Re", "Suitable_chord", "Aspect_Ratio", "Wingspan_m", "velocity",
		"Optimum_angle", "Optimum_CL", "Optimum_CD", "MAX_CL/CD", "CL_max", "CL_at_0_deg",
		"stall_angle_deg", "angle_diff", "score", "CL", "CD", "CM",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range results {
		record := []string{
			r.AirfoilName,
			formatFloat(r.Reynolds),
			formatFloat(r.Chord),
			formatFloat(r.AspectRatio),
			formatFloat(r.Wingspan),
			formatFloat(r.Velocity),
			formatFloat(r.OptimumAngle),
			formatFloat(r.OptimumCL),
			formatFloat(r.OptimumCD),
			formatFloat(r.MaxCLOverCD),
			formatFloat(r.CLMax),
			formatFloat(r.CLAtZero),
			formatFloat(r.StallAngleDeg),
			formatFloat(r.AngleDiff),
			formatFloat(r.Score),
			formatFloat(r.CL),
			formatFloat(r.CD),
			formatFloat(r.CM),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteSuitableWings exports the final ranked shortlist.
func WriteSuitableWings(w io.Writer, wings []wing.SuitableWing) error {
	cw := csv.NewWriter(w)

	header := []string{
		"airfoil_name", "Re", "velocity", "Aspect_Ratio", "Suitable_chord", "Wingspan_m",
		"Lift_N", "Lift_Kgs", "Optimum_angle", "Optimum_CL", "MAX_CL/CD",
		"Lift_norm", "Span_norm", "final_score",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, sw := range wings {
		record := []string{
			sw.AirfoilName,
			formatFloat(sw.Reynolds),
			formatFloat(sw.Velocity),
			formatFloat(sw.AspectRatio),
			formatFloat(sw.Chord),
			formatFloat(sw.Wingspan),
			formatFloat(sw.LiftN),
			formatFloat(sw.LiftKgs),
			formatFloat(sw.OptimumAngle),
			formatFloat(sw.OptimumCL),
			formatFloat(sw.MaxCLOverCD),
			formatFloat(sw.LiftNorm),
			formatFloat(sw.SpanNorm),
			formatFloat(sw.FinalScore),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ToFile writes a table to path, replacing any existing file.
func ToFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cErr := f.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	return write(f)
}

// formatFloat renders NaN (a missing measurement) as an empty cell.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
