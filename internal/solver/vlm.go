package solver

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aeroclub-nitte/wing-analyzer/internal/wing"
)

// DefaultVLMBinary is the vortex-lattice solver CLI used to evaluate a
// full rectangular wing.
const DefaultVLMBinary = "vlmrun"

// VLMEvaluator implements wing.Evaluator by shelling out to a
// vortex-lattice solver for a rectangular, symmetric, untwisted
// two-section wing at the configuration's optimum angle.
type VLMEvaluator struct {
	binary      string
	airfoilsDir string
	logger      *slog.Logger
}

// NewVLMEvaluator creates an evaluator resolving airfoil .dat files in
// airfoilsDir. An empty binary selects DefaultVLMBinary.
func NewVLMEvaluator(binary, airfoilsDir string, logger *slog.Logger) *VLMEvaluator {
	if binary == "" {
		binary = DefaultVLMBinary
	}
	return &VLMEvaluator{binary: binary, airfoilsDir: airfoilsDir, logger: logger}
}

// Evaluate runs the solver for one configuration. A missing airfoil
// file or a solver failure is returned as an error for the caller's
// batch report; it never panics the batch.
func (e *VLMEvaluator) Evaluate(ctx context.Context, cfg wing.Configuration) (wing.Coefficients, error) {
	path := filepath.Join(e.airfoilsDir, cfg.AirfoilName+".dat")
	if _, err := os.Stat(path); err != nil {
		return wing.Coefficients{}, fmt.Errorf("airfoil file not found: %w", err)
	}

	cmd := vlmCommand{binary: e.binary, airfoilPath: path, cfg: cfg}

	var options []func(*Runner)
	if e.logger != nil {
		options = append(options, WithLogger(e.logger))
	}

	if err := NewRunner(&cmd, options...).Run(ctx); err != nil {
		return wing.Coefficients{}, err
	}
	if !cmd.parsed {
		return wing.Coefficients{}, fmt.Errorf("%s produced no coefficient line", e.binary)
	}

	return cmd.coeffs, nil
}

// vlmCommand builds and parses one solver invocation. The solver
// prints a single CSV line: CL,CD,CM. Later coefficient lines
// overwrite earlier ones, matching solvers that iterate to
// convergence and print the final state last.
type vlmCommand struct {
	binary      string
	airfoilPath string
	cfg         wing.Configuration

	coeffs wing.Coefficients
	parsed bool
}

func (c *vlmCommand) Cmd(ctx context.Context) *exec.Cmd {
	args := []string{
		"--airfoil", c.airfoilPath,
		"--chord", formatFloat(c.cfg.Chord),
		"--span", formatFloat(c.cfg.Wingspan),
		"--velocity", formatFloat(c.cfg.Velocity),
		"--alpha", formatFloat(c.cfg.OptimumAngle),
		"--format", "csv",
	}
	return exec.CommandContext(ctx, c.binary, args...)
}

func (c *vlmCommand) Parse(line string) error {
	fields := strings.Split(line, ",")
	if len(fields) != 3 {
		return fmt.Errorf("expected 3 fields, got %d", len(fields))
	}

	values := make([]float64, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return fmt.Errorf("field %d: %w", i+1, err)
		}
		values[i] = v
	}

	c.coeffs = wing.Coefficients{CL: values[0], CD: values[1], CM: values[2]}
	c.parsed = true
	return nil
}

func (c *vlmCommand) Tool() string {
	return c.binary
}
