package solver

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"github.com/aeroclub-nitte/wing-analyzer/internal/polar"
)

// DefaultSurrogateBinary is the aerodynamic surrogate CLI queried for
// 2D section coefficients.
const DefaultSurrogateBinary = "neuralfoil"

// SweepRequest is one batched surrogate query: every combination of
// the requested angles and Reynolds numbers for a single airfoil.
type SweepRequest struct {
	AirfoilPath string
	AirfoilName string
	AlphaDeg    []float64
	Reynolds    []float64
	Mach        float64
	Velocity    float64 // recorded on each returned point
	ModelSize   string  // surrogate model size, e.g. "xxxlarge"
}

// Surrogate runs sweep queries against the external surrogate tool.
type Surrogate struct {
	binary string
	logger *slog.Logger
}

// NewSurrogate creates a Surrogate. An empty binary selects
// DefaultSurrogateBinary. A nil logger discards diagnostics.
func NewSurrogate(binary string, logger *slog.Logger) *Surrogate {
	if binary == "" {
		binary = DefaultSurrogateBinary
	}
	return &Surrogate{binary: binary, logger: logger}
}

// Sweep queries the surrogate for the full alpha x Reynolds grid and
// returns one point per grid cell, in tool output order.
func (s *Surrogate) Sweep(ctx context.Context, req SweepRequest) ([]polar.Point, error) {
	if req.AirfoilPath == "" {
		return nil, fmt.Errorf("airfoil path is required")
	}
	if len(req.AlphaDeg) == 0 || len(req.Reynolds) == 0 {
		return nil, fmt.Errorf("sweep grid is empty")
	}

	cmd := sweepCommand{binary: s.binary, req: req}

	var options []func(*Runner)
	if s.logger != nil {
		options = append(options, WithLogger(s.logger))
	}

	if err := NewRunner(&cmd, options...).Run(ctx); err != nil {
		return nil, fmt.Errorf("surrogate sweep of %s: %w", req.AirfoilName, err)
	}
	if len(cmd.points) == 0 {
		return nil, fmt.Errorf("surrogate sweep of %s produced no data", req.AirfoilName)
	}

	return cmd.points, nil
}

// sweepCommand builds and parses one surrogate invocation. Output is
// one CSV line per grid point: alpha_deg,Re,CL,CD,CM.
type sweepCommand struct {
	binary string
	req    SweepRequest
	points []polar.Point
}

func (c *sweepCommand) Cmd(ctx context.Context) *exec.Cmd {
	args := []string{
		"--airfoil", c.req.AirfoilPath,
		"--alpha", joinFloats(c.req.AlphaDeg),
		"--re", joinFloats(c.req.Reynolds),
		"--mach", formatFloat(c.req.Mach),
		"--format", "csv",
	}
	if c.req.ModelSize != "" {
		args = append(args, "--model-size", c.req.ModelSize)
	}
	return exec.CommandContext(ctx, c.binary, args...)
}

func (c *sweepCommand) Parse(line string) error {
	fields := strings.Split(line, ",")
	if len(fields) != 5 {
		return fmt.Errorf("expected 5 fields, got %d", len(fields))
	}

	values := make([]float64, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return fmt.Errorf("field %d: %w", i+1, err)
		}
		values[i] = v
	}

	c.points = append(c.points, polar.Point{
		AirfoilName: c.req.AirfoilName,
		AlphaDeg:    values[0],
		Reynolds:    values[1],
		Velocity:    c.req.Velocity,
		CL:          values[2],
		CD:          values[3],
		CLOverCD:    values[2] / values[3],
		CM:          values[4],
	})
	return nil
}

func (c *sweepCommand) Tool() string {
	return c.binary
}

func joinFloats(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatFloat(v)
	}
	return strings.Join(parts, ",")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
