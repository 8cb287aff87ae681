package solver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeroclub-nitte/wing-analyzer/internal/wing"
)

func TestVLMCommand_Args(t *testing.T) {
	cmd := vlmCommand{binary: "vlmrun", airfoilPath: "airfoils/mh60.dat", cfg: wing.Configuration{
		Chord:        0.3,
		Wingspan:     1.5,
		Velocity:     13,
		OptimumAngle: 3.2,
	}}

	args := cmd.Cmd(context.Background()).Args
	assert.Equal(t, []string{
		"vlmrun",
		"--airfoil", "airfoils/mh60.dat",
		"--chord", "0.3",
		"--span", "1.5",
		"--velocity", "13",
		"--alpha", "3.2",
		"--format", "csv",
	}, args)
}

func TestVLMCommand_LastCoefficientLineWins(t *testing.T) {
	cmd := vlmCommand{}

	require.NoError(t, cmd.Parse("0.80, 0.040, -0.050"))
	require.NoError(t, cmd.Parse("0.85, 0.038, -0.052"))
	require.True(t, cmd.parsed)
	assert.Equal(t, wing.Coefficients{CL: 0.85, CD: 0.038, CM: -0.052}, cmd.coeffs)
}

func TestVLMCommand_ParseRejectsBadLines(t *testing.T) {
	cmd := vlmCommand{}

	assert.Error(t, cmd.Parse("0.8,0.04"))
	assert.Error(t, cmd.Parse("x,0.04,-0.05"))
	assert.False(t, cmd.parsed)
}

func TestVLMEvaluator_MissingAirfoilFile(t *testing.T) {
	e := NewVLMEvaluator("", t.TempDir(), nil)

	_, err := e.Evaluate(context.Background(), wing.Configuration{AirfoilName: "ghost"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "airfoil file not found")
}
