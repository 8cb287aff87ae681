package wing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEvaluator returns canned coefficients keyed by airfoil name and
// fails for names in the fail set.
type stubEvaluator struct {
	coeffs map[string]Coefficients
	fail   map[string]error
	calls  []string
}

func (s *stubEvaluator) Evaluate(_ context.Context, cfg Configuration) (Coefficients, error) {
	s.calls = append(s.calls, cfg.AirfoilName)
	if err, ok := s.fail[cfg.AirfoilName]; ok {
		return Coefficients{}, err
	}
	return s.coeffs[cfg.AirfoilName], nil
}

func namedConfig(name string) Configuration {
	return Configuration{AirfoilName: name, Chord: 0.3, AspectRatio: 5, Wingspan: 1.5, Velocity: 13}
}

func TestEvaluateAll_AllSucceed(t *testing.T) {
	ev := &stubEvaluator{coeffs: map[string]Coefficients{
		"a": {CL: 0.8, CD: 0.03, CM: -0.04},
		"b": {CL: 1.1, CD: 0.05, CM: -0.06},
	}}

	results, report := EvaluateAll(context.Background(), ev, []Configuration{namedConfig("a"), namedConfig("b")})
	require.Len(t, results, 2)
	assert.Equal(t, 2, report.Evaluated)
	assert.Equal(t, 2, report.Succeeded)
	assert.Empty(t, report.Failures)

	assert.Equal(t, "a", results[0].AirfoilName)
	assert.Equal(t, 0.8, results[0].CL)
	assert.Equal(t, "b", results[1].AirfoilName)
	assert.Equal(t, 1.1, results[1].CL)
}

func TestEvaluateAll_FailureIsIsolated(t *testing.T) {
	solverErr := errors.New("solver diverged")
	ev := &stubEvaluator{
		coeffs: map[string]Coefficients{
			"a": {CL: 0.8},
			"c": {CL: 0.9},
		},
		fail: map[string]error{"b": solverErr},
	}

	configs := []Configuration{namedConfig("a"), namedConfig("b"), namedConfig("c")}
	results, report := EvaluateAll(context.Background(), ev, configs)

	// The failure skips one item without aborting the batch.
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].AirfoilName)
	assert.Equal(t, "c", results[1].AirfoilName)
	assert.Equal(t, []string{"a", "b", "c"}, ev.calls)

	assert.Equal(t, 3, report.Evaluated)
	assert.Equal(t, 2, report.Succeeded)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, 1, report.Failures[0].Index)
	assert.Equal(t, "b", report.Failures[0].AirfoilName)
	assert.ErrorIs(t, report.Failures[0].Err, solverErr)
}

func TestEvaluateAll_CancelledContextStopsBatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ev := &stubEvaluator{coeffs: map[string]Coefficients{"a": {CL: 0.8}}}
	results, report := EvaluateAll(ctx, ev, []Configuration{namedConfig("a"), namedConfig("b")})

	assert.Empty(t, results)
	assert.Empty(t, ev.calls)
	require.Len(t, report.Failures, 1)
	assert.ErrorIs(t, report.Failures[0].Err, context.Canceled)

	// The evaluator never ran, so nothing counts as evaluated.
	assert.Equal(t, 0, report.Evaluated)
	assert.Equal(t, 0, report.Succeeded)
}

func TestEvaluateAll_EmptyInput(t *testing.T) {
	ev := &stubEvaluator{}
	results, report := EvaluateAll(context.Background(), ev, nil)
	assert.Empty(t, results)
	assert.Equal(t, 0, report.Evaluated)
	assert.Equal(t, 0, report.Succeeded)
}
