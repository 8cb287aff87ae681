package app

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeroclub-nitte/wing-analyzer/internal/polar"
	"github.com/aeroclub-nitte/wing-analyzer/internal/wing"
)

// fixedCLEvaluator returns per-airfoil canned coefficients instead of
// shelling out to the vortex-lattice solver.
type fixedCLEvaluator struct {
	cl map[string]float64
}

func (e *fixedCLEvaluator) Evaluate(_ context.Context, cfg wing.Configuration) (wing.Coefficients, error) {
	return wing.Coefficients{CL: e.cl[cfg.AirfoilName], CD: 0.03, CM: -0.05}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// polarCurve builds sweep points for alphas 0..5 from parallel CL and
// CD slices.
func polarCurve(name string, re float64, cls, cds []float64) []polar.Point {
	points := make([]polar.Point, len(cls))
	for i := range cls {
		points[i] = polar.Point{
			AirfoilName: name,
			Reynolds:    re,
			AlphaDeg:    float64(i),
			Velocity:    13,
			CL:          cls[i],
			CD:          cds[i],
			CLOverCD:    cls[i] / cds[i],
		}
	}
	return points
}

func testConfig(t *testing.T) *Config {
	t.Helper()
	config := NewConfig()
	config.Output.DataDirectory = filepath.Join(t.TempDir(), "data")
	config.Output.OutputDirectory = filepath.Join(t.TempDir(), "output")
	require.NoError(t, config.Validate())
	return config
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestDesignFromPoints_EndToEnd(t *testing.T) {
	ctx := context.Background()
	config := testConfig(t)

	// ag12 peaks flat: optimum and stall coincide. mh60 has a distinct
	// low-drag optimum below its stall, so every scored column varies
	// across the two airfoils.
	points := append(
		polarCurve("ag12", 3e5,
			[]float64{0.3, 0.5, 0.8, 1.0, 0.9, 0.7},
			[]float64{0.05, 0.05, 0.05, 0.05, 0.05, 0.05}),
		polarCurve("mh60", 3.3e5,
			[]float64{0.2, 0.4, 0.6, 0.8, 1.1, 0.9},
			[]float64{0.05, 0.04, 0.02, 0.04, 0.05, 0.06})...)

	store, err := openStore(config)
	require.NoError(t, err)
	defer store.Close()

	sessionID, err := store.CreateSession(ctx, config.Scoring.Application, nil)
	require.NoError(t, err)

	ev := &fixedCLEvaluator{cl: map[string]float64{"ag12": 1.5, "mh60": 1.6}}
	require.NoError(t, designFromPoints(ctx, config, store, discardLogger(), sessionID, points, ev))

	// At 13 m/s only the largest wings clear the 83.385 N requirement:
	// ag12 at aspect ratio 5 and mh60 at aspect ratio 4 (its chord is
	// longer, so ratio 5 overshoots the 1.8 m span limit).
	suitable, err := store.SuitableWings(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, suitable, 2)

	byName := map[string]wing.SuitableWing{}
	for _, w := range suitable {
		byName[w.AirfoilName] = w
		assert.GreaterOrEqual(t, w.LiftN, 83.385)
		assert.LessOrEqual(t, w.Wingspan, 1.8)
	}
	require.Contains(t, byName, "ag12")
	require.Contains(t, byName, "mh60")
	assert.Equal(t, 5.0, byName["ag12"].AspectRatio)
	assert.Equal(t, 4.0, byName["mh60"].AspectRatio)

	for _, name := range []string{RankedOutputCSV, WingResultsCSV, SuitableWingsCSV} {
		_, err := os.Stat(filepath.Join(config.Output.OutputDirectory, name))
		assert.NoError(t, err, name)
	}

	// The ranked export lists the better payload airfoil first.
	ranked := readCSV(t, filepath.Join(config.Output.OutputDirectory, RankedOutputCSV))
	require.Len(t, ranked, 3)
	assert.Equal(t, "mh60", ranked[1][0])
	assert.Equal(t, "ag12", ranked[2][0])
}

func TestDesignFromPoints_NoSuitableWings(t *testing.T) {
	ctx := context.Background()
	config := testConfig(t)

	points := polarCurve("weak", 2e5,
		[]float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.4},
		[]float64{0.05, 0.05, 0.04, 0.05, 0.06, 0.07})

	store, err := openStore(config)
	require.NoError(t, err)
	defer store.Close()

	sessionID, err := store.CreateSession(ctx, config.Scoring.Application, nil)
	require.NoError(t, err)

	// Far too little lift on every configuration.
	ev := &fixedCLEvaluator{cl: map[string]float64{"weak": 0.2}}
	require.NoError(t, designFromPoints(ctx, config, store, discardLogger(), sessionID, points, ev))

	suitable, err := store.SuitableWings(ctx, sessionID)
	require.NoError(t, err)
	assert.Empty(t, suitable)

	// The shortlist export still exists, header only.
	records := readCSV(t, filepath.Join(config.Output.OutputDirectory, SuitableWingsCSV))
	require.Len(t, records, 1)
	assert.Equal(t, "airfoil_name", records[0][0])
}

func TestRankPoints_OrdersByMissionScore(t *testing.T) {
	config := testConfig(t)

	points := append(
		polarCurve("ag12", 3e5,
			[]float64{0.3, 0.5, 0.8, 1.0, 0.9, 0.7},
			[]float64{0.05, 0.05, 0.05, 0.05, 0.05, 0.05}),
		polarCurve("mh60", 3.3e5,
			[]float64{0.2, 0.4, 0.6, 0.8, 1.1, 0.9},
			[]float64{0.05, 0.04, 0.02, 0.04, 0.05, 0.06})...)

	ranked, err := rankPoints(config, discardLogger(), points)
	require.NoError(t, err)
	require.Len(t, ranked, 2)

	assert.Equal(t, "mh60", ranked[0].AirfoilName)
	assert.Greater(t, ranked[0].Score, ranked[1].Score)
}

func TestLoadSession_Errors(t *testing.T) {
	ctx := context.Background()
	config := testConfig(t)

	store, err := openStore(config)
	require.NoError(t, err)
	defer store.Close()

	sessionID, err := store.CreateSession(ctx, "payload", nil)
	require.NoError(t, err)

	_, err = loadSession(ctx, store, sessionID+1)
	require.Error(t, err, "unknown session")

	_, err = loadSession(ctx, store, sessionID)
	require.Error(t, err, "session without sweep data")

	require.NoError(t, store.StoreSweepPoints(ctx, sessionID, polarCurve("ok", 2e5,
		[]float64{0.3, 0.5}, []float64{0.05, 0.05})))

	points, err := loadSession(ctx, store, sessionID)
	require.NoError(t, err)
	assert.Len(t, points, 2)
}
