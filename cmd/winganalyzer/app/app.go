// Package app wires the analysis pipeline: surrogate sweep, feature
// extraction, scoring, geometry expansion, wing evaluation and the
// final feasibility selection.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/aeroclub-nitte/wing-analyzer/internal/airfoil"
	"github.com/aeroclub-nitte/wing-analyzer/internal/export"
	"github.com/aeroclub-nitte/wing-analyzer/internal/polar"
	"github.com/aeroclub-nitte/wing-analyzer/internal/scoring"
	"github.com/aeroclub-nitte/wing-analyzer/internal/solver"
	"github.com/aeroclub-nitte/wing-analyzer/internal/storage"
	"github.com/aeroclub-nitte/wing-analyzer/internal/wing"
)

// Run executes the complete pipeline: sweep every airfoil, persist the
// raw data, then rank, design, evaluate and select, exporting each
// stage table along the way.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	store, err := openStore(config)
	if err != nil {
		return err
	}
	defer store.Close()

	sessionID, points, err := analyzeSweep(ctx, config, store, logger)
	if err != nil {
		return err
	}

	ev := solver.NewVLMEvaluator(config.Solvers.VLM, config.Analysis.AirfoilsDir, logger)
	return designFromPoints(ctx, config, store, logger, sessionID, points, ev)
}

// Analyze sweeps every airfoil through the surrogate and stores the raw
// polar data; later stages can be re-run against the returned session.
func Analyze(ctx context.Context, config *Config, logger *slog.Logger) (int64, error) {
	store, err := openStore(config)
	if err != nil {
		return 0, err
	}
	defer store.Close()

	sessionID, _, err := analyzeSweep(ctx, config, store, logger)
	return sessionID, err
}

// Rank extracts features from a stored sweep and exports the scored
// ranking for the configured mission application.
func Rank(ctx context.Context, config *Config, logger *slog.Logger, sessionID int64) error {
	store, err := openStore(config)
	if err != nil {
		return err
	}
	defer store.Close()

	points, err := loadSession(ctx, store, sessionID)
	if err != nil {
		return err
	}

	ranked, err := rankPoints(config, logger, points)
	if err != nil {
		return err
	}

	return exportTable(config, RankedOutputCSV, logger, func(w io.Writer) error {
		return export.WriteRanked(w, ranked)
	})
}

// Design runs everything downstream of a stored sweep: ranking,
// geometry expansion, wing evaluation and the feasibility selection.
func Design(ctx context.Context, config *Config, logger *slog.Logger, sessionID int64) error {
	store, err := openStore(config)
	if err != nil {
		return err
	}
	defer store.Close()

	points, err := loadSession(ctx, store, sessionID)
	if err != nil {
		return err
	}

	ev := solver.NewVLMEvaluator(config.Solvers.VLM, config.Analysis.AirfoilsDir, logger)
	return designFromPoints(ctx, config, store, logger, sessionID, points, ev)
}

func analyzeSweep(ctx context.Context, config *Config, store *storage.Store, logger *slog.Logger) (int64, []polar.Point, error) {
	files, err := airfoil.List(config.Analysis.AirfoilsDir)
	if err != nil {
		return 0, nil, err
	}

	sessionID, err := store.CreateSession(ctx, config.Scoring.Application, config.Analysis)
	if err != nil {
		return 0, nil, fmt.Errorf("creating session: %w", err)
	}

	alphas := polar.AlphaGrid(config.Analysis.AlphaMin, config.Analysis.AlphaMax, config.Analysis.AlphaStep)
	reynolds := polar.ReynoldsGrid(config.Analysis.ReynoldsMin, config.Analysis.ReynoldsMax, config.Analysis.ReynoldsPoints)
	mach := config.Design.Velocity / config.Analysis.SpeedOfSound

	surrogate := solver.NewSurrogate(config.Solvers.Surrogate, logger)

	var points []polar.Point
	var failed int
	for i, path := range files {
		af, err := airfoil.Load(path)
		if err != nil {
			failed++
			logger.Warn("skipping unreadable airfoil", slog.String("file", path), slog.String("error", err.Error()))
			continue
		}

		logger.Info("analyzing airfoil",
			slog.String("airfoil", af.Name),
			slog.String("progress", fmt.Sprintf("%d/%d", i+1, len(files))))

		swept, err := surrogate.Sweep(ctx, solver.SweepRequest{
			AirfoilPath: path,
			AirfoilName: af.Name,
			AlphaDeg:    alphas,
			Reynolds:    reynolds,
			Mach:        mach,
			Velocity:    config.Design.Velocity,
			ModelSize:   config.Analysis.ModelSize,
		})
		if err != nil {
			if ctx.Err() != nil {
				return 0, nil, ctx.Err()
			}
			failed++
			logger.Warn("airfoil sweep failed", slog.String("airfoil", af.Name), slog.String("error", err.Error()))
			continue
		}

		points = append(points, swept...)
	}
	if len(points) == 0 {
		return 0, nil, fmt.Errorf("no airfoils were successfully analyzed (%d failed)", failed)
	}

	if err = store.StoreSweepPoints(ctx, sessionID, points); err != nil {
		return 0, nil, fmt.Errorf("storing sweep points: %w", err)
	}

	logger.Info("sweep complete",
		slog.Int64("session", sessionID),
		slog.Int("airfoils", len(files)-failed),
		slog.Int("failed", failed),
		slog.String("points", humanize.Comma(int64(len(points)))))

	err = exportTable(config, SweepOutputCSV, logger, func(w io.Writer) error {
		return export.WriteSweep(w, points)
	})
	return sessionID, points, err
}

func rankPoints(config *Config, logger *slog.Logger, points []polar.Point) ([]scoring.ScoredRow, error) {
	rows, report := polar.Extract(points, config.Analysis.Band())
	logger.Info("extracted operating-point features",
		slog.Int("groups", report.Groups),
		slog.Int("extracted", report.Extracted),
		slog.Int("missingOptimum", report.MissingOptimum),
		slog.Int("missingZeroAlpha", report.MissingZero))

	scorer, err := scoring.NewScorer(scoring.Application(config.Scoring.Application), config.Scoring.Tables())
	if err != nil {
		return nil, err
	}

	ranked := scorer.Rank(rows)
	for i, row := range ranked {
		if i >= config.Scoring.TopN {
			break
		}

		fract, suffix := humanize.ComputeSI(row.Reynolds)
		logger.Info(fmt.Sprintf("#%d %s", i+1, row.AirfoilName),
			slog.String("re", fmt.Sprintf("%.3g%s", fract, suffix)),
			slog.Float64("score", row.Score),
			slog.Float64("maxClCd", row.MaxCLOverCD))
	}
	return ranked, nil
}

func designFromPoints(ctx context.Context, config *Config, store *storage.Store, logger *slog.Logger, sessionID int64, points []polar.Point, ev wing.Evaluator) error {
	ranked, err := rankPoints(config, logger, points)
	if err != nil {
		return err
	}
	if err = exportTable(config, RankedOutputCSV, logger, func(w io.Writer) error {
		return export.WriteRanked(w, ranked)
	}); err != nil {
		return err
	}

	env := wing.StandardEnvironment()
	designer, err := wing.NewDesigner(env, config.Design.Velocity, config.Design.MaxWingspan, config.Design.AspectRatios)
	if err != nil {
		return err
	}

	configs := designer.Expand(ranked)
	logger.Info("expanded wing configurations",
		slog.Int("candidates", len(configs)),
		slog.Float64("maxWingspan", config.Design.MaxWingspan))

	results, report := wing.EvaluateAll(ctx, ev, configs, wing.WithLogger(logger))
	logger.Info("wing evaluation finished",
		slog.Int("succeeded", report.Succeeded),
		slog.Int("failed", len(report.Failures)))
	if err = exportTable(config, WingResultsCSV, logger, func(w io.Writer) error {
		return export.WriteResults(w, results)
	}); err != nil {
		return err
	}

	selector, err := wing.NewSelector(env, config.Design.MTOWKgs, config.Design.Velocity)
	if err != nil {
		return err
	}

	suitable := selector.FilterAndRank(results)
	if len(suitable) == 0 {
		logger.Warn("no configuration meets the takeoff weight requirement",
			slog.Float64("mtowKgs", config.Design.MTOWKgs),
			slog.Float64("requiredLiftN", selector.RequiredLiftN()))
	} else {
		best := suitable[0]
		logger.Info("suitable wings selected",
			slog.Int("count", len(suitable)),
			slog.String("best", best.AirfoilName),
			slog.Float64("bestLiftKgs", best.LiftKgs),
			slog.Float64("bestWingspan", best.Wingspan))
	}

	if err = store.StoreSuitableWings(ctx, sessionID, suitable); err != nil {
		return fmt.Errorf("storing suitable wings: %w", err)
	}

	return exportTable(config, SuitableWingsCSV, logger, func(w io.Writer) error {
		return export.WriteSuitableWings(w, suitable)
	})
}

func loadSession(ctx context.Context, store *storage.Store, sessionID int64) ([]polar.Point, error) {
	if _, err := store.Session(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("session %d: %w", sessionID, err)
	}

	points, err := store.SweepPoints(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("session %d has no sweep data", sessionID)
	}
	return points, nil
}

func openStore(config *Config) (*storage.Store, error) {
	if err := os.MkdirAll(config.Output.DataDirectory, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return storage.New(filepath.Join(config.Output.DataDirectory, DatabaseFile)), nil
}

func exportTable(config *Config, name string, logger *slog.Logger, write func(io.Writer) error) error {
	if err := os.MkdirAll(config.Output.OutputDirectory, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(config.Output.OutputDirectory, name)
	if err := export.ToFile(path, write); err != nil {
		return err
	}

	logger.Info("exported table", slog.String("file", path))
	return nil
}
