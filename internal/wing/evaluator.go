package wing

import (
	"context"
	"io"
	"log/slog"
)

// Coefficients are the aerodynamic coefficients of a full wing at its
// operating angle, as returned by the external solver.
type Coefficients struct {
	CL float64
	CD float64
	CM float64
}

// Evaluator computes wing coefficients for one configuration. The
// production implementation shells out to a vortex-lattice solver;
// tests inject doubles.
type Evaluator interface {
	Evaluate(ctx context.Context, cfg Configuration) (Coefficients, error)
}

// Result is a configuration together with its evaluated coefficients.
type Result struct {
	Configuration
	Coefficients
}

// Failure records one configuration whose evaluation failed.
type Failure struct {
	Index       int // position in the input configuration slice
	AirfoilName string
	Err         error
}

// Report summarises a batch evaluation. Failed configurations are
// excluded from the results but kept here so callers can surface how
// many items succeeded and why the rest did not. A cancellation is
// recorded as a failure without counting as evaluated, since the
// evaluator never ran for it.
type Report struct {
	Evaluated int // configurations the evaluator was invoked for
	Succeeded int // configurations that evaluated cleanly
	Failures  []Failure
}

// WithLogger sets the logger used for per-item failure messages.
func WithLogger(logger *slog.Logger) func(*batchOptions) {
	return func(o *batchOptions) {
		o.logger = logger
	}
}

type batchOptions struct {
	logger *slog.Logger
}

// EvaluateAll runs the evaluator over every configuration in order.
// A failing item is logged, recorded in the report and skipped; it
// never aborts the batch. Context cancellation does abort: the error
// is recorded for the current item and the remaining items are
// reported as not attempted.
func EvaluateAll(ctx context.Context, ev Evaluator, configs []Configuration, options ...func(*batchOptions)) ([]Result, Report) {
	opts := batchOptions{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, option := range options {
		option(&opts)
	}

	results := make([]Result, 0, len(configs))
	report := Report{}

	for i, cfg := range configs {
		if err := ctx.Err(); err != nil {
			report.Failures = append(report.Failures, Failure{Index: i, AirfoilName: cfg.AirfoilName, Err: err})
			break
		}

		coeffs, err := ev.Evaluate(ctx, cfg)
		report.Evaluated++
		if err != nil {
			opts.logger.Warn("wing evaluation failed",
				slog.String("airfoil", cfg.AirfoilName),
				slog.Float64("aspectRatio", cfg.AspectRatio),
				slog.String("error", err.Error()))

			report.Failures = append(report.Failures, Failure{Index: i, AirfoilName: cfg.AirfoilName, Err: err})
			continue
		}

		report.Succeeded++
		results = append(results, Result{Configuration: cfg, Coefficients: coeffs})
	}

	return results, report
}
