// Package solver wraps the external aerodynamic tools the pipeline
// delegates to: the 2D airfoil surrogate and the vortex-lattice wing
// solver. Both are command-line programs whose stdout is parsed line
// by line.
package solver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
)

// ParseErrorsThreshold is the default number of consecutive parse
// errors tolerated before a run is abandoned.
const ParseErrorsThreshold = 5

var (
	// ErrTooManyParseErrors is returned when consecutive unparseable
	// output lines exceed the threshold.
	ErrTooManyParseErrors = errors.New("too many consecutive parse errors")

	// ErrBrokenPipe is returned when reading the tool's stdout or
	// stderr fails.
	ErrBrokenPipe = errors.New("broken pipe")
)

// Command describes one external tool invocation: how to build the
// command and how to consume a line of its stdout. Implementations
// accumulate parsed rows internally.
type Command interface {
	Cmd(ctx context.Context) *exec.Cmd
	Parse(line string) error
	Tool() string
}

// WithLogger sets the logger for the runner.
func WithLogger(logger *slog.Logger) func(*Runner) {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithParseErrorsThreshold sets the threshold for consecutive parse errors.
func WithParseErrorsThreshold(threshold uint8) func(*Runner) {
	return func(r *Runner) {
		r.parseErrorsThreshold = threshold
	}
}

// Runner executes a Command to completion, feeding stdout lines to its
// parser and logging stderr as diagnostics. One Runner handles one
// invocation at a time; it keeps no state between runs.
type Runner struct {
	command Command

	parseErrorsThreshold uint8
	logger               *slog.Logger
}

// NewRunner creates a Runner with a discard logger.
func NewRunner(command Command, options ...func(*Runner)) *Runner {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := Runner{
		command:              command,
		logger:               logger,
		parseErrorsThreshold: ParseErrorsThreshold,
	}

	for _, option := range options {
		option(&r)
	}

	return &r
}

// Run starts the tool, parses its complete output and waits for exit.
// Blank lines and lines starting with '#' are skipped. Occasional
// unparseable lines are logged and tolerated up to the threshold.
func (r *Runner) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cmd := r.command.Cmd(ctx)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("creating stdout pipe: %w", err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("creating stderr pipe: %w", err)
	}

	if err = cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", r.command.Tool(), err)
	}

	stderrDone := make(chan error, 1)
	go r.handleStderr(stderr, stderrDone)

	parseErr := r.handleStdout(stdout)
	if parseErr != nil {
		// Stop the tool before waiting: a tool still writing into the
		// abandoned stdout pipe would block forever once the pipe
		// buffer fills, and the stderr handler only finishes when the
		// process exits.
		cancel()
	}

	if err = <-stderrDone; parseErr == nil {
		parseErr = err
	}

	if err = cmd.Wait(); err != nil && parseErr == nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s exited with error: %w", r.command.Tool(), err)
	}

	return parseErr
}

func (r *Runner) handleStdout(stdout io.Reader) error {
	var parseErrors uint8

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if err := r.command.Parse(line); err != nil {
			parseErrors++
			r.logger.Warn(fmt.Sprintf("error parsing %s output: %s", r.command.Tool(), err.Error()), slog.String("line", line))

			if parseErrors >= r.parseErrorsThreshold {
				return ErrTooManyParseErrors
			}
			continue
		}

		parseErrors = 0 // reset counter
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: reading stdout: %w", ErrBrokenPipe, err)
	}
	return nil
}

func (r *Runner) handleStderr(stderr io.Reader, done chan<- error) {
	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		r.logger.Warn(fmt.Sprintf("%s >> %s", r.command.Tool(), line))
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		done <- fmt.Errorf("%w: reading stderr: %w", ErrBrokenPipe, err)
		return
	}

	done <- nil
}
