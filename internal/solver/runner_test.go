package solver

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptCommand runs a shell snippet and records parsed lines.
type scriptCommand struct {
	script string
	lines  []string
	fail   bool
}

func (c *scriptCommand) Cmd(ctx context.Context) *exec.Cmd {
	return exec.CommandContext(ctx, "sh", "-c", c.script)
}

func (c *scriptCommand) Parse(line string) error {
	if c.fail {
		return fmt.Errorf("unparseable: %q", line)
	}
	c.lines = append(c.lines, line)
	return nil
}

func (c *scriptCommand) Tool() string {
	return "sh"
}

func TestRunner_ParsesStdoutLines(t *testing.T) {
	cmd := scriptCommand{script: `printf 'one\n\n# comment\ntwo\n'`}
	err := NewRunner(&cmd).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, cmd.lines)
}

func TestRunner_ConsecutiveParseErrorsAbort(t *testing.T) {
	cmd := scriptCommand{script: `printf 'a\nb\nc\n'`, fail: true}
	err := NewRunner(&cmd, WithParseErrorsThreshold(2)).Run(context.Background())
	require.ErrorIs(t, err, ErrTooManyParseErrors)
}

func TestRunner_ParseErrorAbortStopsFloodingTool(t *testing.T) {
	// A tool that keeps writing long after the parse-error threshold
	// fills the stdout pipe buffer; the runner must kill it and return
	// instead of waiting on output nobody reads anymore.
	cmd := scriptCommand{script: `yes unparseable | head -n 100000`, fail: true}

	done := make(chan error, 1)
	go func() {
		done <- NewRunner(&cmd, WithParseErrorsThreshold(2)).Run(context.Background())
	}()

	select {
	case err := <-done:
		require.ErrorIs(t, err, ErrTooManyParseErrors)
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after the parse-error threshold")
	}
}

func TestRunner_NonZeroExit(t *testing.T) {
	cmd := scriptCommand{script: `exit 3`}
	err := NewRunner(&cmd).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exited with error")
}

func TestRunner_MissingBinary(t *testing.T) {
	cmd := sweepCommand{binary: "definitely-not-installed-anywhere", req: SweepRequest{
		AirfoilPath: "x.dat", AlphaDeg: []float64{0}, Reynolds: []float64{1e5},
	}}
	err := NewRunner(&cmd).Run(context.Background())
	require.Error(t, err)
}
