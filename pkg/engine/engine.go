// Package engine launches external analysis engines as subprocesses and
// collects their output streams to completion.
package engine

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/rs/zerolog/log"
)

// Invocation describes a single engine execution: the command to run, its
// ordered arguments and an optional payload piped to stdin.
type Invocation struct {
	Command string
	Args    []string
	Stdin   []byte
}

// Outcome is the collected result of one completed engine run. A nonzero
// ExitCode is a regular outcome, not an error.
type Outcome struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Backend abstracts how an analysis is executed, either as an external
// process or in-process.
type Backend interface {
	Analyze(ctx context.Context, inv Invocation) (Outcome, error)
}

// ExecBackend runs invocations as OS subprocesses.
type ExecBackend struct{}

func (ExecBackend) Analyze(ctx context.Context, inv Invocation) (Outcome, error) {
	return Run(ctx, inv)
}

// BackendFunc adapts a plain function to the Backend interface.
type BackendFunc func(ctx context.Context, inv Invocation) (Outcome, error)

func (f BackendFunc) Analyze(ctx context.Context, inv Invocation) (Outcome, error) {
	return f(ctx, inv)
}

// Run executes the invocation and blocks until the process has exited and
// both output streams are fully drained. The executable is resolved before
// any process is created, a missing engine binary never spawns anything.
// When ctx expires or is cancelled the process is killed and reaped before
// Run returns.
func Run(ctx context.Context, inv Invocation) (Outcome, error) {
	path, err := exec.LookPath(inv.Command)
	if err != nil {
		return Outcome{}, &LaunchError{Command: inv.Command, Err: err}
	}

	cmd := exec.CommandContext(ctx, path, inv.Args...)
	// engines that ignore the kill signal, or leave descendants holding the
	// output pipes open, must not hold the call past the deadline
	cmd.WaitDelay = 5 * time.Second
	if len(inv.Stdin) > 0 {
		cmd.Stdin = bytes.NewReader(inv.Stdin)
	}

	// Wait owns the stream drain so WaitDelay can force the pipes closed
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	if err := cmd.Start(); err != nil {
		return Outcome{}, &LaunchError{Command: inv.Command, Err: err}
	}

	log.Debug().Str("command", path).Strs("args", inv.Args).Int("pid", cmd.Process.Pid).Msg("Engine started")

	waitErr := cmd.Wait()

	if ctxErr := ctx.Err(); ctxErr != nil {
		// the process is already reaped here, the caller only needs to know
		// the run was cut short
		return Outcome{}, ctxErr
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return Outcome{
				ExitCode: exitErr.ExitCode(),
				Stdout:   outBuf.String(),
				Stderr:   errBuf.String(),
			}, nil
		}

		return Outcome{}, &LaunchError{Command: inv.Command, Err: waitErr}
	}

	return Outcome{ExitCode: 0, Stdout: outBuf.String(), Stderr: errBuf.String()}, nil
}
