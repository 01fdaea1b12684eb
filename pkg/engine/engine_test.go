package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.Disabled)
}

func TestRunMissingExecutable(t *testing.T) {
	_, err := Run(context.Background(), Invocation{Command: "definitely-not-an-engine-xyz"})

	require.Error(t, err)
	var launchErr *LaunchError
	assert.True(t, errors.As(err, &launchErr), "missing executable should be a LaunchError")
	assert.Equal(t, "definitely-not-an-engine-xyz", launchErr.Command)
}

func TestRunCapturesBothStreams(t *testing.T) {
	outcome, err := Run(context.Background(), Invocation{
		Command: "sh",
		Args:    []string{"-c", "echo out; echo err 1>&2"},
	})

	require.NoError(t, err)
	assert.Equal(t, 0, outcome.ExitCode)
	assert.Equal(t, "out\n", outcome.Stdout)
	assert.Equal(t, "err\n", outcome.Stderr)
}

func TestRunNonzeroExitIsAnOutcome(t *testing.T) {
	outcome, err := Run(context.Background(), Invocation{
		Command: "sh",
		Args:    []string{"-c", "echo boom 1>&2; exit 3"},
	})

	require.NoError(t, err, "nonzero exit must not surface as an error")
	assert.Equal(t, 3, outcome.ExitCode)
	assert.Contains(t, outcome.Stderr, "boom")
}

func TestRunWritesStdinPayload(t *testing.T) {
	outcome, err := Run(context.Background(), Invocation{
		Command: "sh",
		Args:    []string{"-c", "cat"},
		Stdin:   []byte("payload bytes"),
	})

	require.NoError(t, err)
	assert.Equal(t, "payload bytes", outcome.Stdout)
}

func TestRunDeadlineKillsProcess(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := Run(ctx, Invocation{
		Command: "sh",
		Args:    []string{"-c", "sleep 10"},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), 8*time.Second, "the process must be killed, not waited out")
}

func TestRunDeadlineWithLingeringDescendant(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	// the background sleep inherits the output pipes and outlives the
	// killed shell
	start := time.Now()
	_, err := Run(ctx, Invocation{
		Command: "sh",
		Args:    []string{"-c", "sleep 30 & sleep 30"},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), 8*time.Second, "a descendant holding the pipes must not extend the wait past WaitDelay")
}

func TestRunCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	_, err := Run(ctx, Invocation{
		Command: "sh",
		Args:    []string{"-c", "sleep 10"},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestProcessFailureErrorFormat(t *testing.T) {
	tests := []struct {
		name     string
		failure  ProcessFailure
		expected string
	}{
		{
			name:     "exit code with stderr",
			failure:  ProcessFailure{ExitCode: 1, Stderr: "engine crashed\n"},
			expected: "<exit 1> engine crashed",
		},
		{
			name:     "exit code without stderr",
			failure:  ProcessFailure{ExitCode: 2},
			expected: "<exit 2>",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.failure.Error())
		})
	}
}

func TestBackendFuncAdapts(t *testing.T) {
	backend := BackendFunc(func(ctx context.Context, inv Invocation) (Outcome, error) {
		return Outcome{Stdout: inv.Command}, nil
	})

	outcome, err := backend.Analyze(context.Background(), Invocation{Command: "echoed"})
	require.NoError(t, err)
	assert.Equal(t, "echoed", outcome.Stdout)
}
