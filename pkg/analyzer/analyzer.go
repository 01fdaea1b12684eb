// Package analyzer contains the façades bridging domain scan requests to
// the external analysis engines. A façade call never fails: every internal
// error degrades to the façade's negative default result with the error
// recorded, so callers always receive a well-formed result.
package analyzer

import (
	"context"
	"errors"
	"fmt"

	"github.com/acarl005/stripansi"

	"github.com/scambane/scanbridge/pkg/config"
	"github.com/scambane/scanbridge/pkg/decode"
	"github.com/scambane/scanbridge/pkg/engine"
)

// StegoResult mirrors the steganography engine output schema.
type StegoResult struct {
	HasSteganography bool    `json:"hasSteganography"`
	Confidence       float64 `json:"confidence"`
	Error            string  `json:"error,omitempty"`
}

// MalwareResult mirrors the malware engine output schema.
type MalwareResult struct {
	IsMalicious bool    `json:"isMalicious"`
	Confidence  float64 `json:"confidence"`
	ThreatType  string  `json:"threatType,omitempty"`
	Error       string  `json:"error,omitempty"`
}

// URLResult mirrors the URL engine output schema.
type URLResult struct {
	IsMalicious      bool     `json:"isMalicious"`
	Confidence       float64  `json:"confidence"`
	ThreatType       string   `json:"threatType,omitempty"`
	DetectionMethods []string `json:"detectionMethods,omitempty"`
	Error            string   `json:"error,omitempty"`
}

// Bridge dispatches analysis requests to the configured engines. Construct
// it with New or NewWithBackend, the zero value is not usable.
type Bridge struct {
	cfg     config.Config
	backend engine.Backend
}

// New returns a Bridge running engines as OS subprocesses.
func New(cfg config.Config) *Bridge {
	return &Bridge{cfg: cfg, backend: engine.ExecBackend{}}
}

// NewWithBackend allows swapping the execution strategy, e.g. an
// in-process analyzer.
func NewWithBackend(cfg config.Config, backend engine.Backend) *Bridge {
	return &Bridge{cfg: cfg, backend: backend}
}

// invoke runs one engine invocation bounded by the engine timeout and
// decodes stdout into dst. Every failure comes back as an error with the
// distinguishing detail preserved, the façades map it onto their negative
// default shape.
func (b *Bridge) invoke(ctx context.Context, eng config.Engine, requestArgs []string, stdin []byte, dst any, required ...string) error {
	ctx, cancel := context.WithTimeout(ctx, eng.Timeout.Std())
	defer cancel()

	inv := engine.Invocation{
		Command: eng.Command,
		Args:    append(append([]string{}, eng.Args...), requestArgs...),
		Stdin:   stdin,
	}

	outcome, err := b.backend.Analyze(ctx, inv)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("analysis timed out after %s", eng.Timeout.Std())
		}

		return err
	}

	if outcome.ExitCode != 0 {
		// engine stderr is untrusted terminal output, escape sequences must
		// not reach the error string or the logs
		return &engine.ProcessFailure{ExitCode: outcome.ExitCode, Stderr: stripansi.Strip(outcome.Stderr)}
	}

	return decode.JSON(outcome.Stdout, dst, required...)
}
