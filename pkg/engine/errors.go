package engine

import (
	"fmt"
	"strings"
)

// LaunchError reports that an engine could not be started at all: the
// executable is missing or the OS refused to spawn it. No process exists
// when this error is returned.
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("engine %s could not be launched: %v", e.Command, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// ProcessFailure reports a nonzero engine exit together with whatever the
// engine wrote to stderr. It is kept distinct from decode failures so the
// two stay diagnosable even though both surface as the same negative
// default result.
type ProcessFailure struct {
	ExitCode int
	Stderr   string
}

func (e *ProcessFailure) Error() string {
	return strings.TrimSpace(fmt.Sprintf("<exit %d> %s", e.ExitCode, strings.TrimSpace(e.Stderr)))
}
