package core

import (
	"fmt"
	"time"
)

// RunResult is the outcome of executing one script.
type RunResult struct {
	// ExitCode is 0 on clean completion, the requested code when the
	// script called process.exit, and 1 when Error is set.
	ExitCode int

	// Error is set when the script failed: a compile error, an uncaught
	// exception, or a timeout. Exit requests are not errors.
	Error error

	// Duration is the total wall-clock time of the run.
	Duration time.Duration
}

// ExitError is raised internally when a script calls process.exit. The
// engine has no graceful-exit primitive, so exit requests travel as
// exceptional control flow until the process boundary translates them
// into a real exit code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("process exited with code %d", e.Code)
}

// EngineBackend is implemented by the QuickJS and V8 runners. The
// active backend is selected at build time via the v8 build tag.
type EngineBackend interface {
	// Run executes an already-bundled script. scriptName is the base
	// name injected into process.argv; args and env populate the rest
	// of the process descriptor.
	Run(source, scriptName string, args []string, env map[string]string) *RunResult
}
