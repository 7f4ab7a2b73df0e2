// Package tsq runs TypeScript and JavaScript scripts against an embedded
// minimal JS engine, with a compatibility layer that emulates the host
// APIs mobile-class engines leave out: console formatting, setInterval,
// performance instrumentation, and a process descriptor.
//
// The default backend is QuickJS; building with the v8 tag selects V8.
package tsq

import (
	"path/filepath"

	"github.com/tsqrun/tsq/internal/core"
)

// Config is re-exported so callers configure the engine without
// importing internal packages.
type Config = core.Config

// RunResult is the outcome of executing one script.
type RunResult = core.RunResult

// Engine executes bundled scripts on the build-selected backend.
type Engine struct {
	backend core.EngineBackend
}

// New creates an Engine with the given configuration.
func New(cfg Config) *Engine {
	return &Engine{backend: newBackend(cfg)}
}

// RunScript executes already-bundled JavaScript source. scriptName is
// the base name injected into process.argv[1]; args and env fill the
// rest of the process descriptor.
func (e *Engine) RunScript(source, scriptName string, args []string, env map[string]string) *RunResult {
	return e.backend.Run(source, scriptName, args, env)
}

// RunFile bundles the script at path with esbuild and executes it.
func (e *Engine) RunFile(path string, args []string, env map[string]string) (*RunResult, error) {
	source, err := BundleScript(path)
	if err != nil {
		return nil, err
	}
	return e.RunScript(source, filepath.Base(path), args, env), nil
}
