//go:build !v8

package quickjs

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"modernc.org/quickjs"

	"github.com/tsqrun/tsq/internal/compat"
	"github.com/tsqrun/tsq/internal/core"
	"github.com/tsqrun/tsq/internal/eventloop"
)

// Engine runs bundled scripts on the QuickJS engine.
type Engine struct {
	config core.Config
}

// NewEngine creates an Engine with the given configuration.
func NewEngine(cfg core.Config) *Engine {
	return &Engine{config: cfg.Normalize()}
}

var _ core.EngineBackend = (*Engine)(nil)

// Run executes a bundled script to completion: it creates a fresh VM,
// installs the compat layer, evaluates the script, pumps microtasks, and
// drains the event loop until no timers remain or the deadline passes.
func (e *Engine) Run(source, scriptName string, args []string, env map[string]string) (result *core.RunResult) {
	start := time.Now()
	result = &core.RunResult{}

	vm, err := quickjs.NewVM()
	if err != nil {
		result.Error = fmt.Errorf("creating QuickJS VM: %w", err)
		result.ExitCode = 1
		result.Duration = time.Since(start)
		return result
	}
	defer vm.Close()

	if e.config.MemoryLimitMB > 0 {
		vm.SetMemoryLimit(uintptr(e.config.MemoryLimitMB) * 1024 * 1024)
	}

	rt := &qjsRuntime{vm: vm}
	el := eventloop.New()
	cc := compat.NewContext(e.config.Stdout, scriptName, args, env)
	if err := cc.Install(rt, el); err != nil {
		result.Error = err
		result.ExitCode = 1
		result.Duration = time.Since(start)
		return result
	}

	// Watchdog: vm.Interrupt is the one call safe from another goroutine.
	var timedOut atomic.Bool
	watchdog := time.AfterFunc(e.config.Timeout, func() {
		timedOut.Store(true)
		vm.Interrupt()
	})

	defer func() {
		watchdog.Stop()
		if r := recover(); r != nil {
			if timedOut.Load() {
				result.Error = fmt.Errorf("script execution timed out (limit: %v)", e.config.Timeout)
			} else {
				result.Error = fmt.Errorf("engine panic: %v", r)
			}
			result.ExitCode = 1
		}
		result.Duration = time.Since(start)
	}()

	runErr := e.evalAndDrain(rt, el, source, start.Add(e.config.Timeout))
	if runErr != nil {
		var exitErr *core.ExitError
		if errors.As(runErr, &exitErr) {
			result.ExitCode = exitErr.Code
			return result
		}
		if timedOut.Load() || errors.Is(runErr, eventloop.ErrDeadlineExceeded) {
			result.Error = fmt.Errorf("script execution timed out (limit: %v)", e.config.Timeout)
		} else {
			result.Error = runErr
		}
		result.ExitCode = 1
		return result
	}

	// A script may catch the exit error and keep running; the recorded
	// request still decides the final code.
	if code, ok := compat.ExitCode(rt); ok {
		result.ExitCode = code
	}
	return result
}

// evalAndDrain runs the main script and then the timer queue,
// classifying exit requests as *core.ExitError.
func (e *Engine) evalAndDrain(rt *qjsRuntime, el *eventloop.EventLoop, source string, deadline time.Time) error {
	v, err := rt.vm.EvalValue(source, quickjs.EvalGlobal)
	if err != nil {
		return classify(rt, fmt.Errorf("running script: %w", err))
	}
	v.Free()

	rt.RunMicrotasks()

	if el.HasPending() {
		if err := el.Drain(rt, deadline); err != nil {
			return classify(rt, fmt.Errorf("draining timers: %w", err))
		}
	}
	return nil
}

// classify turns an eval error caused by process.exit into the exit
// sentinel; anything else passes through.
func classify(rt core.JSRuntime, err error) error {
	if code, ok := compat.ExitCode(rt); ok {
		return &core.ExitError{Code: code}
	}
	return err
}
