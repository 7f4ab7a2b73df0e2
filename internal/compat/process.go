package compat

import (
	"encoding/json"
	"fmt"

	"github.com/tsqrun/tsq/internal/core"
	"github.com/tsqrun/tsq/internal/eventloop"
)

// engineSentinel is the fixed first element of process.argv, standing in
// for the interpreter path a fuller host would report.
const engineSentinel = "quickjs"

// processJS defines the process descriptor skeleton. argv and env are
// injected by setupProcess immediately afterwards, before any user code
// runs, and frozen.
//
// The engine has no graceful-exit primitive, so process.exit is emulated
// as exceptional control flow: it records the requested code in
// __exitCode and throws a marked error the runner translates into a real
// exit code at the process boundary.
const processJS = `
(function() {
	globalThis.process = {
		argv: [],
		env: {},
		exit: function(code) {
			var c = code === undefined ? 0 : code | 0;
			globalThis.__exitCode = c;
			var e = new Error('process.exit called with code ' + c);
			e.__processExit = true;
			e.exitCode = c;
			throw e;
		}
	};
})();
`

// setupProcess evaluates the process polyfill and injects the argument
// list and environment map. Injection happens exactly once; the frozen
// descriptor is immutable afterwards.
func (c *Context) setupProcess(rt core.JSRuntime, _ *eventloop.EventLoop) error {
	if err := rt.Eval(processJS); err != nil {
		return fmt.Errorf("evaluating process polyfill: %w", err)
	}

	argv := append([]string{engineSentinel, c.scriptName}, c.args...)
	argvJSON, err := json.Marshal(argv)
	if err != nil {
		return fmt.Errorf("marshaling argv: %w", err)
	}
	envJSON, err := json.Marshal(c.env)
	if err != nil {
		return fmt.Errorf("marshaling env: %w", err)
	}

	inject := fmt.Sprintf(`
		globalThis.process.argv = Object.freeze(JSON.parse(%q));
		globalThis.process.env = Object.freeze(JSON.parse(%q));
	`, string(argvJSON), string(envJSON))
	if err := rt.Eval(inject); err != nil {
		return fmt.Errorf("injecting process descriptor: %w", err)
	}
	return nil
}

// ExitCode inspects the runtime for a recorded exit request. It returns
// the requested code and true when the script called process.exit.
func ExitCode(rt core.JSRuntime) (int, bool) {
	requested, err := rt.EvalBool("typeof globalThis.__exitCode === 'number'")
	if err != nil || !requested {
		return 0, false
	}
	code, err := rt.EvalInt("globalThis.__exitCode")
	if err != nil {
		return 0, false
	}
	return code, true
}
