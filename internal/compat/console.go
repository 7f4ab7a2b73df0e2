package compat

import (
	"fmt"

	"github.com/tsqrun/tsq/internal/core"
	"github.com/tsqrun/tsq/internal/eventloop"
)

// consoleJS builds the console object on top of the Go-backed __print
// primitive. Formatting happens on the JS side because the values live
// there; only finished lines cross into Go.
//
// Per-value rules: null and undefined render as their literals, strings
// pass through unquoted, functions render as [Function: name], and
// composite values are pretty-printed with 2-space indentation. A value
// JSON.stringify cannot serialize (circular references) degrades to
// "[object Object]" instead of raising.
const consoleJS = `
(function() {
	function formatValue(v) {
		if (v === null) return 'null';
		if (v === undefined) return 'undefined';
		var t = typeof v;
		if (t === 'string') return v;
		if (t === 'function') return '[Function: ' + (v.name || 'anonymous') + ']';
		if (t === 'object') {
			try {
				var s = JSON.stringify(v, null, 2);
				return s === undefined ? '[object Object]' : s;
			} catch (e) {
				return '[object Object]';
			}
		}
		return String(v);
	}

	function formatArgs(args) {
		var parts = [];
		for (var i = 0; i < args.length; i++) parts.push(formatValue(args[i]));
		return parts.join(' ');
	}
	globalThis.__formatArgs = formatArgs;

	var console = {};
	console.log = function() { __print(formatArgs(arguments)); };
	console.error = function() { __print('ERROR: ' + formatArgs(arguments)); };
	console.warn = function() { __print('WARN: ' + formatArgs(arguments)); };
	console.info = console.log;
	console.debug = console.log;

	console.time = function(label) {
		__timeStart(label === undefined ? 'default' : String(label));
	};
	console.timeEnd = function(label) {
		__timeEnd(label === undefined ? 'default' : String(label));
	};
	console.timeLog = function(label) {
		var extra = Array.prototype.slice.call(arguments, 1);
		__timeLog(label === undefined ? 'default' : String(label), formatArgs(extra));
	};

	globalThis.console = console;
})();
`

// setupConsole registers the print primitive and the elapsed-time label
// operations, then evaluates the console polyfill.
func (c *Context) setupConsole(rt core.JSRuntime, _ *eventloop.EventLoop) error {
	if err := rt.RegisterFunc("__print", func(line string) {
		c.print(line)
	}); err != nil {
		return fmt.Errorf("registering __print: %w", err)
	}

	if err := rt.RegisterFunc("__timeStart", func(label string) {
		c.timeStart(label)
	}); err != nil {
		return fmt.Errorf("registering __timeStart: %w", err)
	}
	if err := rt.RegisterFunc("__timeEnd", func(label string) {
		c.timeEnd(label)
	}); err != nil {
		return fmt.Errorf("registering __timeEnd: %w", err)
	}
	if err := rt.RegisterFunc("__timeLog", func(label, extra string) {
		c.timeLog(label, extra)
	}); err != nil {
		return fmt.Errorf("registering __timeLog: %w", err)
	}

	if err := rt.Eval(consoleJS); err != nil {
		return fmt.Errorf("evaluating console polyfill: %w", err)
	}
	return nil
}

// timeStart records the coarse clock reading for label. Re-starting an
// active label silently overwrites the previous start instant.
func (c *Context) timeStart(label string) {
	c.labels[label] = c.nowMS()
}

// timeEnd reports the elapsed time for label and removes it. An unknown
// label reports on the error path and has no other side effect.
func (c *Context) timeEnd(label string) {
	start, ok := c.labels[label]
	if !ok {
		c.printError(fmt.Sprintf("Timer '%s' does not exist", label))
		return
	}
	delete(c.labels, label)
	c.print(fmt.Sprintf("%s: %dms", label, c.nowMS()-start))
}

// timeLog reports the elapsed time for label without removing it, so the
// readout is repeatable. extra is the caller's already-formatted trailing
// values, appended with a single space.
func (c *Context) timeLog(label, extra string) {
	start, ok := c.labels[label]
	if !ok {
		c.printError(fmt.Sprintf("Timer '%s' does not exist", label))
		return
	}
	line := fmt.Sprintf("%s: %dms", label, c.nowMS()-start)
	if extra != "" {
		line += " " + extra
	}
	c.print(line)
}
