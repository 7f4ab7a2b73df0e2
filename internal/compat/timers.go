package compat

import (
	"fmt"
	"time"

	"github.com/tsqrun/tsq/internal/core"
	"github.com/tsqrun/tsq/internal/eventloop"
)

// timersJS wires setTimeout/clearTimeout to the Go-backed one-shot
// primitive and synthesizes setInterval on top of it — the host has no
// native repeating timer.
//
// An interval is an entry in the active-handle registry plus a
// self-rescheduling one-shot chain: each firing checks the active flag,
// invokes the callback with its bound arguments, and schedules the next
// firing only if the handle is still active afterwards. That ordering
// makes clearInterval from inside the callback effective — the next
// one-shot is simply never scheduled — and guarantees a handle's firings
// never overlap. Processing time drifts the nominal delay; there is no
// catch-up firing.
//
// A callback that raises is trapped at this boundary, reported on the
// error console, and the interval keeps firing. Exit requests are the
// one exception: they re-raise so the runner sees them.
const timersJS = `
(function() {
	globalThis.__timerCallbacks = {};

	globalThis.setTimeout = function(fn, delay) {
		if (arguments.length === 0 || typeof fn !== 'function') {
			return 0;
		}
		var args = [];
		for (var i = 2; i < arguments.length; i++) args.push(arguments[i]);
		var id = __timerRegister(delay || 0);
		globalThis.__timerCallbacks[id] = { fn: fn, args: args };
		return id;
	};

	globalThis.clearTimeout = function(id) {
		if (arguments.length === 0 || typeof id !== 'number') {
			return;
		}
		__timerClear(id);
		delete globalThis.__timerCallbacks[id];
	};

	var intervals = {};
	var nextHandle = 1;

	globalThis.setInterval = function(fn, delay) {
		if (arguments.length === 0 || typeof fn !== 'function') {
			return 0;
		}
		var args = [];
		for (var i = 2; i < arguments.length; i++) args.push(arguments[i]);
		var handle = nextHandle++;
		intervals[handle] = true;
		var schedule = function() {
			setTimeout(function() {
				if (!intervals[handle]) return;
				try {
					fn.apply(null, args);
				} catch (e) {
					if (e && e.__processExit) throw e;
					console.error('Error in setInterval callback:',
						e && e.message !== undefined ? e.message : String(e));
				}
				if (intervals[handle]) schedule();
			}, delay || 0);
		};
		schedule();
		return handle;
	};

	globalThis.clearInterval = function(handle) {
		if (arguments.length === 0 || typeof handle !== 'number') {
			return;
		}
		delete intervals[handle];
	};
})();
`

// setupTimers registers the one-shot scheduling primitives and evaluates
// the timer polyfill. Callbacks fire during EventLoop.Drain after the
// main script returns.
func (c *Context) setupTimers(rt core.JSRuntime, el *eventloop.EventLoop) error {
	// __timerRegister(delayMs) -> timerID
	if err := rt.RegisterFunc("__timerRegister", func(delayMs int) int {
		return el.RegisterTimer(time.Duration(delayMs) * time.Millisecond)
	}); err != nil {
		return fmt.Errorf("registering __timerRegister: %w", err)
	}

	// __timerClear(id)
	if err := rt.RegisterFunc("__timerClear", func(id int) {
		el.ClearTimer(id)
	}); err != nil {
		return fmt.Errorf("registering __timerClear: %w", err)
	}

	if err := rt.Eval(timersJS); err != nil {
		return fmt.Errorf("evaluating timers polyfill: %w", err)
	}
	return nil
}
