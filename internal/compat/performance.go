package compat

import (
	"encoding/json"
	"fmt"

	"github.com/tsqrun/tsq/internal/core"
	"github.com/tsqrun/tsq/internal/eventloop"
)

// measureEntry is the record performance.measure hands back to JS.
// entryType is fixed and detail is always empty — the layer keeps no
// entry buffer.
type measureEntry struct {
	Name      string `json:"name"`
	EntryType string `json:"entryType"`
	StartTime int64  `json:"startTime"`
	Duration  int64  `json:"duration"`
	Detail    string `json:"detail"`
}

// performanceJS builds the performance object on the Go-backed coarse
// clock and mark/measure bookkeeping, plus the benchmark helper.
//
// performance.now() has whole-millisecond granularity. Callers expecting
// the usual sub-millisecond resolution get truncated readings — that is
// a documented fidelity gap of the target engine, not something to paper
// over with fabricated fractions.
const performanceJS = `
(function() {
	globalThis.performance = {
		now: function() { return __nowMs(); },
		mark: function(name) { __perfMark(String(name)); },
		measure: function(name, startMark, endMark) {
			var r = __perfMeasure(String(name), String(startMark), String(endMark));
			return r === '' ? null : JSON.parse(r);
		},
		getEntries: function() { return []; },
		getEntriesByType: function(type) { return []; },
		getEntriesByName: function(name) { return []; }
	};

	globalThis.benchmark = function(name, fn, iterations) {
		iterations = iterations | 0;
		if (iterations < 1) iterations = 1;
		var durations = [];
		var total = 0;
		var min = Infinity;
		var max = -Infinity;
		for (var i = 0; i < iterations; i++) {
			var start = __nowMs();
			fn();
			var elapsed = __nowMs() - start;
			durations.push(elapsed);
			total += elapsed;
			if (elapsed < min) min = elapsed;
			if (elapsed > max) max = elapsed;
		}
		var average = total / iterations;
		console.log("Benchmark '" + name + "': " + iterations + ' iterations');
		console.log('  Total: ' + total + 'ms');
		console.log('  Average: ' + average.toFixed(2) + 'ms');
		console.log('  Min: ' + min + 'ms');
		console.log('  Max: ' + max + 'ms');
		return {
			name: name,
			iterations: iterations,
			durations: durations,
			total: total,
			average: average,
			min: min,
			max: max
		};
	};
})();
`

// setupPerformance registers the coarse clock and mark/measure
// primitives, then evaluates the performance polyfill.
func (c *Context) setupPerformance(rt core.JSRuntime, _ *eventloop.EventLoop) error {
	if err := rt.RegisterFunc("__nowMs", func() float64 {
		return float64(c.nowMS())
	}); err != nil {
		return fmt.Errorf("registering __nowMs: %w", err)
	}

	if err := rt.RegisterFunc("__perfMark", func(name string) {
		c.mark(name)
	}); err != nil {
		return fmt.Errorf("registering __perfMark: %w", err)
	}

	// __perfMeasure returns the measure record as JSON, or the empty
	// string when a mark is missing (JS maps it to null).
	if err := rt.RegisterFunc("__perfMeasure", func(name, startMark, endMark string) string {
		return c.measure(name, startMark, endMark)
	}); err != nil {
		return fmt.Errorf("registering __perfMeasure: %w", err)
	}

	if err := rt.Eval(performanceJS); err != nil {
		return fmt.Errorf("evaluating performance polyfill: %w", err)
	}
	return nil
}

// mark records the current coarse reading under name, overwriting any
// prior mark of the same name. Marks persist for the process lifetime.
func (c *Context) mark(name string) {
	c.marks[name] = c.nowMS()
}

// measure computes end - start between two marks, reports the duration,
// and returns the measure record as JSON. A missing mark reports on the
// error path and returns "".
func (c *Context) measure(name, startMark, endMark string) string {
	start, ok := c.marks[startMark]
	if !ok {
		c.printError(fmt.Sprintf("Mark '%s' does not exist", startMark))
		return ""
	}
	end, ok := c.marks[endMark]
	if !ok {
		c.printError(fmt.Sprintf("Mark '%s' does not exist", endMark))
		return ""
	}

	duration := end - start
	c.print(fmt.Sprintf("%s: %dms", name, duration))

	data, err := json.Marshal(measureEntry{
		Name:      name,
		EntryType: "measure",
		StartTime: start,
		Duration:  duration,
	})
	if err != nil {
		return ""
	}
	return string(data)
}
