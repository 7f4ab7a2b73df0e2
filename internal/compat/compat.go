// Package compat is the runtime compatibility layer: it emulates a subset
// of a richer JavaScript host (console formatting, repeating timers,
// performance instrumentation, a process descriptor) on top of an engine
// that provides only a synchronous print primitive, one-shot delayed
// callbacks, and a coarse wall clock.
//
// All polyfill state lives on a Context constructed at install time and
// discarded with the VM — nothing here touches hidden globals on the Go
// side. Install runs exactly once per VM, before any user code.
package compat

import (
	"fmt"
	"io"
	"time"

	"github.com/tsqrun/tsq/internal/core"
	"github.com/tsqrun/tsq/internal/eventloop"
)

// Context owns the compat layer's process-lifetime state: the console
// output sink, the coarse clock epoch, elapsed-time labels and
// performance marks. It is constructed once per VM and closed over by
// the Go primitives the setup functions register.
type Context struct {
	out    io.Writer
	epoch  time.Time
	labels map[string]int64 // console.time label -> start reading
	marks  map[string]int64 // performance.mark name -> reading

	scriptName string
	args       []string
	env        map[string]string
}

// NewContext creates a compat context writing console output to out.
// scriptName, args and env populate the process descriptor at install
// time; they are not read afterwards.
func NewContext(out io.Writer, scriptName string, args []string, env map[string]string) *Context {
	if env == nil {
		env = map[string]string{}
	}
	return &Context{
		out:        out,
		epoch:      time.Now(),
		labels:     make(map[string]int64),
		marks:      make(map[string]int64),
		scriptName: scriptName,
		args:       args,
		env:        env,
	}
}

// setupFunc installs one compat unit into the runtime.
type setupFunc func(rt core.JSRuntime, el *eventloop.EventLoop) error

// Install registers the Go-backed primitives and evaluates the JS
// polyfills for all four compat units. Must run once, before user code.
func (c *Context) Install(rt core.JSRuntime, el *eventloop.EventLoop) error {
	setups := []setupFunc{
		c.setupConsole,
		c.setupTimers,
		c.setupPerformance,
		c.setupProcess,
	}
	for _, setup := range setups {
		if err := setup(rt, el); err != nil {
			return fmt.Errorf("installing compat layer: %w", err)
		}
	}
	return nil
}

// print emits one line through the single synchronous output channel.
func (c *Context) print(line string) {
	fmt.Fprintln(c.out, line)
}

// printError emits one line on the error-console path.
func (c *Context) printError(line string) {
	c.print("ERROR: " + line)
}

// nowMS returns the coarse clock reading: whole milliseconds since the
// context was constructed. Sub-millisecond precision is unavailable and
// is not fabricated.
func (c *Context) nowMS() int64 {
	return time.Since(c.epoch).Milliseconds()
}
