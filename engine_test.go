package tsq

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

// newTestEngine returns an engine writing console output into buf.
func newTestEngine(t *testing.T, buf *bytes.Buffer) *Engine {
	t.Helper()
	return New(Config{
		Timeout: 10 * time.Second,
		Stdout:  buf,
	})
}

// runScript executes plain JS source and returns the result plus the
// captured output lines.
func runScript(t *testing.T, source string) (*RunResult, []string) {
	t.Helper()
	return runScriptWith(t, source, nil, nil)
}

// runScriptWith executes source with the given script args and env.
func runScriptWith(t *testing.T, source string, args []string, env map[string]string) (*RunResult, []string) {
	t.Helper()
	var buf bytes.Buffer
	e := newTestEngine(t, &buf)
	r := e.RunScript(source, "test.js", args, env)
	return r, outputLines(&buf)
}

// outputLines splits the captured buffer into lines, dropping the
// trailing newline.
func outputLines(buf *bytes.Buffer) []string {
	out := strings.TrimRight(buf.String(), "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

// assertOK fails the test when the run errored or exited non-zero.
func assertOK(t *testing.T, r *RunResult) {
	t.Helper()
	if r.Error != nil {
		t.Fatalf("run error: %v", r.Error)
	}
	if r.ExitCode != 0 {
		t.Fatalf("exit code = %d, want 0", r.ExitCode)
	}
}

func TestEngine_CleanCompletion(t *testing.T) {
	r, lines := runScript(t, `console.log("hello");`)
	assertOK(t, r)

	if len(lines) != 1 || lines[0] != "hello" {
		t.Errorf("lines = %q, want [hello]", lines)
	}
	if r.Duration <= 0 {
		t.Error("duration not recorded")
	}
}

func TestEngine_ScriptError(t *testing.T) {
	r, _ := runScript(t, `throw new Error("bad");`)

	if r.Error == nil {
		t.Fatal("expected run error for uncaught exception")
	}
	if r.ExitCode != 1 {
		t.Errorf("exit code = %d, want 1", r.ExitCode)
	}
}

func TestEngine_CompileError(t *testing.T) {
	r, _ := runScript(t, `function {`)

	if r.Error == nil {
		t.Fatal("expected run error for syntax error")
	}
}

func TestEngine_Timeout(t *testing.T) {
	var buf bytes.Buffer
	e := New(Config{Timeout: 300 * time.Millisecond, Stdout: &buf})

	r := e.RunScript(`for (;;) {}`, "spin.js", nil, nil)
	if r.Error == nil {
		t.Fatal("expected timeout error")
	}
	if !strings.Contains(r.Error.Error(), "timed out") {
		t.Errorf("error = %v, want timeout", r.Error)
	}
}

func TestEngine_UnclearedIntervalTimesOut(t *testing.T) {
	var buf bytes.Buffer
	e := New(Config{Timeout: 400 * time.Millisecond, Stdout: &buf})

	// An interval nobody clears keeps the loop busy until the budget
	// runs out. That is a timeout, not a clean exit.
	r := e.RunScript(`setInterval(() => {}, 50);`, "spin.js", nil, nil)
	if r.Error == nil {
		t.Fatal("expected timeout error for uncleared interval")
	}
	if !strings.Contains(r.Error.Error(), "timed out") {
		t.Errorf("error = %v, want timeout", r.Error)
	}
	if r.ExitCode != 1 {
		t.Errorf("exit code = %d, want 1", r.ExitCode)
	}
}

func TestEngine_FarFutureTimerTimesOut(t *testing.T) {
	var buf bytes.Buffer
	e := New(Config{Timeout: 300 * time.Millisecond, Stdout: &buf})

	// A callback scheduled past the budget is never silently dropped.
	r := e.RunScript(`setTimeout(() => console.log("never"), 60000);`, "late.js", nil, nil)
	if r.Error == nil {
		t.Fatal("expected timeout error for pending far-future timer")
	}
	if !strings.Contains(r.Error.Error(), "timed out") {
		t.Errorf("error = %v, want timeout", r.Error)
	}
	if lines := outputLines(&buf); len(lines) != 0 {
		t.Errorf("lines = %q, want no output", lines)
	}
}

func TestEngine_MissingHostAPIFailsLoudly(t *testing.T) {
	// The shim emulates no filesystem — referencing one must raise,
	// not quietly no-op.
	r, _ := runScript(t, `require("fs");`)

	if r.Error == nil {
		t.Fatal("expected error for unsupported host API")
	}
}

func TestEngine_IntervalEndToEnd(t *testing.T) {
	source := `
		let count = 0;
		const id = setInterval(() => {
			count++;
			console.log("tick");
			if (count === 3) {
				clearInterval(id);
				console.log("done");
			}
		}, 20);
	`
	r, lines := runScript(t, source)
	assertOK(t, r)

	want := []string{"tick", "tick", "tick", "done"}
	if len(lines) != len(want) {
		t.Fatalf("lines = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("lines[%d] = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestEngine_DrainRunsMicrotasks(t *testing.T) {
	source := `
		setTimeout(() => {
			Promise.resolve("later").then(v => console.log(v));
		}, 10);
		console.log("first");
	`
	r, lines := runScript(t, source)
	assertOK(t, r)

	want := []string{"first", "later"}
	if len(lines) != 2 || lines[0] != want[0] || lines[1] != want[1] {
		t.Errorf("lines = %q, want %q", lines, want)
	}
}
