package tsq

import (
	"regexp"
	"strings"
	"testing"
)

func TestConsole_NullAndUndefinedLiterals(t *testing.T) {
	r, lines := runScript(t, `console.log(null, undefined);`)
	assertOK(t, r)

	if len(lines) != 1 || lines[0] != "null undefined" {
		t.Errorf("lines = %q, want ['null undefined']", lines)
	}
}

func TestConsole_PrimitiveFormatting(t *testing.T) {
	r, lines := runScript(t, `console.log("hi", 42, true, 1.5);`)
	assertOK(t, r)

	if len(lines) != 1 || lines[0] != "hi 42 true 1.5" {
		t.Errorf("lines = %q, want ['hi 42 true 1.5']", lines)
	}
}

func TestConsole_StringsUnquoted(t *testing.T) {
	r, lines := runScript(t, `console.log("a \"quoted\" string");`)
	assertOK(t, r)

	if len(lines) != 1 || lines[0] != `a "quoted" string` {
		t.Errorf("lines = %q", lines)
	}
}

func TestConsole_ObjectIndentation(t *testing.T) {
	r, lines := runScript(t, `console.log({ foo: "bar" });`)
	assertOK(t, r)

	want := []string{"{", `  "foo": "bar"`, "}"}
	if len(lines) != 3 {
		t.Fatalf("lines = %q, want 3 lines", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("lines[%d] = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestConsole_ArrayFormatting(t *testing.T) {
	r, lines := runScript(t, `console.log([1, 2]);`)
	assertOK(t, r)

	got := strings.Join(lines, "\n")
	want := "[\n  1,\n  2\n]"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestConsole_CircularFallback(t *testing.T) {
	source := `
		var a = {};
		a.self = a;
		console.log(a);
	`
	r, lines := runScript(t, source)
	assertOK(t, r)

	if len(lines) != 1 || lines[0] != "[object Object]" {
		t.Errorf("lines = %q, want ['[object Object]']", lines)
	}
}

func TestConsole_FunctionFormatting(t *testing.T) {
	source := `
		function greet() {}
		console.log(greet);
		console.log(function() {});
	`
	r, lines := runScript(t, source)
	assertOK(t, r)

	if len(lines) != 2 {
		t.Fatalf("lines = %q, want 2 lines", lines)
	}
	if lines[0] != "[Function: greet]" {
		t.Errorf("lines[0] = %q, want '[Function: greet]'", lines[0])
	}
	if lines[1] != "[Function: anonymous]" {
		t.Errorf("lines[1] = %q, want '[Function: anonymous]'", lines[1])
	}
}

func TestConsole_ErrorAndWarnPrefixes(t *testing.T) {
	source := `
		console.error("boom");
		console.warn("careful");
		console.log("plain");
		console.info("note");
		console.debug("detail");
	`
	r, lines := runScript(t, source)
	assertOK(t, r)

	want := []string{"ERROR: boom", "WARN: careful", "plain", "note", "detail"}
	if len(lines) != len(want) {
		t.Fatalf("lines = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("lines[%d] = %q, want %q", i, lines[i], want[i])
		}
	}
}

var elapsedLineRE = regexp.MustCompile(`^t1: \d+ms$`)

func TestConsole_TimeAndTimeEnd(t *testing.T) {
	source := `
		console.time("t1");
		console.timeEnd("t1");
	`
	r, lines := runScript(t, source)
	assertOK(t, r)

	if len(lines) != 1 || !elapsedLineRE.MatchString(lines[0]) {
		t.Errorf("lines = %q, want one 't1: <n>ms' line", lines)
	}
}

func TestConsole_TimeEndRemovesLabel(t *testing.T) {
	source := `
		console.time("t1");
		console.timeEnd("t1");
		console.timeEnd("t1");
	`
	r, lines := runScript(t, source)
	assertOK(t, r)

	if len(lines) != 2 {
		t.Fatalf("lines = %q, want 2 lines", lines)
	}
	if lines[1] != "ERROR: Timer 't1' does not exist" {
		t.Errorf("lines[1] = %q", lines[1])
	}
}

func TestConsole_TimeEndUnknownLabel(t *testing.T) {
	r, lines := runScript(t, `console.timeEnd("missing");`)
	assertOK(t, r)

	if len(lines) != 1 || lines[0] != "ERROR: Timer 'missing' does not exist" {
		t.Errorf("lines = %q", lines)
	}
}

func TestConsole_TimeLogRepeatable(t *testing.T) {
	source := `
		console.time("t1");
		console.timeLog("t1");
		console.timeLog("t1", "step", 2);
		console.timeEnd("t1");
	`
	r, lines := runScript(t, source)
	assertOK(t, r)

	if len(lines) != 3 {
		t.Fatalf("lines = %q, want 3 lines", lines)
	}
	if !elapsedLineRE.MatchString(lines[0]) {
		t.Errorf("lines[0] = %q, want 't1: <n>ms'", lines[0])
	}
	if !regexp.MustCompile(`^t1: \d+ms step 2$`).MatchString(lines[1]) {
		t.Errorf("lines[1] = %q, want 't1: <n>ms step 2'", lines[1])
	}
	if !elapsedLineRE.MatchString(lines[2]) {
		t.Errorf("lines[2] = %q, want 't1: <n>ms'", lines[2])
	}
}

func TestConsole_TimeRestartOverwrites(t *testing.T) {
	source := `
		console.time("t1");
		console.time("t1");
		console.timeEnd("t1");
	`
	r, lines := runScript(t, source)
	assertOK(t, r)

	// Re-starting is a silent overwrite — one readout, no warning.
	if len(lines) != 1 || !elapsedLineRE.MatchString(lines[0]) {
		t.Errorf("lines = %q, want one 't1: <n>ms' line", lines)
	}
}

func TestConsole_DefaultLabel(t *testing.T) {
	source := `
		console.time();
		console.timeEnd();
	`
	r, lines := runScript(t, source)
	assertOK(t, r)

	if len(lines) != 1 || !regexp.MustCompile(`^default: \d+ms$`).MatchString(lines[0]) {
		t.Errorf("lines = %q, want one 'default: <n>ms' line", lines)
	}
}

func TestConsole_MixedArgumentsJoinedBySpaces(t *testing.T) {
	r, lines := runScript(t, `console.log("count:", 3, null);`)
	assertOK(t, r)

	if len(lines) != 1 || lines[0] != "count: 3 null" {
		t.Errorf("lines = %q, want ['count: 3 null']", lines)
	}
}
