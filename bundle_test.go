package tsq

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestBundleScript_ResolvesImports(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "greet.ts", `
		export function greet(name: string): string {
			return "hello " + name;
		}
	`)
	entry := writeFile(t, dir, "main.ts", `
		import { greet } from "./greet";
		console.log(greet("world"));
	`)

	source, err := BundleScript(entry)
	if err != nil {
		t.Fatalf("bundle: %v", err)
	}
	// Types stripped, module graph flattened.
	if strings.Contains(source, ": string") {
		t.Error("bundle still contains type annotations")
	}
	if strings.Contains(source, "import ") {
		t.Error("bundle still contains import statements")
	}
}

func TestBundleScript_UnresolvableImport(t *testing.T) {
	dir := t.TempDir()
	entry := writeFile(t, dir, "main.ts", `
		import * as fs from "fs";
		console.log(fs);
	`)

	if _, err := BundleScript(entry); err == nil {
		t.Fatal("expected bundle error for unresolvable import")
	}
}

func TestBundleScript_MissingEntry(t *testing.T) {
	if _, err := BundleScript(filepath.Join(t.TempDir(), "nope.ts")); err == nil {
		t.Fatal("expected bundle error for missing entry point")
	}
}

func TestRunFile_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lib.ts", `
		export const tag: string = "bundled";
	`)
	entry := writeFile(t, dir, "app.ts", `
		import { tag } from "./lib";
		console.log(tag, process.argv[1]);
	`)

	var buf bytes.Buffer
	e := New(Config{Timeout: 10 * time.Second, Stdout: &buf})

	r, err := e.RunFile(entry, nil, nil)
	if err != nil {
		t.Fatalf("run file: %v", err)
	}
	assertOK(t, r)

	lines := outputLines(&buf)
	if len(lines) != 1 || lines[0] != "bundled app.ts" {
		t.Errorf("lines = %q, want ['bundled app.ts']", lines)
	}
}

func TestTranspileSource_StripsTypes(t *testing.T) {
	out, err := TranspileSource(`const n: number = 1; console.log(n);`)
	if err != nil {
		t.Fatalf("transpile: %v", err)
	}
	if strings.Contains(out, ": number") {
		t.Errorf("output still typed: %q", out)
	}

	var buf bytes.Buffer
	e := newTestEngine(t, &buf)
	r := e.RunScript(out, "inline.ts", nil, nil)
	assertOK(t, r)
	if lines := outputLines(&buf); len(lines) != 1 || lines[0] != "1" {
		t.Errorf("lines = %q, want ['1']", lines)
	}
}
