// Command tsq runs a TypeScript or JavaScript script on the embedded
// QuickJS engine (or V8 when built with the v8 tag).
//
// Usage:
//
//	tsq [flags] script.ts [args...]
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tsqrun/tsq"
)

func main() {
	timeout := flag.Duration("timeout", 30*time.Second, "wall-clock limit for the run, including timers")
	memoryLimit := flag.Int("memory-limit", 0, "engine heap limit in MB (0 = engine default)")
	printBundle := flag.Bool("print-bundle", false, "print the bundled JavaScript instead of running it")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: tsq [flags] script.ts [args...]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	script := flag.Arg(0)
	scriptArgs := flag.Args()[1:]

	source, err := tsq.BundleScript(script)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tsq: %v\n", err)
		os.Exit(1)
	}
	if *printBundle {
		fmt.Print(source)
		return
	}

	engine := tsq.New(tsq.Config{
		Timeout:       *timeout,
		MemoryLimitMB: *memoryLimit,
		Stdout:        os.Stdout,
	})

	result := engine.RunScript(source, filepath.Base(script), scriptArgs, environMap())
	if result.Error != nil {
		fmt.Fprintf(os.Stderr, "tsq: %v\n", result.Error)
	}
	os.Exit(result.ExitCode)
}

// environMap converts os.Environ into the flat map the process
// descriptor expects.
func environMap() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			env[kv[:i]] = kv[i+1:]
		}
	}
	return env
}
