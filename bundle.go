package tsq

import (
	"fmt"
	"path/filepath"
	"strings"

	esbuild "github.com/evanw/esbuild/pkg/api"
)

// BundleScript uses esbuild to bundle a TypeScript or JavaScript entry
// point with all its imports into a single self-contained script the
// engine can evaluate directly. TypeScript is transpiled by extension;
// the output targets ES2020, which the embedded engine supports.
//
// The engine has no module system, so bare specifiers that cannot be
// resolved on disk fail here, loudly, rather than being emulated.
func BundleScript(entryPoint string) (string, error) {
	abs, err := filepath.Abs(entryPoint)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", entryPoint, err)
	}

	result := esbuild.Build(esbuild.BuildOptions{
		EntryPoints:   []string{abs},
		AbsWorkingDir: filepath.Dir(abs),
		Bundle:        true,
		Write:         false,
		Format:        esbuild.FormatIIFE,
		Platform:      esbuild.PlatformNeutral,
		Target:        esbuild.ES2020,
		LogLevel:      esbuild.LogLevelSilent,
	})

	if len(result.Errors) > 0 {
		var msgs []string
		for _, e := range result.Errors {
			msgs = append(msgs, e.Text)
		}
		return "", fmt.Errorf("bundling %s: %s", entryPoint, strings.Join(msgs, "; "))
	}
	if len(result.OutputFiles) == 0 {
		return "", fmt.Errorf("bundling %s produced no output", entryPoint)
	}

	return string(result.OutputFiles[0].Contents), nil
}

// TranspileSource transpiles a single TypeScript source string without
// bundling. Used when the caller already holds the source in memory.
func TranspileSource(source string) (string, error) {
	result := esbuild.Transform(source, esbuild.TransformOptions{
		Loader:   esbuild.LoaderTS,
		Format:   esbuild.FormatIIFE,
		Target:   esbuild.ES2020,
		LogLevel: esbuild.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		var msgs []string
		for _, e := range result.Errors {
			msgs = append(msgs, e.Text)
		}
		return "", fmt.Errorf("transpiling: %s", strings.Join(msgs, "; "))
	}
	return string(result.Code), nil
}
