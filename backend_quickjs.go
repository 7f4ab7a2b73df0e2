//go:build !v8

package tsq

import (
	"github.com/tsqrun/tsq/internal/core"
	"github.com/tsqrun/tsq/internal/quickjs"
)

func newBackend(cfg core.Config) core.EngineBackend {
	return quickjs.NewEngine(cfg)
}
