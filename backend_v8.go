//go:build v8

package tsq

import (
	"github.com/tsqrun/tsq/internal/core"
	"github.com/tsqrun/tsq/internal/v8engine"
)

func newBackend(cfg core.Config) core.EngineBackend {
	return v8engine.NewEngine(cfg)
}
