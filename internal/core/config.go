package core

import (
	"io"
	"os"
	"time"
)

// DefaultTimeout bounds a script run when the caller does not set one.
const DefaultTimeout = 30 * time.Second

// Config holds engine-wide settings shared by both backends.
type Config struct {
	// Timeout is the wall-clock limit for a single script run, including
	// the event loop drain. Zero means DefaultTimeout.
	Timeout time.Duration

	// MemoryLimitMB caps the engine heap. Zero means engine default.
	MemoryLimitMB int

	// Stdout receives all console output. Defaults to os.Stdout.
	Stdout io.Writer
}

// Normalize fills in defaults for zero-valued fields.
func (c Config) Normalize() Config {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	return c
}
