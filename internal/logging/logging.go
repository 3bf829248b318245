// Package logging builds the service's zerolog logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/ironsheep/image-enhancer/internal/config"
)

// New returns a logger writing to w at level. format is config.FormatJSON
// or config.FormatConsole; anything else is treated as JSON.
func New(w io.Writer, level zerolog.Level, format string) zerolog.Logger {
	if format == config.FormatConsole {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("service", "image-enhancer").
		Logger()
}

// FromConfig returns the stderr logger described by cfg.
func FromConfig(cfg *config.Config) zerolog.Logger {
	return New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
}
