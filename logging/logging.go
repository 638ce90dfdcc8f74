// Package logging builds the zerolog logger shared by the dashboard.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/fxdash/config"
)

// New returns a logger for cfg writing to stderr and installs it as the
// global zerolog logger.
func New(cfg config.LogConfig) zerolog.Logger {
	logger := NewWriter(cfg, os.Stderr)
	log.Logger = logger
	return logger
}

// NewWriter is New without touching the global logger.
func NewWriter(cfg config.LogConfig, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	out := w
	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Component derives a child logger tagged with the component name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}
