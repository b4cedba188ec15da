// Package logging builds the diagnostic logger used for operator-facing messages.
// The audit trail is written by pkg/audit, not here.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/forest6511/credvault/pkg/config"
)

// New returns a zerolog logger writing to w (stderr when nil).
// An unparsable level falls back to info.
func New(cfg config.Logging, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if cfg.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	return zerolog.New(w).Level(level).With().Timestamp().Str("component", "credvault").Logger()
}
