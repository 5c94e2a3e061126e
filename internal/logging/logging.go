// Package logging builds the application's slog.Logger.
package logging

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

// New returns a logger writing to w at the given level.
// JSON output is the default and suits log aggregators; pretty selects
// tint's colourised text for local development.
// An unrecognised level falls back to info.
func New(w io.Writer, level string, pretty bool) *slog.Logger {
	lvl := ParseLevel(level)

	var h slog.Handler
	if pretty {
		h = tint.NewHandler(w, &tint.Options{
			Level:      lvl,
			TimeFormat: time.Kitchen,
		})
	} else {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	}
	return slog.New(h)
}

// ParseLevel converts "debug", "info", "warn" or "error" (any case) into a
// slog.Level, defaulting to slog.LevelInfo.
func ParseLevel(level string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
