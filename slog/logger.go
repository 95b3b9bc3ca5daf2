// Package slog provides logging decorators for villages services and the
// process-wide logger setup.
package slog

import (
	"io"
	"log/slog"
)

// NewLogger returns a text or JSON logger writing to w.
// Debug records are emitted only when verbose is set.
func NewLogger(w io.Writer, format string, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
