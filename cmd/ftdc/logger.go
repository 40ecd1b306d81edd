package main

import (
	"io"
	"log/slog"
)

// newLogger writes records of at least the configured level to w, as JSON
// or logfmt text. Every record carries the application name.
func newLogger(level, format string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}

	h := slog.Handler(slog.NewTextHandler(w, opts))
	if format == "json" {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h).With("app", appName)
}
