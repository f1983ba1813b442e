//go:build !wasm
// +build !wasm

package debug

import (
	"io"
	"log/slog"
)

// NewLogger logs to w as text, or as JSON lines when json is set
func NewLogger(w io.Writer, level slog.Leveler, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
