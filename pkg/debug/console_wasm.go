//go:build js && wasm
// +build js,wasm

package debug

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"syscall/js"
)

// ConsoleHandler writes records to the browser console, picking
// console.debug/info/warn/error by level
type ConsoleHandler struct {
	level  slog.Leveler
	prefix string
	attrs  string
}

// NewConsoleHandler creates a handler for records at level or above
func NewConsoleHandler(level slog.Leveler) *ConsoleHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &ConsoleHandler{level: level}
}

// NewLogger returns a logger backed by a ConsoleHandler
func NewLogger(level slog.Leveler) *slog.Logger {
	return slog.New(NewConsoleHandler(level))
}

func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(r.Message)
	sb.WriteString(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&sb, h.prefix, a)
		return true
	})

	js.Global().Get("console").Call(method(r.Level), sb.String())
	return nil
}

func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var sb strings.Builder
	sb.WriteString(h.attrs)
	for _, a := range attrs {
		writeAttr(&sb, h.prefix, a)
	}
	return &ConsoleHandler{level: h.level, prefix: h.prefix, attrs: sb.String()}
}

func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &ConsoleHandler{level: h.level, prefix: h.prefix + name + ".", attrs: h.attrs}
}

func writeAttr(sb *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			writeAttr(sb, p, ga)
		}
		return
	}
	fmt.Fprintf(sb, " %s%s=%v", prefix, a.Key, a.Value.Any())
}

func method(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warn"
	case level >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}
