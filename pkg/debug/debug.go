// Package debug builds the slog loggers used by the CLI and the browser
// build.
package debug

import (
	"fmt"
	"log/slog"
	"strings"
)

// ParseLevel accepts debug, info, warn or error, in any case, with an
// optional offset such as "warn+2"
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}
