// Package logging holds the daemon's runtime-adjustable log level. The level
// is shared by every handler built from it, so changing it takes effect for
// all loggers at once.
package logging

import (
	"fmt"
	"log/slog"
	"strings"
)

// validLevels maps accepted level strings to slog levels.
var validLevels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// LevelError is returned for an unrecognised level string.
type LevelError struct {
	Level string
}

func (e *LevelError) Error() string {
	return fmt.Sprintf("invalid level %q; must be debug, info, warn, or error", e.Level)
}

// ParseLevel converts a level string (case-insensitive) to a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	l, ok := validLevels[strings.ToLower(strings.TrimSpace(level))]
	if !ok {
		return slog.LevelInfo, &LevelError{Level: level}
	}
	return l, nil
}

// LevelName returns the canonical name for a slog.Level.
func LevelName(l slog.Level) string {
	switch {
	case l <= slog.LevelDebug:
		return "debug"
	case l <= slog.LevelInfo:
		return "info"
	case l <= slog.LevelWarn:
		return "warn"
	default:
		return "error"
	}
}

// Level is a named, concurrency-safe log level.
type Level struct {
	lv slog.LevelVar
}

// Leveler returns the slog.Leveler handlers should be built with.
func (l *Level) Leveler() slog.Leveler {
	return &l.lv
}

// Set changes the level at runtime.
func (l *Level) Set(level string) error {
	parsed, err := ParseLevel(level)
	if err != nil {
		return err
	}
	l.lv.Set(parsed)
	return nil
}

// Get returns the canonical name of the current level.
func (l *Level) Get() string {
	return LevelName(l.lv.Level())
}

// global is the process-wide level used by SetupLogger.
var global Level

// Global returns the process-wide level.
func Global() *Level {
	return &global
}
