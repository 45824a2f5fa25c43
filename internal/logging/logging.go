// SPDX-License-Identifier: MPL-2.0

// Package logging builds the slog loggers used by modctl. Records are
// rendered by charmbracelet/log so diagnostics match the CLI's styling.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/log"
)

// Prefix is printed before every record.
const Prefix = "modctl"

// ErrInvalidLevel is returned by ParseLevel for unknown level names.
var ErrInvalidLevel = errors.New("invalid log level")

// Options tunes New.
type Options struct {
	// Level is the minimum level written.
	Level slog.Level
	// Timestamps adds a time column to every record.
	Timestamps bool
	// Caller adds the source location of the log call.
	Caller bool
}

// ParseLevel converts "debug", "info", "warn" (or "warning") and "error",
// case-insensitively, into a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w %q (valid: debug, info, warn, error)", ErrInvalidLevel, s)
	}
}

// New returns a slog.Logger that writes to w through a charmbracelet/log
// handler.
func New(w io.Writer, opts Options) *slog.Logger {
	handler := log.NewWithOptions(w, log.Options{
		Prefix:          Prefix,
		Level:           log.Level(opts.Level),
		ReportTimestamp: opts.Timestamps,
		ReportCaller:    opts.Caller,
	})
	return slog.New(handler)
}

// Setup builds a logger with New and installs it as the slog default.
func Setup(w io.Writer, opts Options) *slog.Logger {
	logger := New(w, opts)
	slog.SetDefault(logger)
	return logger
}
