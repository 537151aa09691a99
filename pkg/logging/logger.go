// Package logging provides leveled diagnostics for gh-issue-batch.
// Progress and summary lines are regular output; the logger only carries
// details useful when debugging a run (skipped rows, gh arguments, errors).
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// ParseLevel parses a log level string into slog.Level.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New creates a text logger writing to w at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Timestamps only add noise to an interactive run
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// NewVerbose returns a debug logger when verbose is set and a warn logger otherwise.
func NewVerbose(w io.Writer, verbose bool) *slog.Logger {
	if verbose {
		return New(w, slog.LevelDebug)
	}
	return New(w, slog.LevelWarn)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return New(io.Discard, slog.LevelError+1)
}
