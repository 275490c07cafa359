package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"subio/internal/diagnostic"
)

// Init creates a logger writing to w, sets it as the package-level default
// and returns it. format "json" selects the JSONHandler; anything else the
// TextHandler.
func Init(w io.Writer, format string, level slog.Level) *slog.Logger {
	logger := New(w, format, level)
	slog.SetDefault(logger)

	return logger
}

// New creates a logger writing to w.
func New(w io.Writer, format string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// ParseLevel converts a string ("debug", "info", "warn", "error") to slog.Level.
// Unknown strings default to LevelInfo.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogDiagnostics writes each diagnostic at the level of its severity.
// source names the input the diagnostics came from, e.g. a config entry.
func LogDiagnostics(logger *slog.Logger, source string, diags diagnostic.Diagnostics) {
	for _, d := range diags.All() {
		attrs := []any{"source", source, "code", d.Code}

		for _, kv := range [][2]string{{"provider", d.Provider}, {"node", d.Node}, {"field", d.Field}} {
			if kv[1] != "" {
				attrs = append(attrs, kv[0], kv[1])
			}
		}

		if len(d.Suggestions) > 0 {
			attrs = append(attrs, "suggestions", d.Suggestions)
		}

		logger.Log(context.Background(), levelOf(d.Severity), d.Message, attrs...)
	}
}

func levelOf(s diagnostic.Severity) slog.Level {
	switch s {
	case diagnostic.SeverityError:
		return slog.LevelError
	case diagnostic.SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
