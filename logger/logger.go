package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel maps a level name to a slog level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewHandler builds a text or json handler writing to w
func NewHandler(w io.Writer, level, format string) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	switch strings.ToLower(format) {
	case "json":
		return slog.NewJSONHandler(w, opts)
	default:
		return slog.NewTextHandler(w, opts)
	}
}

// Setup configures the global logger to write to stdout
func Setup(level, format string) error {
	slog.SetDefault(slog.New(NewHandler(os.Stdout, level, format)))
	return nil
}

// SetupHistory configures the global logger for the terminal UI. Records go
// to the in-memory history and, when file is not nil, to file as well; nothing
// is written to stdout.
func SetupHistory(level, format string, history *History, file io.Writer) error {
	var fileHandler slog.Handler
	if file != nil {
		fileHandler = NewHandler(file, level, format)
	}

	handler := Tee(history.Handler(ParseLevel(level)), fileHandler)
	slog.SetDefault(slog.New(handler))
	return nil
}

// WithFields returns a logger with the given fields
func WithFields(fields ...any) *slog.Logger {
	return slog.With(fields...)
}

// WithComponent returns a logger with a component field
func WithComponent(component string) *slog.Logger {
	return slog.With("component", component)
}
