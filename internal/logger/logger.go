package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger represents application logger.
type Logger struct {
	*slog.Logger
}

// New creates new Logger instance with the specified level writing to stdout.
func New(level int) *Logger {
	return NewWithWriter(os.Stdout, level)
}

// NewWithWriter creates new Logger writing text records to w.
func NewWithWriter(w io.Writer, level int) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.Level(level)})),
	}
}

// With returns a Logger that always includes the given attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Fatal is equivalent to Error followed by os.Exit(1).
func (l *Logger) Fatal(msg string, args ...any) {
	l.Logger.Error(msg, args...)
	os.Exit(1)
}
