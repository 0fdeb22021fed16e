package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Logger wraps slog.Logger with the field names used across a generation run.
type Logger struct {
	*slog.Logger
}

// New creates a Logger with the given handler.
// If handler is nil, a text handler writing to stderr at info level is used.
func New(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewFromConfig builds a logger from a level name ("debug", "info", "warn",
// "error") and a format ("text" or "json").
func NewFromConfig(w io.Writer, level, format string) *Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		return New(slog.NewJSONHandler(w, opts))
	}
	return New(slog.NewTextHandler(w, opts))
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(1000)}))
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// WithSource tags records with the dataset they were derived from.
func (l *Logger) WithSource(source string) *Logger {
	return &Logger{Logger: l.Logger.With("source", source)}
}

// WithPhase tags records with the pipeline phase.
func (l *Logger) WithPhase(phase string) *Logger {
	return &Logger{Logger: l.Logger.With("phase", phase)}
}

// BadVersion reports a version string that could not be decoded.
func (l *Logger) BadVersion(feature, browser, version string) {
	l.Warn("bad version", "feature", feature, "browser", browser, "version", version)
}

// PhaseDone logs the completion of a pipeline phase.
func (l *Logger) PhaseDone(phase string, started time.Time, err error) {
	if err != nil {
		l.Error("phase failed", "phase", phase, "elapsed", time.Since(started), "error", err)
		return
	}
	l.Info("phase completed", "phase", phase, "elapsed", time.Since(started))
}
