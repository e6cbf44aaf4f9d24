// ABOUTME: Leveled logging facade for the hook engine, backed by logrus
// ABOUTME: Global level via SetLevel; writes to stderr so hook output stays clean

package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Level constants matching slog levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Fields is an alias for structured log fields.
type Fields = logrus.Fields

var (
	level atomic.Int64
	std   = logrus.New()
)

func init() {
	std.SetOutput(os.Stderr)
	std.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableQuote:     true,
	})
	SetLevel(LevelInfo)
}

// SetLevel sets the global log level.
func SetLevel(l slog.Level) {
	level.Store(int64(l))
	std.SetLevel(toLogrus(l))
}

// GetLevel returns the current log level.
func GetLevel() slog.Level {
	return slog.Level(level.Load())
}

// ParseLevel maps a textual level ("debug", "info", "warn", "error") to a
// slog level. Unknown values fall back to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// SetOutput redirects log output. Tests use it to capture lines.
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

// With returns an entry carrying the given fields.
func With(fields Fields) *logrus.Entry {
	return std.WithFields(fields)
}

// Debug logs a debug message if the level allows it.
func Debug(format string, args ...any) {
	std.Debugf(format, args...)
}

// Info logs an info message if the level allows it.
func Info(format string, args ...any) {
	std.Infof(format, args...)
}

// Warn logs a warning message if the level allows it.
func Warn(format string, args ...any) {
	std.Warnf(format, args...)
}

// Error logs an error message (always emitted).
func Error(format string, args ...any) {
	std.Errorf(format, args...)
}

func toLogrus(l slog.Level) logrus.Level {
	switch {
	case l <= LevelDebug:
		return logrus.DebugLevel
	case l <= LevelInfo:
		return logrus.InfoLevel
	case l <= LevelWarn:
		return logrus.WarnLevel
	default:
		return logrus.ErrorLevel
	}
}
