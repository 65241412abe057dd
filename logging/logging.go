package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup installs a JSON slog handler on stdout as the process default and returns it.
func Setup(level string) *slog.Logger {
	return SetupWithWriter(os.Stdout, level)
}

// SetupWithWriter is Setup with an explicit destination.
func SetupWithWriter(w io.Writer, level string) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})).With("service", "aquablue")
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps LOG_LEVEL values (debug, info, warn, error) to slog levels. Defaults to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Fatal logs at Error level and exits with code 1.
func Fatal(msg string, args ...any) {
	slog.Error(msg, args...)
	os.Exit(1)
}
