// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// ParseLevel maps a configured level name to a slog level.
// Valid names are "error", "warn", "info" and "debug"; "none" is handled by
// ConfigureDefaultLogger.
func ParseLevel(name string) (slog.Level, error) {
	switch name {
	case "error":
		return slog.LevelError, nil
	case "warn":
		return slog.LevelWarn, nil
	case "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	}
	return 0, fmt.Errorf("unexpected log level %q", name)
}

// ConfigureDefaultLogger installs a default slog logger with the given level
// ("none", "error", "warn", "info" or "debug") and output.
//
// With an empty logFile, text records go to stderr so they never mix with
// command output on stdout. Otherwise the file is truncated and receives JSON
// records; the returned *os.File should be closed by the caller:
//
//	logFile, err := logging.ConfigureDefaultLogger("debug", "avview.log", slog.HandlerOptions{})
//	if err != nil {
//		return err
//	}
//	if logFile != nil {
//		defer logFile.Close()
//	}
func ConfigureDefaultLogger(logLevel string, logFile string, loggerOptions slog.HandlerOptions) (*os.File, error) {
	if logLevel == "none" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return nil, nil
	}

	level, err := ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	loggerOptions.Level = level

	if logFile == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &loggerOptions)))
		return nil, nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(f, &loggerOptions)))
	return f, nil
}
