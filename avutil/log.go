//go:build !ios && !android && (amd64 || arm64)

package avutil

import (
	"fmt"
	"strings"

	"github.com/obinnaokechukwu/avview/internal/bindings"
)

// LogLevel represents FFmpeg log levels.
type LogLevel int32

// Log level constants matching FFmpeg's AV_LOG_* values.
const (
	LogQuiet   LogLevel = -8 // Print no output
	LogPanic   LogLevel = 0  // Something went really wrong, crash
	LogFatal   LogLevel = 8  // Something went wrong, exit now
	LogError   LogLevel = 16 // Something went wrong, recovery possible
	LogWarning LogLevel = 24 // Something unexpected but recovery possible
	LogInfo    LogLevel = 32 // Standard information
	LogVerbose LogLevel = 40 // Detailed information
	LogDebug   LogLevel = 48 // Stuff for debugging
	LogTrace   LogLevel = 56 // Extremely verbose debugging
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch {
	case l <= LogQuiet:
		return "quiet"
	case l <= LogPanic:
		return "panic"
	case l <= LogFatal:
		return "fatal"
	case l <= LogError:
		return "error"
	case l <= LogWarning:
		return "warning"
	case l <= LogInfo:
		return "info"
	case l <= LogVerbose:
		return "verbose"
	case l <= LogDebug:
		return "debug"
	default:
		return "trace"
	}
}

// ParseLogLevel accepts the names ffmpeg's -loglevel option accepts.
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "quiet":
		return LogQuiet, nil
	case "panic":
		return LogPanic, nil
	case "fatal":
		return LogFatal, nil
	case "error":
		return LogError, nil
	case "warning", "warn":
		return LogWarning, nil
	case "info":
		return LogInfo, nil
	case "verbose":
		return LogVerbose, nil
	case "debug":
		return LogDebug, nil
	case "trace":
		return LogTrace, nil
	}
	return 0, fmt.Errorf("avview: unknown FFmpeg log level %q", s)
}

// SetLogLevel sets the level below which FFmpeg writes to stderr.
func SetLogLevel(level LogLevel) error {
	if avLogSetLevel == nil {
		return bindings.ErrNotLoaded
	}
	avLogSetLevel(int32(level))
	return nil
}

// GetLogLevel returns FFmpeg's current log level.
func GetLogLevel() LogLevel {
	if avLogGetLevel == nil {
		return LogInfo
	}
	return LogLevel(avLogGetLevel())
}
