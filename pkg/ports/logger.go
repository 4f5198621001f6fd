// Package ports defines the Logger interface for logging abstraction.
package ports

import "strings"

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	// LevelDebug is for per-frame and per-command details of a session.
	LevelDebug LogLevel = iota
	// LevelInfo is for batch progress: video opened, sidecar saved.
	LevelInfo
	// LevelWarn is for recoverable problems such as a malformed sidecar.
	LevelWarn
	// LevelError is for problems that end the current video.
	LevelError
	// LevelQuiet suppresses all log output.
	LevelQuiet
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelQuiet:
		return "quiet"
	default:
		return "unknown"
	}
}

// ParseLogLevel parses a string into a LogLevel.
// Unknown values fall back to LevelInfo.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "quiet":
		return LevelQuiet
	default:
		return LevelInfo
	}
}

// Logger abstracts logging operations with multi-language support.
// The msg parameter is a message key that may be translated, args are its format arguments.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	// WithComponent returns a Logger that tags messages with the component name
	// ("annotate", "store", "ffmpeg", ...).
	WithComponent(component string) Logger
}
