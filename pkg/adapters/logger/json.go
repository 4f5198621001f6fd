package logger

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/user/vidmark/pkg/ports"
)

// JSONLogger writes one JSON object per message through zerolog.
// Messages are rendered untranslated so log processors see stable text.
type JSONLogger struct {
	logger zerolog.Logger
}

// NewJSON creates a JSON logger writing to w.
func NewJSON(level ports.LogLevel, w io.Writer) *JSONLogger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	return &JSONLogger{
		logger: zerolog.New(w).Level(zerologLevel(level)).With().Timestamp().Logger(),
	}
}

func (l *JSONLogger) Debug(msg string, args ...interface{}) {
	l.logger.Debug().Msg(format(msg, args))
}

func (l *JSONLogger) Info(msg string, args ...interface{}) {
	l.logger.Info().Msg(format(msg, args))
}

func (l *JSONLogger) Warn(msg string, args ...interface{}) {
	l.logger.Warn().Msg(format(msg, args))
}

func (l *JSONLogger) Error(msg string, args ...interface{}) {
	l.logger.Error().Msg(format(msg, args))
}

// WithComponent returns a logger that adds a "component" field.
func (l *JSONLogger) WithComponent(component string) ports.Logger {
	return &JSONLogger{logger: l.logger.With().Str("component", component).Logger()}
}

func format(msg string, args []interface{}) string {
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

func zerologLevel(level ports.LogLevel) zerolog.Level {
	switch level {
	case ports.LevelDebug:
		return zerolog.DebugLevel
	case ports.LevelInfo:
		return zerolog.InfoLevel
	case ports.LevelWarn:
		return zerolog.WarnLevel
	case ports.LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.Disabled
	}
}
