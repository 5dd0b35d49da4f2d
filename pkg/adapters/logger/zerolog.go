package logger

import (
	"io"
	"os"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/rs/zerolog"

	"github.com/user/mpvplay/pkg/ports"
)

// ZerologLogger writes one JSON object per message.
// Messages are translated with go-l10n like the console logger; fields
// become top-level JSON keys.
type ZerologLogger struct {
	zl zerolog.Logger
}

// JSONConfig configures NewJSON.
type JSONConfig struct {
	Level   ports.LogLevel
	Output  io.Writer // defaults to os.Stderr
	Service string    // defaults to "mpvplay"
	Version string
}

// NewJSON creates a structured JSON logger.
func NewJSON(cfg JSONConfig) *ZerologLogger {
	w := cfg.Output
	if w == nil {
		w = os.Stderr
	}
	service := cfg.Service
	if service == "" {
		service = "mpvplay"
	}
	zerolog.TimeFieldFormat = time.RFC3339

	ctx := zerolog.New(w).Level(zerologLevel(cfg.Level)).With().
		Timestamp().
		Str("service", service)
	if cfg.Version != "" {
		ctx = ctx.Str("version", cfg.Version)
	}
	return &ZerologLogger{zl: ctx.Logger()}
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

// Debug logs a debug message.
func (l *ZerologLogger) Debug(msg string, args ...interface{}) {
	l.zl.Debug().Msg(l10n.F(msg, args...))
}

// Info logs an informational message.
func (l *ZerologLogger) Info(msg string, args ...interface{}) {
	l.zl.Info().Msg(l10n.F(msg, args...))
}

// Warn logs a warning message.
func (l *ZerologLogger) Warn(msg string, args ...interface{}) {
	l.zl.Warn().Msg(l10n.F(msg, args...))
}

// Error logs an error message.
func (l *ZerologLogger) Error(msg string, args ...interface{}) {
	l.zl.Error().Msg(l10n.F(msg, args...))
}

// WithComponent returns a child logger annotated with the component name.
func (l *ZerologLogger) WithComponent(component string) ports.Logger {
	return &ZerologLogger{zl: l.zl.With().Str("component", component).Logger()}
}

// WithFields returns a child logger carrying the fields.
func (l *ZerologLogger) WithFields(fields ports.Fields) ports.Logger {
	return &ZerologLogger{zl: l.zl.With().Fields(map[string]interface{}(fields)).Logger()}
}

var _ ports.Logger = (*ZerologLogger)(nil)
