// Package logging adapts zerolog to the Nakama runtime.Logger interface so the
// runner and engine log the same way inside and outside the Nakama host.
package logging

import (
	"io"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/rs/zerolog"
)

// Logger implements runtime.Logger on top of a zerolog.Logger.
type Logger struct {
	zl     zerolog.Logger
	fields map[string]interface{}
}

var _ runtime.Logger = (*Logger)(nil)

// New writes JSON lines to w at the given level and above.
func New(w io.Writer, level zerolog.Level) *Logger {
	return &Logger{
		zl:     zerolog.New(w).Level(level).With().Timestamp().Logger(),
		fields: map[string]interface{}{},
	}
}

// NewConsole writes human readable lines to w.
func NewConsole(w io.Writer, level zerolog.Level) *Logger {
	return New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}, level)
}

// ParseLevel accepts zerolog level names such as "debug" or "warn".
func ParseLevel(s string) (zerolog.Level, error) {
	return zerolog.ParseLevel(s)
}

func (l *Logger) Debug(format string, v ...interface{}) {
	l.zl.Debug().Msgf(format, v...)
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.zl.Info().Msgf(format, v...)
}

func (l *Logger) Warn(format string, v ...interface{}) {
	l.zl.Warn().Msgf(format, v...)
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.zl.Error().Msgf(format, v...)
}

// WithField returns a child logger that adds key to every entry.
func (l *Logger) WithField(key string, v interface{}) runtime.Logger {
	return l.WithFields(map[string]interface{}{key: v})
}

// WithFields returns a child logger that adds fields to every entry.
func (l *Logger) WithFields(fields map[string]interface{}) runtime.Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{
		zl:     l.zl.With().Fields(fields).Logger(),
		fields: merged,
	}
}

// Fields returns the fields attached by WithField and WithFields.
func (l *Logger) Fields() map[string]interface{} {
	return l.fields
}
