package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// ZerologLogger implements Logger on top of zerolog. It never writes to
// stdout: stdout belongs to the fetched page.
type ZerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger wraps an existing zerolog.Logger.
func NewZerologLogger(zl zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{zl: zl}
}

// NewFromEnv builds the process logger writing to w (normally os.Stderr).
// ENV selects the output format: empty, "dev" or "development" give a
// human readable console writer, anything else gives JSON lines.
// LOG_LEVEL selects the minimum level and defaults to info.
func NewFromEnv(w io.Writer) *ZerologLogger {
	level := ParseLevel(os.Getenv("LOG_LEVEL"), w)

	var zl zerolog.Logger
	switch os.Getenv("ENV") {
	case "", "dev", "development":
		zl = zerolog.New(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: "2006-01-02 15:04:05",
		})
	default:
		zl = zerolog.New(w)
	}

	return NewZerologLogger(zl.Level(level).With().Timestamp().Logger())
}

// ParseLevel maps a LOG_LEVEL value to a zerolog level. Unknown values are
// reported on w and fall back to info.
func ParseLevel(s string, w io.Writer) zerolog.Level {
	if strings.TrimSpace(s) == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || level == zerolog.NoLevel {
		if w != nil {
			fmt.Fprintf(w, "Invalid LOG_LEVEL %q; defaulting to 'info'\n", s)
		}
		return zerolog.InfoLevel
	}
	return level
}

func (l *ZerologLogger) Debug(msg string, fields ...Field) {
	withFields(l.zl.Debug(), fields).Msg(msg)
}

func (l *ZerologLogger) Info(msg string, fields ...Field) {
	withFields(l.zl.Info(), fields).Msg(msg)
}

func (l *ZerologLogger) Warn(msg string, fields ...Field) {
	withFields(l.zl.Warn(), fields).Msg(msg)
}

func (l *ZerologLogger) Error(msg string, fields ...Field) {
	withFields(l.zl.Error(), fields).Msg(msg)
}

func (l *ZerologLogger) With(fields ...Field) Logger {
	ctx := l.zl.With()
	for _, f := range fields {
		if err, ok := f.Value.(error); ok {
			ctx = ctx.AnErr(f.Key, err)
			continue
		}
		ctx = ctx.Interface(f.Key, f.Value)
	}
	return &ZerologLogger{zl: ctx.Logger()}
}

func withFields(ev *zerolog.Event, fields []Field) *zerolog.Event {
	// Disabled levels return a nil event.
	if ev == nil {
		return ev
	}
	for _, f := range fields {
		if err, ok := f.Value.(error); ok {
			ev = ev.AnErr(f.Key, err)
			continue
		}
		ev = ev.Interface(f.Key, f.Value)
	}
	return ev
}
