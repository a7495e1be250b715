package logging

import (
	"context"
	"io"
	"os"

	"github.com/ca-srg/tzconv/domain"
	"github.com/rs/zerolog"
)

// ConsoleLogger writes human-readable lines through zerolog's console writer.
// It is used whenever no Loki endpoint is configured.
type ConsoleLogger struct {
	logger zerolog.Logger
}

// NewConsoleLogger creates a console logger tagged with component. A nil
// writer means stderr.
func NewConsoleLogger(w io.Writer, component string) *ConsoleLogger {
	if w == nil {
		w = os.Stderr
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05", NoColor: w != os.Stderr}
	return &ConsoleLogger{
		logger: zerolog.New(out).
			Level(zerolog.DebugLevel).
			With().
			Timestamp().
			Str("component", component).
			Logger(),
	}
}

func (c *ConsoleLogger) Debug(ctx context.Context, msg string, fields ...domain.Field) {
	c.event(c.logger.Debug(), fields).Msg(msg)
}

func (c *ConsoleLogger) Info(ctx context.Context, msg string, fields ...domain.Field) {
	c.event(c.logger.Info(), fields).Msg(msg)
}

func (c *ConsoleLogger) Warn(ctx context.Context, msg string, fields ...domain.Field) {
	c.event(c.logger.Warn(), fields).Msg(msg)
}

func (c *ConsoleLogger) Error(ctx context.Context, msg string, fields ...domain.Field) {
	c.event(c.logger.Error(), fields).Msg(msg)
}

func (c *ConsoleLogger) WithFields(fields ...domain.Field) domain.Logger {
	return &ConsoleLogger{
		logger: c.logger.With().Fields(fieldMap(fields)).Logger(),
	}
}

func (c *ConsoleLogger) event(e *zerolog.Event, fields []domain.Field) *zerolog.Event {
	if len(fields) == 0 {
		return e
	}
	return e.Fields(fieldMap(fields))
}

func fieldMap(fields []domain.Field) map[string]interface{} {
	m := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		m[f.Key] = f.Value
	}
	return m
}
