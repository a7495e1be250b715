package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ca-srg/tzconv/domain"
)

// DebugLogger echoes every entry to a local writer in addition to the wrapped logger
type DebugLogger struct {
	wrapped   domain.Logger
	component string
	out       io.Writer
	fields    []domain.Field
	mu        *sync.Mutex
}

func NewDebugLogger(wrapped domain.Logger, component string) *DebugLogger {
	return NewDebugLoggerWithWriter(wrapped, component, os.Stdout)
}

func NewDebugLoggerWithWriter(wrapped domain.Logger, component string, out io.Writer) *DebugLogger {
	return &DebugLogger{
		wrapped:   wrapped,
		component: component,
		out:       out,
		mu:        &sync.Mutex{},
	}
}

func (d *DebugLogger) Debug(ctx context.Context, msg string, fields ...domain.Field) {
	d.wrapped.Debug(ctx, msg, fields...)
	d.print(domain.LogLevelDebug, msg, fields...)
}

func (d *DebugLogger) Info(ctx context.Context, msg string, fields ...domain.Field) {
	d.wrapped.Info(ctx, msg, fields...)
	d.print(domain.LogLevelInfo, msg, fields...)
}

func (d *DebugLogger) Warn(ctx context.Context, msg string, fields ...domain.Field) {
	d.wrapped.Warn(ctx, msg, fields...)
	d.print(domain.LogLevelWarn, msg, fields...)
}

func (d *DebugLogger) Error(ctx context.Context, msg string, fields ...domain.Field) {
	d.wrapped.Error(ctx, msg, fields...)
	d.print(domain.LogLevelError, msg, fields...)
}

func (d *DebugLogger) WithFields(fields ...domain.Field) domain.Logger {
	merged := make([]domain.Field, 0, len(d.fields)+len(fields))
	merged = append(merged, d.fields...)
	merged = append(merged, fields...)
	return &DebugLogger{
		wrapped:   d.wrapped.WithFields(fields...),
		component: d.component,
		out:       d.out,
		fields:    merged,
		mu:        d.mu,
	}
}

func (d *DebugLogger) print(level domain.LogLevel, msg string, fields ...domain.Field) {
	// A console logger already prints debug lines itself
	if level == domain.LogLevelDebug {
		if _, ok := d.wrapped.(*ConsoleLogger); ok {
			return
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02T15:04:05.000Z07:00")

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] [%s] [%s] %s", timestamp, level.String(), d.component, msg)

	all := append(append([]domain.Field{}, d.fields...), fields...)
	if len(all) > 0 {
		b.WriteString(" {")
		for i, field := range all {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", field.Key, field.Value)
		}
		b.WriteString("}")
	}

	_, _ = fmt.Fprintln(d.out, b.String())
}

func (d *DebugLogger) Shutdown() error {
	if shutdowner, ok := d.wrapped.(domain.Shutdowner); ok {
		return shutdowner.Shutdown()
	}
	return nil
}
