package logging

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/ca-srg/tzconv/domain"
	"github.com/ca-srg/tzconv/infrastructure/config"
)

// LoggerFactoryImpl builds component loggers from the logging section.
// Loki loggers it creates are remembered so Shutdown can flush them.
type LoggerFactoryImpl struct {
	config  *config.LoggingConfig
	console io.Writer

	mu      sync.Mutex
	created []domain.Shutdowner
}

func NewLoggerFactory(config *config.LoggingConfig) *LoggerFactoryImpl {
	return &LoggerFactoryImpl{
		config:  config,
		console: os.Stderr,
	}
}

// SetConsoleWriter redirects console output (tests)
func (f *LoggerFactoryImpl) SetConsoleWriter(w io.Writer) {
	f.console = w
}

func (f *LoggerFactoryImpl) CreateLogger(component string) domain.Logger {
	var logger domain.Logger

	if f.config != nil && f.config.Promtail != nil && f.config.Promtail.URL != "" {
		p := f.config.Promtail
		promtailLogger, err := NewPromtailLogger(p.URL, component, PromtailOptions{
			Username:     p.Username,
			Password:     p.Password,
			BatchTimeout: time.Duration(p.BatchWaitSeconds) * time.Second,
		})
		if err == nil {
			f.track(promtailLogger)
			logger = promtailLogger
		} else {
			// Fall back to the console when the Loki client cannot be built
			fallback := NewConsoleLogger(f.console, component)
			fallback.Warn(context.Background(), "promtail unavailable, logging to console", domain.ErrorField(err))
			logger = fallback
		}
	} else {
		logger = NewConsoleLogger(f.console, component)
	}

	level := domain.LogLevelInfo
	debug := false
	if f.config != nil {
		level = domain.ParseLogLevel(f.config.Level)
		debug = f.config.Debug
	}

	logger = NewLevelFilterLogger(logger, level)

	// Wrap with debug logger if debug mode is enabled
	if debug {
		logger = NewDebugLogger(logger, component)
	}

	return logger
}

// Shutdown flushes every Loki client created by this factory
func (f *LoggerFactoryImpl) Shutdown() error {
	f.mu.Lock()
	created := f.created
	f.created = nil
	f.mu.Unlock()

	var firstErr error
	for _, s := range created {
		if err := s.Shutdown(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f *LoggerFactoryImpl) track(s domain.Shutdowner) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, s)
}

// LevelFilterLogger filters log messages based on minimum level
type LevelFilterLogger struct {
	wrapped  domain.Logger
	minLevel domain.LogLevel
}

func NewLevelFilterLogger(wrapped domain.Logger, minLevel domain.LogLevel) *LevelFilterLogger {
	return &LevelFilterLogger{
		wrapped:  wrapped,
		minLevel: minLevel,
	}
}

func (l *LevelFilterLogger) Debug(ctx context.Context, msg string, fields ...domain.Field) {
	if domain.LogLevelDebug >= l.minLevel {
		l.wrapped.Debug(ctx, msg, fields...)
	}
}

func (l *LevelFilterLogger) Info(ctx context.Context, msg string, fields ...domain.Field) {
	if domain.LogLevelInfo >= l.minLevel {
		l.wrapped.Info(ctx, msg, fields...)
	}
}

func (l *LevelFilterLogger) Warn(ctx context.Context, msg string, fields ...domain.Field) {
	if domain.LogLevelWarn >= l.minLevel {
		l.wrapped.Warn(ctx, msg, fields...)
	}
}

func (l *LevelFilterLogger) Error(ctx context.Context, msg string, fields ...domain.Field) {
	if domain.LogLevelError >= l.minLevel {
		l.wrapped.Error(ctx, msg, fields...)
	}
}

func (l *LevelFilterLogger) WithFields(fields ...domain.Field) domain.Logger {
	return &LevelFilterLogger{
		wrapped:  l.wrapped.WithFields(fields...),
		minLevel: l.minLevel,
	}
}

// Shutdown forwards to the wrapped logger when it buffers
func (l *LevelFilterLogger) Shutdown() error {
	if s, ok := l.wrapped.(domain.Shutdowner); ok {
		return s.Shutdown()
	}
	return nil
}

// NoOpLogger is a logger that does nothing
type NoOpLogger struct{}

func (n *NoOpLogger) Debug(ctx context.Context, msg string, fields ...domain.Field) {}
func (n *NoOpLogger) Info(ctx context.Context, msg string, fields ...domain.Field)  {}
func (n *NoOpLogger) Warn(ctx context.Context, msg string, fields ...domain.Field)  {}
func (n *NoOpLogger) Error(ctx context.Context, msg string, fields ...domain.Field) {}
func (n *NoOpLogger) WithFields(fields ...domain.Field) domain.Logger {
	return n
}
