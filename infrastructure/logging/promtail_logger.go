package logging

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ca-srg/tzconv/domain"
	"github.com/ic2hrmk/promtail"
)

// promtailSink is the subset of promtail.Client the logger needs
type promtailSink interface {
	LogfWithLabels(level promtail.Level, labels map[string]string, format string, args ...interface{})
	Close()
}

type PromtailLogger struct {
	client    promtailSink
	component string
	fields    []domain.Field
	mu        sync.RWMutex
}

// PromtailOptions carries credentials and batching of the Loki push client
type PromtailOptions struct {
	Username     string
	Password     string
	BatchTimeout time.Duration
}

func NewPromtailLogger(url, component string, opts PromtailOptions) (*PromtailLogger, error) {
	defaultLabels := map[string]string{
		"app":       "tzconv",
		"component": component,
	}

	if opts.BatchTimeout <= 0 {
		opts.BatchTimeout = time.Second
	}

	client, err := promtail.NewJSONv1Client(
		url,
		defaultLabels,
		promtail.WithSendBatchSize(100),
		promtail.WithSendBatchTimeout(opts.BatchTimeout),
		promtail.WithBasicAuth(opts.Username, opts.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create promtail client: %w", err)
	}

	return &PromtailLogger{
		client:    client,
		component: component,
		fields:    []domain.Field{},
	}, nil
}

func (p *PromtailLogger) Debug(ctx context.Context, msg string, fields ...domain.Field) {
	p.log(domain.LogLevelDebug, msg, fields...)
}

func (p *PromtailLogger) Info(ctx context.Context, msg string, fields ...domain.Field) {
	p.log(domain.LogLevelInfo, msg, fields...)
}

func (p *PromtailLogger) Warn(ctx context.Context, msg string, fields ...domain.Field) {
	p.log(domain.LogLevelWarn, msg, fields...)
}

func (p *PromtailLogger) Error(ctx context.Context, msg string, fields ...domain.Field) {
	p.log(domain.LogLevelError, msg, fields...)
}

func (p *PromtailLogger) WithFields(fields ...domain.Field) domain.Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()

	newFields := make([]domain.Field, len(p.fields)+len(fields))
	copy(newFields, p.fields)
	copy(newFields[len(p.fields):], fields)

	return &PromtailLogger{
		client:    p.client,
		component: p.component,
		fields:    newFields,
	}
}

func (p *PromtailLogger) log(level domain.LogLevel, msg string, fields ...domain.Field) {
	if p.client == nil {
		return
	}

	p.mu.RLock()
	all := make([]domain.Field, 0, len(p.fields)+len(fields))
	all = append(all, p.fields...)
	all = append(all, fields...)
	p.mu.RUnlock()

	// Only the level becomes a stream label; fields vary per entry and go into the line
	labels := map[string]string{
		"level": strings.ToLower(level.String()),
	}

	p.client.LogfWithLabels(toPromtailLevel(level), labels, "%s", formatLine(msg, all))
}

func (p *PromtailLogger) Shutdown() error {
	if p.client != nil {
		p.client.Close()
	}
	return nil
}

func toPromtailLevel(level domain.LogLevel) promtail.Level {
	switch level {
	case domain.LogLevelDebug:
		return promtail.Debug
	case domain.LogLevelInfo:
		return promtail.Info
	case domain.LogLevelWarn:
		return promtail.Warn
	case domain.LogLevelError:
		return promtail.Error
	default:
		return promtail.Info
	}
}

// formatLine renders msg followed by logfmt-style key=value pairs sorted by key
func formatLine(msg string, fields []domain.Field) string {
	if len(fields) == 0 {
		return msg
	}

	sorted := make([]domain.Field, len(fields))
	copy(sorted, fields)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	var b strings.Builder
	b.WriteString(msg)
	for _, f := range sorted {
		value := fmt.Sprintf("%v", f.Value)
		if strings.ContainsAny(value, " \t\"=") {
			value = fmt.Sprintf("%q", value)
		}
		b.WriteByte(' ')
		b.WriteString(f.Key)
		b.WriteByte('=')
		b.WriteString(value)
	}
	return b.String()
}
