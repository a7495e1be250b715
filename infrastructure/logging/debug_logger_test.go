package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ca-srg/tzconv/domain"
)

// MockLogger is a test logger that tracks method calls
type MockLogger struct {
	debugCalls []string
	infoCalls  []string
	warnCalls  []string
	errorCalls []string
	fields     []domain.Field
}

func (m *MockLogger) Debug(ctx context.Context, msg string, fields ...domain.Field) {
	m.debugCalls = append(m.debugCalls, msg)
}

func (m *MockLogger) Info(ctx context.Context, msg string, fields ...domain.Field) {
	m.infoCalls = append(m.infoCalls, msg)
}

func (m *MockLogger) Warn(ctx context.Context, msg string, fields ...domain.Field) {
	m.warnCalls = append(m.warnCalls, msg)
}

func (m *MockLogger) Error(ctx context.Context, msg string, fields ...domain.Field) {
	m.errorCalls = append(m.errorCalls, msg)
}

func (m *MockLogger) WithFields(fields ...domain.Field) domain.Logger {
	return &MockLogger{
		fields: append(m.fields, fields...),
	}
}

func TestDebugLogger_LogMethods(t *testing.T) {
	mockLogger := &MockLogger{}
	var out bytes.Buffer
	debugLogger := NewDebugLoggerWithWriter(mockLogger, "test-component", &out)
	ctx := context.Background()

	tests := []struct {
		name      string
		logFunc   func()
		checkFunc func() bool
	}{
		{
			name:    "Debug logging",
			logFunc: func() { debugLogger.Debug(ctx, "debug message") },
			checkFunc: func() bool {
				return len(mockLogger.debugCalls) == 1 && mockLogger.debugCalls[0] == "debug message"
			},
		},
		{
			name:    "Info logging",
			logFunc: func() { debugLogger.Info(ctx, "info message") },
			checkFunc: func() bool {
				return len(mockLogger.infoCalls) == 1 && mockLogger.infoCalls[0] == "info message"
			},
		},
		{
			name:    "Warn logging",
			logFunc: func() { debugLogger.Warn(ctx, "warn message") },
			checkFunc: func() bool {
				return len(mockLogger.warnCalls) == 1 && mockLogger.warnCalls[0] == "warn message"
			},
		},
		{
			name:    "Error logging",
			logFunc: func() { debugLogger.Error(ctx, "error message") },
			checkFunc: func() bool {
				return len(mockLogger.errorCalls) == 1 && mockLogger.errorCalls[0] == "error message"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.logFunc()
			if !tt.checkFunc() {
				t.Errorf("Log method was not called correctly")
			}
		})
	}

	if !strings.Contains(out.String(), "[WARN] [test-component] warn message") {
		t.Errorf("unexpected echo output: %q", out.String())
	}
}

func TestDebugLogger_WithFields(t *testing.T) {
	mockLogger := &MockLogger{}
	var out bytes.Buffer
	debugLogger := NewDebugLoggerWithWriter(mockLogger, "test-component", &out)

	newLogger := debugLogger.WithFields(domain.NewField("zone", "IST"))
	if _, ok := newLogger.(*DebugLogger); !ok {
		t.Fatal("WithFields should return a DebugLogger instance")
	}

	newLogger.Info(context.Background(), "added", domain.NewField("index", 2))
	if !strings.Contains(out.String(), "{zone=IST, index=2}") {
		t.Errorf("fields not echoed: %q", out.String())
	}
}

func TestDebugLogger_Shutdown(t *testing.T) {
	sink := &fakeSink{}
	debugLogger := NewDebugLogger(&PromtailLogger{client: sink}, "test-component")

	if err := debugLogger.Shutdown(); err != nil {
		t.Errorf("Shutdown should not return error: %v", err)
	}
	if !sink.closed {
		t.Error("Shutdown should close the wrapped client")
	}

	debugLogger2 := NewDebugLogger(&MockLogger{}, "test-component")
	if err := debugLogger2.Shutdown(); err != nil {
		t.Errorf("Shutdown should not return error for logger without Shutdown: %v", err)
	}
}
