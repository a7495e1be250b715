package impl

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ca-srg/tzconv/domain"
	"github.com/ca-srg/tzconv/domain/repository"
	infrarepo "github.com/ca-srg/tzconv/infrastructure/repository"
	"github.com/ca-srg/tzconv/infrastructure/service"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

// mockLogger records messages per level
type mockLogger struct {
	mu       sync.Mutex
	messages map[string][]string
}

func newMockLogger() *mockLogger {
	return &mockLogger{messages: make(map[string][]string)}
}

func (m *mockLogger) record(level, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.messages == nil {
		m.messages = make(map[string][]string)
	}
	m.messages[level] = append(m.messages[level], msg)
}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...domain.Field) {
	m.record("debug", msg)
}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...domain.Field) {
	m.record("info", msg)
}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...domain.Field) {
	m.record("warn", msg)
}
func (m *mockLogger) Error(ctx context.Context, msg string, fields ...domain.Field) {
	m.record("error", msg)
}
func (m *mockLogger) WithFields(fields ...domain.Field) domain.Logger { return m }

func (m *mockLogger) Messages(level string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.messages[level]...)
}

// boardEpoch is Monday 2024-01-15 00:00 UTC
var boardEpoch = time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

type boardFixture struct {
	board    *TimezoneListServiceImpl
	clock    *clockwork.FakeClock
	location *service.StaticLocationProvider
	logger   *mockLogger
	math     repository.ZoneMath
	catalog  repository.CatalogRepository
}

func newBoardFixture(t *testing.T, locationURL string, zones ...string) *boardFixture {
	t.Helper()

	catalog, err := infrarepo.NewEmbeddedCatalogRepository()
	require.NoError(t, err)

	logger := newMockLogger()
	clock := clockwork.NewFakeClockAt(boardEpoch)
	location := service.NewStaticLocationProvider(locationURL)
	math := service.NewZoneMathImpl(logger)

	board := NewTimezoneListServiceImpl(catalog, math, location, clock, logger, TimezoneListConfig{
		DefaultZones: zones,
		MinuteStep:   15,
		Theme:        "light",
		SortBy:       "none",
		Locale:       "en-US",
	})

	return &boardFixture{
		board:    board,
		clock:    clock,
		location: location,
		logger:   logger,
		math:     math,
		catalog:  catalog,
	}
}

func abbreviations(t *testing.T, b *TimezoneListServiceImpl) []string {
	t.Helper()
	snap := b.Snapshot()
	out := make([]string, len(snap.Rows))
	for i, r := range snap.Rows {
		out[i] = r.Abbreviation
	}
	return out
}

func intPtr(v int) *int {
	return &v
}
