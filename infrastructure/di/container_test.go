package di

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ca-srg/tzconv/infrastructure/config"
	infraRepo "github.com/ca-srg/tzconv/infrastructure/repository"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainerBuilder_Defaults(t *testing.T) {
	container, err := NewContainerBuilder().
		WithConfigRepository(infraRepo.NewJSONConfigRepositoryAt(t.TempDir(), nil)).
		WithClock(clockwork.NewFakeClockAt(time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC))).
		WithOptions(WithVersion("1.2.3")).
		Build()
	require.NoError(t, err)
	defer func() { _ = container.Shutdown() }()

	snap := container.GetBoard().Snapshot()
	require.Len(t, snap.Rows, 2)
	assert.Equal(t, "IST", snap.Rows[0].Abbreviation)
	assert.Equal(t, "UTC", snap.Rows[1].Abbreviation)
	assert.Equal(t, "http://127.0.0.1:8080/?timezones=IST,UTC", snap.ShareLink)

	assert.IsType(t, infraRepo.NewNoOpMetricsRepository(), container.GetMetricsRepository())
	assert.NotNil(t, container.GetCLIController())
	assert.NotNil(t, container.GetServerController())
	assert.NotNil(t, container.GetSystrayController())

	rec := httptest.NewRecorder()
	container.GetRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "1.2.3")
}

func TestContainerBuilder_CustomConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Board.DefaultZones = []string{"JST"}
	cfg.Board.Theme = "dark"
	cfg.Server.PublicURL = "https://board.example.com/"
	cfg.Prometheus.RemoteWriteURL = "http://localhost:9090/api/v1/write"

	container, err := NewContainerBuilder().
		WithConfig(cfg).
		WithConfigRepository(infraRepo.NewJSONConfigRepositoryAt(t.TempDir(), nil)).
		WithOptions(WithDebugMode(true)).
		Build()
	require.NoError(t, err)

	snap := container.GetBoard().Snapshot()
	assert.Equal(t, "dark", snap.Theme)
	assert.Equal(t, "https://board.example.com/?timezones=JST", snap.ShareLink)
	assert.IsType(t, &infraRepo.PrometheusMetricsRepository{}, container.GetMetricsRepository())
	assert.True(t, container.GetConfig().Logging.Debug)
	assert.Equal(t, "debug", container.GetConfig().Logging.Level)
}

func TestContainerBuilder_BadCatalog(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Catalog.Source = "yaml"
	cfg.Catalog.Path = "/nonexistent/catalog.yaml"

	_, err := NewContainerBuilder().
		WithConfig(cfg).
		WithConfigRepository(infraRepo.NewJSONConfigRepositoryAt(t.TempDir(), nil)).
		Build()
	assert.Error(t, err)
}
