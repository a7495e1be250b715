package main

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/ca-srg/tzconv/domain"
	infraRepo "github.com/ca-srg/tzconv/infrastructure/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		check   func(t *testing.T, opts *options)
		wantErr bool
	}{
		{
			name: "server mode by default",
			args: nil,
			check: func(t *testing.T, opts *options) {
				assert.False(t, opts.cliMode)
				assert.False(t, opts.trayMode)
			},
		},
		{
			name: "board query implies cli",
			args: []string{"-timezones", "IST, UTC,", "-from", "IST", "-at", "17:30", "-date", "2024-01-15"},
			check: func(t *testing.T, opts *options) {
				assert.True(t, opts.cliMode)
				assert.Equal(t, []string{"IST", "UTC"}, opts.cli.Timezones)
				assert.Equal(t, "IST", opts.cli.From)
				assert.Equal(t, "17:30", opts.cli.At)
				assert.Equal(t, "2024-01-15", opts.cli.Date)
			},
		},
		{
			name: "catalog listing",
			args: []string{"-catalog", "-json"},
			check: func(t *testing.T, opts *options) {
				assert.True(t, opts.cliMode)
				assert.True(t, opts.cli.Catalog)
				assert.True(t, opts.cli.JSON)
			},
		},
		{
			name: "export catalog",
			args: []string{"-export-catalog", "zones.yaml"},
			check: func(t *testing.T, opts *options) {
				assert.Equal(t, "zones.yaml", opts.exportCatalog)
			},
		},
		{name: "from without at", args: []string{"-from", "JST"}, wantErr: true},
		{name: "from at with tray", args: []string{"-from", "JST", "-at", "09:00", "-tray"}, wantErr: true},
		{name: "cli with tray", args: []string{"-cli", "-tray"}, wantErr: true},
		{name: "stray argument", args: []string{"IST"}, wantErr: true},
		{name: "unknown flag", args: []string{"-daemon"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseFlags(tt.args, io.Discard)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, opts)
		})
	}
}

func TestExportCatalog(t *testing.T) {
	ctx := context.Background()
	catalog, err := infraRepo.NewEmbeddedCatalogRepository()
	require.NoError(t, err)
	want, err := catalog.List()
	require.NoError(t, err)

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "zones.yaml")
		require.NoError(t, exportCatalog(ctx, catalog, path))

		loaded, err := infraRepo.NewYAMLCatalogRepository(path)
		require.NoError(t, err)
		got, err := loaded.List()
		require.NoError(t, err)
		assert.Len(t, got, len(want))
	})

	t.Run("sqlite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "zones.db")
		require.NoError(t, exportCatalog(ctx, catalog, path))

		loaded, err := infraRepo.NewSQLiteCatalogRepository(ctx, path)
		require.NoError(t, err)
		got, err := loaded.List()
		require.NoError(t, err)
		assert.Len(t, got, len(want))
	})

	t.Run("csv", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "zones.csv")
		require.NoError(t, exportCatalog(ctx, catalog, path))
		assert.FileExists(t, path)
	})

	t.Run("unknown extension", func(t *testing.T) {
		err := exportCatalog(ctx, catalog, filepath.Join(t.TempDir(), "zones.txt"))
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidInput))
	})
}
