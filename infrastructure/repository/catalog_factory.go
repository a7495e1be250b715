package repository

import (
	"context"

	"github.com/ca-srg/tzconv/domain"
	"github.com/ca-srg/tzconv/domain/repository"
	"github.com/ca-srg/tzconv/infrastructure/config"
)

// NewCatalogRepository opens the catalog source selected in cfg
func NewCatalogRepository(ctx context.Context, cfg *config.CatalogConfig) (repository.CatalogRepository, error) {
	if cfg == nil {
		return NewEmbeddedCatalogRepository()
	}

	switch cfg.Source {
	case "", "embedded":
		return NewEmbeddedCatalogRepository()
	case "yaml":
		return NewYAMLCatalogRepository(cfg.Path)
	case "sqlite":
		return NewSQLiteCatalogRepository(ctx, cfg.Path)
	default:
		return nil, domain.ErrCatalog(cfg.Source, "unknown catalog source")
	}
}
