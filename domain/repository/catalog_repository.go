package repository

import (
	"github.com/ca-srg/tzconv/domain/entity"
)

// CatalogRepository provides read-only access to the static list of known timezones
type CatalogRepository interface {
	// List returns every catalog entry in source order
	List() ([]*entity.TimezoneEntry, error)

	// FindByAbbreviation returns the entry whose abbreviation matches abbr
	// (case-insensitive). A missing entry is reported as a NOT_FOUND domain error.
	FindByAbbreviation(abbr string) (*entity.TimezoneEntry, error)

	// Source names the backing store for logs, e.g. "embedded", "yaml", "sqlite"
	Source() string
}
