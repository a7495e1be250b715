package repository

import (
	_ "embed"
	"encoding/json"

	"github.com/ca-srg/tzconv/domain"
	"github.com/ca-srg/tzconv/domain/repository"
)

//go:embed data/timezones.json
var embeddedCatalogJSON []byte

// NewEmbeddedCatalogRepository returns the catalog compiled into the binary
func NewEmbeddedCatalogRepository() (repository.CatalogRepository, error) {
	return newJSONCatalog("embedded", embeddedCatalogJSON)
}

func newJSONCatalog(source string, data []byte) (*staticCatalog, error) {
	var doc catalogDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, domain.ErrCatalogWithCause(source, "failed to decode catalog", err)
	}
	return buildCatalog(source, doc.Timezones)
}
