package repository

import (
	"bytes"
	"os"

	"github.com/ca-srg/tzconv/domain"
	"github.com/ca-srg/tzconv/domain/entity"
	"github.com/ca-srg/tzconv/domain/repository"
	"gopkg.in/yaml.v3"
)

// NewYAMLCatalogRepository loads a catalog of the form
//
//	timezones:
//	  - abbreviation: IST
//	    name: India Standard Time
//	    gmt_offset: 5.5
//	    timezone: Asia/Kolkata
func NewYAMLCatalogRepository(path string) (repository.CatalogRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.ErrCatalogWithCause("yaml", "failed to read "+path, err)
	}

	var doc catalogDocument
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, domain.ErrCatalogWithCause("yaml", "failed to decode "+path, err)
	}

	return buildCatalog("yaml", doc.Timezones)
}

// WriteYAMLCatalog writes entries in the format read by NewYAMLCatalogRepository
func WriteYAMLCatalog(path string, entries []*entity.TimezoneEntry) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(catalogDocument{Timezones: recordsFromEntries(entries)}); err != nil {
		return domain.ErrFileOperationWithCause("encode", path, err)
	}
	if err := enc.Close(); err != nil {
		return domain.ErrFileOperationWithCause("encode", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return domain.ErrFileOperationWithCause("write", path, err)
	}
	return nil
}
