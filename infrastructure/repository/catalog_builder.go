package repository

import (
	"strings"

	"github.com/ca-srg/tzconv/domain"
	"github.com/ca-srg/tzconv/domain/entity"
	"github.com/google/uuid"
)

// catalogNamespace seeds stable ids for records that do not carry one
var catalogNamespace = uuid.MustParse("6f1c8f4e-3b0a-4d59-9c55-2b8a5f0e7d21")

// catalogRecord is the on-disk shape shared by the JSON, YAML and SQLite sources
type catalogRecord struct {
	ID           string  `json:"id,omitempty" yaml:"id,omitempty"`
	Abbreviation string  `json:"abbreviation" yaml:"abbreviation"`
	Name         string  `json:"name" yaml:"name"`
	GMTOffset    float64 `json:"gmt_offset" yaml:"gmt_offset"`
	Timezone     string  `json:"timezone" yaml:"timezone"`
}

type catalogDocument struct {
	Timezones []catalogRecord `json:"timezones" yaml:"timezones"`
}

// CatalogEntryID derives the id used for an abbreviation without an explicit id
func CatalogEntryID(abbreviation string) string {
	return uuid.NewSHA1(catalogNamespace, []byte(strings.ToUpper(strings.TrimSpace(abbreviation)))).String()
}

// staticCatalog is an in-memory catalog built once from records
type staticCatalog struct {
	source  string
	entries []*entity.TimezoneEntry
	byAbbr  map[string]*entity.TimezoneEntry
}

func buildCatalog(source string, records []catalogRecord) (*staticCatalog, error) {
	if len(records) == 0 {
		return nil, domain.ErrCatalog(source, "catalog is empty")
	}

	c := &staticCatalog{
		source:  source,
		entries: make([]*entity.TimezoneEntry, 0, len(records)),
		byAbbr:  make(map[string]*entity.TimezoneEntry, len(records)),
	}
	ids := make(map[string]struct{}, len(records))

	for _, r := range records {
		id := strings.TrimSpace(r.ID)
		if id == "" {
			id = CatalogEntryID(r.Abbreviation)
		}

		e, err := entity.NewTimezoneEntry(id, r.Abbreviation, r.Name, r.GMTOffset, r.Timezone)
		if err != nil {
			return nil, domain.ErrInvalidCatalogEntry(r.Abbreviation, err.Error()).
				WithDetails("source", source)
		}

		key := strings.ToUpper(e.Abbreviation())
		if _, dup := c.byAbbr[key]; dup {
			return nil, domain.ErrInvalidCatalogEntry(r.Abbreviation, "duplicate abbreviation").
				WithDetails("source", source)
		}
		if _, dup := ids[id]; dup {
			return nil, domain.ErrInvalidCatalogEntry(r.Abbreviation, "duplicate id "+id).
				WithDetails("source", source)
		}

		ids[id] = struct{}{}
		c.byAbbr[key] = e
		c.entries = append(c.entries, e)
	}

	return c, nil
}

func (c *staticCatalog) List() ([]*entity.TimezoneEntry, error) {
	out := make([]*entity.TimezoneEntry, len(c.entries))
	copy(out, c.entries)
	return out, nil
}

func (c *staticCatalog) FindByAbbreviation(abbr string) (*entity.TimezoneEntry, error) {
	if e, ok := c.byAbbr[strings.ToUpper(strings.TrimSpace(abbr))]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound("timezone", abbr)
}

func (c *staticCatalog) Source() string {
	return c.source
}

func recordsFromEntries(entries []*entity.TimezoneEntry) []catalogRecord {
	records := make([]catalogRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, catalogRecord{
			ID:           e.ID(),
			Abbreviation: e.Abbreviation(),
			Name:         e.Name(),
			GMTOffset:    e.GMTOffset().Hours(),
			Timezone:     e.IANAZoneName(),
		})
	}
	return records
}
