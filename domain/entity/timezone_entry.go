package entity

import (
	"fmt"
	"strings"

	"github.com/ca-srg/tzconv/domain/valueobject"
)

// TimezoneEntry is an immutable catalog record describing one selectable zone
type TimezoneEntry struct {
	id           string
	abbreviation string
	name         string
	gmtOffset    valueobject.GMTOffset
	ianaZoneName string
}

// NewTimezoneEntry creates a new TimezoneEntry with validation
func NewTimezoneEntry(
	id string,
	abbreviation string,
	name string,
	gmtOffsetHours float64,
	ianaZoneName string,
) (*TimezoneEntry, error) {
	if id == "" {
		return nil, fmt.Errorf("timezone entry ID cannot be empty")
	}
	abbreviation = strings.TrimSpace(abbreviation)
	if abbreviation == "" {
		return nil, fmt.Errorf("timezone abbreviation cannot be empty")
	}
	if strings.ContainsAny(abbreviation, ", ") {
		return nil, fmt.Errorf("timezone abbreviation %q cannot contain commas or spaces", abbreviation)
	}
	if ianaZoneName == "" {
		return nil, fmt.Errorf("IANA zone name cannot be empty for %s", abbreviation)
	}

	offset, err := valueobject.NewGMTOffset(gmtOffsetHours)
	if err != nil {
		return nil, fmt.Errorf("invalid offset for %s: %w", abbreviation, err)
	}

	if name == "" {
		name = abbreviation
	}

	return &TimezoneEntry{
		id:           id,
		abbreviation: abbreviation,
		name:         name,
		gmtOffset:    offset,
		ianaZoneName: ianaZoneName,
	}, nil
}

// ID returns the stable catalog identifier
func (e *TimezoneEntry) ID() string {
	return e.id
}

// Abbreviation returns the short code, e.g. "IST"
func (e *TimezoneEntry) Abbreviation() string {
	return e.abbreviation
}

// Name returns the display name
func (e *TimezoneEntry) Name() string {
	return e.name
}

// GMTOffset returns the nominal offset shown next to the zone
func (e *TimezoneEntry) GMTOffset() valueobject.GMTOffset {
	return e.gmtOffset
}

// IANAZoneName returns the canonical zone identifier used for projection
func (e *TimezoneEntry) IANAZoneName() string {
	return e.ianaZoneName
}

// MatchesAbbreviation reports whether abbr names this entry, ignoring case
func (e *TimezoneEntry) MatchesAbbreviation(abbr string) bool {
	return strings.EqualFold(e.abbreviation, strings.TrimSpace(abbr))
}
