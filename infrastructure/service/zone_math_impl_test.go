package service

import (
	"errors"
	"testing"
	"time"

	"github.com/ca-srg/tzconv/domain"
	"github.com/ca-srg/tzconv/domain/entity"
	"github.com/ca-srg/tzconv/domain/valueobject"
	"github.com/ca-srg/tzconv/infrastructure/logging"
	infraRepo "github.com/ca-srg/tzconv/infrastructure/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newZoneMath() *ZoneMathImpl {
	return NewZoneMathImpl(&logging.NoOpLogger{})
}

func TestZoneMath_ProjectInstant(t *testing.T) {
	zm := newZoneMath()
	instant := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		zone string
		want string
	}{
		{"UTC", "00:00"},
		{"Asia/Kolkata", "05:30"},
		{"Asia/Kathmandu", "05:45"},
		{"America/New_York", "19:00"},
		{"Pacific/Chatham", "13:45"},
	}

	for _, tt := range tests {
		t.Run(tt.zone, func(t *testing.T) {
			m, err := zm.ProjectInstant(instant, tt.zone)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Clock())
		})
	}
}

func TestZoneMath_ComposeInstant(t *testing.T) {
	zm := newZoneMath()
	ref := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	instant, err := zm.ComposeInstant("Asia/Kolkata", valueobject.MinuteOfDay(330), ref)
	require.NoError(t, err)
	assert.True(t, instant.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))

	instant, err = zm.ComposeInstant("UTC", valueobject.MinuteOfDay(720), ref)
	require.NoError(t, err)
	ist, err := zm.ProjectInstant(instant, "Asia/Kolkata")
	require.NoError(t, err)
	assert.Equal(t, "17:30", ist.Clock())
}

func TestZoneMath_ComposeInstant_DSTGap(t *testing.T) {
	zm := newZoneMath()
	// 02:30 does not exist in New York on 2024-03-10
	ref := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	instant, err := zm.ComposeInstant("America/New_York", valueobject.MinuteOfDay(150), ref)
	require.NoError(t, err)

	back, err := zm.ProjectInstant(instant, "America/New_York")
	require.NoError(t, err)
	assert.NotEqual(t, "02:30", back.Clock())
}

func TestZoneMath_LocalDateAndFormat(t *testing.T) {
	zm := newZoneMath()
	instant := time.Date(2024, 1, 15, 20, 0, 0, 0, time.UTC)

	date, err := zm.LocalDate(instant, "Asia/Tokyo")
	require.NoError(t, err)
	assert.Equal(t, 16, date.Day())
	assert.Equal(t, 0, date.Hour())

	s, err := zm.Format(instant, "Asia/Kolkata", "3:04 PM Mon Jan 2")
	require.NoError(t, err)
	assert.Equal(t, "1:30 AM Tue Jan 16", s)
}

func TestZoneMath_InvalidZone(t *testing.T) {
	zm := newZoneMath()

	_, err := zm.ProjectInstant(time.Now(), "Invalid/Zone")
	require.Error(t, err)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeTimezone))

	assert.Error(t, zm.Validate(""))
	assert.NoError(t, zm.Validate("Europe/Paris"))
}

func TestZoneMath_EmbeddedDatabaseWithoutHostZoneinfo(t *testing.T) {
	zm := newZoneMath()
	zm.system = func(name string) (*time.Location, error) {
		return nil, errors.New("no zoneinfo on host")
	}

	catalog, err := infraRepo.NewEmbeddedCatalogRepository()
	require.NoError(t, err)
	entries, err := catalog.List()
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	instant := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	for _, e := range entries {
		_, err := zm.ProjectInstant(instant, e.IANAZoneName())
		assert.NoError(t, err, e.Abbreviation())
	}

	m, err := zm.ProjectInstant(instant, "Asia/Kolkata")
	require.NoError(t, err)
	assert.Equal(t, "05:30", m.Clock())

	unresolved, err := UnresolvedZones(catalog, zm)
	require.NoError(t, err)
	assert.Empty(t, unresolved)
}

func TestZoneMath_FallsBackToHostZoneinfo(t *testing.T) {
	zm := newZoneMath()
	zm.embedded = func(name string) (*time.Location, error) {
		return nil, errors.New("unknown location " + name)
	}
	zm.system = func(name string) (*time.Location, error) {
		return time.FixedZone(name, 3600), nil
	}

	m, err := zm.ProjectInstant(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), "Test/Zone")
	require.NoError(t, err)
	assert.Equal(t, "01:00", m.Clock())
}

type stubCatalog struct {
	entries []*entity.TimezoneEntry
}

func (c *stubCatalog) List() ([]*entity.TimezoneEntry, error) { return c.entries, nil }

func (c *stubCatalog) FindByAbbreviation(abbr string) (*entity.TimezoneEntry, error) {
	return nil, domain.ErrNotFound("timezone", abbr)
}

func (c *stubCatalog) Source() string { return "stub" }

func TestUnresolvedZones(t *testing.T) {
	ist, err := entity.NewTimezoneEntry("1", "IST", "India Standard Time", 5.5, "Asia/Kolkata")
	require.NoError(t, err)
	mars, err := entity.NewTimezoneEntry("2", "MST", "Mars Standard Time", 0, "Mars/Olympus")
	require.NoError(t, err)

	unresolved, err := UnresolvedZones(&stubCatalog{entries: []*entity.TimezoneEntry{ist, mars}}, newZoneMath())
	require.NoError(t, err)
	assert.Equal(t, []string{"MST"}, unresolved)
}
