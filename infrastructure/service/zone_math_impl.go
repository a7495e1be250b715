package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"4d63.com/tz"
	"github.com/ca-srg/tzconv/domain"
	"github.com/ca-srg/tzconv/domain/repository"
	"github.com/ca-srg/tzconv/domain/valueobject"
)

type locationLoader func(name string) (*time.Location, error)

// ZoneMathImpl implements ZoneMath on top of the time package.
// Zones resolve from the tz database embedded in the binary, falling back to the
// host's zoneinfo for names the embedded copy lacks. Loaded locations are cached
// for the lifetime of the process.
type ZoneMathImpl struct {
	logger   domain.Logger
	embedded locationLoader
	system   locationLoader

	mu    sync.RWMutex
	cache map[string]*time.Location
}

// NewZoneMathImpl creates a new zone math provider
func NewZoneMathImpl(logger domain.Logger) *ZoneMathImpl {
	return &ZoneMathImpl{
		logger:   logger,
		embedded: tz.LoadLocation,
		system:   time.LoadLocation,
		cache:    map[string]*time.Location{"UTC": time.UTC},
	}
}

var _ repository.ZoneMath = (*ZoneMathImpl)(nil)

// ProjectInstant returns the wall-clock minute of instant in zone
func (z *ZoneMathImpl) ProjectInstant(instant time.Time, zone string) (valueobject.MinuteOfDay, error) {
	loc, err := z.location(zone)
	if err != nil {
		return 0, err
	}
	return valueobject.MinuteOfDayFromTime(instant.In(loc)), nil
}

// ComposeInstant returns the instant at which zone reads minute on referenceDate's calendar day.
// A wall time skipped by a DST transition is normalized forward by the time package.
func (z *ZoneMathImpl) ComposeInstant(zone string, minute valueobject.MinuteOfDay, referenceDate time.Time) (time.Time, error) {
	loc, err := z.location(zone)
	if err != nil {
		return time.Time{}, err
	}

	y, m, d := referenceDate.Date()
	instant := time.Date(y, m, d, minute.Hour(), minute.Minute(), 0, 0, loc)

	if got := valueobject.MinuteOfDayFromTime(instant); got != minute {
		z.logger.Debug(context.Background(), "Wall time does not exist in zone, normalized",
			domain.NewField("zone", zone),
			domain.NewField("requested", minute.Clock()),
			domain.NewField("actual", got.Clock()))
	}

	return instant, nil
}

// LocalDate returns midnight of instant's calendar day in zone
func (z *ZoneMathImpl) LocalDate(instant time.Time, zone string) (time.Time, error) {
	loc, err := z.location(zone)
	if err != nil {
		return time.Time{}, err
	}
	local := instant.In(loc)
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
}

// Format renders instant in zone using layout
func (z *ZoneMathImpl) Format(instant time.Time, zone string, layout string) (string, error) {
	loc, err := z.location(zone)
	if err != nil {
		return "", err
	}
	return instant.In(loc).Format(layout), nil
}

// Validate reports whether zone can be resolved
func (z *ZoneMathImpl) Validate(zone string) error {
	_, err := z.location(zone)
	return err
}

func (z *ZoneMathImpl) location(zone string) (*time.Location, error) {
	zone = strings.TrimSpace(zone)
	if zone == "" {
		return nil, domain.ErrTimezone("load_location", "empty zone name")
	}

	z.mu.RLock()
	loc, ok := z.cache[zone]
	z.mu.RUnlock()
	if ok {
		return loc, nil
	}

	loc, err := z.embedded(zone)
	if err != nil {
		loc, err = z.system(zone)
	}
	if err != nil {
		z.logger.Warn(context.Background(), "Failed to load timezone",
			domain.NewField("zone", zone), domain.ErrorField(err))
		return nil, domain.ErrTimezoneParse(zone, err)
	}

	z.mu.Lock()
	z.cache[zone] = loc
	z.mu.Unlock()

	return loc, nil
}

// UnresolvedZones returns the abbreviations of catalog entries whose zone
// cannot be loaded by zm
func UnresolvedZones(catalog repository.CatalogRepository, zm repository.ZoneMath) ([]string, error) {
	entries, err := catalog.List()
	if err != nil {
		return nil, err
	}
	var unresolved []string
	for _, e := range entries {
		if zm.Validate(e.IANAZoneName()) != nil {
			unresolved = append(unresolved, e.Abbreviation())
		}
	}
	return unresolved, nil
}
