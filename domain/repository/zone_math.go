package repository

import (
	"time"

	"github.com/ca-srg/tzconv/domain/valueobject"
)

// ZoneMath is the time/zone math provider. Implementations own every
// DST and offset-table decision; callers only pass zone identifiers.
type ZoneMath interface {
	// ProjectInstant returns the wall-clock minute of instant in zone
	ProjectInstant(instant time.Time, zone string) (valueobject.MinuteOfDay, error)

	// ComposeInstant returns the instant at which zone's wall clock reads
	// minute on the calendar day of referenceDate (year, month, day taken as-is)
	ComposeInstant(zone string, minute valueobject.MinuteOfDay, referenceDate time.Time) (time.Time, error)

	// LocalDate returns midnight of instant's local calendar day in zone
	LocalDate(instant time.Time, zone string) (time.Time, error)

	// Format renders instant in zone using a Go layout
	Format(instant time.Time, zone string, layout string) (string, error)

	// Validate reports whether zone can be resolved
	Validate(zone string) error
}
