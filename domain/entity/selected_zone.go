package entity

import (
	"github.com/ca-srg/tzconv/domain/valueobject"
)

// SelectedZone is a catalog entry placed on the board, carrying the shared
// clock projected into its own local time
type SelectedZone struct {
	entry       *TimezoneEntry
	minuteOfDay valueobject.MinuteOfDay
	displayTime string
	displayDate string
}

// NewSelectedZone places entry on the board with an initial projection
func NewSelectedZone(entry *TimezoneEntry, minute valueobject.MinuteOfDay, displayTime, displayDate string) *SelectedZone {
	return &SelectedZone{
		entry:       entry,
		minuteOfDay: minute,
		displayTime: displayTime,
		displayDate: displayDate,
	}
}

// ID returns the identity of the zone on the board (the catalog entry ID)
func (z *SelectedZone) ID() string {
	return z.entry.ID()
}

// Entry returns the underlying catalog entry
func (z *SelectedZone) Entry() *TimezoneEntry {
	return z.entry
}

// MinuteOfDay returns the shared clock expressed in this zone
func (z *SelectedZone) MinuteOfDay() valueobject.MinuteOfDay {
	return z.minuteOfDay
}

// DisplayTime returns the 12-hour label of the shared clock, e.g. "5:30 AM"
func (z *SelectedZone) DisplayTime() string {
	return z.displayTime
}

// DisplayDate returns the local date of the shared clock, e.g. "Mon Jan 15"
func (z *SelectedZone) DisplayDate() string {
	return z.displayDate
}

// ApplyProjection replaces the derived fields after the shared clock moved
func (z *SelectedZone) ApplyProjection(minute valueobject.MinuteOfDay, displayTime, displayDate string) {
	z.minuteOfDay = minute
	z.displayTime = displayTime
	z.displayDate = displayDate
}
