package entity

import (
	"github.com/ca-srg/tzconv/domain/valueobject"
)

// ClockSource identifies which time source produced a row's displayed minute
type ClockSource string

const (
	// ClockSourceProp is a minute pushed down from the shared clock
	ClockSourceProp ClockSource = "prop"

	// ClockSourceTick is a minute produced by the row's own idle refresh
	ClockSourceTick ClockSource = "tick"
)

// ClockUpdate is one candidate value for a row's displayed minute
type ClockUpdate struct {
	Minute valueobject.MinuteOfDay
	Source ClockSource
}

// RowClock reconciles the two time sources feeding a row.
//
// Merge rules:
//   - a prop update is always accepted
//   - a tick update is dropped while the row is being dragged
//   - otherwise a tick update replaces the displayed minute
type RowClock struct {
	minute   valueobject.MinuteOfDay
	source   ClockSource
	dragging bool
}

// NewRowClock starts a row clock at the minute pushed when the row mounts
func NewRowClock(initial valueobject.MinuteOfDay) *RowClock {
	return &RowClock{
		minute: initial,
		source: ClockSourceProp,
	}
}

// Merge applies u according to the merge rules and reports whether the
// displayed minute was replaced
func (c *RowClock) Merge(u ClockUpdate) bool {
	switch u.Source {
	case ClockSourceProp:
		c.minute = u.Minute
		c.source = ClockSourceProp
		return true
	case ClockSourceTick:
		if c.dragging {
			return false
		}
		c.minute = u.Minute
		c.source = ClockSourceTick
		return true
	default:
		return false
	}
}

// Minute returns the displayed minute
func (c *RowClock) Minute() valueobject.MinuteOfDay {
	return c.minute
}

// Source returns the source of the displayed minute
func (c *RowClock) Source() ClockSource {
	return c.source
}

// SetDragging marks the start or end of a slider gesture
func (c *RowClock) SetDragging(dragging bool) {
	c.dragging = dragging
}

// Dragging reports whether a slider gesture is in progress
func (c *RowClock) Dragging() bool {
	return c.dragging
}
