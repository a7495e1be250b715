package impl

import (
	"time"

	"github.com/ca-srg/tzconv/domain/entity"
	"github.com/ca-srg/tzconv/domain/repository"
	"github.com/ca-srg/tzconv/domain/valueobject"
	usecase "github.com/ca-srg/tzconv/usecase/interface"
)

// Display layouts
const (
	rowTimeLayout         = "3:04 PM"
	rowZoneDateLayout     = "Mon Jan 2"
	rowSelectedDateLayout = "Mon, Jan 2"
	pickerDateLayout      = "Jan 2, 2006"
	isoDateLayout         = "2006-01-02"
)

// TimezoneRow is one zone on the board: the projected selection plus the
// row's own display clock
type TimezoneRow struct {
	zone  *entity.SelectedZone
	clock *entity.RowClock
	step  int
}

// NewTimezoneRow mounts a row showing the zone's projected minute
func NewTimezoneRow(zone *entity.SelectedZone, step int) *TimezoneRow {
	if valueobject.ValidateStep(step) != nil {
		step = valueobject.DefaultMinuteStep
	}
	return &TimezoneRow{
		zone:  zone,
		clock: entity.NewRowClock(zone.MinuteOfDay()),
		step:  step,
	}
}

// ID returns the row identity (catalog entry ID)
func (r *TimezoneRow) ID() string {
	return r.zone.ID()
}

// Entry returns the catalog entry shown by the row
func (r *TimezoneRow) Entry() *entity.TimezoneEntry {
	return r.zone.Entry()
}

// Zone returns the selection backing the row
func (r *TimezoneRow) Zone() *entity.SelectedZone {
	return r.zone
}

// Clock returns the row's display clock
func (r *TimezoneRow) Clock() *entity.RowClock {
	return r.clock
}

// Slide normalizes raw slider input: wrapped into one day, then floored to the step
func (r *TimezoneRow) Slide(raw int) valueobject.MinuteOfDay {
	return valueobject.WrapMinuteOfDay(raw).Quantize(r.step)
}

// Receive applies a projection pushed down from the board. It always wins.
func (r *TimezoneRow) Receive(minute valueobject.MinuteOfDay, displayTime, displayDate string) {
	r.zone.ApplyProjection(minute, displayTime, displayDate)
	r.clock.Merge(entity.ClockUpdate{Minute: minute, Source: entity.ClockSourceProp})
}

// TickAt refreshes the display clock to the wall clock at now. It reports
// whether the displayed minute changed; ticks are dropped while dragging.
func (r *TimezoneRow) TickAt(now time.Time, zm repository.ZoneMath) (bool, error) {
	if r.clock.Dragging() {
		return false, nil
	}
	minute, err := zm.ProjectInstant(now, r.Entry().IANAZoneName())
	if err != nil {
		return false, err
	}
	before := r.clock.Minute()
	r.clock.Merge(entity.ClockUpdate{Minute: minute, Source: entity.ClockSourceTick})
	return before != r.clock.Minute(), nil
}

// SetDragging marks a slider gesture on the row
func (r *TimezoneRow) SetDragging(dragging bool) {
	r.clock.SetDragging(dragging)
}

// View renders the row at index
func (r *TimezoneRow) View(index int, selectedDate time.Time) usecase.RowView {
	e := r.Entry()
	return usecase.RowView{
		Index:        index,
		ID:           e.ID(),
		Abbreviation: e.Abbreviation(),
		Name:         e.Name(),
		Zone:         e.IANAZoneName(),
		Clock:        r.clock.Minute().Clock(),
		Minute:       r.clock.Minute().Int(),
		Offset:       e.GMTOffset().Label(),
		Date:         selectedDate.Format(rowSelectedDateLayout),
		DisplayTime:  r.zone.DisplayTime(),
		DisplayDate:  r.zone.DisplayDate(),
		Dragging:     r.clock.Dragging(),
		Source:       string(r.clock.Source()),
	}
}
