package valueobject

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// MinutesPerDay is the exclusive upper bound of a MinuteOfDay
	MinutesPerDay = 24 * 60

	// DefaultMinuteStep is the slider quantization step in minutes
	DefaultMinuteStep = 15
)

// MinuteOfDay is a local wall-clock time expressed as minutes since midnight, in [0, 1440)
type MinuteOfDay int

// WrapMinuteOfDay folds any integer into [0, 1440) modulo one day
func WrapMinuteOfDay(minutes int) MinuteOfDay {
	m := minutes % MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return MinuteOfDay(m)
}

// MinuteOfDayFromTime returns the wall-clock minute of t in t's own location
func MinuteOfDayFromTime(t time.Time) MinuteOfDay {
	return MinuteOfDay(t.Hour()*60 + t.Minute())
}

// ParseClock parses "H:MM" or "HH:MM" (24-hour)
func ParseClock(s string) (MinuteOfDay, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("clock %q must be in HH:MM format", s)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("clock %q has invalid hour", s)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || len(mm) != 2 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("clock %q has invalid minute", s)
	}
	return MinuteOfDay(hour*60 + minute), nil
}

// ValidateStep checks that step divides a day evenly
func ValidateStep(step int) error {
	if step <= 0 || MinutesPerDay%step != 0 {
		return fmt.Errorf("minute step %d must be a positive divisor of %d", step, MinutesPerDay)
	}
	return nil
}

// Int returns the raw minute count
func (m MinuteOfDay) Int() int {
	return int(m)
}

// Hour returns the hour component (0-23)
func (m MinuteOfDay) Hour() int {
	return int(m) / 60
}

// Minute returns the minute component (0-59)
func (m MinuteOfDay) Minute() int {
	return int(m) % 60
}

// Quantize floors m to the nearest lower multiple of step
func (m MinuteOfDay) Quantize(step int) MinuteOfDay {
	if step <= 1 {
		return m
	}
	return m - m%MinuteOfDay(step)
}

// Clock formats m as zero-padded "HH:mm"
func (m MinuteOfDay) Clock() string {
	return fmt.Sprintf("%02d:%02d", m.Hour(), m.Minute())
}

func (m MinuteOfDay) String() string {
	return m.Clock()
}
