package valueobject

import (
	"fmt"
	"math"
	"strconv"
)

const (
	minGMTOffsetHours = -12
	maxGMTOffsetHours = 14
)

// GMTOffset is a nominal UTC offset in decimal hours, e.g. 5.5 for IST
type GMTOffset float64

// NewGMTOffset validates that hours is within [-12, +14] and on a quarter hour
func NewGMTOffset(hours float64) (GMTOffset, error) {
	if math.IsNaN(hours) || hours < minGMTOffsetHours || hours > maxGMTOffsetHours {
		return 0, fmt.Errorf("gmt offset %v out of range [%d,%d]", hours, minGMTOffsetHours, maxGMTOffsetHours)
	}
	if quarters := hours * 4; quarters != math.Trunc(quarters) {
		return 0, fmt.Errorf("gmt offset %v is not a multiple of 15 minutes", hours)
	}
	return GMTOffset(hours), nil
}

// Hours returns the offset in decimal hours
func (o GMTOffset) Hours() float64 {
	return float64(o)
}

// Minutes returns the offset in whole minutes
func (o GMTOffset) Minutes() int {
	return int(math.Round(float64(o) * 60))
}

// Signed formats the offset with an explicit sign: "+5.5", "-3", "+0"
func (o GMTOffset) Signed() string {
	s := strconv.FormatFloat(float64(o), 'f', -1, 64)
	if o >= 0 {
		return "+" + s
	}
	return s
}

// Label returns the row label, e.g. "GMT +5.5"
func (o GMTOffset) Label() string {
	return "GMT " + o.Signed()
}
