package valueobject

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapMinuteOfDay(t *testing.T) {
	assert.Equal(t, MinuteOfDay(0), WrapMinuteOfDay(1440))
	assert.Equal(t, MinuteOfDay(1425), WrapMinuteOfDay(-15))
	assert.Equal(t, MinuteOfDay(330), WrapMinuteOfDay(330))
	assert.Equal(t, MinuteOfDay(60), WrapMinuteOfDay(3*MinutesPerDay+60))
}

func TestMinuteOfDay_Quantize(t *testing.T) {
	assert.Equal(t, MinuteOfDay(330), MinuteOfDay(330).Quantize(15))
	assert.Equal(t, MinuteOfDay(330), MinuteOfDay(344).Quantize(15))
	assert.Equal(t, MinuteOfDay(1425), MinuteOfDay(1439).Quantize(15))
	assert.Equal(t, MinuteOfDay(7), MinuteOfDay(7).Quantize(1))
	assert.Equal(t, MinuteOfDay(7), MinuteOfDay(7).Quantize(0))
}

func TestMinuteOfDay_Clock(t *testing.T) {
	assert.Equal(t, "00:00", MinuteOfDay(0).Clock())
	assert.Equal(t, "05:30", MinuteOfDay(330).Clock())
	assert.Equal(t, "17:30", MinuteOfDay(1050).Clock())
	assert.Equal(t, "23:59", MinuteOfDay(1439).String())
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("17:30")
	require.NoError(t, err)
	assert.Equal(t, MinuteOfDay(1050), m)

	m, err = ParseClock("5:30")
	require.NoError(t, err)
	assert.Equal(t, MinuteOfDay(330), m)

	for _, bad := range []string{"", "1730", "24:00", "12:60", "12:5", "ab:cd"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}

func TestMinuteOfDayFromTime(t *testing.T) {
	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	instant := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, MinuteOfDay(0), MinuteOfDayFromTime(instant))
	assert.Equal(t, MinuteOfDay(330), MinuteOfDayFromTime(instant.In(ist)))
}

func TestValidateStep(t *testing.T) {
	assert.NoError(t, ValidateStep(15))
	assert.NoError(t, ValidateStep(1))
	assert.NoError(t, ValidateStep(60))
	assert.Error(t, ValidateStep(0))
	assert.Error(t, ValidateStep(7))
}
