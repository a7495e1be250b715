package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimezoneEntry(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		abbr    string
		offset  float64
		zone    string
		wantErr bool
	}{
		{"valid IST", "1", "IST", 5.5, "Asia/Kolkata", false},
		{"valid negative", "2", "EST", -5, "America/New_York", false},
		{"empty id", "", "IST", 5.5, "Asia/Kolkata", true},
		{"empty abbreviation", "3", " ", 0, "UTC", true},
		{"comma in abbreviation", "4", "A,B", 0, "UTC", true},
		{"missing zone", "5", "UTC", 0, "", true},
		{"offset out of range", "6", "BAD", 20, "UTC", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := NewTimezoneEntry(tt.id, tt.abbr, "Name", tt.offset, tt.zone)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, entry)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, entry.ID())
			assert.Equal(t, tt.abbr, entry.Abbreviation())
			assert.Equal(t, tt.offset, entry.GMTOffset().Hours())
			assert.Equal(t, tt.zone, entry.IANAZoneName())
		})
	}
}

func TestTimezoneEntry_DefaultsNameToAbbreviation(t *testing.T) {
	entry, err := NewTimezoneEntry("1", "UTC", "", 0, "UTC")
	require.NoError(t, err)
	assert.Equal(t, "UTC", entry.Name())
}

func TestTimezoneEntry_MatchesAbbreviation(t *testing.T) {
	entry, err := NewTimezoneEntry("1", "IST", "Indian Standard Time", 5.5, "Asia/Kolkata")
	require.NoError(t, err)

	assert.True(t, entry.MatchesAbbreviation("IST"))
	assert.True(t, entry.MatchesAbbreviation(" ist "))
	assert.False(t, entry.MatchesAbbreviation("UTC"))
}

func TestSelectedZone_ApplyProjection(t *testing.T) {
	entry, err := NewTimezoneEntry("1", "IST", "Indian Standard Time", 5.5, "Asia/Kolkata")
	require.NoError(t, err)

	zone := NewSelectedZone(entry, 330, "5:30 AM", "Mon Jan 15")
	assert.Equal(t, "1", zone.ID())
	assert.Equal(t, entry, zone.Entry())

	zone.ApplyProjection(1050, "5:30 PM", "Mon Jan 15")
	assert.Equal(t, 1050, zone.MinuteOfDay().Int())
	assert.Equal(t, "5:30 PM", zone.DisplayTime())
	assert.Equal(t, "Mon Jan 15", zone.DisplayDate())
}
