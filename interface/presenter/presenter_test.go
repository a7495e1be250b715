package presenter

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	usecase "github.com/ca-srg/tzconv/usecase/interface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() *usecase.BoardSnapshot {
	return &usecase.BoardSnapshot{
		Rows: []usecase.RowView{
			{Index: 0, ID: "a", Abbreviation: "IST", Name: "India Standard Time", Clock: "17:30",
				Minute: 1050, Offset: "GMT +5.5", Date: "Mon, Jan 15", DisplayTime: "5:30 PM", DisplayDate: "Mon Jan 15"},
			{Index: 1, ID: "b", Abbreviation: "UTC", Name: "Coordinated Universal Time", Clock: "12:00",
				Minute: 720, Offset: "GMT +0", Date: "Mon, Jan 15", DisplayTime: "12:00 PM", DisplayDate: "Mon Jan 15"},
		},
		SelectedDate:    "Jan 15, 2024",
		SelectedDateISO: "2024-01-15",
		ReferenceZone:   "UTC",
		ReferenceMinute: 720,
		ShareLink:       "http://localhost:8080/?timezones=IST,UTC",
		Theme:           "light",
		MinuteStep:      15,
		Version:         3,
	}
}

func TestConsolePresenter_PrintBoard(t *testing.T) {
	var buf bytes.Buffer
	p := NewConsolePresenterWithWriter(&buf)

	require.NoError(t, p.PrintBoard(sampleSnapshot()))

	out := buf.String()
	assert.Contains(t, out, "Date: Jan 15, 2024")
	assert.Contains(t, out, "IST")
	assert.Contains(t, out, "UTC *")
	assert.Contains(t, out, "17:30")
	assert.Contains(t, out, "5:30 PM, Mon Jan 15")
	assert.Contains(t, out, "GMT +5.5")
	assert.Contains(t, out, "Share: http://localhost:8080/?timezones=IST,UTC")
}

func TestConsolePresenter_PrintEmptyBoard(t *testing.T) {
	var buf bytes.Buffer
	p := NewConsolePresenterWithWriter(&buf)

	require.NoError(t, p.PrintBoard(&usecase.BoardSnapshot{SelectedDate: "Jan 15, 2024", ShareLink: "?timezones="}))
	assert.Contains(t, buf.String(), "No timezones selected.")
}

func TestConsolePresenter_PrintCatalogAndConfig(t *testing.T) {
	var buf bytes.Buffer
	p := NewConsolePresenterWithWriter(&buf)

	require.NoError(t, p.PrintCatalog([]usecase.CatalogOption{
		{Abbreviation: "IST", Name: "India Standard Time", Offset: "GMT +5.5", Selected: true},
		{Abbreviation: "JST", Name: "Japan Standard Time", Offset: "GMT +9"},
	}))
	assert.Contains(t, buf.String(), "yes")
	assert.Contains(t, buf.String(), "JST")

	buf.Reset()
	require.NoError(t, p.PrintConfig(map[string]interface{}{
		"board":    map[string]interface{}{"default_zones": []string{"IST", "UTC"}},
		"_sources": map[string]string{"Board.DefaultZones": "default"},
	}))
	assert.Contains(t, buf.String(), "board:\n  default_zones: IST,UTC\n")
	assert.Contains(t, buf.String(), "Board.DefaultZones: default")
}

func TestConsolePresenter_PrintError(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewConsolePresenterWithWriter(&out)
	p.errWriter = &errOut

	p.PrintError(errors.New("boom"))
	assert.Equal(t, "Error: boom\n", errOut.String())
	assert.Empty(t, out.String())
}

func TestTruncateString(t *testing.T) {
	p := NewConsolePresenterWithWriter(&bytes.Buffer{})
	assert.Equal(t, "short", p.truncateString("short", 10))
	assert.Equal(t, "abcdefg...", p.truncateString("abcdefghijklmnop", 10))
}

func TestJSONPresenter_PrintBoard(t *testing.T) {
	var buf bytes.Buffer
	p := NewJSONPresenterWithWriter(&buf)

	require.NoError(t, p.PrintBoard(sampleSnapshot()))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "http://localhost:8080/?timezones=IST,UTC", decoded["share_link"])
	rows := decoded["rows"].([]interface{})
	require.Len(t, rows, 2)
	assert.Equal(t, "IST", rows[0].(map[string]interface{})["abbreviation"])
}

func TestJSONPresenter_EmptyValues(t *testing.T) {
	var buf bytes.Buffer
	p := NewJSONPresenterWithWriter(&buf)

	require.NoError(t, p.PrintBoard(&usecase.BoardSnapshot{}))
	assert.Contains(t, buf.String(), `"rows": []`)

	buf.Reset()
	require.NoError(t, p.PrintCatalog(nil))
	assert.Contains(t, buf.String(), `"timezones": []`)
	assert.Contains(t, buf.String(), `"count": 0`)
}
