package usecase

import (
	"context"
	"time"
)

// TimezoneListService owns the board: the ordered selected zones, the shared
// clock every row is projected from, the selected date and the theme.
//
// Mutations are serialized and fully applied before subscribers see the
// resulting snapshot. Invalid indices and unknown abbreviations are no-ops
// reported as changed=false.
type TimezoneListService interface {
	// AddZone appends the catalog entry for abbreviation, projected from the shared clock
	AddZone(ctx context.Context, abbreviation string) (bool, error)

	// RemoveZone deletes the row at index
	RemoveZone(ctx context.Context, index int) bool

	// RemoveZoneByID deletes the row holding id wherever it currently sits
	RemoveZoneByID(ctx context.Context, id string) bool

	// Reorder moves the row at source to destination. A nil destination is a cancelled drag.
	Reorder(ctx context.Context, source int, destination *int) bool

	// ReverseOrder reverses the rows
	ReverseOrder(ctx context.Context)

	// OnRowClockChange moves the shared clock so that row index reads minute
	// (wrapped and quantized) on its current local date
	OnRowClockChange(ctx context.Context, index int, minute int) (bool, error)

	// SetRowDragging marks the start or end of a slider gesture on a row
	SetRowDragging(ctx context.Context, index int, dragging bool) bool

	// SetSelectedDate changes the display date applied to every row
	SetSelectedDate(ctx context.Context, date time.Time)

	// ToggleTheme flips between light and dark and returns the new theme
	ToggleTheme(ctx context.Context) string

	// Tick refreshes idle rows to the wall clock at now and returns how many changed
	Tick(ctx context.Context, now time.Time) int

	// ExportShareableLink returns <base>?timezones=A,B,C for the current order
	ExportShareableLink() string

	// ImportFromLink replaces the rows with the zones named by a link or query string.
	// An absent or empty parameter leaves the board untouched.
	ImportFromLink(ctx context.Context, query string) (bool, error)

	// ImportFromLocation imports the query of the injected location. Only the first call reads it.
	ImportFromLocation(ctx context.Context) (bool, error)

	// Snapshot returns an immutable copy of the board
	Snapshot() *BoardSnapshot

	// Catalog returns the selectable zones in configured order
	Catalog() ([]CatalogOption, error)

	// Subscribe returns a channel of snapshots published after each mutation and
	// a cancel function. Slow subscribers only see the latest snapshot.
	Subscribe() (<-chan *BoardSnapshot, func())
}

// RowView is the rendered state of one row
type RowView struct {
	Index        int    `json:"index"`
	ID           string `json:"id"`
	Abbreviation string `json:"abbreviation"`
	Name         string `json:"name"`
	Zone         string `json:"zone"`
	Clock        string `json:"clock"`
	Minute       int    `json:"minute"`
	Offset       string `json:"offset"`
	Date         string `json:"date"`
	DisplayTime  string `json:"display_time"`
	DisplayDate  string `json:"display_date"`
	Dragging     bool   `json:"dragging"`
	Source       string `json:"source"`
}

// BoardSnapshot is the whole board at one version
type BoardSnapshot struct {
	Rows            []RowView `json:"rows"`
	SelectedDate    string    `json:"selected_date"`
	SelectedDateISO string    `json:"selected_date_iso"`
	SharedInstant   time.Time `json:"shared_instant"`
	ReferenceZone   string    `json:"reference_zone"`
	ReferenceMinute int       `json:"reference_minute"`
	ShareLink       string    `json:"share_link"`
	Theme           string    `json:"theme"`
	MinuteStep      int       `json:"minute_step"`
	Version         uint64    `json:"version"`
	ClockEdits      uint64    `json:"clock_edits"`
}

// CatalogOption is one entry of the zone dropdown
type CatalogOption struct {
	ID           string `json:"id"`
	Abbreviation string `json:"abbreviation"`
	Name         string `json:"name"`
	Offset       string `json:"offset"`
	Selected     bool   `json:"selected"`
}
