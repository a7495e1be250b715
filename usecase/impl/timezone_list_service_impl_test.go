package impl

import (
	"context"
	"testing"
	"time"

	"github.com/ca-srg/tzconv/domain/entity"
	infrarepo "github.com/ca-srg/tzconv/infrastructure/repository"
	"github.com/ca-srg/tzconv/infrastructure/service"
	usecase "github.com/ca-srg/tzconv/usecase/interface"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBase = "http://localhost:8080/"

func TestTimezoneList_InitialState(t *testing.T) {
	f := newBoardFixture(t, testBase, "IST", "UTC")
	snap := f.board.Snapshot()

	require.Len(t, snap.Rows, 2)
	assert.Equal(t, "IST", snap.Rows[0].Abbreviation)
	assert.Equal(t, "05:30", snap.Rows[0].Clock)
	assert.Equal(t, "5:30 AM", snap.Rows[0].DisplayTime)
	assert.Equal(t, "Mon Jan 15", snap.Rows[0].DisplayDate)
	assert.Equal(t, "GMT +5.5", snap.Rows[0].Offset)
	assert.Equal(t, "UTC", snap.Rows[1].Abbreviation)
	assert.Equal(t, "00:00", snap.Rows[1].Clock)
	assert.Equal(t, "GMT +0", snap.Rows[1].Offset)

	assert.Equal(t, "Jan 15, 2024", snap.SelectedDate)
	assert.Equal(t, "2024-01-15", snap.SelectedDateISO)
	assert.Equal(t, "Mon, Jan 15", snap.Rows[0].Date)
	assert.Equal(t, "http://localhost:8080/?timezones=IST,UTC", snap.ShareLink)
	assert.Equal(t, "light", snap.Theme)
	assert.Equal(t, 15, snap.MinuteStep)
	assert.Equal(t, "IST", snap.ReferenceZone)
	assert.True(t, snap.SharedInstant.Equal(boardEpoch))
	assert.Zero(t, snap.Version)
}

func TestTimezoneList_UnknownDefaultsDropped(t *testing.T) {
	f := newBoardFixture(t, testBase, "ZZZ", "JST", "jst")
	assert.Equal(t, []string{"JST"}, abbreviations(t, f.board))
}

func TestTimezoneList_EmptyBoardReferencesUTC(t *testing.T) {
	f := newBoardFixture(t, testBase)
	snap := f.board.Snapshot()
	assert.Empty(t, snap.Rows)
	assert.Equal(t, "UTC", snap.ReferenceZone)
	assert.Equal(t, "http://localhost:8080/?timezones=", snap.ShareLink)
}

func TestTimezoneList_OnRowClockChange(t *testing.T) {
	ctx := context.Background()

	t.Run("UTC noon shows IST 17:30", func(t *testing.T) {
		f := newBoardFixture(t, testBase, "IST", "UTC")

		changed, err := f.board.OnRowClockChange(ctx, 1, 720)
		require.NoError(t, err)
		assert.True(t, changed)

		snap := f.board.Snapshot()
		assert.Equal(t, "17:30", snap.Rows[0].Clock)
		assert.Equal(t, "5:30 PM", snap.Rows[0].DisplayTime)
		assert.Equal(t, "12:00", snap.Rows[1].Clock)
		assert.Equal(t, "UTC", snap.ReferenceZone)
		assert.Equal(t, 720, snap.ReferenceMinute)
		assert.Equal(t, uint64(1), snap.ClockEdits)
		assert.Equal(t, uint64(1), snap.Version)
	})

	t.Run("IST 05:30 is UTC midnight", func(t *testing.T) {
		f := newBoardFixture(t, testBase, "IST", "UTC")
		_, err := f.board.OnRowClockChange(ctx, 1, 720)
		require.NoError(t, err)

		_, err = f.board.OnRowClockChange(ctx, 0, 330)
		require.NoError(t, err)

		snap := f.board.Snapshot()
		assert.Equal(t, "05:30", snap.Rows[0].Clock)
		assert.Equal(t, "00:00", snap.Rows[1].Clock)
		assert.True(t, snap.SharedInstant.Equal(boardEpoch))
	})

	t.Run("raw input is quantized", func(t *testing.T) {
		f := newBoardFixture(t, testBase, "IST", "UTC")
		_, err := f.board.OnRowClockChange(ctx, 1, 734)
		require.NoError(t, err)
		assert.Equal(t, "12:00", f.board.Snapshot().Rows[1].Clock)
	})

	t.Run("out of range index is a no-op", func(t *testing.T) {
		f := newBoardFixture(t, testBase, "IST", "UTC")
		for _, idx := range []int{-1, 2, 10} {
			changed, err := f.board.OnRowClockChange(ctx, idx, 60)
			require.NoError(t, err)
			assert.False(t, changed)
		}
		assert.Zero(t, f.board.Snapshot().Version)
	})

	t.Run("uses originating zone local date", func(t *testing.T) {
		// At 00:00 UTC on Jan 15 it is still Jan 14 in Los Angeles
		f := newBoardFixture(t, testBase, "PST", "UTC")
		_, err := f.board.OnRowClockChange(ctx, 0, 22*60)
		require.NoError(t, err)

		snap := f.board.Snapshot()
		want := time.Date(2024, time.January, 15, 6, 0, 0, 0, time.UTC)
		assert.True(t, snap.SharedInstant.Equal(want), "got %s", snap.SharedInstant)
		assert.Equal(t, "06:00", snap.Rows[1].Clock)
	})
}

func TestTimezoneList_RoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newBoardFixture(t, testBase, "IST", "NPT", "CHAST", "PST", "UTC", "AoE")

	for idx := range f.board.Snapshot().Rows {
		for _, raw := range []int{0, 14, 15, 333, 719, 1050, 1439} {
			_, err := f.board.OnRowClockChange(ctx, idx, raw)
			require.NoError(t, err)

			snap := f.board.Snapshot()
			got := snap.Rows[idx].Minute
			want := raw - raw%15
			assert.Equal(t, want, got, "row %s raw %d", snap.Rows[idx].Abbreviation, raw)
			assert.LessOrEqual(t, raw-got, 15)
		}
	}
}

func TestTimezoneList_DSTGap(t *testing.T) {
	ctx := context.Background()
	catalog, err := infrarepo.NewEmbeddedCatalogRepository()
	require.NoError(t, err)
	logger := newMockLogger()

	// 2024-03-10 12:00 UTC is 05:00 PDT, the day clocks in Los Angeles skip 02:00-03:00
	clock := clockwork.NewFakeClockAt(time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC))
	board := NewTimezoneListServiceImpl(catalog, service.NewZoneMathImpl(logger),
		service.NewStaticLocationProvider(testBase), clock, logger,
		TimezoneListConfig{DefaultZones: []string{"PST"}, MinuteStep: 15})

	changed, err := board.OnRowClockChange(ctx, 0, 150)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.NotEqual(t, 150, board.Snapshot().Rows[0].Minute)
	assert.Contains(t, logger.Messages("debug"), "Requested wall time skipped by a DST transition")
}

func TestTimezoneList_AddZone(t *testing.T) {
	ctx := context.Background()

	t.Run("appends projected from shared clock", func(t *testing.T) {
		f := newBoardFixture(t, testBase, "IST", "UTC")
		_, err := f.board.OnRowClockChange(ctx, 1, 720)
		require.NoError(t, err)

		added, err := f.board.AddZone(ctx, "JST")
		require.NoError(t, err)
		assert.True(t, added)

		snap := f.board.Snapshot()
		assert.Equal(t, []string{"IST", "UTC", "JST"}, abbreviations(t, f.board))
		assert.Equal(t, "21:00", snap.Rows[2].Clock)
		assert.Equal(t, "timezones=IST,UTC,JST", f.location.Query())
	})

	t.Run("unknown abbreviation is silent no-op", func(t *testing.T) {
		f := newBoardFixture(t, testBase, "IST", "UTC")

		added, err := f.board.AddZone(ctx, "ZZZ")
		require.NoError(t, err)
		assert.False(t, added)
		assert.Equal(t, []string{"IST", "UTC"}, abbreviations(t, f.board))
		assert.Zero(t, f.board.Snapshot().Version)
		assert.Contains(t, f.logger.Messages("debug"), "Ignoring unknown abbreviation")
	})

	t.Run("duplicate rejected", func(t *testing.T) {
		f := newBoardFixture(t, testBase, "IST", "UTC")

		added, err := f.board.AddZone(ctx, "ist")
		require.NoError(t, err)
		assert.False(t, added)
		assert.Len(t, f.board.Snapshot().Rows, 2)
	})
}

func TestTimezoneList_Remove(t *testing.T) {
	ctx := context.Background()
	f := newBoardFixture(t, testBase, "IST", "UTC", "JST")
	_, err := f.board.OnRowClockChange(ctx, 1, 720)
	require.NoError(t, err)

	before := f.board.Snapshot()
	assert.True(t, f.board.RemoveZone(ctx, 1))

	after := f.board.Snapshot()
	require.Len(t, after.Rows, 2)
	assert.Equal(t, before.Rows[0].Minute, after.Rows[0].Minute)
	assert.Equal(t, before.Rows[2].Minute, after.Rows[1].Minute)
	assert.Equal(t, "timezones=IST,JST", f.location.Query())

	assert.False(t, f.board.RemoveZone(ctx, -1))
	assert.False(t, f.board.RemoveZone(ctx, 2))

	assert.True(t, f.board.RemoveZoneByID(ctx, after.Rows[1].ID))
	assert.Equal(t, []string{"IST"}, abbreviations(t, f.board))
	assert.False(t, f.board.RemoveZoneByID(ctx, "missing"))
}

func TestTimezoneList_Reorder(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		source  int
		dest    *int
		changed bool
		want    []string
	}{
		{"move first to last", 0, intPtr(2), true, []string{"UTC", "JST", "IST"}},
		{"move last to first", 2, intPtr(0), true, []string{"JST", "IST", "UTC"}},
		{"adjacent swap", 1, intPtr(2), true, []string{"IST", "JST", "UTC"}},
		{"cancelled drag", 0, nil, false, []string{"IST", "UTC", "JST"}},
		{"same position", 1, intPtr(1), false, []string{"IST", "UTC", "JST"}},
		{"source out of range", 3, intPtr(0), false, []string{"IST", "UTC", "JST"}},
		{"destination out of range", 0, intPtr(3), false, []string{"IST", "UTC", "JST"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBoardFixture(t, testBase, "IST", "UTC", "JST")
			before := f.board.Snapshot()

			assert.Equal(t, tt.changed, f.board.Reorder(ctx, tt.source, tt.dest))
			assert.Equal(t, tt.want, abbreviations(t, f.board))

			ids := map[string]int{}
			for _, r := range before.Rows {
				ids[r.ID] = r.Minute
			}
			for _, r := range f.board.Snapshot().Rows {
				assert.Equal(t, ids[r.ID], r.Minute)
			}
		})
	}
}

func TestTimezoneList_ReverseOrder(t *testing.T) {
	ctx := context.Background()
	f := newBoardFixture(t, testBase, "IST", "UTC", "JST", "PST")

	f.board.ReverseOrder(ctx)
	assert.Equal(t, []string{"PST", "JST", "UTC", "IST"}, abbreviations(t, f.board))
	assert.Equal(t, "timezones=PST,JST,UTC,IST", f.location.Query())

	f.board.ReverseOrder(ctx)
	assert.Equal(t, []string{"IST", "UTC", "JST", "PST"}, abbreviations(t, f.board))
	assert.Equal(t, uint64(2), f.board.Snapshot().Version)
}

func TestTimezoneList_ImportFromLink(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		query   string
		changed bool
		want    []string
	}{
		{"drops unresolved", "timezones=IST,UTC,ZZZ", true, []string{"IST", "UTC"}},
		{"drops duplicates", "?timezones=PST,pst,EST,PST", true, []string{"PST", "EST"}},
		{"full url", "https://example.com/board?timezones=JST,KST#top", true, []string{"JST", "KST"}},
		{"spaces trimmed", "timezones=JST%2C%20KST", true, []string{"JST", "KST"}},
		{"nothing resolves", "timezones=ZZZ", true, []string{}},
		{"absent parameter", "other=1", false, []string{"CET"}},
		{"empty parameter", "timezones=", false, []string{"CET"}},
		{"empty query", "", false, []string{"CET"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBoardFixture(t, testBase, "CET")

			changed, err := f.board.ImportFromLink(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.changed, changed)
			assert.Equal(t, tt.want, abbreviations(t, f.board))
		})
	}
}

func TestTimezoneList_ImportFromLocation(t *testing.T) {
	ctx := context.Background()
	f := newBoardFixture(t, testBase+"?timezones=IST,UTC,ZZZ", "JST")

	changed, err := f.board.ImportFromLocation(ctx)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"IST", "UTC"}, abbreviations(t, f.board))
	assert.Equal(t, "timezones=IST,UTC", f.location.Query())

	f.location.ReplaceQuery("timezones=PST")
	changed, err = f.board.ImportFromLocation(ctx)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, []string{"IST", "UTC"}, abbreviations(t, f.board))
}

func TestTimezoneList_ShareLinkRoundTrip(t *testing.T) {
	ctx := context.Background()
	source := newBoardFixture(t, testBase, "NPT", "PST", "IST", "AoE")
	link := source.board.ExportShareableLink()
	assert.Equal(t, "http://localhost:8080/?timezones=NPT,PST,IST,AoE", link)

	target := newBoardFixture(t, testBase, "UTC")
	changed, err := target.board.ImportFromLink(ctx, link)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, abbreviations(t, source.board), abbreviations(t, target.board))
}

func TestTimezoneList_Tick(t *testing.T) {
	ctx := context.Background()
	f := newBoardFixture(t, testBase, "IST", "UTC")
	require.True(t, f.board.SetRowDragging(ctx, 0, true))
	assert.False(t, f.board.SetRowDragging(ctx, 0, true))

	f.clock.Advance(2 * time.Hour)
	updated := f.board.Tick(ctx, f.clock.Now())
	assert.Equal(t, 1, updated)

	snap := f.board.Snapshot()
	assert.Equal(t, "05:30", snap.Rows[0].Clock)
	assert.True(t, snap.Rows[0].Dragging)
	assert.Equal(t, "02:00", snap.Rows[1].Clock)
	assert.Equal(t, "tick", snap.Rows[1].Source)
	assert.True(t, snap.SharedInstant.Equal(boardEpoch), "tick must not move the shared clock")
	assert.Zero(t, snap.ClockEdits)

	assert.Zero(t, f.board.Tick(ctx, f.clock.Now()))

	require.True(t, f.board.SetRowDragging(ctx, 0, false))
	assert.Equal(t, 1, f.board.Tick(ctx, f.clock.Now()))
	assert.Equal(t, "07:30", f.board.Snapshot().Rows[0].Clock)
}

func TestTimezoneList_PropResyncsAfterTick(t *testing.T) {
	ctx := context.Background()
	f := newBoardFixture(t, testBase, "IST", "UTC")

	f.clock.Advance(3 * time.Hour)
	f.board.Tick(ctx, f.clock.Now())
	assert.Equal(t, "03:00", f.board.Snapshot().Rows[1].Clock)

	_, err := f.board.OnRowClockChange(ctx, 0, 360)
	require.NoError(t, err)
	snap := f.board.Snapshot()
	assert.Equal(t, "00:30", snap.Rows[1].Clock)
	assert.Equal(t, "prop", snap.Rows[1].Source)
}

func TestTimezoneList_SelectedDateAndTheme(t *testing.T) {
	ctx := context.Background()
	f := newBoardFixture(t, testBase, "IST", "UTC")

	f.board.SetSelectedDate(ctx, time.Date(2024, time.March, 10, 18, 45, 0, 0, time.UTC))
	snap := f.board.Snapshot()
	assert.Equal(t, "Mar 10, 2024", snap.SelectedDate)
	assert.Equal(t, "2024-03-10", snap.SelectedDateISO)
	assert.Equal(t, "Sun, Mar 10", snap.Rows[0].Date)
	assert.Equal(t, "05:30", snap.Rows[0].Clock, "selected date does not feed the minute arithmetic")

	assert.Equal(t, "dark", f.board.ToggleTheme(ctx))
	assert.Equal(t, "dark", f.board.Snapshot().Theme)
	assert.Equal(t, "light", f.board.ToggleTheme(ctx))
}

func TestTimezoneList_Subscribe(t *testing.T) {
	ctx := context.Background()
	f := newBoardFixture(t, testBase, "IST", "UTC")

	ch, cancel := f.board.Subscribe()

	_, err := f.board.AddZone(ctx, "JST")
	require.NoError(t, err)
	snap := <-ch
	assert.Equal(t, uint64(1), snap.Version)
	assert.Len(t, snap.Rows, 3)

	f.board.ReverseOrder(ctx)
	f.board.ToggleTheme(ctx)
	_, err = f.board.OnRowClockChange(ctx, 0, 60)
	require.NoError(t, err)

	snap = <-ch
	assert.Equal(t, uint64(4), snap.Version, "slow subscriber sees only the latest snapshot")
	assert.Equal(t, "dark", snap.Theme)
	assert.Equal(t, "01:00", snap.Rows[0].Clock)

	// No-ops publish nothing
	f.board.RemoveZone(ctx, 9)
	select {
	case s := <-ch:
		t.Fatalf("unexpected snapshot version %d", s.Version)
	default:
	}

	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)

	f.board.ReverseOrder(ctx)
}

func TestTimezoneList_SnapshotIsImmutable(t *testing.T) {
	ctx := context.Background()
	f := newBoardFixture(t, testBase, "IST", "UTC")

	snap := f.board.Snapshot()
	f.board.ReverseOrder(ctx)
	_, err := f.board.OnRowClockChange(ctx, 0, 600)
	require.NoError(t, err)

	assert.Equal(t, "IST", snap.Rows[0].Abbreviation)
	assert.Equal(t, "05:30", snap.Rows[0].Clock)
}

func TestTimezoneList_Catalog(t *testing.T) {
	f := newBoardFixture(t, testBase, "IST", "JST")

	options, err := f.board.Catalog()
	require.NoError(t, err)
	require.NotEmpty(t, options)
	assert.Equal(t, "IST", options[0].Abbreviation)
	assert.Equal(t, "UTC", options[1].Abbreviation)

	selected := []string{}
	for _, o := range options {
		if o.Selected {
			selected = append(selected, o.Abbreviation)
		}
	}
	assert.ElementsMatch(t, []string{"IST", "JST"}, selected)
}

func TestSortCatalog(t *testing.T) {
	newEntries := func(t *testing.T) []*entity.TimezoneEntry {
		t.Helper()
		raw := []struct {
			abbr, name string
			offset     float64
		}{
			{"ZT", "Zulu Time", 0},
			{"ET", "éclair Time", 2},
			{"AT", "Alpha Time", -3},
			{"BT", "beta Time", 2},
		}
		out := make([]*entity.TimezoneEntry, 0, len(raw))
		for _, r := range raw {
			e, err := entity.NewTimezoneEntry(r.abbr, r.abbr, r.name, r.offset, "UTC")
			require.NoError(t, err)
			out = append(out, e)
		}
		return out
	}
	names := func(entries []*entity.TimezoneEntry) []string {
		out := make([]string, len(entries))
		for i, e := range entries {
			out[i] = e.Abbreviation()
		}
		return out
	}

	t.Run("name uses locale collation", func(t *testing.T) {
		entries := newEntries(t)
		sortCatalog(entries, "name", "en-US")
		assert.Equal(t, []string{"AT", "BT", "ET", "ZT"}, names(entries))
	})

	t.Run("offset then abbreviation", func(t *testing.T) {
		entries := newEntries(t)
		sortCatalog(entries, "offset", "")
		assert.Equal(t, []string{"AT", "ZT", "BT", "ET"}, names(entries))
	})

	t.Run("none keeps source order", func(t *testing.T) {
		entries := newEntries(t)
		sortCatalog(entries, "none", "")
		assert.Equal(t, []string{"ZT", "ET", "AT", "BT"}, names(entries))
	})
}

var _ usecase.TimezoneListService = (*TimezoneListServiceImpl)(nil)
