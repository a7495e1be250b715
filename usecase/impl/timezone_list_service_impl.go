package impl

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ca-srg/tzconv/domain"
	"github.com/ca-srg/tzconv/domain/entity"
	"github.com/ca-srg/tzconv/domain/repository"
	"github.com/ca-srg/tzconv/domain/valueobject"
	usecase "github.com/ca-srg/tzconv/usecase/interface"
	"github.com/jonboulle/clockwork"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// TimezoneListConfig holds the board settings taken from configuration
type TimezoneListConfig struct {
	DefaultZones []string
	MinuteStep   int
	Theme        string
	SortBy       string
	Locale       string
}

// TimezoneListServiceImpl implements TimezoneListService
type TimezoneListServiceImpl struct {
	catalog  repository.CatalogRepository
	zoneMath repository.ZoneMath
	location repository.LocationProvider
	clock    clockwork.Clock
	logger   domain.Logger
	cfg      TimezoneListConfig

	mu              sync.Mutex
	rows            []*TimezoneRow
	sharedInstant   time.Time
	referenceZone   string
	referenceMinute valueobject.MinuteOfDay
	selectedDate    time.Time
	theme           valueobject.Theme
	version         uint64
	clockEdits      uint64

	importOnce sync.Once

	subMu         sync.Mutex
	subs          map[int]chan *usecase.BoardSnapshot
	nextSub       int
	lastPublished uint64
}

// NewTimezoneListServiceImpl builds a board at the current time holding the
// default zones. Unknown defaults are skipped.
func NewTimezoneListServiceImpl(
	catalog repository.CatalogRepository,
	zoneMath repository.ZoneMath,
	location repository.LocationProvider,
	clock clockwork.Clock,
	logger domain.Logger,
	cfg TimezoneListConfig,
) *TimezoneListServiceImpl {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if valueobject.ValidateStep(cfg.MinuteStep) != nil {
		cfg.MinuteStep = valueobject.DefaultMinuteStep
	}
	theme, err := valueobject.ParseTheme(cfg.Theme)
	if err != nil {
		logger.Warn(context.Background(), "Unknown theme, using light", domain.NewField("theme", cfg.Theme))
	}

	now := clock.Now()
	s := &TimezoneListServiceImpl{
		catalog:       catalog,
		zoneMath:      zoneMath,
		location:      location,
		clock:         clock,
		logger:        logger,
		cfg:           cfg,
		sharedInstant: now,
		referenceZone: "UTC",
		selectedDate:  civilDate(now),
		theme:         theme,
		subs:          make(map[int]chan *usecase.BoardSnapshot),
	}

	ctx := context.Background()
	s.mu.Lock()
	rows, err := s.resolveRowsLocked(ctx, cfg.DefaultZones)
	if err != nil {
		logger.Error(ctx, "Failed to load default zones", domain.ErrorField(err))
	}
	s.rows = rows
	if len(rows) > 0 {
		s.referenceZone = rows[0].Entry().Abbreviation()
		s.referenceMinute = rows[0].Zone().MinuteOfDay()
	}
	s.mu.Unlock()

	return s
}

var _ usecase.TimezoneListService = (*TimezoneListServiceImpl)(nil)

// AddZone appends the catalog entry for abbreviation
func (s *TimezoneListServiceImpl) AddZone(ctx context.Context, abbreviation string) (bool, error) {
	var opErr error
	changed := s.mutate(func() bool {
		entry, err := s.catalog.FindByAbbreviation(abbreviation)
		if err != nil {
			if domain.IsErrorCode(err, domain.ErrCodeNotFound) {
				s.logger.Debug(ctx, "Ignoring unknown abbreviation", domain.NewField("abbreviation", abbreviation))
				return false
			}
			opErr = err
			return false
		}

		if s.indexOfLocked(entry.ID()) >= 0 {
			s.logger.Debug(ctx, "Ignoring zone already on the board", domain.NewField("abbreviation", entry.Abbreviation()))
			return false
		}

		row, err := s.newRowLocked(entry)
		if err != nil {
			opErr = err
			return false
		}
		s.rows = append(s.rows, row)
		s.logger.Info(ctx, "Zone added",
			domain.NewField("abbreviation", entry.Abbreviation()),
			domain.NewField("rows", len(s.rows)))
		return true
	})
	return changed, opErr
}

// RemoveZone deletes the row at index
func (s *TimezoneListServiceImpl) RemoveZone(ctx context.Context, index int) bool {
	return s.mutate(func() bool {
		return s.removeLocked(ctx, index)
	})
}

// RemoveZoneByID deletes the row holding id at its current position
func (s *TimezoneListServiceImpl) RemoveZoneByID(ctx context.Context, id string) bool {
	return s.mutate(func() bool {
		return s.removeLocked(ctx, s.indexOfLocked(id))
	})
}

func (s *TimezoneListServiceImpl) removeLocked(ctx context.Context, index int) bool {
	if index < 0 || index >= len(s.rows) {
		return false
	}
	removed := s.rows[index]
	s.rows = append(s.rows[:index:index], s.rows[index+1:]...)
	s.logger.Info(ctx, "Zone removed",
		domain.NewField("abbreviation", removed.Entry().Abbreviation()),
		domain.NewField("index", index))
	return true
}

// Reorder moves the row at source to destination
func (s *TimezoneListServiceImpl) Reorder(ctx context.Context, source int, destination *int) bool {
	return s.mutate(func() bool {
		if destination == nil {
			return false
		}
		dst := *destination
		n := len(s.rows)
		if source < 0 || source >= n || dst < 0 || dst >= n || source == dst {
			return false
		}

		moved := s.rows[source]
		rest := append(s.rows[:source:source], s.rows[source+1:]...)
		reordered := make([]*TimezoneRow, 0, n)
		reordered = append(reordered, rest[:dst]...)
		reordered = append(reordered, moved)
		reordered = append(reordered, rest[dst:]...)
		s.rows = reordered

		s.logger.Debug(ctx, "Zones reordered",
			domain.NewField("source", source),
			domain.NewField("destination", dst))
		return true
	})
}

// ReverseOrder reverses the rows
func (s *TimezoneListServiceImpl) ReverseOrder(ctx context.Context) {
	s.mutate(func() bool {
		for i, j := 0, len(s.rows)-1; i < j; i, j = i+1, j-1 {
			s.rows[i], s.rows[j] = s.rows[j], s.rows[i]
		}
		return true
	})
}

// OnRowClockChange recomposes the shared clock from row index and pushes it to every row
func (s *TimezoneListServiceImpl) OnRowClockChange(ctx context.Context, index int, minute int) (bool, error) {
	var opErr error
	changed := s.mutate(func() bool {
		if index < 0 || index >= len(s.rows) {
			return false
		}

		row := s.rows[index]
		zone := row.Entry().IANAZoneName()
		q := row.Slide(minute)

		localDate, err := s.zoneMath.LocalDate(s.sharedInstant, zone)
		if err != nil {
			opErr = err
			return false
		}
		instant, err := s.zoneMath.ComposeInstant(zone, q, localDate)
		if err != nil {
			opErr = err
			return false
		}

		s.sharedInstant = instant
		s.referenceZone = row.Entry().Abbreviation()
		s.referenceMinute = q
		s.clockEdits++

		for _, r := range s.rows {
			s.projectLocked(ctx, r)
		}

		if back := row.Zone().MinuteOfDay(); back != q {
			s.logger.Debug(ctx, "Requested wall time skipped by a DST transition",
				domain.NewField("abbreviation", row.Entry().Abbreviation()),
				domain.NewField("requested", q.Clock()),
				domain.NewField("shown", back.Clock()))
		}
		return true
	})
	return changed, opErr
}

// SetRowDragging marks a slider gesture on row index
func (s *TimezoneListServiceImpl) SetRowDragging(ctx context.Context, index int, dragging bool) bool {
	return s.mutate(func() bool {
		if index < 0 || index >= len(s.rows) {
			return false
		}
		if s.rows[index].Clock().Dragging() == dragging {
			return false
		}
		s.rows[index].SetDragging(dragging)
		return true
	})
}

// SetSelectedDate changes the display date applied to every row
func (s *TimezoneListServiceImpl) SetSelectedDate(ctx context.Context, date time.Time) {
	s.mutate(func() bool {
		s.selectedDate = civilDate(date)
		return true
	})
}

// ToggleTheme flips the theme
func (s *TimezoneListServiceImpl) ToggleTheme(ctx context.Context) string {
	var theme valueobject.Theme
	s.mutate(func() bool {
		s.theme = s.theme.Toggle()
		theme = s.theme
		return true
	})
	return theme.String()
}

// Tick refreshes every idle row's display clock to now. The shared clock is not touched.
func (s *TimezoneListServiceImpl) Tick(ctx context.Context, now time.Time) int {
	updated := 0
	s.mutate(func() bool {
		for _, r := range s.rows {
			changed, err := r.TickAt(now, s.zoneMath)
			if err != nil {
				s.logger.Warn(ctx, "Failed to refresh row clock",
					domain.NewField("abbreviation", r.Entry().Abbreviation()), domain.ErrorField(err))
				continue
			}
			if changed {
				updated++
			}
		}
		return updated > 0
	})
	return updated
}

// ExportShareableLink returns the link for the current order
func (s *TimezoneListServiceImpl) ExportShareableLink() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.linkLocked().String()
}

// ImportFromLink replaces the rows with the zones named by query
func (s *TimezoneListServiceImpl) ImportFromLink(ctx context.Context, query string) (bool, error) {
	abbrs, present, err := valueobject.ParseShareQuery(query)
	if err != nil {
		return false, domain.ErrShareLinkWithCause("parse", err)
	}
	if !present {
		return false, nil
	}

	var opErr error
	changed := s.mutate(func() bool {
		rows, err := s.resolveRowsLocked(ctx, abbrs)
		if err != nil {
			opErr = err
			return false
		}
		s.rows = rows
		s.logger.Info(ctx, "Board imported from link",
			domain.NewField("requested", len(abbrs)),
			domain.NewField("rows", len(rows)))
		return true
	})
	return changed, opErr
}

// ImportFromLocation imports the location query the board was loaded with
func (s *TimezoneListServiceImpl) ImportFromLocation(ctx context.Context) (bool, error) {
	var (
		changed bool
		err     error
	)
	s.importOnce.Do(func() {
		if s.location == nil {
			return
		}
		changed, err = s.ImportFromLink(ctx, s.location.Query())
	})
	return changed, err
}

// Snapshot returns an immutable copy of the board
func (s *TimezoneListServiceImpl) Snapshot() *usecase.BoardSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Catalog returns the selectable zones in the configured order
func (s *TimezoneListServiceImpl) Catalog() ([]usecase.CatalogOption, error) {
	entries, err := s.catalog.List()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	selected := make(map[string]bool, len(s.rows))
	for _, r := range s.rows {
		selected[r.ID()] = true
	}
	s.mu.Unlock()

	sortCatalog(entries, s.cfg.SortBy, s.cfg.Locale)

	options := make([]usecase.CatalogOption, 0, len(entries))
	for _, e := range entries {
		options = append(options, usecase.CatalogOption{
			ID:           e.ID(),
			Abbreviation: e.Abbreviation(),
			Name:         e.Name(),
			Offset:       e.GMTOffset().Label(),
			Selected:     selected[e.ID()],
		})
	}
	return options, nil
}

// Subscribe registers an observer of board snapshots
func (s *TimezoneListServiceImpl) Subscribe() (<-chan *usecase.BoardSnapshot, func()) {
	ch := make(chan *usecase.BoardSnapshot, 1)

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			close(ch)
			s.subMu.Unlock()
		})
	}
	return ch, cancel
}

// mutate runs fn under the board lock and, when it reports a change,
// publishes the resulting snapshot after the lock is released
func (s *TimezoneListServiceImpl) mutate(fn func() bool) bool {
	s.mu.Lock()
	changed := fn()
	var snap *usecase.BoardSnapshot
	if changed {
		s.version++
		if s.location != nil {
			s.location.ReplaceQuery(s.linkLocked().Query())
		}
		snap = s.snapshotLocked()
	}
	s.mu.Unlock()

	if snap != nil {
		s.publish(snap)
	}
	return changed
}

// publish delivers snap to every subscriber, replacing any snapshot still
// queued. Snapshots older than the last published one are dropped.
func (s *TimezoneListServiceImpl) publish(snap *usecase.BoardSnapshot) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	if snap.Version <= s.lastPublished {
		return
	}
	s.lastPublished = snap.Version

	for _, ch := range s.subs {
		select {
		case ch <- snap:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

func (s *TimezoneListServiceImpl) resolveRowsLocked(ctx context.Context, abbreviations []string) ([]*TimezoneRow, error) {
	rows := make([]*TimezoneRow, 0, len(abbreviations))
	seen := make(map[string]bool, len(abbreviations))

	for _, abbr := range abbreviations {
		entry, err := s.catalog.FindByAbbreviation(abbr)
		if err != nil {
			if domain.IsErrorCode(err, domain.ErrCodeNotFound) {
				s.logger.Debug(ctx, "Dropping unresolved abbreviation", domain.NewField("abbreviation", abbr))
				continue
			}
			return nil, err
		}
		if seen[entry.ID()] {
			continue
		}
		row, err := s.newRowLocked(entry)
		if err != nil {
			s.logger.Warn(ctx, "Dropping zone that cannot be projected",
				domain.NewField("abbreviation", abbr), domain.ErrorField(err))
			continue
		}
		seen[entry.ID()] = true
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *TimezoneListServiceImpl) newRowLocked(entry *entity.TimezoneEntry) (*TimezoneRow, error) {
	minute, displayTime, displayDate, err := s.projection(entry.IANAZoneName())
	if err != nil {
		return nil, err
	}
	return NewTimezoneRow(entity.NewSelectedZone(entry, minute, displayTime, displayDate), s.cfg.MinuteStep), nil
}

func (s *TimezoneListServiceImpl) projectLocked(ctx context.Context, r *TimezoneRow) {
	minute, displayTime, displayDate, err := s.projection(r.Entry().IANAZoneName())
	if err != nil {
		s.logger.Warn(ctx, "Failed to project shared clock",
			domain.NewField("abbreviation", r.Entry().Abbreviation()), domain.ErrorField(err))
		return
	}
	r.Receive(minute, displayTime, displayDate)
}

func (s *TimezoneListServiceImpl) projection(zone string) (valueobject.MinuteOfDay, string, string, error) {
	minute, err := s.zoneMath.ProjectInstant(s.sharedInstant, zone)
	if err != nil {
		return 0, "", "", err
	}
	displayTime, err := s.zoneMath.Format(s.sharedInstant, zone, rowTimeLayout)
	if err != nil {
		return 0, "", "", err
	}
	displayDate, err := s.zoneMath.Format(s.sharedInstant, zone, rowZoneDateLayout)
	if err != nil {
		return 0, "", "", err
	}
	return minute, displayTime, displayDate, nil
}

func (s *TimezoneListServiceImpl) indexOfLocked(id string) int {
	for i, r := range s.rows {
		if r.ID() == id {
			return i
		}
	}
	return -1
}

func (s *TimezoneListServiceImpl) abbreviationsLocked() []string {
	abbrs := make([]string, len(s.rows))
	for i, r := range s.rows {
		abbrs[i] = r.Entry().Abbreviation()
	}
	return abbrs
}

func (s *TimezoneListServiceImpl) linkLocked() *valueobject.ShareLink {
	base := ""
	if s.location != nil {
		base = s.location.BaseURL()
	}
	link, err := valueobject.NewShareLink(base, s.abbreviationsLocked())
	if err != nil {
		// Catalog abbreviations are validated on load, so only a bad base ends up here
		link, _ = valueobject.NewShareLink("", s.abbreviationsLocked())
	}
	return link
}

func (s *TimezoneListServiceImpl) snapshotLocked() *usecase.BoardSnapshot {
	views := make([]usecase.RowView, len(s.rows))
	for i, r := range s.rows {
		views[i] = r.View(i, s.selectedDate)
	}
	return &usecase.BoardSnapshot{
		Rows:            views,
		SelectedDate:    s.selectedDate.Format(pickerDateLayout),
		SelectedDateISO: s.selectedDate.Format(isoDateLayout),
		SharedInstant:   s.sharedInstant,
		ReferenceZone:   s.referenceZone,
		ReferenceMinute: s.referenceMinute.Int(),
		ShareLink:       s.linkLocked().String(),
		Theme:           s.theme.String(),
		MinuteStep:      s.cfg.MinuteStep,
		Version:         s.version,
		ClockEdits:      s.clockEdits,
	}
}

// civilDate keeps only the calendar day of t
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// sortCatalog orders entries in place: "name" collates names for locale,
// "offset" sorts by GMT offset, anything else keeps source order
func sortCatalog(entries []*entity.TimezoneEntry, sortBy, locale string) {
	switch strings.ToLower(sortBy) {
	case "name":
		tag, err := language.Parse(locale)
		if err != nil {
			tag = language.English
		}
		c := collate.New(tag, collate.IgnoreCase)
		sort.SliceStable(entries, func(i, j int) bool {
			return c.CompareString(entries[i].Name(), entries[j].Name()) < 0
		})
	case "offset":
		sort.SliceStable(entries, func(i, j int) bool {
			a, b := entries[i].GMTOffset().Hours(), entries[j].GMTOffset().Hours()
			if a != b {
				return a < b
			}
			return entries[i].Abbreviation() < entries[j].Abbreviation()
		})
	}
}
