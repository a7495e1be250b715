//go:build darwin
// +build darwin

package controller

import (
	"context"

	"github.com/ca-srg/tzconv/domain"
	usecase "github.com/ca-srg/tzconv/usecase/interface"
	"github.com/getlantern/systray"
)

// SystrayController shows the board in the macOS menu bar
type SystrayController struct {
	board        usecase.TimezoneListService
	actions      *TrayActions
	logger       domain.Logger
	hideFromDock bool

	// Menu items
	rowItems     []*systray.MenuItem
	linkItem     *systray.MenuItem
	reverseItem  *systray.MenuItem
	settingsItem *systray.MenuItem
	quitItem     *systray.MenuItem
}

// NewSystrayController creates a new system tray controller
func NewSystrayController(board usecase.TimezoneListService, actions *TrayActions, hideFromDock bool, logger domain.Logger) *SystrayController {
	return &SystrayController{
		board:        board,
		actions:      actions,
		logger:       logger,
		hideFromDock: hideFromDock,
	}
}

// Run shows the menu and blocks until Quit is clicked or ctx is cancelled.
// Must be called from the main goroutine.
func (s *SystrayController) Run(ctx context.Context) error {
	if s.hideFromDock {
		HideFromDock()
		s.logger.Info(ctx, "Application hidden from Dock")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-ctx.Done()
		systray.Quit()
	}()

	systray.Run(func() { s.onReady(ctx, cancel) }, func() {
		s.logger.Info(ctx, "Menu bar stopped")
	})
	return nil
}

func (s *SystrayController) onReady(ctx context.Context, quit context.CancelFunc) {
	systray.SetTitle("tzconv")
	systray.SetTooltip("tzconv - timezone board")

	s.rowItems = make([]*systray.MenuItem, MaxTrayRows)
	for i := range s.rowItems {
		s.rowItems[i] = systray.AddMenuItem("", "")
		s.rowItems[i].Disable()
		s.rowItems[i].Hide()
	}
	systray.AddSeparator()
	s.linkItem = systray.AddMenuItem("Copy share link", "Print the share link for the current board")
	s.reverseItem = systray.AddMenuItem("Reverse order", "Reverse the timezone order")
	systray.AddSeparator()
	s.settingsItem = systray.AddMenuItem("Settings...", "Open the configuration file")
	systray.AddSeparator()
	s.quitItem = systray.AddMenuItem("Quit", "Quit the application")

	updates, unsubscribe := s.board.Subscribe()
	s.render(s.board.Snapshot())

	go func() {
		defer unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case snap, ok := <-updates:
				if !ok {
					return
				}
				s.render(snap)
			}
		}
	}()

	go s.handleMenuClicks(ctx, quit)
}

func (s *SystrayController) render(snap *usecase.BoardSnapshot) {
	systray.SetTitle(TrayTitle(snap))
	systray.SetTooltip(TrayTooltip(snap))

	for i, item := range s.rowItems {
		if i < len(snap.Rows) {
			item.SetTitle(TrayRowLabel(snap.Rows[i]))
			item.Show()
		} else {
			item.Hide()
		}
	}
}

func (s *SystrayController) handleMenuClicks(ctx context.Context, quit context.CancelFunc) {
	for {
		select {
		case <-ctx.Done():
			return

		case <-s.linkItem.ClickedCh:
			link := s.actions.CopyShareLink(ctx)
			systray.SetTooltip("Share link: " + link)

		case <-s.reverseItem.ClickedCh:
			s.actions.ReverseOrder(ctx)

		case <-s.settingsItem.ClickedCh:
			if err := s.actions.OpenSettings(ctx); err != nil {
				s.logger.Error(ctx, "Failed to open settings", domain.ErrorField(err))
				systray.SetTooltip("Error: " + err.Error())
			}

		case <-s.quitItem.ClickedCh:
			s.logger.Info(ctx, "Quit button clicked")
			quit()
			return
		}
	}
}
