package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ca-srg/tzconv/domain"
	usecase "github.com/ca-srg/tzconv/usecase/interface"
)

// MaxTrayRows is the number of row items pre-allocated in the menu
const MaxTrayRows = 12

// TrayActions implements the menu bar commands independent of the menu toolkit
type TrayActions struct {
	board         usecase.TimezoneListService
	configService usecase.ConfigService
	logger        domain.Logger
	out           io.Writer
	openEditor    func(path string) error
}

// NewTrayActions creates tray actions writing user-facing output to stdout
func NewTrayActions(board usecase.TimezoneListService, configService usecase.ConfigService, logger domain.Logger) *TrayActions {
	return &TrayActions{
		board:         board,
		configService: configService,
		logger:        logger,
		out:           os.Stdout,
		openEditor:    openInExternalEditor,
	}
}

// CopyShareLink prints the share link and returns it
func (a *TrayActions) CopyShareLink(ctx context.Context) string {
	link := a.board.ExportShareableLink()
	fmt.Fprintln(a.out, link)
	a.logger.Info(ctx, "Share link exported", domain.NewField("link", link))
	return link
}

// ReverseOrder reverses the board rows
func (a *TrayActions) ReverseOrder(ctx context.Context) {
	a.board.ReverseOrder(ctx)
}

// OpenSettings writes the config file if missing and opens it in an editor
func (a *TrayActions) OpenSettings(ctx context.Context) error {
	if a.configService == nil {
		return domain.ErrInvalidState("tray", "no config service", "open settings")
	}

	a.logger.Info(ctx, "Opening settings in external editor")

	if err := a.configService.EnsureConfigExists(); err != nil {
		return fmt.Errorf("failed to ensure config file: %w", err)
	}

	path := a.configService.GetConfigPath()
	if err := a.openEditor(path); err != nil {
		return fmt.Errorf("failed to open settings: %w", err)
	}

	a.logger.Info(ctx, "Settings opened successfully", domain.NewField("config_path", path))
	return nil
}

// TrayTitle is the menu bar title: the first row's time, or the app name
func TrayTitle(snap *usecase.BoardSnapshot) string {
	if snap == nil || len(snap.Rows) == 0 {
		return "tzconv"
	}
	row := snap.Rows[0]
	return row.Abbreviation + " " + row.DisplayTime
}

// TrayRowLabel is the menu item text for one row
func TrayRowLabel(row usecase.RowView) string {
	return fmt.Sprintf("%s  %s  %s  (%s)", row.Abbreviation, row.DisplayTime, row.DisplayDate, row.Offset)
}

// TrayTooltip summarizes the board
func TrayTooltip(snap *usecase.BoardSnapshot) string {
	if snap == nil || len(snap.Rows) == 0 {
		return "tzconv - no timezones selected"
	}
	names := make([]string, len(snap.Rows))
	for i, row := range snap.Rows {
		names[i] = row.Abbreviation
	}
	return "tzconv - " + strings.Join(names, ", ") + "\n" + snap.SelectedDate
}
