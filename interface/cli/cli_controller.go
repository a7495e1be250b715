package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ca-srg/tzconv/domain"
	"github.com/ca-srg/tzconv/domain/valueobject"
	"github.com/ca-srg/tzconv/interface/presenter"
	usecase "github.com/ca-srg/tzconv/usecase/interface"
)

// Options holds the one-shot board query taken from flags
type Options struct {
	// Timezones replaces the default rows when set
	Timezones []string

	// From and At set the shared clock: row From reads At ("HH:MM")
	From string
	At   string

	// Date is the selected date in YYYY-MM-DD
	Date string

	// Catalog lists the selectable zones instead of the board
	Catalog bool

	JSON bool
}

// CLIController handles command-line interface operations
type CLIController struct {
	board            usecase.TimezoneListService
	consolePresenter presenter.ConsolePresenter
	jsonPresenter    presenter.JSONPresenter
}

// NewCLIController creates a new CLI controller
func NewCLIController(
	board usecase.TimezoneListService,
	consolePresenter presenter.ConsolePresenter,
	jsonPresenter presenter.JSONPresenter,
) *CLIController {
	return &CLIController{
		board:            board,
		consolePresenter: consolePresenter,
		jsonPresenter:    jsonPresenter,
	}
}

// Run applies opts to the board and prints the result
func (c *CLIController) Run(ctx context.Context, opts Options) error {
	if opts.Catalog {
		options, err := c.board.Catalog()
		if err != nil {
			return fmt.Errorf("failed to list catalog: %w", err)
		}
		if opts.JSON {
			return c.jsonPresenter.PrintCatalog(options)
		}
		return c.consolePresenter.PrintCatalog(options)
	}

	if len(opts.Timezones) > 0 {
		query := valueobject.ShareLinkParam + "=" + strings.Join(opts.Timezones, ",")
		if _, err := c.board.ImportFromLink(ctx, query); err != nil {
			return fmt.Errorf("failed to load timezones: %w", err)
		}
	}

	if opts.Date != "" {
		date, err := time.Parse("2006-01-02", opts.Date)
		if err != nil {
			return domain.ErrInvalidInput("date", "must be YYYY-MM-DD")
		}
		c.board.SetSelectedDate(ctx, date)
	}

	if opts.At != "" {
		if err := c.applyClock(ctx, opts.From, opts.At); err != nil {
			return err
		}
	}

	snap := c.board.Snapshot()
	if opts.JSON {
		return c.jsonPresenter.PrintBoard(snap)
	}
	return c.consolePresenter.PrintBoard(snap)
}

// applyClock moves the shared clock so row from reads at. An empty from
// targets the first row.
func (c *CLIController) applyClock(ctx context.Context, from, at string) error {
	minute, err := valueobject.ParseClock(at)
	if err != nil {
		return domain.ErrInvalidInput("at", err.Error())
	}

	snap := c.board.Snapshot()
	if len(snap.Rows) == 0 {
		return domain.ErrInvalidState("board", "empty", "set clock")
	}

	index := 0
	if from != "" {
		index = -1
		for _, row := range snap.Rows {
			if strings.EqualFold(row.Abbreviation, from) {
				index = row.Index
				break
			}
		}
		if index < 0 {
			return domain.ErrNotFound("timezone on board", from)
		}
	}

	if _, err := c.board.OnRowClockChange(ctx, index, minute.Int()); err != nil {
		return fmt.Errorf("failed to set clock: %w", err)
	}
	return nil
}
