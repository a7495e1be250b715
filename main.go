package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/ca-srg/tzconv/domain"
	"github.com/ca-srg/tzconv/domain/repository"
	"github.com/ca-srg/tzconv/infrastructure/di"
	infraRepo "github.com/ca-srg/tzconv/infrastructure/repository"
	"github.com/ca-srg/tzconv/interface/cli"
	"github.com/joho/godotenv"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

type options struct {
	cliMode       bool
	trayMode      bool
	debugMode     bool
	showConfig    bool
	showVersion   bool
	exportCatalog string
	cli           cli.Options
}

func parseFlags(args []string, output io.Writer) (*options, error) {
	fs := flag.NewFlagSet("tzconv", flag.ContinueOnError)
	fs.SetOutput(output)

	opts := &options{}
	var timezones string
	fs.BoolVar(&opts.cliMode, "cli", false, "Print the board once and exit (default is server mode)")
	fs.BoolVar(&opts.trayMode, "tray", false, "Show the board in the menu bar while serving (macOS only)")
	fs.BoolVar(&opts.debugMode, "debug", false, "Enable debug logging to stdout")
	fs.BoolVar(&opts.showConfig, "config", false, "Print the effective configuration and exit")
	fs.BoolVar(&opts.showVersion, "version", false, "Print the version and exit")
	fs.StringVar(&opts.exportCatalog, "export-catalog", "", "Write the active catalog to a .yaml, .db or .csv file and exit")
	fs.StringVar(&timezones, "timezones", "", "Comma-separated abbreviations to show (CLI mode)")
	fs.StringVar(&opts.cli.From, "from", "", "Abbreviation whose clock -at sets (CLI mode, default first row)")
	fs.StringVar(&opts.cli.At, "at", "", "Wall time HH:MM for the -from zone (CLI mode)")
	fs.StringVar(&opts.cli.Date, "date", "", "Selected date YYYY-MM-DD (CLI mode)")
	fs.BoolVar(&opts.cli.JSON, "json", false, "Print JSON instead of a table (CLI mode)")
	fs.BoolVar(&opts.cli.Catalog, "catalog", false, "List the selectable timezones (CLI mode)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	if timezones != "" {
		for _, tz := range strings.Split(timezones, ",") {
			if tz = strings.TrimSpace(tz); tz != "" {
				opts.cli.Timezones = append(opts.cli.Timezones, tz)
			}
		}
	}
	// Board query flags imply CLI mode
	if opts.cli.Catalog || opts.cli.From != "" || opts.cli.At != "" || opts.cli.Date != "" || opts.cli.JSON || len(opts.cli.Timezones) > 0 {
		opts.cliMode = true
	}
	if opts.cli.From != "" && opts.cli.At == "" {
		return nil, errors.New("-from requires -at")
	}
	if opts.cliMode && opts.trayMode {
		return nil, errors.New("-cli and -tray cannot be combined")
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	if opts.showVersion {
		fmt.Println(version)
		return
	}

	// .env is optional
	_ = godotenv.Load()

	containerOpts := []di.ContainerOption{di.WithVersion(version)}
	if opts.debugMode {
		containerOpts = append(containerOpts, di.WithDebugMode(true))
	}

	container, err := di.NewContainer(containerOpts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, container, opts)
	stop()

	if err := container.Shutdown(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to flush logs: %v\n", err)
	}
	os.Exit(code)
}

func run(ctx context.Context, container *di.Container, opts *options) int {
	console := container.GetConsolePresenter()

	switch {
	case opts.showConfig:
		if err := console.PrintConfig(container.GetConfigService().ExportConfig()); err != nil {
			console.PrintError(err)
			return 1
		}
		return 0

	case opts.exportCatalog != "":
		if err := exportCatalog(ctx, container.GetCatalogRepository(), opts.exportCatalog); err != nil {
			console.PrintError(err)
			return 1
		}
		fmt.Printf("Catalog written to %s\n", opts.exportCatalog)
		return 0

	case opts.cliMode:
		if err := container.GetCLIController().Run(ctx, opts.cli); err != nil {
			console.PrintError(err)
			return 1
		}
		return 0

	case opts.trayMode:
		return runTrayMode(ctx, container)

	default:
		return runServerMode(ctx, container)
	}
}

// runServerMode serves the board until a signal arrives
func runServerMode(ctx context.Context, container *di.Container) int {
	logger := container.CreateLogger("main")
	if err := container.GetServerController().Run(ctx); err != nil {
		logger.Error(ctx, "Server failed", domain.ErrorField(err))
		return 1
	}
	return 0
}

// runTrayMode serves the board and runs the menu bar on the main goroutine
func runTrayMode(ctx context.Context, container *di.Container) int {
	logger := container.CreateLogger("main")
	server := container.GetServerController()

	if err := server.Start(ctx); err != nil {
		logger.Error(ctx, "Failed to start server", domain.ErrorField(err))
		return 1
	}

	code := 0
	if err := container.GetSystrayController().Run(ctx); err != nil {
		logger.Error(ctx, "Menu bar unavailable", domain.ErrorField(err))
		code = 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Failed to stop server", domain.ErrorField(err))
		code = 1
	}
	return code
}

// exportCatalog writes every catalog entry to path, choosing the format by extension
func exportCatalog(ctx context.Context, catalog repository.CatalogRepository, path string) error {
	entries, err := catalog.List()
	if err != nil {
		return fmt.Errorf("failed to list catalog: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return infraRepo.WriteYAMLCatalog(path, entries)
	case ".db", ".sqlite", ".sqlite3":
		return infraRepo.WriteSQLiteCatalog(ctx, path, entries)
	case ".csv":
		return infraRepo.WriteCSVCatalog(path, entries)
	default:
		return domain.ErrInvalidInput("export-catalog", "file extension must be .yaml, .yml, .db, .sqlite, .sqlite3 or .csv")
	}
}
