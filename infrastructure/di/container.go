package di

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/ca-srg/tzconv/domain"
	"github.com/ca-srg/tzconv/domain/repository"
	"github.com/ca-srg/tzconv/infrastructure/config"
	"github.com/ca-srg/tzconv/infrastructure/logging"
	infraRepo "github.com/ca-srg/tzconv/infrastructure/repository"
	"github.com/ca-srg/tzconv/infrastructure/service"
	"github.com/ca-srg/tzconv/interface/cli"
	"github.com/ca-srg/tzconv/interface/controller"
	"github.com/ca-srg/tzconv/interface/presenter"
	"github.com/ca-srg/tzconv/interface/web"
	"github.com/ca-srg/tzconv/usecase/impl"
	usecase "github.com/ca-srg/tzconv/usecase/interface"
	"github.com/jonboulle/clockwork"
)

// Container is the dependency injection container
type Container struct {
	// Configuration
	config        *config.AppConfig
	configRepo    repository.ConfigRepository
	configService usecase.ConfigService

	// Repositories
	catalogRepo repository.CatalogRepository
	metricsRepo repository.MetricsRepository

	// Domain services
	zoneMath repository.ZoneMath
	location *service.StaticLocationProvider
	clock    clockwork.Clock

	// Use Cases
	board          usecase.TimezoneListService
	ticker         usecase.ClockTicker
	metricsService usecase.MetricsService

	// Presenters
	consolePresenter presenter.ConsolePresenter
	jsonPresenter    presenter.JSONPresenter

	// Web
	hub    *web.Hub
	router http.Handler

	// Controllers
	cliController     *cli.CLIController
	serverController  *controller.ServerController
	systrayController *controller.SystrayController

	// Logging
	loggerFactory *logging.LoggerFactoryImpl
	logger        domain.Logger

	// Options
	debugMode bool
	version   string
}

// ContainerOption is a function that configures the container
type ContainerOption func(*Container)

// WithDebugMode sets the debug mode
func WithDebugMode(debug bool) ContainerOption {
	return func(c *Container) {
		c.debugMode = debug
	}
}

// WithVersion sets the version reported by /health
func WithVersion(version string) ContainerOption {
	return func(c *Container) {
		c.version = version
	}
}

// NewContainer creates a new DI container
func NewContainer(opts ...ContainerOption) (*Container, error) {
	container := &Container{}

	// Apply options
	for _, opt := range opts {
		opt(container)
	}

	// Load configuration
	if err := container.initConfig(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	return container.initRest()
}

// initRest builds every component after configuration is settled
func (c *Container) initRest() (*Container, error) {
	// Initialize logging
	if err := c.initLogging(); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	// Initialize repositories
	if err := c.initRepositories(); err != nil {
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	// Initialize domain services
	if err := c.initDomainServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize domain services: %w", err)
	}

	// Initialize use cases
	if err := c.initUseCases(); err != nil {
		return nil, fmt.Errorf("failed to initialize use cases: %w", err)
	}

	// Initialize presenters
	if err := c.initPresenters(); err != nil {
		return nil, fmt.Errorf("failed to initialize presenters: %w", err)
	}

	// Initialize web surface and metrics
	if err := c.initWeb(); err != nil {
		return nil, fmt.Errorf("failed to initialize web: %w", err)
	}
	if err := c.initPrometheus(); err != nil {
		return nil, fmt.Errorf("failed to initialize prometheus: %w", err)
	}

	// Initialize controllers
	if err := c.initControllers(); err != nil {
		return nil, fmt.Errorf("failed to initialize controllers: %w", err)
	}

	return c, nil
}

// initConfig initializes configuration
func (c *Container) initConfig() error {
	if c.configRepo == nil {
		c.configRepo = infraRepo.NewJSONConfigRepository(&logging.NoOpLogger{})
	}

	// Create config service with temporary logger
	configService, err := impl.NewConfigService(c.configRepo, &logging.NoOpLogger{})
	if err != nil {
		// ConfigServiceがないとシステムが動作しないので、エラーを返す
		return fmt.Errorf("failed to create config service: %w", err)
	}
	c.configService = configService

	// Ensure config file exists (create template if needed)
	if err := configService.EnsureConfigExists(); err != nil {
		// デフォルト設定で継続
		fmt.Fprintf(os.Stderr, "Warning: Failed to create config file: %v\n", err)
	}

	if c.config == nil {
		c.config = configService.GetConfig()
	}
	c.applyDebugMode()
	return nil
}

// applyDebugMode overrides logging when -debug is given
func (c *Container) applyDebugMode() {
	if !c.debugMode {
		return
	}
	if c.config.Logging == nil {
		c.config.Logging = config.DefaultConfig().Logging
	}
	c.config.Logging.Debug = true
	c.config.Logging.Level = "debug"
}

// initLogging initializes logging components
func (c *Container) initLogging() error {
	if c.config.Logging == nil {
		c.config.Logging = config.DefaultConfig().Logging
	}

	c.loggerFactory = logging.NewLoggerFactory(c.config.Logging)
	c.logger = c.loggerFactory.CreateLogger("tzconv")
	return nil
}

// initRepositories initializes repository implementations
func (c *Container) initRepositories() error {
	if c.catalogRepo == nil {
		catalogRepo, err := infraRepo.NewCatalogRepository(context.Background(), c.config.Catalog)
		if err != nil {
			return fmt.Errorf("failed to open catalog: %w", err)
		}
		c.catalogRepo = catalogRepo
	}

	if c.metricsRepo == nil {
		if c.config.Prometheus != nil && c.config.Prometheus.RemoteWriteURL != "" {
			metricsRepo, err := infraRepo.NewPrometheusMetricsRepository(c.config.Prometheus)
			if err != nil {
				return fmt.Errorf("failed to create metrics repository: %w", err)
			}
			c.metricsRepo = metricsRepo
		} else {
			c.metricsRepo = infraRepo.NewNoOpMetricsRepository()
		}
	}

	return nil
}

// initDomainServices initializes domain services
func (c *Container) initDomainServices() error {
	zoneMath := service.NewZoneMathImpl(c.CreateLogger("zone-math"))
	c.zoneMath = zoneMath

	unresolved, err := service.UnresolvedZones(c.catalogRepo, zoneMath)
	if err != nil {
		return fmt.Errorf("failed to check catalog zones: %w", err)
	}
	if len(unresolved) > 0 {
		c.logger.Warn(context.Background(), "Catalog zones cannot be loaded and will be skipped",
			domain.NewField("abbreviations", unresolved),
			domain.NewField("catalog", c.catalogRepo.Source()))
	}
	c.location = service.NewStaticLocationProvider(c.config.ShareLinkBase())
	if c.clock == nil {
		c.clock = clockwork.NewRealClock()
	}
	return nil
}

// initUseCases initializes use case implementations
func (c *Container) initUseCases() error {
	board := c.config.Board
	if board == nil {
		board = config.DefaultConfig().Board
	}
	catalog := c.config.Catalog
	if catalog == nil {
		catalog = config.DefaultConfig().Catalog
	}

	c.board = impl.NewTimezoneListServiceImpl(
		c.catalogRepo,
		c.zoneMath,
		c.location,
		c.clock,
		c.CreateLogger("board"),
		impl.TimezoneListConfig{
			DefaultZones: board.DefaultZones,
			MinuteStep:   board.Step(),
			Theme:        board.Theme,
			SortBy:       catalog.SortBy,
			Locale:       catalog.Locale,
		},
	)

	c.ticker = impl.NewClockTickerImpl(c.board, c.clock, board.TickInterval(), c.CreateLogger("ticker"))
	return nil
}

// initPresenters initializes presenter implementations
func (c *Container) initPresenters() error {
	c.consolePresenter = presenter.NewConsolePresenter()
	c.jsonPresenter = presenter.NewJSONPresenter()
	return nil
}

// initWeb initializes the WebSocket hub and the HTTP router
func (c *Container) initWeb() error {
	var origins []string
	if c.config.Server != nil {
		origins = c.config.Server.AllowedOrigins
	}

	hubConfig := web.DefaultHubConfig()
	if len(origins) > 0 {
		hubConfig.AllowedOrigins = origins
	}
	c.hub = web.NewHub(c.board, hubConfig, c.CreateLogger("ws"))

	logger := c.CreateLogger("http")
	c.router = web.NewRouter(
		web.NewHandler(c.board, logger, c.version),
		web.NewPageHandler(c.board, logger),
		c.hub,
		web.RouterConfig{AllowedOrigins: origins},
		logger,
	)
	return nil
}

// initPrometheus initializes Prometheus components
func (c *Container) initPrometheus() error {
	if c.config.Prometheus == nil {
		c.config.Prometheus = config.DefaultConfig().Prometheus
	}

	c.metricsService = impl.NewMetricsServiceImpl(
		c.board,
		c.hub,
		c.metricsRepo,
		c.config.Prometheus,
		c.clock,
		c.CreateLogger("metrics"),
	)
	return nil
}

// initControllers initializes controller implementations
func (c *Container) initControllers() error {
	c.cliController = cli.NewCLIController(c.board, c.consolePresenter, c.jsonPresenter)

	c.serverController = controller.NewServerController(
		c.config,
		c.board,
		c.ticker,
		c.metricsService,
		c.hub,
		c.router,
		c.CreateLogger("server"),
	)

	hideFromDock := c.config.Tray != nil && c.config.Tray.HideFromDock
	c.systrayController = controller.NewSystrayController(
		c.board,
		controller.NewTrayActions(c.board, c.configService, c.CreateLogger("tray")),
		hideFromDock,
		c.CreateLogger("tray"),
	)
	return nil
}

// GetConfig returns the application configuration
func (c *Container) GetConfig() *config.AppConfig {
	return c.config
}

// GetConfigService returns the config service
func (c *Container) GetConfigService() usecase.ConfigService {
	return c.configService
}

// GetCatalogRepository returns the catalog repository
func (c *Container) GetCatalogRepository() repository.CatalogRepository {
	return c.catalogRepo
}

// GetMetricsRepository returns the metrics repository
func (c *Container) GetMetricsRepository() repository.MetricsRepository {
	return c.metricsRepo
}

// GetBoard returns the board service
func (c *Container) GetBoard() usecase.TimezoneListService {
	return c.board
}

// GetMetricsService returns the metrics service
func (c *Container) GetMetricsService() usecase.MetricsService {
	return c.metricsService
}

// GetConsolePresenter returns the console presenter
func (c *Container) GetConsolePresenter() presenter.ConsolePresenter {
	return c.consolePresenter
}

// GetJSONPresenter returns the JSON presenter
func (c *Container) GetJSONPresenter() presenter.JSONPresenter {
	return c.jsonPresenter
}

// GetRouter returns the HTTP handler
func (c *Container) GetRouter() http.Handler {
	return c.router
}

// GetCLIController returns the CLI controller
func (c *Container) GetCLIController() *cli.CLIController {
	return c.cliController
}

// GetServerController returns the server controller
func (c *Container) GetServerController() *controller.ServerController {
	return c.serverController
}

// GetSystrayController returns the menu bar controller
func (c *Container) GetSystrayController() *controller.SystrayController {
	return c.systrayController
}

// GetLogger returns the main logger
func (c *Container) GetLogger() domain.Logger {
	return c.logger
}

// CreateLogger creates a new logger for a specific component
func (c *Container) CreateLogger(component string) domain.Logger {
	if c.loggerFactory == nil {
		return &logging.NoOpLogger{}
	}
	return c.loggerFactory.CreateLogger(component)
}

// Shutdown flushes buffered loggers
func (c *Container) Shutdown() error {
	if c.loggerFactory == nil {
		return nil
	}
	return c.loggerFactory.Shutdown()
}

// Builder pattern for custom container configuration

// ContainerBuilder builds a custom container
type ContainerBuilder struct {
	config      *config.AppConfig
	configRepo  repository.ConfigRepository
	catalogRepo repository.CatalogRepository
	metricsRepo repository.MetricsRepository
	clock       clockwork.Clock
	opts        []ContainerOption
}

// NewContainerBuilder creates a new container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{}
}

// WithConfig sets a custom configuration
func (b *ContainerBuilder) WithConfig(cfg *config.AppConfig) *ContainerBuilder {
	b.config = cfg
	return b
}

// WithConfigRepository sets a custom config repository
func (b *ContainerBuilder) WithConfigRepository(repo repository.ConfigRepository) *ContainerBuilder {
	b.configRepo = repo
	return b
}

// WithCatalogRepository sets a custom catalog repository
func (b *ContainerBuilder) WithCatalogRepository(repo repository.CatalogRepository) *ContainerBuilder {
	b.catalogRepo = repo
	return b
}

// WithMetricsRepository sets a custom metrics repository
func (b *ContainerBuilder) WithMetricsRepository(repo repository.MetricsRepository) *ContainerBuilder {
	b.metricsRepo = repo
	return b
}

// WithClock sets the clock driving the board and tickers
func (b *ContainerBuilder) WithClock(clock clockwork.Clock) *ContainerBuilder {
	b.clock = clock
	return b
}

// WithOptions applies container options
func (b *ContainerBuilder) WithOptions(opts ...ContainerOption) *ContainerBuilder {
	b.opts = append(b.opts, opts...)
	return b
}

// Build builds the container with custom components
func (b *ContainerBuilder) Build() (*Container, error) {
	container := &Container{
		config:      b.config,
		configRepo:  b.configRepo,
		catalogRepo: b.catalogRepo,
		metricsRepo: b.metricsRepo,
		clock:       b.clock,
	}
	for _, opt := range b.opts {
		opt(container)
	}

	if err := container.initConfig(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}
	return container.initRest()
}
