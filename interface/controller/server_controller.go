package controller

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/ca-srg/tzconv/domain"
	"github.com/ca-srg/tzconv/infrastructure/config"
	usecase "github.com/ca-srg/tzconv/usecase/interface"
)

// Hub is the live push surface started alongside the HTTP server
type Hub interface {
	Start(ctx context.Context)
	Done() <-chan struct{}
}

// ServerController manages the HTTP server lifecycle together with the
// board ticker, the WebSocket hub and periodic metrics
type ServerController struct {
	config         *config.AppConfig
	board          usecase.TimezoneListService
	ticker         usecase.ClockTicker
	metricsService usecase.MetricsService
	hub            Hub
	handler        http.Handler
	logger         domain.Logger

	mu            sync.Mutex
	server        *http.Server
	listener      net.Listener
	cancel        context.CancelFunc
	serveErr      chan error
	metricsActive bool
}

// NewServerController creates a new server controller. metricsService may be nil.
func NewServerController(
	cfg *config.AppConfig,
	board usecase.TimezoneListService,
	ticker usecase.ClockTicker,
	metricsService usecase.MetricsService,
	hub Hub,
	handler http.Handler,
	logger domain.Logger,
) *ServerController {
	if cfg.Server == nil {
		cfg.Server = config.DefaultConfig().Server
	}
	return &ServerController{
		config:         cfg,
		board:          board,
		ticker:         ticker,
		metricsService: metricsService,
		hub:            hub,
		handler:        handler,
		logger:         logger,
	}
}

// Start binds the listener and starts serving in the background
func (s *ServerController) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return domain.ErrInvalidState("server", "running", "start")
	}

	s.logger.Info(ctx, "Starting tzconv server...", domain.NewField("addr", s.config.ListenAddr()))

	if _, err := s.board.ImportFromLocation(ctx); err != nil {
		s.logger.Warn(ctx, "Failed to import initial share link", domain.ErrorField(err))
	}

	listener, err := net.Listen("tcp", s.config.ListenAddr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddr(), err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.listener = listener

	s.hub.Start(runCtx)

	if err := s.ticker.Start(runCtx); err != nil {
		cancel()
		_ = listener.Close()
		return fmt.Errorf("failed to start clock ticker: %w", err)
	}

	if s.metricsEnabled() {
		if err := s.metricsService.StartPeriodicMetrics(); err != nil {
			s.logger.Error(ctx, "Failed to start periodic metrics", domain.ErrorField(err))
		} else {
			s.metricsActive = true
		}
	}

	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.timeout(s.config.Server.ReadTimeoutSec),
		ReadTimeout:       s.timeout(s.config.Server.ReadTimeoutSec),
		WriteTimeout:      s.timeout(s.config.Server.WriteTimeoutSec),
	}

	s.serveErr = make(chan error, 1)
	go func(server *http.Server) {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.serveErr <- err
		}
		close(s.serveErr)
	}(s.server)

	s.logger.Info(ctx, "Server started successfully",
		domain.NewField("addr", listener.Addr().String()),
		domain.NewField("share_link", s.board.ExportShareableLink()))
	return nil
}

// Run starts the server and blocks until ctx is cancelled or serving fails
func (s *ServerController) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-s.serveErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeout(s.config.Server.ShutdownTimeoutSec))
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return serveErr
}

// Addr returns the bound listen address, or "" before Start
func (s *ServerController) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown stops the server gracefully
func (s *ServerController) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}

	s.logger.Info(ctx, "Stopping tzconv server...")

	err := s.server.Shutdown(ctx)

	s.ticker.Stop()
	if s.metricsActive {
		if stopErr := s.metricsService.StopPeriodicMetrics(); stopErr != nil {
			s.logger.Error(ctx, "Failed to stop periodic metrics", domain.ErrorField(stopErr))
		}
		s.metricsActive = false
	}

	s.cancel()
	select {
	case <-s.hub.Done():
	case <-ctx.Done():
	}

	s.server = nil
	s.listener = nil

	if err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	s.logger.Info(ctx, "Server stopped successfully")
	return nil
}

func (s *ServerController) metricsEnabled() bool {
	return s.metricsService != nil && s.config.Prometheus != nil && s.config.Prometheus.RemoteWriteURL != ""
}

func (s *ServerController) timeout(sec int) time.Duration {
	if sec <= 0 {
		return 10 * time.Second
	}
	return time.Duration(sec) * time.Second
}
