package impl

import (
	"context"
	"fmt"
	"sync"

	"github.com/ca-srg/tzconv/domain"
	"github.com/ca-srg/tzconv/domain/repository"
	"github.com/ca-srg/tzconv/infrastructure/config"
	usecase "github.com/ca-srg/tzconv/usecase/interface"
	"github.com/jonboulle/clockwork"
)

// Metric names
const (
	metricSelectedZones = "tzconv_selected_zones"
	metricClockEdits    = "tzconv_clock_edits_total"
	metricWSClients     = "tzconv_ws_clients"
)

// MetricsServiceImpl implements the MetricsService interface
type MetricsServiceImpl struct {
	board       usecase.TimezoneListService
	clients     usecase.ClientCounter
	metricsRepo repository.MetricsRepository
	config      *config.PrometheusConfig
	clock       clockwork.Clock
	ticker      clockwork.Ticker
	stopChan    chan struct{}
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	logger      domain.Logger
}

// NewMetricsServiceImpl creates a new metrics service implementation.
// clients may be nil when no live clients are served.
func NewMetricsServiceImpl(
	board usecase.TimezoneListService,
	clients usecase.ClientCounter,
	metricsRepo repository.MetricsRepository,
	config *config.PrometheusConfig,
	clock clockwork.Clock,
	logger domain.Logger,
) *MetricsServiceImpl {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MetricsServiceImpl{
		board:       board,
		clients:     clients,
		metricsRepo: metricsRepo,
		config:      config,
		clock:       clock,
		stopChan:    make(chan struct{}),
		isRunning:   false,
		logger:      logger,
	}
}

var _ usecase.MetricsService = (*MetricsServiceImpl)(nil)

// StartPeriodicMetrics starts the periodic metrics collection
func (s *MetricsServiceImpl) StartPeriodicMetrics() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return usecase.NewMetricsServiceError("already_running", "metrics service is already running")
	}

	if s.config == nil {
		return usecase.NewMetricsServiceError("invalid_config", "prometheus config is nil")
	}

	// Don't fail startup due to metrics error
	if err := s.sendMetrics(); err != nil {
		s.logger.Warn(context.Background(), "Failed to send initial metrics", domain.ErrorField(err))
	}

	s.ticker = s.clock.NewTicker(s.config.Interval())
	s.isRunning = true

	s.wg.Add(1)
	go s.runPeriodicMetrics()

	return nil
}

// StopPeriodicMetrics stops the periodic metrics collection
func (s *MetricsServiceImpl) StopPeriodicMetrics() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.stopChan)
	s.wg.Wait()

	// Final push so the last board state is not lost
	if err := s.sendMetrics(); err != nil {
		s.logger.Warn(context.Background(), "Failed to send final metrics", domain.ErrorField(err))
	}

	s.isRunning = false
	s.stopChan = make(chan struct{})

	return nil
}

// SendCurrentMetrics sends the current metrics immediately
func (s *MetricsServiceImpl) SendCurrentMetrics() error {
	return s.sendMetrics()
}

func (s *MetricsServiceImpl) runPeriodicMetrics() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ticker.Chan():
			if err := s.sendMetrics(); err != nil {
				s.logger.Warn(context.Background(), "Failed to send periodic metrics", domain.ErrorField(err))
			}
		case <-s.stopChan:
			return
		}
	}
}

// sendMetrics pushes the board gauges. The first failing gauge aborts the push.
func (s *MetricsServiceImpl) sendMetrics() error {
	ctx := context.Background()

	if s.board == nil {
		return usecase.NewMetricsServiceError("no_board", "no board to report")
	}

	snap := s.board.Snapshot()
	labels := map[string]string{"reference_zone": snap.ReferenceZone}
	host := ""
	if s.config != nil {
		host = s.config.HostLabel
	}

	gauges := []struct {
		name  string
		value float64
	}{
		{metricSelectedZones, float64(len(snap.Rows))},
		{metricClockEdits, float64(snap.ClockEdits)},
	}
	if s.clients != nil {
		gauges = append(gauges, struct {
			name  string
			value float64
		}{metricWSClients, float64(s.clients.ClientCount())})
	}

	for _, g := range gauges {
		if err := s.metricsRepo.SendGauge(g.name, g.value, host, labels); err != nil {
			return fmt.Errorf("failed to send %s: %w", g.name, err)
		}
	}

	s.logger.Debug(ctx, "Sent board metrics",
		domain.NewField("zones", len(snap.Rows)),
		domain.NewField("clock_edits", snap.ClockEdits))
	return nil
}
