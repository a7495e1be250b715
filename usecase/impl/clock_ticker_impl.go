package impl

import (
	"context"
	"sync"
	"time"

	"github.com/ca-srg/tzconv/domain"
	usecase "github.com/ca-srg/tzconv/usecase/interface"
	"github.com/jonboulle/clockwork"
)

// ClockTickerImpl drives a board's idle row refresh from one shared timer
type ClockTickerImpl struct {
	board    usecase.TimezoneListService
	clock    clockwork.Clock
	interval time.Duration
	logger   domain.Logger

	mu        sync.Mutex
	isRunning bool
	stopChan  chan struct{}
	wg        sync.WaitGroup
}

// NewClockTickerImpl creates a ticker refreshing board every interval
func NewClockTickerImpl(
	board usecase.TimezoneListService,
	clock clockwork.Clock,
	interval time.Duration,
	logger domain.Logger,
) *ClockTickerImpl {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &ClockTickerImpl{
		board:    board,
		clock:    clock,
		interval: interval,
		logger:   logger,
	}
}

var _ usecase.ClockTicker = (*ClockTickerImpl)(nil)

// Start begins ticking until ctx is cancelled or Stop is called
func (t *ClockTickerImpl) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.isRunning {
		return domain.ErrInvalidState("clock ticker", "running", "start")
	}
	if t.interval <= 0 {
		return domain.ErrInvalidInput("tick interval", "must be positive")
	}

	ticker := t.clock.NewTicker(t.interval)
	t.stopChan = make(chan struct{})
	t.isRunning = true

	t.wg.Add(1)
	go t.run(ctx, ticker, t.stopChan)

	t.logger.Debug(ctx, "Clock ticker started", domain.NewField("interval", t.interval.String()))
	return nil
}

// Stop stops ticking and waits for the loop to exit
func (t *ClockTickerImpl) Stop() {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return
	}
	close(t.stopChan)
	t.isRunning = false
	t.mu.Unlock()

	t.wg.Wait()
}

func (t *ClockTickerImpl) run(ctx context.Context, ticker clockwork.Ticker, stop <-chan struct{}) {
	defer t.wg.Done()
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			updated := t.board.Tick(ctx, t.clock.Now())
			if updated > 0 {
				t.logger.Debug(ctx, "Rows refreshed", domain.NewField("rows", updated))
			}
		case <-stop:
			return
		case <-ctx.Done():
			t.mu.Lock()
			t.isRunning = false
			t.mu.Unlock()
			return
		}
	}
}
