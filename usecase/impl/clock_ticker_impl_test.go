package impl

import (
	"context"
	"testing"
	"time"

	"github.com/ca-srg/tzconv/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockTicker_RefreshesIdleRows(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	f := newBoardFixture(t, testBase, "IST", "UTC")
	updates, unsubscribe := f.board.Subscribe()
	defer unsubscribe()

	ticker := NewClockTickerImpl(f.board, f.clock, time.Minute, f.logger)
	require.NoError(t, ticker.Start(ctx))
	defer ticker.Stop()

	require.NoError(t, f.clock.BlockUntilContext(ctx, 1))
	f.clock.Advance(time.Minute)

	select {
	case snap := <-updates:
		assert.Equal(t, "05:31", snap.Rows[0].Clock)
		assert.Equal(t, "00:01", snap.Rows[1].Clock)
		assert.True(t, snap.SharedInstant.Equal(boardEpoch))
	case <-ctx.Done():
		t.Fatal("no snapshot after tick")
	}
}

func TestClockTicker_StartTwice(t *testing.T) {
	f := newBoardFixture(t, testBase, "UTC")
	ticker := NewClockTickerImpl(f.board, f.clock, time.Minute, f.logger)

	require.NoError(t, ticker.Start(context.Background()))
	defer ticker.Stop()

	err := ticker.Start(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidState))
}

func TestClockTicker_InvalidInterval(t *testing.T) {
	f := newBoardFixture(t, testBase, "UTC")
	ticker := NewClockTickerImpl(f.board, f.clock, 0, f.logger)

	err := ticker.Start(context.Background())
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidInput))
}

func TestClockTicker_StopIsIdempotent(t *testing.T) {
	f := newBoardFixture(t, testBase, "UTC")
	ticker := NewClockTickerImpl(f.board, f.clock, time.Minute, f.logger)

	ticker.Stop()
	require.NoError(t, ticker.Start(context.Background()))
	ticker.Stop()
	ticker.Stop()

	require.NoError(t, ticker.Start(context.Background()), "ticker can restart after stop")
	ticker.Stop()
}
