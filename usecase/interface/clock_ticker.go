package usecase

import "context"

// ClockTicker periodically refreshes idle rows of a board
type ClockTicker interface {
	// Start begins ticking until ctx is cancelled or Stop is called
	Start(ctx context.Context) error

	// Stop stops ticking and waits for the loop to exit
	Stop()
}
