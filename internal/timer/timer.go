// Package timer derives a live countdown from the absolute round deadline the
// server announces. Each tick recomputes remaining = max(0, deadline-now) from
// the wall clock, so the display stays correct however late the round_started
// message arrived and however long the process stalls between ticks.
package timer

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const (
	// DisplayIdle is shown while the lobby is waiting for a game.
	DisplayIdle = "--:--"
	// DisplayDone is the pinned terminal value once a game finishes.
	DisplayDone = "00:00"
)

// Tick carries one recomputed countdown value. Epoch tags the round the tick
// belongs to so consumers can discard ticks from a superseded countdown.
type Tick struct {
	Epoch     uuid.UUID
	Remaining time.Duration
	Display   string
}

// Countdown runs at most one ticking goroutine at a time. Start and Stop must
// be called from a single goroutine (the session loop); ticks arrive on Ticks.
type Countdown struct {
	clock  clockwork.Clock
	out    chan Tick
	cancel context.CancelFunc
}

func New(clock clockwork.Clock) *Countdown {
	return &Countdown{clock: clock, out: make(chan Tick, 4)}
}

func (c *Countdown) Ticks() <-chan Tick { return c.out }

// Start begins a once-per-second recomputation against deadline, replacing
// any countdown already running.
func (c *Countdown) Start(ctx context.Context, deadline time.Time, epoch uuid.UUID) {
	c.Stop()
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	go c.run(runCtx, deadline, epoch)
}

// Stop cancels the running countdown. Safe to call when nothing is running.
func (c *Countdown) Stop() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Countdown) run(ctx context.Context, deadline time.Time, epoch uuid.UUID) {
	ticker := c.clock.NewTicker(time.Second)
	defer ticker.Stop()

	if done := c.emit(deadline, epoch); done {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if done := c.emit(deadline, epoch); done {
				return
			}
		}
	}
}

// emit recomputes and publishes one tick. A full outbox is skipped rather
// than blocked on; the next tick recomputes from the clock anyway. Returns
// true once the deadline has passed, after the zero tick is published.
func (c *Countdown) emit(deadline time.Time, epoch uuid.UUID) bool {
	remaining := deadline.Sub(c.clock.Now())
	if remaining < 0 {
		remaining = 0
	}
	select {
	case c.out <- Tick{Epoch: epoch, Remaining: remaining, Display: Format(remaining)}:
	default:
	}
	return remaining == 0
}

// Format renders a duration as minutes:seconds, rounding partial seconds up
// so the display never undercounts the time left.
func Format(remaining time.Duration) string {
	secs := int(math.Ceil(remaining.Seconds()))
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
