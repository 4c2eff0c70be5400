package interview

import (
	"context"
	"sync"
	"time"
)

// Countdown drives the time limit of the active question.
type Countdown interface {
	// Arm starts a new countdown, replacing any running one. onTick receives
	// the remaining seconds after each tick; onExpire runs once when it
	// reaches zero.
	Arm(seconds int, onTick func(remaining int), onExpire func())
	Cancel()
	Remaining() int
}

// TickerCountdown is a Countdown backed by a goroutine and a ticker.
type TickerCountdown struct {
	interval time.Duration

	mu        sync.Mutex
	cancel    context.CancelFunc
	remaining int
}

func NewTickerCountdown() *TickerCountdown {
	return &TickerCountdown{interval: time.Second}
}

func (c *TickerCountdown) Arm(seconds int, onTick func(remaining int), onExpire func()) {
	ctx, cancel := context.WithCancel(context.Background())

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.cancel = cancel
	c.remaining = seconds
	c.mu.Unlock()

	go c.run(ctx, onTick, onExpire)
}

func (c *TickerCountdown) run(ctx context.Context, onTick func(int), onExpire func()) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			if ctx.Err() != nil {
				c.mu.Unlock()
				return
			}
			if c.remaining > 0 {
				c.remaining--
			}
			left := c.remaining
			c.mu.Unlock()

			if onTick != nil {
				onTick(left)
			}
			if left == 0 {
				if onExpire != nil {
					onExpire()
				}
				return
			}
		}
	}
}

// Cancel stops the running countdown without waiting for its goroutine.
func (c *TickerCountdown) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.remaining = 0
}

func (c *TickerCountdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// warningThreshold is the remaining-seconds mark below which the countdown
// is shown as urgent.
func warningThreshold(limit int) int {
	quarter := limit / 4
	if quarter < 10 {
		return quarter
	}
	return 10
}
