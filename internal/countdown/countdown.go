// Package countdown implements a pausable countdown over a single logical
// timer. A periodic tick subtracts the real time elapsed since the previous
// tick, so the remaining duration tracks wall-clock time even when ticks are
// delivered late.
package countdown

import (
	"sync"
	"time"

	"github.com/phrazzld/lingual/internal/clock"
)

// State is the lifecycle state of a Countdown.
type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateExpired
	StateCancelled
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateExpired:
		return "expired"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Countdown decrements a remaining duration on every tick while running and
// calls onExpire exactly once when it reaches zero.
type Countdown struct {
	clock    clock.Clock
	interval time.Duration
	onExpire func()

	mu        sync.Mutex
	state     State
	remaining time.Duration
	lastTick  time.Time
	timer     clock.Timer
	// gen invalidates ticks scheduled before the last pause or cancel.
	gen uint64
}

// New creates an idle countdown that ticks every interval.
// onExpire runs on the ticking goroutine without any countdown lock held.
func New(clk clock.Clock, interval time.Duration, onExpire func()) *Countdown {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	return &Countdown{
		clock:    clk,
		interval: interval,
		onExpire: onExpire,
	}
}

// Start begins counting down from total. It has no effect unless the
// countdown is idle.
func (c *Countdown) Start(total time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateIdle {
		return false
	}
	c.remaining = total
	c.lastTick = c.clock.Now()
	c.state = StateRunning
	c.scheduleLocked()
	return true
}

// Pause freezes the remaining duration. Time elapsed since the last tick is
// not charged.
func (c *Countdown) Pause() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateRunning {
		return false
	}
	c.stopLocked()
	c.state = StatePaused
	return true
}

// Resume continues a paused countdown from its frozen remaining duration.
func (c *Countdown) Resume() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StatePaused {
		return false
	}
	c.lastTick = c.clock.Now()
	c.state = StateRunning
	c.scheduleLocked()
	return true
}

// Extend adds d to the remaining duration of a paused countdown, capped at limit.
func (c *Countdown) Extend(d, limit time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StatePaused || d <= 0 {
		return false
	}
	c.remaining += d
	if c.remaining > limit {
		c.remaining = limit
	}
	return true
}

// Cancel stops the countdown permanently without calling onExpire.
func (c *Countdown) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateExpired || c.state == StateCancelled {
		return false
	}
	c.stopLocked()
	c.state = StateCancelled
	return true
}

// Remaining returns the duration left as of the last tick.
func (c *Countdown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// State returns the current lifecycle state.
func (c *Countdown) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Countdown) scheduleLocked() {
	gen := c.gen
	c.timer = c.clock.AfterFunc(c.interval, func() { c.tick(gen) })
}

func (c *Countdown) stopLocked() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Countdown) tick(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || c.state != StateRunning {
		c.mu.Unlock()
		return
	}

	now := c.clock.Now()
	c.remaining -= now.Sub(c.lastTick)
	c.lastTick = now

	if c.remaining > 0 {
		c.scheduleLocked()
		c.mu.Unlock()
		return
	}

	c.state = StateExpired
	c.timer = nil
	c.mu.Unlock()

	if c.onExpire != nil {
		c.onExpire()
	}
}
