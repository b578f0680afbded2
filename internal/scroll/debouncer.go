// Package scroll turns raw wheel deltas into rate-limited navigation steps.
package scroll

import (
	"time"
)

const (
	DefaultThreshold = 100.0
	DefaultCooldown  = 2 * time.Second
)

// Direction is a navigation step: Forward (+1) or Back (-1).
type Direction int

const (
	Back    Direction = -1
	Forward Direction = 1
)

type State int

const (
	Idle State = iota
	Cooldown
)

func (s State) String() string {
	if s == Cooldown {
		return "cooldown"
	}
	return "idle"
}

// Debouncer accumulates scroll magnitude until it crosses a threshold, then
// emits one Direction and ignores all input for the cooldown window.
// Events that arrive during cooldown are dropped, not queued.
type Debouncer struct {
	threshold   float64
	cooldown    time.Duration
	accumulated float64
	until       time.Time
	now         func() time.Time
}

type Option func(*Debouncer)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(d *Debouncer) {
		d.now = now
	}
}

func New(threshold float64, cooldown time.Duration, opts ...Option) *Debouncer {
	d := &Debouncer{
		threshold: threshold,
		cooldown:  cooldown,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Feed processes one raw delta. Positive deltas scroll forward.
// It returns the direction and true when a step fires.
func (d *Debouncer) Feed(delta float64) (Direction, bool) {
	if d.State() == Cooldown {
		return 0, false
	}
	if delta < 0 {
		d.accumulated -= delta
	} else {
		d.accumulated += delta
	}
	if d.accumulated < d.threshold {
		return 0, false
	}

	dir := Back
	if delta > 0 {
		dir = Forward
	}
	d.accumulated = 0
	d.until = d.now().Add(d.cooldown)
	return dir, true
}

func (d *Debouncer) State() State {
	if d.until.IsZero() {
		return Idle
	}
	if d.now().Before(d.until) {
		return Cooldown
	}
	d.until = time.Time{}
	return Idle
}

func (d *Debouncer) Accumulated() float64 {
	return d.accumulated
}

func (d *Debouncer) Threshold() float64 {
	return d.threshold
}

func (d *Debouncer) Cooldown() time.Duration {
	return d.cooldown
}

// SetThreshold takes effect on the next Feed.
func (d *Debouncer) SetThreshold(threshold float64) {
	d.threshold = threshold
}

// SetCooldown applies to the next cooldown window; a running one keeps its deadline.
func (d *Debouncer) SetCooldown(cooldown time.Duration) {
	d.cooldown = cooldown
}

// Reset clears the accumulator and cancels any pending cooldown.
func (d *Debouncer) Reset() {
	d.accumulated = 0
	d.until = time.Time{}
}
