// Package timer implements the countdown, session progress and the Session that drives them.
//
// Nothing in this package owns a goroutine. A running Countdown hands out tea.Cmd values that
// produce TickMsg after one interval; the owner of a Session feeds those messages back through
// Session.Update, so all state changes happen on the owner's queue.
package timer

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// RunState is the countdown's lifecycle state.
type RunState int

const (
	StateIdle RunState = iota
	StateRunning
	StatePaused
	StateReset
)

// String returns the lowercase state name.
func (s RunState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateReset:
		return "reset"
	default:
		return "idle"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s RunState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

var lastID atomic.Int64

func nextID() int {
	return int(lastID.Add(1))
}

// TickMsg is produced once per interval while a Countdown runs.
type TickMsg struct {
	ID  int
	tag int
}

// Countdown decrements a remaining duration by one second per tick.
type Countdown struct {
	id        int
	tag       int
	interval  time.Duration
	remaining time.Duration
	state     RunState
}

// NewCountdown returns an idle countdown ticking once per second.
func NewCountdown() *Countdown {
	return &Countdown{id: nextID(), interval: time.Second}
}

// ID identifies the countdown in TickMsg values.
func (c *Countdown) ID() int {
	return c.id
}

// Remaining returns the time left.
func (c *Countdown) Remaining() time.Duration {
	return c.remaining
}

// State returns the run state.
func (c *Countdown) State() RunState {
	return c.state
}

// Configure sets the remaining time.
func (c *Countdown) Configure(d time.Duration) {
	c.remaining = d
}

// Start begins ticking and returns the first tick command. Any earlier tick chain is dropped.
func (c *Countdown) Start() tea.Cmd {
	c.tag++
	c.state = StateRunning
	return c.tick()
}

// Pause stops ticking without touching the remaining time.
func (c *Countdown) Pause() {
	if c.state != StateRunning {
		return
	}
	c.tag++
	c.state = StatePaused
}

// End stops ticking and clears the remaining time. Only a started countdown moves to StateReset.
func (c *Countdown) End() {
	c.tag++
	c.remaining = 0
	if c.state == StateRunning || c.state == StatePaused {
		c.state = StateReset
	}
}

// AdjustTime adds seconds to the remaining time, never going below zero.
func (c *Countdown) AdjustTime(deltaSeconds int) {
	c.remaining += time.Duration(deltaSeconds) * time.Second
	if c.remaining < 0 {
		c.remaining = 0
	}
}

// SetTime overwrites the remaining time. Negative durations are ignored.
func (c *Countdown) SetTime(d time.Duration) {
	if d < 0 {
		return
	}
	c.remaining = d
}

// Update applies a tick. Ticks addressed to another countdown or to a dropped chain are ignored.
// It reports whether a second elapsed, whether the countdown reached zero, and the next tick.
// Reaching zero does not stop ticking; the caller pauses when it handles the finish.
func (c *Countdown) Update(msg TickMsg) (ticked, finished bool, next tea.Cmd) {
	if msg.ID != c.id || msg.tag != c.tag || c.state != StateRunning {
		return false, false, nil
	}
	c.remaining -= time.Second
	if c.remaining < 0 {
		c.remaining = 0
	}
	return true, c.remaining <= 0, c.tick()
}

func (c *Countdown) currentTick() TickMsg {
	return TickMsg{ID: c.id, tag: c.tag}
}

func (c *Countdown) tick() tea.Cmd {
	msg := c.currentTick()
	return tea.Tick(c.interval, func(time.Time) tea.Msg {
		return msg
	})
}
