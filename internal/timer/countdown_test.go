package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountdownTicksAndFinishes(t *testing.T) {
	c := NewCountdown()
	c.Configure(3 * time.Second)
	require.Equal(t, StateIdle, c.State())

	cmd := c.Start()
	require.NotNil(t, cmd)
	assert.Equal(t, StateRunning, c.State())

	ticked, finished, next := c.Update(c.currentTick())
	assert.True(t, ticked)
	assert.False(t, finished)
	assert.NotNil(t, next)
	assert.Equal(t, 2*time.Second, c.Remaining())

	c.Update(c.currentTick())
	ticked, finished, _ = c.Update(c.currentTick())
	assert.True(t, ticked)
	assert.True(t, finished)
	assert.Equal(t, time.Duration(0), c.Remaining())

	// Reaching zero does not stop the chain; further ticks stay clamped.
	ticked, finished, _ = c.Update(c.currentTick())
	assert.True(t, ticked)
	assert.True(t, finished)
	assert.Equal(t, time.Duration(0), c.Remaining())
}

func TestCountdownIgnoresStaleTicks(t *testing.T) {
	c := NewCountdown()
	c.Configure(10 * time.Second)
	c.Start()
	stale := c.currentTick()

	c.Pause()
	ticked, _, next := c.Update(stale)
	assert.False(t, ticked)
	assert.Nil(t, next)
	assert.Equal(t, StatePaused, c.State())

	c.Start()
	ticked, _, _ = c.Update(stale)
	assert.False(t, ticked, "restart must drop the previous chain")
	assert.Equal(t, 10*time.Second, c.Remaining())

	other := NewCountdown()
	other.Start()
	ticked, _, _ = c.Update(other.currentTick())
	assert.False(t, ticked)
}

func TestCountdownPauseWhenNotRunning(t *testing.T) {
	c := NewCountdown()
	c.Pause()
	assert.Equal(t, StateIdle, c.State())
}

func TestCountdownEnd(t *testing.T) {
	c := NewCountdown()
	c.Configure(time.Minute)
	c.End()
	assert.Equal(t, StateIdle, c.State(), "an idle countdown stays idle")
	assert.Equal(t, time.Duration(0), c.Remaining())

	c.Configure(time.Minute)
	c.Start()
	tick := c.currentTick()
	c.End()
	assert.Equal(t, StateReset, c.State())
	assert.Equal(t, time.Duration(0), c.Remaining())
	ticked, _, _ := c.Update(tick)
	assert.False(t, ticked)

	c.Configure(time.Minute)
	c.Start()
	c.Pause()
	c.End()
	assert.Equal(t, StateReset, c.State())
}

func TestCountdownAdjustTimeNeverNegative(t *testing.T) {
	for _, start := range []time.Duration{0, time.Second, 90 * time.Second} {
		for _, delta := range []int{-1, -90, -1 << 20} {
			c := NewCountdown()
			c.Configure(start)
			c.AdjustTime(delta)
			assert.GreaterOrEqual(t, c.Remaining(), time.Duration(0))
		}
	}

	c := NewCountdown()
	c.Configure(time.Minute)
	c.AdjustTime(30)
	assert.Equal(t, 90*time.Second, c.Remaining())
	c.AdjustTime(-60)
	assert.Equal(t, 30*time.Second, c.Remaining())
}

func TestCountdownSetTime(t *testing.T) {
	c := NewCountdown()
	c.SetTime(42 * time.Second)
	assert.Equal(t, 42*time.Second, c.Remaining())
	c.SetTime(-time.Second)
	assert.Equal(t, 42*time.Second, c.Remaining())
	c.SetTime(0)
	assert.Equal(t, time.Duration(0), c.Remaining())
}

func TestRunStateText(t *testing.T) {
	text, err := StatePaused.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "paused", string(text))
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "reset", StateReset.String())
}
