package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakMinutesFor(t *testing.T) {
	tests := []struct {
		name  string
		focus int
		want  int
	}{
		{name: "floor of one", focus: 1, want: 1},
		{name: "rounds down", focus: 7, want: 1},
		{name: "rounds up", focus: 8, want: 2},
		{name: "default focus", focus: 5, want: 1},
		{name: "classic pomodoro", focus: 25, want: 5},
		{name: "long focus", focus: 52, want: 10},
		{name: "long focus rounds up", focus: 53, want: 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BreakMinutesFor(tt.focus))
		})
	}
}

func TestSetFocusDurationDerivesBreak(t *testing.T) {
	for f := 1; f <= 120; f++ {
		c := NewIntervalClock(DefaultFocusMinutes)
		c.SetFocusDuration(f)
		want := max(1, (f+2)/5)
		require.Equal(t, want*60, c.BreakSeconds(), "focus %d", f)
	}
}

func TestNewIntervalClockDefaults(t *testing.T) {
	c := NewIntervalClock(DefaultFocusMinutes)

	assert.Equal(t, Snapshot{
		RemainingSeconds: 300,
		Phase:            PhaseFocus,
		Running:          false,
		SessionIndex:     0,
		FocusSeconds:     300,
		BreakSeconds:     60,
	}, c.Snapshot())
}

func TestAdvanceDecrements(t *testing.T) {
	c := NewIntervalClock(DefaultFocusMinutes)

	completed := c.Advance()

	assert.False(t, completed)
	assert.Equal(t, 299, c.Remaining())
	assert.Equal(t, PhaseFocus, c.Phase())
}

func TestAdvanceFocusToBreak(t *testing.T) {
	c := NewIntervalClock(DefaultFocusMinutes)
	c.remaining = 1

	completed := c.Advance()

	assert.True(t, completed)
	assert.Equal(t, PhaseBreak, c.Phase())
	assert.Equal(t, c.BreakSeconds(), c.Remaining())
	assert.Equal(t, 0, c.SessionIndex())
}

func TestAdvanceBreakToFocus(t *testing.T) {
	c := NewIntervalClock(DefaultFocusMinutes)
	c.phase = PhaseBreak
	c.remaining = 1
	c.sessionIndex = 3

	completed := c.Advance()

	assert.True(t, completed)
	assert.Equal(t, PhaseFocus, c.Phase())
	assert.Equal(t, c.FocusSeconds(), c.Remaining())
	assert.Equal(t, 4, c.SessionIndex())
}

func TestAdvanceFromZeroTransitions(t *testing.T) {
	c := NewIntervalClock(DefaultFocusMinutes)
	c.remaining = 0

	assert.True(t, c.Advance())
	assert.Equal(t, PhaseBreak, c.Phase())
	assert.Equal(t, 60, c.Remaining())
}

func TestAdvanceIgnoresRunningFlag(t *testing.T) {
	c := NewIntervalClock(DefaultFocusMinutes)
	require.False(t, c.Running())

	c.Advance()

	assert.Equal(t, 299, c.Remaining())
}

func TestFullCycle(t *testing.T) {
	c := NewIntervalClock(DefaultFocusMinutes)
	c.Start()
	assert.True(t, c.Running())

	signals := 0
	for i := 0; i < 300; i++ {
		if c.Advance() {
			signals++
		}
		require.GreaterOrEqual(t, c.Remaining(), 1)
	}
	assert.Equal(t, 1, signals)
	assert.Equal(t, PhaseBreak, c.Phase())
	assert.Equal(t, 60, c.Remaining())
	assert.Equal(t, 0, c.SessionIndex())

	for i := 0; i < 60; i++ {
		if c.Advance() {
			signals++
		}
	}
	assert.Equal(t, 2, signals)
	assert.Equal(t, PhaseFocus, c.Phase())
	assert.Equal(t, 300, c.Remaining())
	assert.Equal(t, 1, c.SessionIndex())
}

func TestSetFocusDuration(t *testing.T) {
	t.Run("stopped in focus resets countdown", func(t *testing.T) {
		c := NewIntervalClock(DefaultFocusMinutes)
		c.Advance()

		c.SetFocusDuration(25)

		assert.Equal(t, 5, c.BreakMinutes())
		assert.Equal(t, 300, c.BreakSeconds())
		assert.Equal(t, 1500, c.Remaining())
	})

	t.Run("running keeps countdown", func(t *testing.T) {
		c := NewIntervalClock(DefaultFocusMinutes)
		c.Start()
		c.Advance()

		c.SetFocusDuration(25)

		assert.Equal(t, 299, c.Remaining())
		assert.Equal(t, 1500, c.FocusSeconds())
	})

	t.Run("break keeps countdown until next focus", func(t *testing.T) {
		c := NewIntervalClock(DefaultFocusMinutes)
		c.phase = PhaseBreak
		c.remaining = 2

		c.SetFocusDuration(10)

		assert.Equal(t, 2, c.Remaining())
		c.Advance()
		c.Advance()
		assert.Equal(t, PhaseFocus, c.Phase())
		assert.Equal(t, 600, c.Remaining())
	})
}

func TestReset(t *testing.T) {
	c := NewIntervalClock(10)
	c.Start()
	c.phase = PhaseBreak
	c.remaining = 17
	c.sessionIndex = 6

	c.Reset()

	assert.Equal(t, Snapshot{
		RemainingSeconds: 600,
		Phase:            PhaseFocus,
		Running:          false,
		SessionIndex:     0,
		FocusSeconds:     600,
		BreakSeconds:     120,
	}, c.Snapshot())
}

func TestStartPauseIdempotent(t *testing.T) {
	once := NewIntervalClock(DefaultFocusMinutes)
	once.Start()
	twice := NewIntervalClock(DefaultFocusMinutes)
	twice.Start()
	twice.Start()
	assert.Equal(t, once.Snapshot(), twice.Snapshot())

	once.Pause()
	twice.Pause()
	twice.Pause()
	assert.Equal(t, once.Snapshot(), twice.Snapshot())
}

func TestSnapshotJSON(t *testing.T) {
	c := NewIntervalClock(DefaultFocusMinutes)
	c.phase = PhaseBreak

	b, err := json.Marshal(c.Snapshot())
	require.NoError(t, err)
	assert.Contains(t, string(b), `"phase":"break"`)

	var s Snapshot
	require.NoError(t, json.Unmarshal(b, &s))
	assert.Equal(t, PhaseBreak, s.Phase)
}

func TestSnapshotDisplay(t *testing.T) {
	tests := []struct {
		remaining int
		want      string
	}{
		{300, "05:00"},
		{1500, "25:00"},
		{59, "00:59"},
		{61, "01:01"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Snapshot{RemainingSeconds: tt.remaining}.Display())
	}
}
