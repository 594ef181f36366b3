package domain

import (
	"fmt"
	"math"
)

const (
	DefaultFocusMinutes = 5
	MinFocusMinutes     = 5
	// MaxFocusMinutes is one day.
	MaxFocusMinutes = 24 * 60

	breakRatio = 5
)

type Phase uint8

const (
	PhaseFocus Phase = iota
	PhaseBreak
)

func (p Phase) String() string {
	switch p {
	case PhaseFocus:
		return "focus"
	case PhaseBreak:
		return "break"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	switch string(b) {
	case "focus":
		*p = PhaseFocus
	case "break":
		*p = PhaseBreak
	default:
		return fmt.Errorf("unknown phase %q", string(b))
	}
	return nil
}

// Snapshot is the observable state of an IntervalClock.
type Snapshot struct {
	RemainingSeconds int   `json:"remainingSeconds"`
	Phase            Phase `json:"phase"`
	Running          bool  `json:"running"`
	SessionIndex     int   `json:"sessionIndex"`
	FocusSeconds     int   `json:"focusSeconds"`
	BreakSeconds     int   `json:"breakSeconds"`
}

// IntervalClock counts down alternating focus and break phases one second
// at a time. Durations are configured in minutes and counted in seconds.
// The break length is always derived from the focus length.
//
// IntervalClock is not safe for concurrent use.
type IntervalClock struct {
	remaining    int
	phase        Phase
	running      bool
	sessionIndex int
	focusMinutes int
}

func NewIntervalClock(focusMinutes int) *IntervalClock {
	c := &IntervalClock{
		phase:        PhaseFocus,
		focusMinutes: focusMinutes,
	}
	c.remaining = c.FocusSeconds()
	return c
}

func BreakMinutesFor(focusMinutes int) int {
	return max(1, int(math.Round(float64(focusMinutes)/breakRatio)))
}

func (c *IntervalClock) FocusMinutes() int { return c.focusMinutes }
func (c *IntervalClock) BreakMinutes() int { return BreakMinutesFor(c.focusMinutes) }
func (c *IntervalClock) FocusSeconds() int { return c.focusMinutes * 60 }
func (c *IntervalClock) BreakSeconds() int { return c.BreakMinutes() * 60 }

func (c *IntervalClock) Remaining() int { return c.remaining }
func (c *IntervalClock) Phase() Phase { return c.phase }
func (c *IntervalClock) Running() bool { return c.running }
func (c *IntervalClock) SessionIndex() int { return c.sessionIndex }

func (c *IntervalClock) phaseSeconds(p Phase) int {
	if p == PhaseBreak {
		return c.BreakSeconds()
	}
	return c.FocusSeconds()
}

// Advance consumes one second and reports whether a phase completed.
// The final second of a phase and the switch to the next phase happen in
// the same call, so a zero countdown is never observed between calls.
// Advance ignores the running flag; callers decide when to tick.
func (c *IntervalClock) Advance() bool {
	if c.remaining > 1 {
		c.remaining--
		return false
	}

	completed := c.phase
	if completed == PhaseBreak {
		c.sessionIndex++
		c.phase = PhaseFocus
	} else {
		c.phase = PhaseBreak
	}
	c.remaining = c.phaseSeconds(c.phase)
	return true
}

// SetFocusDuration changes the focus length. The countdown only follows
// immediately when the clock is stopped in a focus phase.
func (c *IntervalClock) SetFocusDuration(minutes int) {
	c.focusMinutes = minutes
	if !c.running && c.phase == PhaseFocus {
		c.remaining = c.FocusSeconds()
	}
}

func (c *IntervalClock) Start() { c.running = true }
func (c *IntervalClock) Pause() { c.running = false }

func (c *IntervalClock) Reset() {
	c.phase = PhaseFocus
	c.running = false
	c.sessionIndex = 0
	c.remaining = c.FocusSeconds()
}

func (c *IntervalClock) Snapshot() Snapshot {
	return Snapshot{
		RemainingSeconds: c.remaining,
		Phase:            c.phase,
		Running:          c.running,
		SessionIndex:     c.sessionIndex,
		FocusSeconds:     c.FocusSeconds(),
		BreakSeconds:     c.BreakSeconds(),
	}
}

// Display formats the remaining time as MM:SS.
func (s Snapshot) Display() string {
	return fmt.Sprintf("%02d:%02d", s.RemainingSeconds/60, s.RemainingSeconds%60)
}
