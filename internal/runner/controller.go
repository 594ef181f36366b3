package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/hperssn/focusnest/internal/domain"
)

const (
	tickInterval  = time.Second
	notifyTimeout = 5 * time.Second
)

type EventType string

const (
	EventTick  EventType = "tick"
	EventPhase EventType = "phase"
	EventState EventType = "state"
)

type Event struct {
	Type      EventType       `json:"type"`
	Snapshot  domain.Snapshot `json:"snapshot"`
	Completed *domain.Phase   `json:"completed,omitempty"`
	At        time.Time       `json:"at"`
}

// Controller owns an IntervalClock and drives it with a one second ticker.
// At most one ticker goroutine is alive at any time: Start acquires it,
// Pause, Reset and Close release it.
type Controller struct {
	mu sync.Mutex

	ic       *domain.IntervalClock
	clock    clockwork.Clock
	notifier Notifier
	logger   *log.Logger

	ticker  clockwork.Ticker
	stop    chan struct{}
	done    chan struct{}
	notices sync.WaitGroup

	observers map[uuid.UUID]chan Event
	closed    bool
}

func NewController(c clockwork.Clock, notifier Notifier, logger *log.Logger, focusMinutes int) *Controller {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Controller{
		ic:        domain.NewIntervalClock(clampFocus(focusMinutes)),
		clock:     c,
		notifier:  notifier,
		logger:    logger,
		observers: make(map[uuid.UUID]chan Event),
	}
}

func (c *Controller) Snapshot() domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ic.Snapshot()
}

func (c *Controller) Start() domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return c.ic.Snapshot()
	}

	c.ic.Start()
	if c.ticker == nil {
		c.ticker = c.clock.NewTicker(tickInterval)
		c.stop = make(chan struct{})
		c.done = make(chan struct{})
		go c.loop(c.ticker, c.stop, c.done)
		c.logger.Info("timer started", "remaining", c.ic.Remaining(), "phase", c.ic.Phase())
	}

	return c.publishLocked(EventState, nil)
}

func (c *Controller) Pause() domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ic.Pause()
	if c.releaseLocked() {
		c.logger.Info("timer paused", "remaining", c.ic.Remaining(), "phase", c.ic.Phase())
	}
	return c.publishLocked(EventState, nil)
}

func (c *Controller) Reset() domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.releaseLocked()
	c.ic.Reset()
	c.logger.Info("timer reset", "focusSeconds", c.ic.FocusSeconds())
	return c.publishLocked(EventState, nil)
}

// Configure sets the focus length, clamped to the allowed range.
func (c *Controller) Configure(focusMinutes int) domain.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	minutes := clampFocus(focusMinutes)
	c.ic.SetFocusDuration(minutes)
	c.logger.Info("timer configured", "focusMinutes", minutes, "breakMinutes", c.ic.BreakMinutes())
	return c.publishLocked(EventState, nil)
}

// Subscribe registers an observer. Events are dropped for observers whose
// buffer is full.
func (c *Controller) Subscribe(buffer int) (uuid.UUID, <-chan Event) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	id := uuid.New()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		close(ch)
		return id, ch
	}
	c.observers[id] = ch
	return id, ch
}

func (c *Controller) Unsubscribe(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ch, ok := c.observers[id]; ok {
		delete(c.observers, id)
		close(ch)
	}
}

// Close releases the ticker, waits for its goroutine and any running
// notification to exit and closes every observer. It is safe to call more
// than once.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.ic.Pause()
	done := c.done
	c.releaseLocked()
	for id, ch := range c.observers {
		delete(c.observers, id)
		close(ch)
	}
	c.mu.Unlock()

	if done != nil {
		<-done
	}
	c.notices.Wait()
}

func clampFocus(minutes int) int {
	return min(domain.MaxFocusMinutes, max(domain.MinFocusMinutes, minutes))
}

func (c *Controller) releaseLocked() bool {
	if c.ticker == nil {
		return false
	}
	c.ticker.Stop()
	close(c.stop)
	c.ticker, c.stop, c.done = nil, nil, nil
	return true
}

func (c *Controller) loop(t clockwork.Ticker, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		case <-t.Chan():
			c.tick(stop)
		}
	}
}

func (c *Controller) tick(stop <-chan struct{}) {
	c.mu.Lock()
	// a tick can race with Pause; the released ticker must not advance the clock
	select {
	case <-stop:
		c.mu.Unlock()
		return
	default:
	}

	completed := c.ic.Phase()
	transitioned := c.ic.Advance()
	c.publishLocked(EventTick, nil)

	if transitioned {
		ev := c.eventLocked(EventPhase, &completed)
		c.broadcastLocked(ev)
		c.logger.Info("phase completed", "completed", completed, "next", ev.Snapshot.Phase, "session", ev.Snapshot.SessionIndex)
		// added under mu so a concurrent Close waits for it
		c.notices.Add(1)
		go c.notify(ev)
	}
	c.mu.Unlock()
}

func (c *Controller) notify(ev Event) {
	defer c.notices.Done()
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("notifier panicked", "panic", fmt.Sprint(r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	if err := c.notifier.Notify(ctx, ev); err != nil {
		c.logger.Warn("notification failed", "err", err)
	}
}

func (c *Controller) eventLocked(t EventType, completed *domain.Phase) Event {
	return Event{
		Type:      t,
		Snapshot:  c.ic.Snapshot(),
		Completed: completed,
		At:        c.clock.Now(),
	}
}

func (c *Controller) publishLocked(t EventType, completed *domain.Phase) domain.Snapshot {
	ev := c.eventLocked(t, completed)
	c.broadcastLocked(ev)
	return ev.Snapshot
}

func (c *Controller) broadcastLocked(ev Event) {
	for _, ch := range c.observers {
		select {
		case ch <- ev:
		default:
		}
	}
}
