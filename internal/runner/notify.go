package runner

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/hperssn/focusnest/internal/domain"
)

// Notifier is told when a phase completes. Errors are logged by the
// controller and otherwise ignored.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

type NotifierFunc func(ctx context.Context, ev Event) error

func (f NotifierFunc) Notify(ctx context.Context, ev Event) error {
	return f(ctx, ev)
}

type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Event) error { return nil }

type LogNotifier struct {
	Logger *log.Logger
}

func (n LogNotifier) Notify(_ context.Context, ev Event) error {
	msg := "focus time"
	if ev.Snapshot.Phase == domain.PhaseBreak {
		msg = "break time"
	}
	n.Logger.Info(msg, "session", ev.Snapshot.SessionIndex+1, "remaining", ev.Snapshot.Display())
	return nil
}

// BellNotifier rings the terminal bell on W.
type BellNotifier struct {
	W io.Writer
}

func (n BellNotifier) Notify(context.Context, Event) error {
	if _, err := io.WriteString(n.W, "\a"); err != nil {
		return fmt.Errorf("ring bell: %w", err)
	}
	return nil
}

type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, ev Event) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
