package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
)

var ErrInvalid = errors.New("invalid record")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct tags of any record or patch below.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

type Task struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
	Priority    int     `json:"priority" validate:"min=1,max=5"`
}

// NewTask is the create form of a task. Omitted fields take defaults.
type NewTask struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
	Priority    *int    `json:"priority" validate:"omitempty,min=1,max=5"`
}

func (n NewTask) Task() Task {
	t := Task{
		Title:       n.Title,
		Description: n.Description,
		Priority:    1,
	}
	if n.Completed != nil {
		t.Completed = *n.Completed
	}
	if n.Priority != nil {
		t.Priority = *n.Priority
	}
	return t
}

// Nullable tells an explicit JSON null apart from an absent field.
// Set is true whenever the field was present in the document.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

func Null[T any]() Nullable[T] { return Nullable[T]{Set: true} }

func Some[T any](v T) Nullable[T] { return Nullable[T]{Set: true, Value: &v} }

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// TaskPatch is a partial task update; nil fields are left unchanged.
// A description sent as null clears it.
type TaskPatch struct {
	Title       *string          `json:"title" validate:"omitempty,min=1"`
	Description Nullable[string] `json:"description"`
	Completed   *bool            `json:"completed"`
	Priority    *int             `json:"priority" validate:"omitempty,min=1,max=5"`
}

func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description.Set {
		t.Description = p.Description.Value
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	return t
}

type PomodoroSettings struct {
	ID                      int64 `json:"id"`
	WorkDuration            int   `json:"workDuration" validate:"min=1,max=1440"`
	BreakDuration           int   `json:"breakDuration" validate:"min=1"`
	LongBreakDuration       int   `json:"longBreakDuration" validate:"min=1"`
	SessionsBeforeLongBreak int   `json:"sessionsBeforeLongBreak" validate:"min=1"`
}

func DefaultPomodoroSettings() PomodoroSettings {
	return PomodoroSettings{
		ID:                      1,
		WorkDuration:            25,
		BreakDuration:           5,
		LongBreakDuration:       15,
		SessionsBeforeLongBreak: 4,
	}
}

type Mood struct {
	ID        int64     `json:"id"`
	Mood      int       `json:"mood" validate:"min=1,max=5"`
	Energy    int       `json:"energy" validate:"min=1,max=5"`
	Focus     int       `json:"focus" validate:"min=1,max=5"`
	Notes     *string   `json:"notes"`
	Timestamp time.Time `json:"timestamp"`
}

// WellnessScore maps the average of the three 1-5 ratings onto 0-100.
func (m Mood) WellnessScore() int {
	avg := float64(m.Mood+m.Energy+m.Focus) / 3
	return int(math.Round((avg - 1) * 25))
}

func (m Mood) Suggestions() []string {
	var out []string
	if m.Mood < 3 {
		out = append(out,
			"Try some quick mindfulness exercises",
			"Take a short walk outside",
			"Listen to uplifting music",
		)
	}
	if m.Energy < 3 {
		out = append(out,
			"Take a power nap (15-20 minutes)",
			"Have a healthy snack",
			"Do some light stretching",
		)
	}
	if m.Focus < 3 {
		out = append(out,
			"Break tasks into smaller chunks",
			"Use the Pomodoro timer",
			"Find a quiet workspace",
		)
	}
	if len(out) == 0 {
		return []string{"You're doing great! Keep up the good work!"}
	}
	return out
}

type Message struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content" validate:"required"`
	IsUser    bool      `json:"isUser"`
	Timestamp time.Time `json:"timestamp"`
}
