package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestNewTaskDefaults(t *testing.T) {
	task := NewTask{Title: "write report"}.Task()

	assert.Equal(t, "write report", task.Title)
	assert.Equal(t, 1, task.Priority)
	assert.False(t, task.Completed)
	assert.Nil(t, task.Description)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		record  any
		wantErr bool
	}{
		{name: "task ok", record: NewTask{Title: "a"}},
		{name: "task missing title", record: NewTask{}, wantErr: true},
		{name: "task priority too high", record: NewTask{Title: "a", Priority: ptr(6)}, wantErr: true},
		{name: "task priority zero", record: NewTask{Title: "a", Priority: ptr(0)}, wantErr: true},
		{name: "empty patch", record: TaskPatch{}},
		{name: "patch empty title", record: TaskPatch{Title: ptr("")}, wantErr: true},
		{name: "patch priority", record: TaskPatch{Priority: ptr(3)}},
		{name: "settings ok", record: DefaultPomodoroSettings()},
		{name: "settings zero work", record: PomodoroSettings{BreakDuration: 1, LongBreakDuration: 1, SessionsBeforeLongBreak: 1}, wantErr: true},
		{name: "settings work at max", record: PomodoroSettings{WorkDuration: MaxFocusMinutes, BreakDuration: 1, LongBreakDuration: 1, SessionsBeforeLongBreak: 1}},
		{name: "settings work over max", record: PomodoroSettings{WorkDuration: MaxFocusMinutes + 1, BreakDuration: 1, LongBreakDuration: 1, SessionsBeforeLongBreak: 1}, wantErr: true},
		{name: "mood ok", record: Mood{Mood: 1, Energy: 5, Focus: 3}},
		{name: "mood out of range", record: Mood{Mood: 0, Energy: 5, Focus: 3}, wantErr: true},
		{name: "message ok", record: Message{Content: "hi", IsUser: true}},
		{name: "message empty", record: Message{IsUser: true}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.record)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalid)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestTaskPatchApply(t *testing.T) {
	task := Task{ID: 4, Title: "old", Priority: 2}

	got := TaskPatch{Completed: ptr(true), Title: ptr("new")}.Apply(task)

	assert.Equal(t, Task{ID: 4, Title: "new", Completed: true, Priority: 2}, got)
}

func TestTaskPatchDescription(t *testing.T) {
	task := Task{ID: 1, Title: "x", Description: ptr("old"), Priority: 1}

	tests := []struct {
		name string
		body string
		want *string
	}{
		{name: "absent keeps", body: `{"completed":true}`, want: ptr("old")},
		{name: "null clears", body: `{"description":null}`, want: nil},
		{name: "value replaces", body: `{"description":"new"}`, want: ptr("new")},
		{name: "empty string replaces", body: `{"description":""}`, want: ptr("")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p TaskPatch
			require.NoError(t, json.Unmarshal([]byte(tt.body), &p))
			require.NoError(t, Validate(p))

			assert.Equal(t, tt.want, p.Apply(task).Description)
		})
	}

	assert.Nil(t, TaskPatch{Description: Null[string]()}.Apply(task).Description)
	assert.Equal(t, ptr("set"), TaskPatch{Description: Some("set")}.Apply(task).Description)
}

func TestTaskPatchDescriptionRejectsWrongType(t *testing.T) {
	var p TaskPatch
	assert.Error(t, json.Unmarshal([]byte(`{"description":3}`), &p))
}

func TestWellnessScore(t *testing.T) {
	tests := []struct {
		mood, energy, focus int
		want                int
	}{
		{1, 1, 1, 0},
		{5, 5, 5, 100},
		{3, 3, 3, 50},
		{1, 2, 2, 17},
		{4, 5, 5, 92},
	}
	for _, tt := range tests {
		m := Mood{Mood: tt.mood, Energy: tt.energy, Focus: tt.focus}
		assert.Equal(t, tt.want, m.WellnessScore(), "%d/%d/%d", tt.mood, tt.energy, tt.focus)
	}
}

func TestSuggestions(t *testing.T) {
	assert.Equal(t,
		[]string{"You're doing great! Keep up the good work!"},
		Mood{Mood: 3, Energy: 3, Focus: 3}.Suggestions(),
	)

	low := Mood{Mood: 1, Energy: 1, Focus: 1}.Suggestions()
	assert.Len(t, low, 9)
	assert.Contains(t, low, "Use the Pomodoro timer")

	energyOnly := Mood{Mood: 4, Energy: 2, Focus: 4}.Suggestions()
	assert.Equal(t, []string{
		"Take a power nap (15-20 minutes)",
		"Have a healthy snack",
		"Do some light stretching",
	}, energyOnly)
}
