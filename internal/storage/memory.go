package storage

import (
	"context"
	"slices"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/hperssn/focusnest/internal/domain"
)

type MemoryRepository struct {
	mu    sync.Mutex
	clock clockwork.Clock

	tasks    map[int64]domain.Task
	moods    map[int64]domain.Mood
	messages map[int64]domain.Message
	settings domain.PomodoroSettings

	taskID, moodID, messageID int64
}

func NewMemoryRepository(c clockwork.Clock) *MemoryRepository {
	return &MemoryRepository{
		clock:    c,
		tasks:    make(map[int64]domain.Task),
		moods:    make(map[int64]domain.Mood),
		messages: make(map[int64]domain.Message),
		settings: domain.DefaultPomodoroSettings(),
	}
}

func sortedValues[T any](m map[int64]T) []T {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}

func (r *MemoryRepository) ListTasks(context.Context) ([]domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return sortedValues(r.tasks), nil
}

func (r *MemoryRepository) GetTask(_ context.Context, id int64) (domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return domain.Task{}, ErrNotFound
	}
	return t, nil
}

func (r *MemoryRepository) CreateTask(_ context.Context, t domain.Task) (domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.taskID++
	t.ID = r.taskID
	r.tasks[t.ID] = t
	return t, nil
}

func (r *MemoryRepository) UpdateTask(_ context.Context, id int64, p domain.TaskPatch) (domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.tasks[id]
	if !ok {
		return domain.Task{}, ErrNotFound
	}
	updated := p.Apply(existing)
	r.tasks[id] = updated
	return updated, nil
}

func (r *MemoryRepository) DeleteTask(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *MemoryRepository) GetSettings(context.Context) (domain.PomodoroSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settings, nil
}

func (r *MemoryRepository) UpdateSettings(_ context.Context, s domain.PomodoroSettings) (domain.PomodoroSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s.ID = r.settings.ID
	r.settings = s
	return s, nil
}

func (r *MemoryRepository) ListMoods(context.Context) ([]domain.Mood, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return sortedValues(r.moods), nil
}

func (r *MemoryRepository) CreateMood(_ context.Context, m domain.Mood) (domain.Mood, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.moodID++
	m.ID = r.moodID
	m.Timestamp = r.clock.Now()
	r.moods[m.ID] = m
	return m, nil
}

func (r *MemoryRepository) ListMessages(context.Context) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return sortedValues(r.messages), nil
}

func (r *MemoryRepository) CreateMessage(_ context.Context, m domain.Message) (domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messageID++
	m.ID = r.messageID
	m.Timestamp = r.clock.Now()
	r.messages[m.ID] = m
	return m, nil
}

func (r *MemoryRepository) Close() error { return nil }
