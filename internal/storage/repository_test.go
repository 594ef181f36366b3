package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hperssn/focusnest/internal/domain"
)

var epoch = time.Date(2026, 1, 1, 9, 30, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

// postgresDSN points the contract tests at a scratch database. Its tables
// are dropped before every test.
var postgresDSN = os.Getenv("FOCUSNEST_POSTGRES_DSN")

func forEachRepository(t *testing.T, fn func(t *testing.T, repo Repository, fc *clockwork.FakeClock)) {
	t.Run("memory", func(t *testing.T) {
		fc := clockwork.NewFakeClockAt(epoch)
		fn(t, NewMemoryRepository(fc), fc)
	})
	t.Run("sqlite", func(t *testing.T) {
		fc := clockwork.NewFakeClockAt(epoch)
		name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
		repo, err := NewSQLiteRepository(fmt.Sprintf("file:%s?mode=memory&cache=shared", name), fc)
		require.NoError(t, err)
		t.Cleanup(func() { repo.Close() })
		fn(t, repo, fc)
	})
	t.Run("postgres", func(t *testing.T) {
		if postgresDSN == "" {
			t.Skip("FOCUSNEST_POSTGRES_DSN not set")
		}
		dropPostgresTables(t)
		fc := clockwork.NewFakeClockAt(epoch)
		repo, err := NewPostgresRepository(postgresDSN, fc)
		require.NoError(t, err)
		t.Cleanup(func() { repo.Close() })
		fn(t, repo, fc)
	})
}

func dropPostgresTables(t *testing.T) {
	t.Helper()
	db, err := sql.Open("postgres", postgresDSN)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec(`DROP TABLE IF EXISTS tasks, pomodoro_settings, moods, messages`)
	require.NoError(t, err)
}

func TestRepository_Tasks(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo Repository, _ *clockwork.FakeClock) {
		ctx := context.Background()

		empty, err := repo.ListTasks(ctx)
		require.NoError(t, err)
		assert.Empty(t, empty)

		first, err := repo.CreateTask(ctx, domain.NewTask{Title: "inbox zero"}.Task())
		require.NoError(t, err)
		second, err := repo.CreateTask(ctx, domain.Task{Title: "call mom", Description: ptr("sunday"), Priority: 3})
		require.NoError(t, err)

		assert.Equal(t, int64(1), first.ID)
		assert.Equal(t, int64(2), second.ID)

		got, err := repo.GetTask(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, second, got)

		updated, err := repo.UpdateTask(ctx, 1, domain.TaskPatch{Completed: ptr(true)})
		require.NoError(t, err)
		assert.True(t, updated.Completed)
		assert.Equal(t, "inbox zero", updated.Title)

		all, err := repo.ListTasks(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, updated, all[0])

		require.NoError(t, repo.DeleteTask(ctx, 1))
		assert.ErrorIs(t, repo.DeleteTask(ctx, 1), ErrNotFound)

		_, err = repo.GetTask(ctx, 1)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = repo.UpdateTask(ctx, 99, domain.TaskPatch{})
		assert.ErrorIs(t, err, ErrNotFound)

		third, err := repo.CreateTask(ctx, domain.Task{Title: "ids are not reused", Priority: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(3), third.ID)
	})
}

func TestRepository_TaskDescriptionClears(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo Repository, _ *clockwork.FakeClock) {
		ctx := context.Background()

		task, err := repo.CreateTask(ctx, domain.Task{Title: "x", Description: ptr("old"), Priority: 1})
		require.NoError(t, err)

		kept, err := repo.UpdateTask(ctx, task.ID, domain.TaskPatch{Completed: ptr(true)})
		require.NoError(t, err)
		assert.Equal(t, ptr("old"), kept.Description)

		cleared, err := repo.UpdateTask(ctx, task.ID, domain.TaskPatch{Description: domain.Null[string]()})
		require.NoError(t, err)
		assert.Nil(t, cleared.Description)

		got, err := repo.GetTask(ctx, task.ID)
		require.NoError(t, err)
		assert.Nil(t, got.Description)
		assert.True(t, got.Completed)
	})
}

func TestRepository_Settings(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo Repository, _ *clockwork.FakeClock) {
		ctx := context.Background()

		s, err := repo.GetSettings(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultPomodoroSettings(), s)

		updated, err := repo.UpdateSettings(ctx, domain.PomodoroSettings{
			ID:                      42,
			WorkDuration:            50,
			BreakDuration:           10,
			LongBreakDuration:       30,
			SessionsBeforeLongBreak: 3,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), updated.ID)

		s, err = repo.GetSettings(ctx)
		require.NoError(t, err)
		assert.Equal(t, updated, s)
	})
}

func TestRepository_Moods(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo Repository, fc *clockwork.FakeClock) {
		ctx := context.Background()

		m, err := repo.CreateMood(ctx, domain.Mood{Mood: 2, Energy: 4, Focus: 3, Notes: ptr("slept badly")})
		require.NoError(t, err)
		assert.Equal(t, int64(1), m.ID)
		assert.True(t, epoch.Equal(m.Timestamp))

		fc.Advance(time.Hour)
		_, err = repo.CreateMood(ctx, domain.Mood{Mood: 4, Energy: 4, Focus: 4})
		require.NoError(t, err)

		moods, err := repo.ListMoods(ctx)
		require.NoError(t, err)
		require.Len(t, moods, 2)
		assert.Equal(t, "slept badly", *moods[0].Notes)
		assert.Nil(t, moods[1].Notes)
		assert.True(t, epoch.Add(time.Hour).Equal(moods[1].Timestamp))
	})
}

func TestRepository_Messages(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo Repository, _ *clockwork.FakeClock) {
		ctx := context.Background()

		_, err := repo.CreateMessage(ctx, domain.Message{Content: "how do I start?", IsUser: true})
		require.NoError(t, err)
		_, err = repo.CreateMessage(ctx, domain.Message{Content: "Pick the smallest step.", IsUser: false})
		require.NoError(t, err)

		msgs, err := repo.ListMessages(ctx)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, int64(1), msgs[0].ID)
		assert.True(t, msgs[0].IsUser)
		assert.False(t, msgs[1].IsUser)
		assert.Equal(t, "Pick the smallest step.", msgs[1].Content)
	})
}

func TestOpen(t *testing.T) {
	fc := clockwork.NewFakeClockAt(epoch)

	repo, err := Open(DriverMemory, "", fc)
	require.NoError(t, err)
	assert.IsType(t, &MemoryRepository{}, repo)

	repo, err = Open(DriverSQLite, "file:open_test?mode=memory&cache=shared", fc)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteRepository{}, repo)
	require.NoError(t, repo.Close())

	_, err = Open(DriverPostgres, "", fc)
	assert.Error(t, err)

	_, err = Open("mysql", "", fc)
	assert.Error(t, err)
}
