package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	_ "github.com/lib/pq"

	"github.com/hperssn/focusnest/internal/domain"
)

type PostgresRepository struct {
	db    *sql.DB
	clock clockwork.Clock
}

func NewPostgresRepository(connStr string, c clockwork.Clock) (*PostgresRepository, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	repo := &PostgresRepository{db: db, clock: c}
	if err := repo.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return repo, nil
}

func (r *PostgresRepository) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		priority INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS pomodoro_settings (
		id BIGINT PRIMARY KEY,
		work_duration INTEGER NOT NULL,
		break_duration INTEGER NOT NULL,
		long_break_duration INTEGER NOT NULL,
		sessions_before_long_break INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS moods (
		id BIGSERIAL PRIMARY KEY,
		mood INTEGER NOT NULL,
		energy INTEGER NOT NULL,
		focus INTEGER NOT NULL,
		notes TEXT,
		timestamp TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS messages (
		id BIGSERIAL PRIMARY KEY,
		content TEXT NOT NULL,
		is_user BOOLEAN NOT NULL,
		timestamp TIMESTAMPTZ NOT NULL
	);
	`
	if _, err := r.db.Exec(schema); err != nil {
		return err
	}

	d := domain.DefaultPomodoroSettings()
	_, err := r.db.Exec(`
		INSERT INTO pomodoro_settings (id, work_duration, break_duration, long_break_duration, sessions_before_long_break)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`, d.ID, d.WorkDuration, d.BreakDuration, d.LongBreakDuration, d.SessionsBeforeLongBreak)
	return err
}

func (r *PostgresRepository) ListTasks(ctx context.Context) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, description, completed, priority FROM tasks ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *PostgresRepository) GetTask(ctx context.Context, id int64) (domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, title, description, completed, priority FROM tasks WHERE id = $1`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Task{}, ErrNotFound
	}
	return t, err
}

func (r *PostgresRepository) CreateTask(ctx context.Context, t domain.Task) (domain.Task, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO tasks (title, description, completed, priority) VALUES ($1, $2, $3, $4) RETURNING id`,
		t.Title, nullString(t.Description), t.Completed, t.Priority,
	).Scan(&t.ID)
	if err != nil {
		return domain.Task{}, err
	}
	return t, nil
}

func (r *PostgresRepository) UpdateTask(ctx context.Context, id int64, p domain.TaskPatch) (domain.Task, error) {
	existing, err := r.GetTask(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}

	updated := p.Apply(existing)
	_, err = r.db.ExecContext(ctx,
		`UPDATE tasks SET title = $1, description = $2, completed = $3, priority = $4 WHERE id = $5`,
		updated.Title, nullString(updated.Description), updated.Completed, updated.Priority, id,
	)
	if err != nil {
		return domain.Task{}, err
	}
	return updated, nil
}

func (r *PostgresRepository) DeleteTask(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) GetSettings(ctx context.Context) (domain.PomodoroSettings, error) {
	var s domain.PomodoroSettings
	err := r.db.QueryRowContext(ctx, `
		SELECT id, work_duration, break_duration, long_break_duration, sessions_before_long_break
		FROM pomodoro_settings WHERE id = 1
	`).Scan(&s.ID, &s.WorkDuration, &s.BreakDuration, &s.LongBreakDuration, &s.SessionsBeforeLongBreak)
	return s, err
}

func (r *PostgresRepository) UpdateSettings(ctx context.Context, s domain.PomodoroSettings) (domain.PomodoroSettings, error) {
	s.ID = 1
	_, err := r.db.ExecContext(ctx, `
		UPDATE pomodoro_settings
		SET work_duration = $1, break_duration = $2, long_break_duration = $3, sessions_before_long_break = $4
		WHERE id = $5
	`, s.WorkDuration, s.BreakDuration, s.LongBreakDuration, s.SessionsBeforeLongBreak, s.ID)
	if err != nil {
		return domain.PomodoroSettings{}, err
	}
	return s, nil
}

func (r *PostgresRepository) ListMoods(ctx context.Context) ([]domain.Mood, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, mood, energy, focus, notes, timestamp FROM moods ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	moods := []domain.Mood{}
	for rows.Next() {
		var m domain.Mood
		var notes sql.NullString
		if err := rows.Scan(&m.ID, &m.Mood, &m.Energy, &m.Focus, &notes, &m.Timestamp); err != nil {
			return nil, err
		}
		m.Notes = stringPtr(notes)
		m.Timestamp = m.Timestamp.UTC()
		moods = append(moods, m)
	}
	return moods, rows.Err()
}

func (r *PostgresRepository) CreateMood(ctx context.Context, m domain.Mood) (domain.Mood, error) {
	m.Timestamp = r.now()
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO moods (mood, energy, focus, notes, timestamp) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		m.Mood, m.Energy, m.Focus, nullString(m.Notes), m.Timestamp,
	).Scan(&m.ID)
	if err != nil {
		return domain.Mood{}, err
	}
	return m, nil
}

func (r *PostgresRepository) ListMessages(ctx context.Context) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, content, is_user, timestamp FROM messages ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.Content, &m.IsUser, &m.Timestamp); err != nil {
			return nil, err
		}
		m.Timestamp = m.Timestamp.UTC()
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *PostgresRepository) CreateMessage(ctx context.Context, m domain.Message) (domain.Message, error) {
	m.Timestamp = r.now()
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO messages (content, is_user, timestamp) VALUES ($1, $2, $3) RETURNING id`,
		m.Content, m.IsUser, m.Timestamp,
	).Scan(&m.ID)
	if err != nil {
		return domain.Message{}, err
	}
	return m, nil
}

func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// now matches the microsecond precision of TIMESTAMPTZ.
func (r *PostgresRepository) now() time.Time {
	return r.clock.Now().UTC().Truncate(time.Microsecond)
}
