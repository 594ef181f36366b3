package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	_ "github.com/mattn/go-sqlite3"

	"github.com/hperssn/focusnest/internal/domain"
)

// DefaultSQLiteDSN keeps the database in memory for the life of the process.
const DefaultSQLiteDSN = "file:focusnest?mode=memory&cache=shared"

type SQLiteRepository struct {
	db    *sql.DB
	clock clockwork.Clock
}

type scanner interface {
	Scan(dest ...any) error
}

func NewSQLiteRepository(dsn string, c clockwork.Clock) (*SQLiteRepository, error) {
	if dsn == "" {
		dsn = DefaultSQLiteDSN
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// an in-memory database lives only as long as its last connection
	db.SetMaxOpenConns(1)

	repo := &SQLiteRepository{db: db, clock: c}
	if err := repo.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return repo, nil
}

func (r *SQLiteRepository) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		description TEXT,
		completed INTEGER NOT NULL DEFAULT 0,
		priority INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS pomodoro_settings (
		id INTEGER PRIMARY KEY,
		work_duration INTEGER NOT NULL,
		break_duration INTEGER NOT NULL,
		long_break_duration INTEGER NOT NULL,
		sessions_before_long_break INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS moods (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		mood INTEGER NOT NULL,
		energy INTEGER NOT NULL,
		focus INTEGER NOT NULL,
		notes TEXT,
		timestamp_ms INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		content TEXT NOT NULL,
		is_user INTEGER NOT NULL,
		timestamp_ms INTEGER NOT NULL
	);
	`
	if _, err := r.db.Exec(schema); err != nil {
		return err
	}

	d := domain.DefaultPomodoroSettings()
	_, err := r.db.Exec(`
		INSERT OR IGNORE INTO pomodoro_settings (id, work_duration, break_duration, long_break_duration, sessions_before_long_break)
		VALUES (?, ?, ?, ?, ?)
	`, d.ID, d.WorkDuration, d.BreakDuration, d.LongBreakDuration, d.SessionsBeforeLongBreak)
	return err
}

func (r *SQLiteRepository) ListTasks(ctx context.Context) ([]domain.Task, error) {
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

func (r *SQLiteRepository) GetTask(ctx context.Context, id int64) (domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, title, description, completed, priority FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Task{}, ErrNotFound
	}
	return t, err
}

func (r *SQLiteRepository) CreateTask(ctx context.Context, t domain.Task) (domain.Task, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (title, description, completed, priority) VALUES (?, ?, ?, ?)`,
		t.Title, nullString(t.Description), t.Completed, t.Priority,
	)
	if err != nil {
		return domain.Task{}, err
	}
	t.ID, err = res.LastInsertId()
	return t, err
}

func (r *SQLiteRepository) UpdateTask(ctx context.Context, id int64, p domain.TaskPatch) (domain.Task, error) {
	existing, err := r.GetTask(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}

	updated := p.Apply(existing)
	_, err = r.db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, completed = ?, priority = ? WHERE id = ?`,
		updated.Title, nullString(updated.Description), updated.Completed, updated.Priority, id,
	)
	if err != nil {
		return domain.Task{}, err
	}
	return updated, nil
}

func (r *SQLiteRepository) DeleteTask(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
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

func (r *SQLiteRepository) GetSettings(ctx context.Context) (domain.PomodoroSettings, error) {
	var s domain.PomodoroSettings
	err := r.db.QueryRowContext(ctx, `
		SELECT id, work_duration, break_duration, long_break_duration, sessions_before_long_break
		FROM pomodoro_settings WHERE id = 1
	`).Scan(&s.ID, &s.WorkDuration, &s.BreakDuration, &s.LongBreakDuration, &s.SessionsBeforeLongBreak)
	return s, err
}

func (r *SQLiteRepository) UpdateSettings(ctx context.Context, s domain.PomodoroSettings) (domain.PomodoroSettings, error) {
	s.ID = 1
	_, err := r.db.ExecContext(ctx, `
		UPDATE pomodoro_settings
		SET work_duration = ?, break_duration = ?, long_break_duration = ?, sessions_before_long_break = ?
		WHERE id = ?
	`, s.WorkDuration, s.BreakDuration, s.LongBreakDuration, s.SessionsBeforeLongBreak, s.ID)
	if err != nil {
		return domain.PomodoroSettings{}, err
	}
	return s, nil
}

func (r *SQLiteRepository) ListMoods(ctx context.Context) ([]domain.Mood, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, mood, energy, focus, notes, timestamp_ms FROM moods ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	moods := []domain.Mood{}
	for rows.Next() {
		var m domain.Mood
		var notes sql.NullString
		var ts int64
		if err := rows.Scan(&m.ID, &m.Mood, &m.Energy, &m.Focus, &notes, &ts); err != nil {
			return nil, err
		}
		m.Notes = stringPtr(notes)
		m.Timestamp = fromMillis(ts)
		moods = append(moods, m)
	}
	return moods, rows.Err()
}

func (r *SQLiteRepository) CreateMood(ctx context.Context, m domain.Mood) (domain.Mood, error) {
	m.Timestamp = fromMillis(r.clock.Now().UnixMilli())
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO moods (mood, energy, focus, notes, timestamp_ms) VALUES (?, ?, ?, ?, ?)`,
		m.Mood, m.Energy, m.Focus, nullString(m.Notes), m.Timestamp.UnixMilli(),
	)
	if err != nil {
		return domain.Mood{}, err
	}
	m.ID, err = res.LastInsertId()
	return m, err
}

func (r *SQLiteRepository) ListMessages(ctx context.Context) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, content, is_user, timestamp_ms FROM messages ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var m domain.Message
		var ts int64
		if err := rows.Scan(&m.ID, &m.Content, &m.IsUser, &ts); err != nil {
			return nil, err
		}
		m.Timestamp = fromMillis(ts)
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *SQLiteRepository) CreateMessage(ctx context.Context, m domain.Message) (domain.Message, error) {
	m.Timestamp = fromMillis(r.clock.Now().UnixMilli())
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (content, is_user, timestamp_ms) VALUES (?, ?, ?)`,
		m.Content, m.IsUser, m.Timestamp.UnixMilli(),
	)
	if err != nil {
		return domain.Message{}, err
	}
	m.ID, err = res.LastInsertId()
	return m, err
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func scanTask(row scanner) (domain.Task, error) {
	var t domain.Task
	var desc sql.NullString
	if err := row.Scan(&t.ID, &t.Title, &desc, &t.Completed, &t.Priority); err != nil {
		return domain.Task{}, err
	}
	t.Description = stringPtr(desc)
	return t, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
