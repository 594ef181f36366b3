package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"

	"github.com/hperssn/focusnest/internal/domain"
)

var ErrNotFound = errors.New("record not found")

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Repository stores the records behind the REST API. Identifiers are
// auto-incrementing integers starting at 1, one sequence per record type.
type Repository interface {
	ListTasks(ctx context.Context) ([]domain.Task, error)
	GetTask(ctx context.Context, id int64) (domain.Task, error)
	CreateTask(ctx context.Context, t domain.Task) (domain.Task, error)
	UpdateTask(ctx context.Context, id int64, p domain.TaskPatch) (domain.Task, error)
	DeleteTask(ctx context.Context, id int64) error

	GetSettings(ctx context.Context) (domain.PomodoroSettings, error)
	UpdateSettings(ctx context.Context, s domain.PomodoroSettings) (domain.PomodoroSettings, error)

	ListMoods(ctx context.Context) ([]domain.Mood, error)
	CreateMood(ctx context.Context, m domain.Mood) (domain.Mood, error)

	ListMessages(ctx context.Context) ([]domain.Message, error)
	CreateMessage(ctx context.Context, m domain.Message) (domain.Message, error)

	Close() error
}

// Open builds the repository for driver. dsn is ignored by the memory driver.
func Open(driver, dsn string, c clockwork.Clock) (Repository, error) {
	switch driver {
	case DriverMemory, "":
		return NewMemoryRepository(c), nil
	case DriverSQLite:
		return NewSQLiteRepository(dsn, c)
	case DriverPostgres:
		if dsn == "" {
			return nil, errors.New("postgres driver needs a connection string")
		}
		return NewPostgresRepository(dsn, c)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
