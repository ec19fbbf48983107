package storage

import (
	"context"
	"fmt"

	"github.com/taskpilot/taskpilot/internal/config"
	"github.com/taskpilot/taskpilot/internal/models"
)

// Store persists the task list and calendar. Implementations must preserve
// round-trip fidelity of every field, including timestamps and the completion
// flag, and must return tasks in the order they were saved (append order is
// the tie-break key for "oldest first").
type Store interface {
	LoadTasks(ctx context.Context) ([]models.Task, error)
	SaveTasks(ctx context.Context, tasks []models.Task) error
	LoadEvents(ctx context.Context) ([]models.CalendarEvent, error)
	SaveEvents(ctx context.Context, events []models.CalendarEvent) error
}

// New builds the store selected by configuration
func New(cfg *config.Config) (Store, error) {
	switch cfg.StorageBackend {
	case config.StorageBackendFile:
		return NewFileStore(cfg.DataDir)
	case config.StorageBackendPostgres:
		return NewPostgresStore(cfg.DatabaseURL)
	case config.StorageBackendRedis:
		return NewRedisStore(cfg.RedisURL)
	case config.StorageBackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.StorageBackend)
	}
}
