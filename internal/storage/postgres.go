package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/taskpilot/taskpilot/internal/models"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	id UUID PRIMARY KEY,
	position INTEGER NOT NULL,
	description TEXT NOT NULL,
	priority INTEGER NOT NULL,
	estimated_minutes INTEGER NOT NULL,
	added_at TIMESTAMPTZ NOT NULL,
	completed BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS calendar_events (
	id SERIAL PRIMARY KEY,
	start_time TIMESTAMPTZ NOT NULL,
	end_time TIMESTAMPTZ NOT NULL,
	summary TEXT NOT NULL
);
`

// PostgresStore persists tasks and events in PostgreSQL. Saves replace the
// whole collection inside one transaction; the position column preserves
// append order across round trips.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to the database and ensures the schema exists
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close closes the underlying connection pool
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// LoadTasks loads all tasks in append order
func (s *PostgresStore) LoadTasks(ctx context.Context) ([]models.Task, error) {
	query := `
		SELECT id, description, priority, estimated_minutes, added_at, completed
		FROM tasks
		ORDER BY position ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		var id string
		if err := rows.Scan(&id, &t.Description, &t.Priority, &t.EstimatedMinutes, &t.AddedAt, &t.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("invalid task id %q: %w", id, err)
		}
		t.ID = parsed
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, nil
}

// SaveTasks replaces the stored task list transactionally
func (s *PostgresStore) SaveTasks(ctx context.Context, tasks []models.Task) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("failed to clear tasks: %w", err)
	}

	insert := `
		INSERT INTO tasks (id, position, description, priority, estimated_minutes, added_at, completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for i, t := range tasks {
		if _, err := tx.ExecContext(ctx, insert,
			t.ID, i, t.Description, t.Priority, t.EstimatedMinutes, t.AddedAt, t.Completed,
		); err != nil {
			return fmt.Errorf("failed to insert task %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tasks: %w", err)
	}
	return nil
}

// LoadEvents loads all calendar events
func (s *PostgresStore) LoadEvents(ctx context.Context) ([]models.CalendarEvent, error) {
	query := `
		SELECT start_time, end_time, summary
		FROM calendar_events
		ORDER BY id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var events []models.CalendarEvent
	for rows.Next() {
		var e models.CalendarEvent
		if err := rows.Scan(&e.StartTime, &e.EndTime, &e.Summary); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return events, nil
}

// SaveEvents replaces the stored calendar transactionally
func (s *PostgresStore) SaveEvents(ctx context.Context, events []models.CalendarEvent) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM calendar_events`); err != nil {
		return fmt.Errorf("failed to clear events: %w", err)
	}

	insert := `
		INSERT INTO calendar_events (start_time, end_time, summary)
		VALUES ($1, $2, $3)
	`
	for _, e := range events {
		if _, err := tx.ExecContext(ctx, insert, e.StartTime, e.EndTime, e.Summary); err != nil {
			return fmt.Errorf("failed to insert event %q: %w", e.Summary, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit events: %w", err)
	}
	return nil
}

var _ Store = (*PostgresStore)(nil)
