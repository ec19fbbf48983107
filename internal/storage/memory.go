package storage

import (
	"context"
	"sync"

	"github.com/taskpilot/taskpilot/internal/models"
)

// MemoryStore keeps tasks and events in process memory. Used for tests and
// throwaway local runs; a fresh store per test gives full isolation.
type MemoryStore struct {
	mu     sync.RWMutex
	tasks  []models.Task
	events []models.CalendarEvent
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// LoadTasks returns a copy of the stored task list
func (s *MemoryStore) LoadTasks(ctx context.Context) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]models.Task, len(s.tasks))
	copy(tasks, s.tasks)
	return tasks, nil
}

// SaveTasks replaces the stored task list
func (s *MemoryStore) SaveTasks(ctx context.Context, tasks []models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = make([]models.Task, len(tasks))
	copy(s.tasks, tasks)
	return nil
}

// LoadEvents returns a copy of the stored events
func (s *MemoryStore) LoadEvents(ctx context.Context) ([]models.CalendarEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]models.CalendarEvent, len(s.events))
	copy(events, s.events)
	return events, nil
}

// SaveEvents replaces the stored events
func (s *MemoryStore) SaveEvents(ctx context.Context, events []models.CalendarEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = make([]models.CalendarEvent, len(events))
	copy(s.events, events)
	return nil
}

var _ Store = (*MemoryStore)(nil)
