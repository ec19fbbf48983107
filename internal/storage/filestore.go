package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/taskpilot/taskpilot/internal/models"
	"gopkg.in/yaml.v3"
)

const (
	tasksFileName  = "tasks.yaml"
	eventsFileName = "events.yaml"
)

// FileStore persists tasks and events as YAML documents under a data
// directory. Writes go through a temp file and rename so a crash mid-save
// never leaves a half-written collection behind.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store rooted at dir, creating it if needed
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// LoadTasks loads the task list; a missing file is an empty list
func (s *FileStore) LoadTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := s.loadFile(tasksFileName, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// SaveTasks writes the full task list
func (s *FileStore) SaveTasks(ctx context.Context, tasks []models.Task) error {
	return s.saveFile(tasksFileName, tasks)
}

// LoadEvents loads the calendar; a missing file is an empty calendar
func (s *FileStore) LoadEvents(ctx context.Context) ([]models.CalendarEvent, error) {
	var events []models.CalendarEvent
	if err := s.loadFile(eventsFileName, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// SaveEvents writes the full calendar
func (s *FileStore) SaveEvents(ctx context.Context, events []models.CalendarEvent) error {
	return s.saveFile(eventsFileName, events)
}

func (s *FileStore) loadFile(name string, out any) error {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

func (s *FileStore) saveFile(name string, in any) error {
	data, err := yaml.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
