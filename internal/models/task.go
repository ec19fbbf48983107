package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	// PriorityHighest is the most urgent priority value
	PriorityHighest = 1
	// PriorityLowest is the least urgent priority value
	PriorityLowest = 5
)

// Task represents a single item on the task list
type Task struct {
	ID               uuid.UUID `json:"id" yaml:"id"`
	Description      string    `json:"description" yaml:"description" validate:"required"`
	Priority         int       `json:"priority" yaml:"priority" validate:"task_priority"`
	EstimatedMinutes int       `json:"estimated_minutes" yaml:"estimated_minutes" validate:"min=0"`
	AddedAt          time.Time `json:"added_at" yaml:"added_at"`
	Completed        bool      `json:"completed" yaml:"completed"`
}

// NewTask creates a task with a fresh ID and the current time as AddedAt.
// Field values are not validated here; callers run the task through
// validation before appending it to a collection.
func NewTask(description string, priority, estimatedMinutes int, now time.Time) *Task {
	return &Task{
		ID:               uuid.New(),
		Description:      description,
		Priority:         priority,
		EstimatedMinutes: estimatedMinutes,
		AddedAt:          now,
		Completed:        false,
	}
}

// MarkCompleted flips the completion flag. Completion is monotonic: a
// completed task never returns to pending.
func (t *Task) MarkCompleted() {
	t.Completed = true
}

// Label renders the task in the short form used by list output
func (t *Task) Label() string {
	return fmt.Sprintf("[P%d, %s] %s", t.Priority, FormatMinutes(t.EstimatedMinutes), t.Description)
}

// FormatMinutes renders a duration in minutes as "1h 30m" or "45m"
func FormatMinutes(minutes int) string {
	if minutes >= 60 {
		return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
	}
	return fmt.Sprintf("%dm", minutes)
}
