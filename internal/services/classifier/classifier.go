package classifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/taskpilot/taskpilot/internal/models"
	"github.com/taskpilot/taskpilot/internal/validation"
)

// Classifier maps free-form user text to a structured intent. Implementations
// call an external text-understanding service; failures must be reported as
// errors, never as a fabricated Result.
type Classifier interface {
	Classify(ctx context.Context, text string, now time.Time) (*Result, error)
}

// TaskDraft carries the structured fields extracted for an add_task intent
type TaskDraft struct {
	Description      string `json:"description" validate:"required"`
	Priority         int    `json:"priority" validate:"task_priority"`
	EstimatedMinutes int    `json:"estimated_minutes" validate:"min=0"`
}

// Result is the structured outcome of a classification. Exactly one payload
// field may be populated, keyed by the intent: Task for add_task, Match for
// complete_task. Anything else carries the bare intent.
type Result struct {
	Intent models.Intent
	Task   *TaskDraft
	Match  string
}

// Validate enforces the per-intent payload contract. A chatty classifier may
// claim add_task and then omit half the fields; that must surface here, before
// any task list mutation.
func (r *Result) Validate() error {
	if !r.Intent.IsClassifiable() {
		return &SchemaError{Detail: fmt.Sprintf("unknown intent %q", r.Intent)}
	}

	switch r.Intent {
	case models.IntentAddTask:
		if r.Task == nil {
			return &SchemaError{Detail: "add_task intent without task fields"}
		}
		if strings.TrimSpace(r.Task.Description) == "" {
			return &SchemaError{Detail: "add_task intent with empty description"}
		}
		if err := validation.Validate.Struct(r.Task); err != nil {
			return &SchemaError{Detail: fmt.Sprintf("invalid task fields: %v", err)}
		}
	case models.IntentCompleteTask:
		if strings.TrimSpace(r.Match) == "" {
			return &SchemaError{Detail: "complete_task intent without a description fragment"}
		}
	default:
		if r.Task != nil || r.Match != "" {
			return &SchemaError{Detail: fmt.Sprintf("unexpected payload for intent %q", r.Intent)}
		}
	}

	return nil
}
