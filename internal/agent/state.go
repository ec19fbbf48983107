package agent

import (
	"github.com/google/uuid"
	"github.com/taskpilot/taskpilot/internal/models"
	"github.com/taskpilot/taskpilot/internal/services/classifier"
)

// State is the per-turn record threaded through the state machine nodes.
// One State lives for exactly one request; nothing in it is persisted.
// Nodes fill in their own fields and never unset what an earlier node wrote,
// except completion, which clears a stale error on success.
type State struct {
	// Input is the raw user text, empty for direct commands
	Input string
	// CompleteID is the explicit task identifier of a direct completion
	// request; it bypasses classification entirely
	CompleteID *uuid.UUID
	// Intent is the current intent label, rewritten as routing refines it
	Intent models.Intent
	// Draft holds extracted task fields for add_task
	Draft *classifier.TaskDraft
	// Fragment is the description fragment for complete_task
	Fragment string
	// Suggestion is the task picked by the selector, if any
	Suggestion *models.Task
	// Slot is the computed free window, if a suggestion was attempted
	Slot *models.Slot
	// Response is the user-facing text under construction
	Response string
	// Err is the recovered error message; when set, downstream chaining is
	// suppressed and the formatter surfaces it
	Err string
}
