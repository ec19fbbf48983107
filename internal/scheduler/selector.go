package scheduler

import (
	"sort"

	"github.com/taskpilot/taskpilot/internal/models"
)

// MinUsefulMinutes is the threshold below which no selection is attempted
const MinUsefulMinutes = 5

// SelectionOutcome explains why SelectBestTask did or did not pick a task
type SelectionOutcome int

const (
	// SelectionMade means a task was picked
	SelectionMade SelectionOutcome = iota
	// SelectionBelowThreshold means the window is too small for most tasks
	SelectionBelowThreshold
	// SelectionNoTasks means there are no incomplete tasks at all
	SelectionNoTasks
	// SelectionNoneFit means incomplete tasks exist but none fit the window
	SelectionNoneFit
)

// SelectBestTask picks the best incomplete task that fits within
// availableMinutes. Among eligible tasks the lowest priority value wins;
// ties prefer the shortest estimate, and remaining ties keep original list
// order (oldest first, since the list is append-ordered). Pure function:
// neither tasks nor their order is modified.
func SelectBestTask(availableMinutes int, tasks []models.Task) (*models.Task, SelectionOutcome) {
	if availableMinutes < MinUsefulMinutes {
		return nil, SelectionBelowThreshold
	}

	hasIncomplete := false
	eligible := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		hasIncomplete = true
		if t.EstimatedMinutes <= availableMinutes {
			eligible = append(eligible, t)
		}
	}

	if len(eligible) == 0 {
		if hasIncomplete {
			return nil, SelectionNoneFit
		}
		return nil, SelectionNoTasks
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].Priority != eligible[j].Priority {
			return eligible[i].Priority < eligible[j].Priority
		}
		return eligible[i].EstimatedMinutes < eligible[j].EstimatedMinutes
	})

	best := eligible[0]
	return &best, SelectionMade
}

// SortForListing returns incomplete tasks ordered for display: priority
// ascending, then creation time ascending.
func SortForListing(tasks []models.Task) []models.Task {
	pending := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.Completed {
			pending = append(pending, t)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		if pending[i].Priority != pending[j].Priority {
			return pending[i].Priority < pending[j].Priority
		}
		return pending[i].AddedAt.Before(pending[j].AddedAt)
	})
	return pending
}
