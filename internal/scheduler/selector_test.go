package scheduler

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/taskpilot/taskpilot/internal/models"
)

func makeTask(t *testing.T, description string, priority, minutes int, completed bool, addedAt time.Time) models.Task {
	t.Helper()
	return models.Task{
		ID:               uuid.New(),
		Description:      description,
		Priority:         priority,
		EstimatedMinutes: minutes,
		AddedAt:          addedAt,
		Completed:        completed,
	}
}

func TestSelectBestTask(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name             string
		availableMinutes int
		tasks            []models.Task
		wantOutcome      SelectionOutcome
		wantDescription  string
	}{
		{
			name:             "below threshold short-circuits regardless of tasks",
			availableMinutes: 3,
			tasks: []models.Task{
				makeTask(t, "tiny task", 1, 1, false, base),
			},
			wantOutcome: SelectionBelowThreshold,
		},
		{
			name:             "no tasks at all",
			availableMinutes: 60,
			tasks:            nil,
			wantOutcome:      SelectionNoTasks,
		},
		{
			name:             "only completed tasks counts as empty list",
			availableMinutes: 60,
			tasks: []models.Task{
				makeTask(t, "done already", 1, 10, true, base),
			},
			wantOutcome: SelectionNoTasks,
		},
		{
			name:             "none fit the window",
			availableMinutes: 30,
			tasks: []models.Task{
				makeTask(t, "hour-long task", 1, 60, false, base),
			},
			wantOutcome: SelectionNoneFit,
		},
		{
			name:             "highest priority wins",
			availableMinutes: 60,
			tasks: []models.Task{
				makeTask(t, "low priority", 4, 20, false, base),
				makeTask(t, "high priority", 1, 30, false, base.Add(time.Minute)),
			},
			wantOutcome:     SelectionMade,
			wantDescription: "high priority",
		},
		{
			name:             "same priority prefers shortest",
			availableMinutes: 60,
			tasks: []models.Task{
				makeTask(t, "long one", 2, 45, false, base),
				makeTask(t, "short one", 2, 15, false, base.Add(time.Minute)),
			},
			wantOutcome:     SelectionMade,
			wantDescription: "short one",
		},
		{
			name:             "full tie keeps oldest first",
			availableMinutes: 60,
			tasks: []models.Task{
				makeTask(t, "added first", 2, 30, false, base),
				makeTask(t, "added second", 2, 30, false, base.Add(time.Minute)),
			},
			wantOutcome:     SelectionMade,
			wantDescription: "added first",
		},
		{
			name:             "completed tasks are never selected",
			availableMinutes: 60,
			tasks: []models.Task{
				makeTask(t, "finished", 1, 10, true, base),
				makeTask(t, "pending", 3, 10, false, base.Add(time.Minute)),
			},
			wantOutcome:     SelectionMade,
			wantDescription: "pending",
		},
		{
			name:             "oversized task skipped for smaller fit",
			availableMinutes: 30,
			tasks: []models.Task{
				makeTask(t, "too big", 1, 60, false, base),
				makeTask(t, "fits", 2, 25, false, base.Add(time.Minute)),
			},
			wantOutcome:     SelectionMade,
			wantDescription: "fits",
		},
		{
			name:             "exact fit is eligible",
			availableMinutes: 30,
			tasks: []models.Task{
				makeTask(t, "exactly thirty", 3, 30, false, base),
			},
			wantOutcome:     SelectionMade,
			wantDescription: "exactly thirty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, outcome := SelectBestTask(tt.availableMinutes, tt.tasks)
			if outcome != tt.wantOutcome {
				t.Fatalf("SelectBestTask() outcome = %v, want %v", outcome, tt.wantOutcome)
			}
			if tt.wantOutcome != SelectionMade {
				if got != nil {
					t.Errorf("Expected no task, got %q", got.Description)
				}
				return
			}
			if got == nil {
				t.Fatal("Expected a task, got nil")
			}
			if got.Description != tt.wantDescription {
				t.Errorf("Selected %q, want %q", got.Description, tt.wantDescription)
			}
			if got.Completed {
				t.Error("Selected a completed task")
			}
			if got.EstimatedMinutes > tt.availableMinutes {
				t.Errorf("Selected task needs %d minutes but only %d available",
					got.EstimatedMinutes, tt.availableMinutes)
			}
		})
	}
}

func TestSelectBestTask_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	tasks := []models.Task{
		makeTask(t, "b", 3, 10, false, base),
		makeTask(t, "a", 1, 10, false, base.Add(time.Minute)),
	}

	if _, outcome := SelectBestTask(60, tasks); outcome != SelectionMade {
		t.Fatalf("Unexpected outcome: %v", outcome)
	}

	if tasks[0].Description != "b" || tasks[1].Description != "a" {
		t.Error("Expected input slice order to be preserved")
	}
}

func TestSortForListing(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	tasks := []models.Task{
		makeTask(t, "later p2", 2, 10, false, base.Add(time.Hour)),
		makeTask(t, "completed", 1, 10, true, base),
		makeTask(t, "earlier p2", 2, 10, false, base),
		makeTask(t, "p1", 1, 10, false, base.Add(2*time.Hour)),
	}

	got := SortForListing(tasks)

	want := []string{"p1", "earlier p2", "later p2"}
	if len(got) != len(want) {
		t.Fatalf("Expected %d tasks, got %d", len(want), len(got))
	}
	for i, description := range want {
		if got[i].Description != description {
			t.Errorf("Position %d: got %q, want %q", i, got[i].Description, description)
		}
	}
}
