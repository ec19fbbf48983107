package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/taskpilot/taskpilot/internal/models"
)

// WorkdayEnd is the assumed end-of-workday boundary, applied on the same
// calendar day as "now" in now's location.
type WorkdayEnd struct {
	Hour   int
	Minute int
}

// DefaultWorkdayEnd is 17:00 local time
var DefaultWorkdayEnd = WorkdayEnd{Hour: 17}

// onDay returns the boundary instant on the same calendar day as t
func (w WorkdayEnd) onDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), w.Hour, w.Minute, 0, 0, t.Location())
}

// NextSlot computes the next contiguous free window from "now" given the
// calendar. Events are sorted by start time before use; the input slice is
// not modified.
//
// If now falls inside an event, the free window begins when that event ends.
// Only the earliest-starting event containing now is consulted: an
// overlapping event that starts later and runs longer does not extend the
// busy period. That asymmetry is long-standing behavior and is pinned by
// TestNextSlot_OverlappingEventsFirstWins; do not "fix" it without a product
// decision.
func NextSlot(now time.Time, events []models.CalendarEvent, workdayEnd WorkdayEnd) models.Slot {
	sorted := make([]models.CalendarEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})

	busyUntil := now
	for _, ev := range sorted {
		if ev.Contains(now) {
			busyUntil = ev.EndTime
			break
		}
	}

	for _, ev := range sorted {
		if !ev.StartTime.Before(busyUntil) {
			return newSlot(busyUntil, ev.StartTime,
				fmt.Sprintf("blocked by upcoming event %q", ev.Summary))
		}
	}

	boundary := workdayEnd.onDay(now)
	if busyUntil.Before(boundary) {
		return newSlot(busyUntil, boundary, "until end of workday")
	}

	return newSlot(busyUntil, busyUntil, "workday over or currently busy past end of day")
}

func newSlot(from, until time.Time, reason string) models.Slot {
	minutes := int(until.Sub(from).Minutes())
	if minutes < 0 {
		minutes = 0
	}
	return models.Slot{
		FreeFrom:    from,
		FreeUntil:   until,
		FreeMinutes: minutes,
		Reason:      reason,
	}
}
