package models

import (
	"fmt"
	"time"
)

// CalendarEvent represents a busy period on the calendar. Events are
// immutable after creation; the on-disk collection is unordered and must be
// sorted by start time before use.
type CalendarEvent struct {
	StartTime time.Time `json:"start_time" yaml:"start_time"`
	EndTime   time.Time `json:"end_time" yaml:"end_time"`
	Summary   string    `json:"summary" yaml:"summary"`
}

// Validate checks the end-after-start invariant
func (e *CalendarEvent) Validate() error {
	if !e.EndTime.After(e.StartTime) {
		return fmt.Errorf("event %q: end time %s is not after start time %s",
			e.Summary, e.EndTime.Format(time.RFC3339), e.StartTime.Format(time.RFC3339))
	}
	return nil
}

// Contains reports whether t falls inside the half-open interval [start, end)
func (e *CalendarEvent) Contains(t time.Time) bool {
	return !t.Before(e.StartTime) && t.Before(e.EndTime)
}
