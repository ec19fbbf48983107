package scheduler

import (
	"strings"
	"testing"
	"time"

	"github.com/taskpilot/taskpilot/internal/models"
)

func mustTime(t *testing.T, hour, minute int) time.Time {
	t.Helper()
	return time.Date(2025, 6, 2, hour, minute, 0, 0, time.UTC)
}

func event(t *testing.T, startHour, startMin, endHour, endMin int, summary string) models.CalendarEvent {
	t.Helper()
	return models.CalendarEvent{
		StartTime: mustTime(t, startHour, startMin),
		EndTime:   mustTime(t, endHour, endMin),
		Summary:   summary,
	}
}

func TestNextSlot_InsideEventThenNextEvent(t *testing.T) {
	t.Parallel()

	// now=09:00 inside the standup; next meeting at 11:00
	now := mustTime(t, 9, 0)
	events := []models.CalendarEvent{
		event(t, 9, 0, 10, 0, "standup"),
		event(t, 11, 0, 12, 0, "design review"),
	}

	slot := NextSlot(now, events, DefaultWorkdayEnd)

	if !slot.FreeFrom.Equal(mustTime(t, 10, 0)) {
		t.Errorf("Expected free from 10:00, got %v", slot.FreeFrom)
	}
	if !slot.FreeUntil.Equal(mustTime(t, 11, 0)) {
		t.Errorf("Expected free until 11:00, got %v", slot.FreeUntil)
	}
	if slot.FreeMinutes != 60 {
		t.Errorf("Expected 60 free minutes, got %d", slot.FreeMinutes)
	}
	if !strings.Contains(slot.Reason, "design review") {
		t.Errorf("Expected reason to mention the upcoming event, got %q", slot.Reason)
	}
}

func TestNextSlot_InsideOnlyEventRunsToEndOfWorkday(t *testing.T) {
	t.Parallel()

	// Scenario: now=09:00, single event 09:00-10:00, nothing after
	now := mustTime(t, 9, 0)
	events := []models.CalendarEvent{
		event(t, 9, 0, 10, 0, "standup"),
	}

	slot := NextSlot(now, events, DefaultWorkdayEnd)

	if !slot.FreeFrom.Equal(mustTime(t, 10, 0)) {
		t.Errorf("Expected free from 10:00, got %v", slot.FreeFrom)
	}
	if !slot.FreeUntil.Equal(mustTime(t, 17, 0)) {
		t.Errorf("Expected free until 17:00, got %v", slot.FreeUntil)
	}
	if slot.FreeMinutes != 7*60 {
		t.Errorf("Expected %d free minutes, got %d", 7*60, slot.FreeMinutes)
	}
	if slot.Reason != "until end of workday" {
		t.Errorf("Unexpected reason: %q", slot.Reason)
	}
}

func TestNextSlot_NotBusyNow(t *testing.T) {
	t.Parallel()

	now := mustTime(t, 13, 30)
	events := []models.CalendarEvent{
		event(t, 9, 0, 10, 0, "standup"),
		event(t, 15, 0, 16, 0, "1:1"),
	}

	slot := NextSlot(now, events, DefaultWorkdayEnd)

	if !slot.FreeFrom.Equal(now) {
		t.Errorf("Expected free from now, got %v", slot.FreeFrom)
	}
	if !slot.FreeUntil.Equal(mustTime(t, 15, 0)) {
		t.Errorf("Expected free until 15:00, got %v", slot.FreeUntil)
	}
	if slot.FreeMinutes != 90 {
		t.Errorf("Expected 90 free minutes, got %d", slot.FreeMinutes)
	}
}

func TestNextSlot_EmptyCalendar(t *testing.T) {
	t.Parallel()

	now := mustTime(t, 9, 0)
	slot := NextSlot(now, nil, DefaultWorkdayEnd)

	if !slot.FreeFrom.Equal(now) || !slot.FreeUntil.Equal(mustTime(t, 17, 0)) {
		t.Errorf("Expected 09:00-17:00, got %v-%v", slot.FreeFrom, slot.FreeUntil)
	}
	if slot.FreeMinutes != 8*60 {
		t.Errorf("Expected %d free minutes, got %d", 8*60, slot.FreeMinutes)
	}
}

func TestNextSlot_PastEndOfWorkday(t *testing.T) {
	t.Parallel()

	now := mustTime(t, 18, 15)
	slot := NextSlot(now, nil, DefaultWorkdayEnd)

	if slot.FreeMinutes != 0 {
		t.Errorf("Expected zero free minutes, got %d", slot.FreeMinutes)
	}
	if slot.Reason != "workday over or currently busy past end of day" {
		t.Errorf("Unexpected reason: %q", slot.Reason)
	}
}

func TestNextSlot_BusyPastEndOfWorkday(t *testing.T) {
	t.Parallel()

	// Meeting runs past the boundary; zero-duration slot, not an error
	now := mustTime(t, 16, 30)
	events := []models.CalendarEvent{
		event(t, 16, 0, 18, 0, "late incident review"),
	}

	slot := NextSlot(now, events, DefaultWorkdayEnd)

	if slot.FreeMinutes != 0 {
		t.Errorf("Expected zero free minutes, got %d", slot.FreeMinutes)
	}
	if !slot.FreeFrom.Equal(mustTime(t, 18, 0)) {
		t.Errorf("Expected free from 18:00, got %v", slot.FreeFrom)
	}
}

// Overlapping events are not merged: only the earliest-starting event
// containing now decides when the busy period ends, even if a later-starting
// overlap runs longer. Pinned deliberately; see NextSlot doc comment.
func TestNextSlot_OverlappingEventsFirstWins(t *testing.T) {
	t.Parallel()

	now := mustTime(t, 9, 30)
	events := []models.CalendarEvent{
		event(t, 9, 15, 11, 0, "workshop"),
		event(t, 9, 0, 10, 0, "standup"),
	}

	slot := NextSlot(now, events, DefaultWorkdayEnd)

	// busyUntil comes from the 09:00 standup, not the longer workshop
	if !slot.FreeFrom.Equal(mustTime(t, 10, 0)) {
		t.Errorf("Expected free from 10:00 (earliest containing event), got %v", slot.FreeFrom)
	}
	// No event starts at or after 10:00, so the slot runs to end of workday
	if !slot.FreeUntil.Equal(mustTime(t, 17, 0)) {
		t.Errorf("Expected free until 17:00, got %v", slot.FreeUntil)
	}
}

func TestNextSlot_UnsortedInputAndStability(t *testing.T) {
	t.Parallel()

	now := mustTime(t, 8, 0)
	events := []models.CalendarEvent{
		event(t, 14, 0, 15, 0, "retro"),
		event(t, 9, 0, 10, 0, "standup"),
	}

	slot := NextSlot(now, events, DefaultWorkdayEnd)

	if !slot.FreeUntil.Equal(mustTime(t, 9, 0)) {
		t.Errorf("Expected slot to end at 09:00 standup, got %v", slot.FreeUntil)
	}
	if !strings.Contains(slot.Reason, "standup") {
		t.Errorf("Expected reason to mention standup, got %q", slot.Reason)
	}
	// Input order must be untouched
	if events[0].Summary != "retro" {
		t.Error("Expected input slice to be unmodified")
	}
}

func TestNextSlot_ConfigurableWorkdayEnd(t *testing.T) {
	t.Parallel()

	now := mustTime(t, 17, 30)
	slot := NextSlot(now, nil, WorkdayEnd{Hour: 18, Minute: 30})

	if slot.FreeMinutes != 60 {
		t.Errorf("Expected 60 free minutes until 18:30, got %d", slot.FreeMinutes)
	}
	if slot.Reason != "until end of workday" {
		t.Errorf("Unexpected reason: %q", slot.Reason)
	}
}

func TestNextSlot_DurationNeverNegative(t *testing.T) {
	t.Parallel()

	cases := [][]models.CalendarEvent{
		nil,
		{event(t, 9, 0, 10, 0, "a")},
		{event(t, 9, 0, 18, 0, "all day")},
		{event(t, 9, 0, 12, 0, "a"), event(t, 9, 30, 10, 0, "b"), event(t, 16, 59, 17, 1, "c")},
	}

	for _, hour := range []int{0, 8, 9, 12, 16, 17, 23} {
		now := mustTime(t, hour, 0)
		for _, events := range cases {
			slot := NextSlot(now, events, DefaultWorkdayEnd)
			if slot.FreeMinutes < 0 {
				t.Errorf("Negative free duration %d at now=%v events=%v", slot.FreeMinutes, now, events)
			}
		}
	}
}
