package models

import "time"

// Slot is the next contiguous free time window computed from "now" and the
// calendar. Slots are derived values: computed fresh on every suggestion
// request and never persisted.
type Slot struct {
	FreeFrom    time.Time `json:"free_from"`
	FreeUntil   time.Time `json:"free_until"`
	FreeMinutes int       `json:"free_minutes"`
	Reason      string    `json:"reason"`
}
