package domain

import "time"

// Activity is a contiguous time interval with a single duty status.
// Activities tile the entire trip time axis from the first event to the
// last with no gaps — the projector relies on that to build calendar-day
// ledgers without having to invent filler itself beyond day boundaries.
type Activity struct {
	Status      DutyStatus
	Start       time.Time
	End         time.Time
	Description string
	Place       *NamedPlace
	Miles       float64

	// TriggerReason records why a REST_10HR/RESTART_34HR/BREAK_30MIN
	// activity was inserted ("CYCLE" | "DRIVING_LIMIT" | "WINDOW" | "BREAK"). It is a
	// debug/test-only field: the HTTP layer never serializes it, but
	// scheduler tests assert on it directly to verify the priority order
	// in which simultaneously-binding limits are resolved.
	TriggerReason string
}

// Hours returns the activity's duration in fractional hours.
func (a Activity) Hours() float64 {
	return a.End.Sub(a.Start).Hours()
}
