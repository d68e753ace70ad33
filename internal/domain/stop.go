package domain

import "time"

// Stop is a named, time-bounded event along the trip that is not continuous
// driving. Ordinal is 1-based and monotonic across the whole trip.
type Stop struct {
	Ordinal       int
	Kind          StopKind
	Place         NamedPlace
	ArrivalTime   time.Time
	DepartureTime time.Time
	ActivityText  string
	Status        DutyStatus
}

// DurationMinutes is departure minus arrival, rounded to the nearest minute
// per the rounding rule pinned in DESIGN.md.
func (s Stop) DurationMinutes() int {
	return roundMinutes(s.DepartureTime.Sub(s.ArrivalTime))
}
