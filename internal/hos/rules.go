// Package hos implements the FMCSA Hours-of-Service scheduler and daily-log
// projector (§4.1-§4.3). It is pure: no I/O, no package-level mutable
// state, safe to invoke concurrently from any number of request handlers.
package hos

import "time"

// Rules is the immutable numeric policy from §4.1. It is passed explicitly
// into Schedule rather than read from a package global so tests can
// substitute adjusted tables for boundary-case coverage (§8).
type Rules struct {
	DrivingLimit      time.Duration // 11h: max driving per on-duty window
	OnDutyWindow      time.Duration // 14h: max elapsed on-duty+driving span
	BreakAfter        time.Duration // 8h: cumulative driving since last qualifying break
	BreakDuration     time.Duration // 0.5h
	OffDutyReset      time.Duration // 10h: consecutive off-duty/sleeper resets daily counters
	CycleLimit        time.Duration // 70h
	CycleWindowDays   int           // 8 days; documented only — see DESIGN.md on the scalar cycle model
	RestartDuration   time.Duration // 34h: resets the 70h cycle to 0
	FuelIntervalMiles float64       // 1000mi
	PreTrip           time.Duration // 0.5h
	PostTrip          time.Duration // 0.5h
	Pickup            time.Duration // 1.0h
	Dropoff           time.Duration // 1.0h
	Fueling           time.Duration // 0.5h
}

// DefaultRules is the FMCSA property-carrying-driver rule table from §4.1.
var DefaultRules = Rules{
	DrivingLimit:      11 * time.Hour,
	OnDutyWindow:      14 * time.Hour,
	BreakAfter:        8 * time.Hour,
	BreakDuration:     30 * time.Minute,
	OffDutyReset:      10 * time.Hour,
	CycleLimit:        70 * time.Hour,
	CycleWindowDays:   8,
	RestartDuration:   34 * time.Hour,
	FuelIntervalMiles: 1000,
	PreTrip:           30 * time.Minute,
	PostTrip:          30 * time.Minute,
	Pickup:            time.Hour,
	Dropoff:           time.Hour,
	Fueling:           30 * time.Minute,
}
