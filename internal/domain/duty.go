package domain

// DutyStatus is one of the four duty statuses that partition every minute
// of every day on an FMCSA daily log.
type DutyStatus string

const (
	OffDuty          DutyStatus = "OFF_DUTY"
	SleeperBerth     DutyStatus = "SLEEPER_BERTH"
	Driving          DutyStatus = "DRIVING"
	OnDutyNotDriving DutyStatus = "ON_DUTY_NOT_DRIVING"
)

// StopKind enumerates the events the scheduler can emit along a trip.
type StopKind string

const (
	StopStart       StopKind = "START"
	StopPickup      StopKind = "PICKUP"
	StopDropoff     StopKind = "DROPOFF"
	StopFuel        StopKind = "FUEL"
	StopBreak30     StopKind = "BREAK_30MIN"
	StopRest10Hr    StopKind = "REST_10HR"
	StopRestart34Hr StopKind = "RESTART_34HR"
	StopEndPostTrip StopKind = "END_POST_TRIP"
)
