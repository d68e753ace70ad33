package domain

import (
	"time"

	"github.com/google/uuid"
)

// TripSummary is the aggregate statistics block returned alongside the full
// stop/ledger detail.
type TripSummary struct {
	TotalDistanceMiles  float64
	TotalDrivingHours   float64
	TotalDays           int
	CycleHoursUsed      float64
	CycleHoursRemaining float64
	StopCounts          map[StopKind]int
	StartTime           time.Time
	EndTime             time.Time
}

// Trip is the persisted aggregate produced by a single calculate
// invocation. It is immutable after insertion: re-running calculate
// produces a new Trip rather than mutating an existing one.
type Trip struct {
	ID                 uuid.UUID
	OwnerID            uuid.UUID
	StartAddress       NamedPlace
	PickupAddress      NamedPlace
	DropoffAddress     NamedPlace
	StartingCycleHours float64
	Polyline           string
	SegToPickup        RouteSegment
	SegToDropoff       RouteSegment
	Stops              []Stop
	DailyLedgers       []DailyLedger
	Summary            TripSummary
	CreatedAt          time.Time
}
