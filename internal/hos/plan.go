package hos

import (
	"time"

	"hos-trip-service/internal/domain"
)

// Plan is the scheduler's input contract (§4.2): a two-segment route with
// per-segment mileage/duration, a trip start wall-clock, and the driver's
// already-accrued cycle hours.
type Plan struct {
	StartTime         time.Time
	StartPlace        domain.NamedPlace
	PickupPlace       domain.NamedPlace
	DropoffPlace      domain.NamedPlace
	SegToPickup       domain.RouteSegment
	SegToDropoff      domain.RouteSegment
	OpeningCycleHours float64
}

// Result is the scheduler's output contract: an ordered stop list, the
// activity tiling the Daily-log Projector consumes, and summary stats.
type Result struct {
	Stops      []domain.Stop
	Activities []domain.Activity
	Summary    domain.TripSummary
}
