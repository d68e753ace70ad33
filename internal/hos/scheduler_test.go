package hos_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hos-trip-service/internal/domain"
	"hos-trip-service/internal/hos"
)

func place(lat, lng float64, name string) domain.NamedPlace {
	return domain.NamedPlace{Coordinate: domain.Coordinate{Lat: lat, Lng: lng}, DisplayName: name}
}

func segment(from, to domain.NamedPlace, miles, hours float64) domain.RouteSegment {
	return domain.RouteSegment{Origin: from, Destination: to, DistanceMiles: miles, DurationHours: hours}
}

func stopKinds(stops []domain.Stop) []domain.StopKind {
	kinds := make([]domain.StopKind, 0, len(stops))
	for _, s := range stops {
		kinds = append(kinds, s.Kind)
	}
	return kinds
}

// S1: a short trip that never crosses any limit should produce exactly the
// four mandatory stops and no breaks, rests, restarts, or fuel stops.
func TestSchedule_ShortTrip_NoInterveningStops(t *testing.T) {
	chicago := place(41.8781, -87.6298, "Chicago, IL")
	milwaukee := place(43.0389, -87.9065, "Milwaukee, WI")
	madison := place(43.0731, -89.4012, "Madison, WI")

	start, err := time.Parse(time.RFC3339, "2026-01-17T06:30:00-06:00")
	require.NoError(t, err)

	plan := hos.Plan{
		StartTime:         start,
		StartPlace:        chicago,
		PickupPlace:       milwaukee,
		DropoffPlace:      madison,
		SegToPickup:       segment(chicago, milwaukee, 93, 1.75),
		SegToDropoff:      segment(milwaukee, madison, 80, 1.5),
		OpeningCycleHours: 10,
	}

	result, err := hos.Schedule(context.Background(), plan, hos.DefaultRules, nil)
	require.NoError(t, err)

	assert.Equal(t, []domain.StopKind{
		domain.StopStart, domain.StopPickup, domain.StopDropoff, domain.StopEndPostTrip,
	}, stopKinds(result.Stops))

	assert.InDelta(t, 3.25, result.Summary.TotalDrivingHours, 0.01)
	assert.InDelta(t, 173, result.Summary.TotalDistanceMiles, 0.01)

	ledgers, err := hos.Project(result.Activities, chicago, nil)
	require.NoError(t, err)
	require.Len(t, ledgers, 1)
	assert.InDelta(t, 24.0, ledgers[0].Hours.Sum(), 1.0/60)
}

// S2: a trip whose driving alone totals 20h with an opening cycle of 25h
// must cross the 8h break threshold and the 11h driving limit at least
// once each, must never hit the 70h cycle limit, and every calendar day it
// spans must sum to 24h.
func TestSchedule_MediumTrip_BreakAndRestNoRestart(t *testing.T) {
	start := place(39.7392, -104.9903, "Denver, CO")
	mid := place(41.2565, -95.9345, "Omaha, NE")
	end := place(39.0997, -94.5786, "Kansas City, MO")

	startTime, err := time.Parse(time.RFC3339, "2026-02-01T06:00:00-07:00")
	require.NoError(t, err)

	plan := hos.Plan{
		StartTime:         startTime,
		StartPlace:        start,
		PickupPlace:       mid,
		DropoffPlace:      end,
		SegToPickup:       segment(start, mid, 450, 10),
		SegToDropoff:      segment(mid, end, 450, 10),
		OpeningCycleHours: 25,
	}

	result, err := hos.Schedule(context.Background(), plan, hos.DefaultRules, nil)
	require.NoError(t, err)

	kinds := stopKinds(result.Stops)
	assert.Contains(t, kinds, domain.StopBreak30)
	assert.Contains(t, kinds, domain.StopRest10Hr)
	assert.NotContains(t, kinds, domain.StopRestart34Hr)
	assert.NotContains(t, kinds, domain.StopFuel)

	assert.Less(t, result.Summary.CycleHoursRemaining, 70.0)
	assert.GreaterOrEqual(t, result.Summary.CycleHoursRemaining, 0.0)

	ledgers, err := hos.Project(result.Activities, start, nil)
	require.NoError(t, err)
	require.NotEmpty(t, ledgers)
	for i, l := range ledgers {
		assert.InDeltaf(t, 24.0, l.Hours.Sum(), 1.0/60, "day %d", i+1)
	}
}

// S3: an opening cycle of 65h plus 10h of driving must trigger exactly one
// 34-hour restart, resetting cycle_used to 0, with the closing cycle hours
// used staying at or below 10 hours.
func TestSchedule_CycleBoundary_SingleRestart(t *testing.T) {
	start := place(32.7767, -96.7970, "Dallas, TX")
	mid := place(32.7357, -97.1081, "Arlington, TX")
	end := place(32.9483, -96.7299, "Plano, TX")

	startTime, err := time.Parse(time.RFC3339, "2026-03-10T05:00:00-06:00")
	require.NoError(t, err)

	plan := hos.Plan{
		StartTime:         startTime,
		StartPlace:        start,
		PickupPlace:       mid,
		DropoffPlace:      end,
		SegToPickup:       segment(start, mid, 250, 5),
		SegToDropoff:      segment(mid, end, 250, 5),
		OpeningCycleHours: 65,
	}

	result, err := hos.Schedule(context.Background(), plan, hos.DefaultRules, nil)
	require.NoError(t, err)

	restarts := 0
	for _, st := range result.Stops {
		if st.Kind == domain.StopRestart34Hr {
			restarts++
		}
	}
	assert.Equal(t, 1, restarts)

	closingCycleUsed := hos.DefaultRules.CycleLimit.Hours() - result.Summary.CycleHoursRemaining
	assert.LessOrEqual(t, closingCycleUsed, 10.0)
}

// S4: craft a trip where the 14h on-duty window and the 11h driving limit
// would both bind at (roughly) the same moment, and assert the recorded
// TriggerReason on the resulting rest reflects whichever counter actually
// hit its limit first rather than always reporting the same reason.
func TestSchedule_WindowVsDrivingLimit_PriorityOrder(t *testing.T) {
	start := place(36.1699, -115.1398, "Las Vegas, NV")
	end := place(34.0522, -118.2437, "Los Angeles, CA")

	startTime, err := time.Parse(time.RFC3339, "2026-04-05T07:00:00-07:00")
	require.NoError(t, err)

	rules := hos.DefaultRules

	plan := hos.Plan{
		StartTime:         startTime,
		StartPlace:        start,
		PickupPlace:       start,
		DropoffPlace:      end,
		SegToPickup:       segment(start, start, 0, 0),
		SegToDropoff:      segment(start, end, 11*50, 11.5),
		OpeningCycleHours: 0,
	}

	result, err := hos.Schedule(context.Background(), plan, rules, nil)
	require.NoError(t, err)

	var rest *domain.Activity
	for i := range result.Activities {
		if result.Activities[i].TriggerReason == "DRIVING_LIMIT" || result.Activities[i].TriggerReason == "WINDOW" {
			rest = &result.Activities[i]
			break
		}
	}
	require.NotNil(t, rest, "expected a REST_10HR activity with a recorded trigger reason")
	assert.Equal(t, "DRIVING_LIMIT", rest.TriggerReason)
}

// An opening cycle already at or above the 70h limit must force an
// immediate restart before any driving happens.
func TestSchedule_OpeningCycleAtLimit_ImmediateRestart(t *testing.T) {
	start := place(29.7604, -95.3698, "Houston, TX")
	end := place(29.4241, -98.4936, "San Antonio, TX")

	startTime := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	plan := hos.Plan{
		StartTime:         startTime,
		StartPlace:        start,
		PickupPlace:       start,
		DropoffPlace:      end,
		SegToPickup:       segment(start, start, 0, 0),
		SegToDropoff:      segment(start, end, 190, 3),
		OpeningCycleHours: 70,
	}

	result, err := hos.Schedule(context.Background(), plan, hos.DefaultRules, nil)
	require.NoError(t, err)
	require.NotEmpty(t, result.Stops)
	assert.Equal(t, domain.StopRestart34Hr, result.Stops[0].Kind)
	assert.Equal(t, "CYCLE", result.Activities[0].TriggerReason)
}

// current_cycle_hours outside [0, 70] must be rejected as a validation
// error rather than silently clamped.
func TestSchedule_InvalidOpeningCycleHours_Rejected(t *testing.T) {
	start := place(0, 0, "origin")
	end := place(0, 1, "dest")

	plan := hos.Plan{
		StartTime:         time.Now(),
		StartPlace:        start,
		PickupPlace:       start,
		DropoffPlace:      end,
		SegToPickup:       segment(start, start, 0, 0),
		SegToDropoff:      segment(start, end, 50, 1),
		OpeningCycleHours: 71,
	}

	_, err := hos.Schedule(context.Background(), plan, hos.DefaultRules, nil)
	assert.Error(t, err)
}

// Running the same plan twice must produce byte-for-byte identical
// schedules (modulo nothing — the scheduler is pure and deterministic),
// grounding S5's idempotent-persistence expectation at the scheduling
// layer before persistence ever gets involved.
func TestSchedule_Idempotent(t *testing.T) {
	start := place(39.7392, -104.9903, "Denver, CO")
	mid := place(41.2565, -95.9345, "Omaha, NE")
	end := place(39.0997, -94.5786, "Kansas City, MO")

	startTime, err := time.Parse(time.RFC3339, "2026-02-01T06:00:00-07:00")
	require.NoError(t, err)

	plan := hos.Plan{
		StartTime:         startTime,
		StartPlace:        start,
		PickupPlace:       mid,
		DropoffPlace:      end,
		SegToPickup:       segment(start, mid, 450, 10),
		SegToDropoff:      segment(mid, end, 450, 10),
		OpeningCycleHours: 25,
	}

	first, err := hos.Schedule(context.Background(), plan, hos.DefaultRules, nil)
	require.NoError(t, err)
	second, err := hos.Schedule(context.Background(), plan, hos.DefaultRules, nil)
	require.NoError(t, err)

	assert.Equal(t, stopKinds(first.Stops), stopKinds(second.Stops))
	assert.Equal(t, first.Summary, second.Summary)
	require.Len(t, second.Stops, len(first.Stops))
	for i := range first.Stops {
		assert.Equal(t, first.Stops[i].ArrivalTime, second.Stops[i].ArrivalTime)
		assert.Equal(t, first.Stops[i].DepartureTime, second.Stops[i].DepartureTime)
	}
}
