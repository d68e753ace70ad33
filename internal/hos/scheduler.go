package hos

import (
	"context"
	"fmt"
	"time"

	"hos-trip-service/internal/apperr"
	"hos-trip-service/internal/domain"
	"hos-trip-service/internal/ports"
)

// epsilonHours absorbs floating-point drift when driving a segment down to
// zero remaining hours; below this threshold the segment is considered
// fully driven.
const epsilonHours = 1e-9

// schedState is the scheduler's mutable working state (§4.2). All fields
// are updated together by addStop/driveFor so invariants never observe a
// partially-applied transition.
type schedState struct {
	ctx     context.Context
	rules   Rules
	locator ports.RestStopLocator

	now             time.Time
	driveToday      time.Duration
	windowStart     *time.Time
	driveSinceBreak time.Duration
	cycleUsed       time.Duration
	milesSinceFuel  float64
	position        domain.NamedPlace

	milesIntoSegment float64

	ordinal    int
	stops      []domain.Stop
	activities []domain.Activity
}

// Schedule runs the §4.2 state machine over plan and returns the ordered
// stop list, the activity tiling, and summary statistics. It is total
// given validated input: the scheduler itself never fails after
// initialization (worst case it emits many rest stops).
func Schedule(ctx context.Context, plan Plan, rules Rules, locator ports.RestStopLocator) (Result, error) {
	if plan.OpeningCycleHours < 0 || plan.OpeningCycleHours > 70 {
		return Result{}, apperr.Newf(apperr.Validation, "current_cycle_hours must be between 0 and 70, got %v", plan.OpeningCycleHours)
	}

	s := &schedState{
		ctx:      ctx,
		rules:    rules,
		locator:  locator,
		now:      plan.StartTime,
		cycleUsed: hoursToDuration(plan.OpeningCycleHours),
		position: plan.StartPlace,
	}

	if s.cycleUsed >= rules.CycleLimit {
		s.addStop(domain.StopRestart34Hr, plan.StartPlace, rules.RestartDuration, domain.OffDuty,
			"34-hour restart (opening cycle hours at or above the 70-hour limit)", "CYCLE")
		s.cycleUsed = 0
	}

	s.addStop(domain.StopStart, plan.StartPlace, rules.PreTrip, domain.OnDutyNotDriving, "Pre-trip inspection", "")

	if err := s.driveSegment(plan.SegToPickup); err != nil {
		return Result{}, fmt.Errorf("hos: drive segment to pickup: %w", err)
	}

	s.addStop(domain.StopPickup, plan.PickupPlace, rules.Pickup, domain.OnDutyNotDriving, "Loading cargo at pickup", "")

	if err := s.driveSegment(plan.SegToDropoff); err != nil {
		return Result{}, fmt.Errorf("hos: drive segment to dropoff: %w", err)
	}

	s.addStop(domain.StopDropoff, plan.DropoffPlace, rules.Dropoff, domain.OnDutyNotDriving, "Unloading cargo at dropoff", "")
	s.addStop(domain.StopEndPostTrip, plan.DropoffPlace, rules.PostTrip, domain.OnDutyNotDriving, "Post-trip inspection", "")
	s.windowStart = nil

	summary := s.buildSummary(plan, rules)

	return Result{Stops: s.stops, Activities: s.activities, Summary: summary}, nil
}

// driveSegment is the algorithmic heart of §4.2: it drives seg to
// completion, inserting whatever rest/break/fuel stops the four
// simultaneously-active limits demand, in strict priority order.
func (s *schedState) driveSegment(seg domain.RouteSegment) error {
	hoursRemaining := seg.DurationHours
	if hoursRemaining <= 0 {
		return nil
	}
	avgSpeed := seg.AvgSpeedMPH()
	s.milesIntoSegment = 0

	for hoursRemaining > epsilonHours {
		available := s.availableDrivingTime()

		if available <= 0 {
			s.resolveBindingLimit()
			continue
		}

		if s.milesSinceFuel >= s.rules.FuelIntervalMiles && available >= s.rules.Fueling {
			s.addStop(domain.StopFuel, s.position, s.rules.Fueling, domain.OnDutyNotDriving, "Fuel stop", "")
			s.milesSinceFuel = 0
			continue
		}

		t := minDuration(available, hoursToDuration(hoursRemaining))
		s.driveFor(t, seg, avgSpeed)
		hoursRemaining -= t.Hours()
	}

	return nil
}

// availableDrivingTime computes the maximum contiguous driving time
// permitted right now without violating any limit (§4.2 step a). All four
// terms are clamped to >= 0 before taking the minimum.
func (s *schedState) availableDrivingTime() time.Duration {
	drivingLeft := clampNonNegative(s.rules.DrivingLimit - s.driveToday)

	windowLeft := s.rules.OnDutyWindow
	if s.windowStart != nil {
		windowLeft = clampNonNegative(s.rules.OnDutyWindow - s.now.Sub(*s.windowStart))
	}

	breakLeft := clampNonNegative(s.rules.BreakAfter - s.driveSinceBreak)
	cycleLeft := clampNonNegative(s.rules.CycleLimit - s.cycleUsed)

	return minDuration(drivingLeft, windowLeft, breakLeft, cycleLeft)
}

// resolveBindingLimit inserts the rest/break/restart the binding limit
// requires, per the strict priority order of §4.2 step b.
func (s *schedState) resolveBindingLimit() {
	windowExhausted := s.windowStart != nil && s.now.Sub(*s.windowStart) >= s.rules.OnDutyWindow

	switch {
	case s.cycleUsed >= s.rules.CycleLimit:
		s.addStop(domain.StopRestart34Hr, s.position, s.rules.RestartDuration, domain.OffDuty,
			"34-hour restart (70-hour cycle exhausted)", "CYCLE")
		s.cycleUsed = 0
		s.driveToday = 0
		s.driveSinceBreak = 0
		s.windowStart = nil

	case s.driveToday >= s.rules.DrivingLimit || windowExhausted:
		reason := "WINDOW"
		desc := "10-hour rest (14-hour on-duty window exhausted)"
		if s.driveToday >= s.rules.DrivingLimit {
			reason = "DRIVING_LIMIT"
			desc = "10-hour rest (11-hour driving limit reached)"
		}
		s.addStop(domain.StopRest10Hr, s.position, s.rules.OffDutyReset, domain.OffDuty, desc, reason)
		s.driveToday = 0
		s.driveSinceBreak = 0
		s.windowStart = nil

	default:
		s.addStop(domain.StopBreak30, s.position, s.rules.BreakDuration, domain.OnDutyNotDriving,
			"30-minute break (8-hour driving-since-break limit reached)", "BREAK")
		s.driveSinceBreak = 0
	}
}

// driveFor advances state by driving t hours of seg, interpolating
// position along the straight line between the segment's endpoints; the
// segment's polyline is not decoded or followed.
func (s *schedState) driveFor(t time.Duration, seg domain.RouteSegment, avgSpeedMPH float64) {
	s.openWindowIfNeeded()

	start := s.now
	end := s.now.Add(t)

	miles := t.Hours() * avgSpeedMPH

	s.activities = append(s.activities, domain.Activity{
		Status: domain.Driving,
		Start:  start,
		End:    end,
		Place:  nil,
		Miles:  miles,
	})

	s.driveToday += t
	s.driveSinceBreak += t
	s.cycleUsed += t
	s.milesSinceFuel += miles
	s.milesIntoSegment += miles
	s.now = end

	s.position = interpolatePosition(seg, s.milesIntoSegment)
}

// addStop emits a Stop (and its backing Activity) at the scheduler's
// current position, advances now by duration, and updates the on-duty
// window anchor. When kind is a rest/break/fuel event, the Rest-stop
// Locator is consulted for a plausible named place (§4.2 "Rest-stop
// snapping"); locator failures are swallowed per §7 and replaced with a
// placeholder — the rest still counts.
func (s *schedState) addStop(kind domain.StopKind, place domain.NamedPlace, duration time.Duration, status domain.DutyStatus, activityText, triggerReason string) {
	if status != domain.OffDuty && status != domain.SleeperBerth {
		s.openWindowIfNeeded()
		// On-duty-not-driving time (inspections, loading/unloading, fueling,
		// the 30-minute break) counts against the 70-hour cycle the same as
		// driving does; only OFF_DUTY/SLEEPER_BERTH rests are exempt. Mirrors
		// original_source/backend/trips/services/hos_calculator.py's
		// _advance_time, which increments cycle_hours_used on both branches.
		s.cycleUsed += duration
	}

	if isSnappable(kind) {
		place = s.snap(place, kind)
	}

	arrival := s.now
	departure := s.now.Add(duration)

	s.activities = append(s.activities, domain.Activity{
		Status:        status,
		Start:         arrival,
		End:           departure,
		Description:   activityText,
		Place:         &place,
		TriggerReason: triggerReason,
	})

	s.ordinal++
	s.stops = append(s.stops, domain.Stop{
		Ordinal:       s.ordinal,
		Kind:          kind,
		Place:         place,
		ArrivalTime:   arrival,
		DepartureTime: departure,
		ActivityText:  activityText,
		Status:        status,
	})

	s.now = departure
	s.position = place
}

func isSnappable(kind domain.StopKind) bool {
	switch kind {
	case domain.StopRest10Hr, domain.StopBreak30, domain.StopFuel:
		return true
	default:
		return false
	}
}

// snap asks the locator for a named place near the current position. A nil
// locator, a miss, or an error all fall back to the coordinate placeholder
// — correctness of HOS accounting never depends on locator availability.
func (s *schedState) snap(near domain.NamedPlace, kind domain.StopKind) domain.NamedPlace {
	if s.locator != nil {
		found, ok, err := s.locator.NearestStop(s.ctx, near.Coordinate, kind)
		if err == nil && ok {
			return found
		}
	}
	return domain.NamedPlace{
		Address:     near.Address,
		Coordinate:  near.Coordinate,
		DisplayName: fmt.Sprintf("Rest Area near %s", near.Coordinate.String()),
	}
}

func (s *schedState) openWindowIfNeeded() {
	if s.windowStart == nil {
		now := s.now
		s.windowStart = &now
	}
}

func (s *schedState) buildSummary(plan Plan, rules Rules) domain.TripSummary {
	counts := make(map[domain.StopKind]int)
	var drivingHours float64
	for _, st := range s.stops {
		counts[st.Kind]++
	}
	for _, a := range s.activities {
		if a.Status == domain.Driving {
			drivingHours += a.Hours()
		}
	}

	closingRemaining := (rules.CycleLimit - s.cycleUsed).Hours()
	if closingRemaining < 0 {
		closingRemaining = 0
	}

	return domain.TripSummary{
		TotalDistanceMiles:  plan.SegToPickup.DistanceMiles + plan.SegToDropoff.DistanceMiles,
		TotalDrivingHours:   domain.RoundHours(drivingHours),
		CycleHoursUsed:      plan.OpeningCycleHours,
		CycleHoursRemaining: domain.RoundHours(closingRemaining),
		StopCounts:          counts,
		StartTime:           plan.StartTime,
		EndTime:             s.now,
	}
}
