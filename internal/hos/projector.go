package hos

import (
	"fmt"
	"time"

	"hos-trip-service/internal/apperr"
	"hos-trip-service/internal/domain"
)

// ledgerEpsilonHours is the rounding tolerance §4.3 step 4 allows when
// asserting the four daily totals sum to 24.00 (ε = 1 minute).
const ledgerEpsilonHours = 1.0 / 60.0

// Project implements §4.3: it splits activities at calendar-day
// boundaries in the resolved reference time zone, accumulates per-status
// hour totals, and emits a remarks list, returning one DailyLedger per
// calendar day the trip spans.
func Project(activities []domain.Activity, referencePlace domain.NamedPlace, resolver TimezoneResolver) ([]domain.DailyLedger, error) {
	if len(activities) == 0 {
		return nil, nil
	}
	if resolver == nil {
		resolver = DefaultTimezoneResolver
	}

	zoneName, resolvedName := loadLocation(resolver.Resolve(referencePlace.Coordinate))
	_ = resolvedName

	tripStart := activities[0].Start
	tripEnd := activities[len(activities)-1].End

	dayStart := startOfDay(tripStart, zoneName)
	var ledgers []domain.DailyLedger

	dayNumber := 1
	for dayStart.Before(tripEnd) {
		dayEnd := dayStart.Add(24 * time.Hour)

		ledger, err := buildDayLedger(dayStart, dayEnd, dayNumber, zoneName, activities)
		if err != nil {
			return nil, err
		}
		ledgers = append(ledgers, ledger)

		dayStart = dayEnd
		dayNumber++
	}

	return ledgers, nil
}

// buildDayLedger fills [dayStart, dayEnd) with the activities that
// overlap it, padding any uncovered leading/trailing time with OFF_DUTY.
func buildDayLedger(dayStart, dayEnd time.Time, dayNumber int, zone *time.Location, activities []domain.Activity) (domain.DailyLedger, error) {
	ledger := domain.DailyLedger{
		Date:      dayStart,
		DayNumber: dayNumber,
		Timezone:  zone.String(),
	}

	cursor := dayStart
	var lastLocation string

	for _, a := range activities {
		clipStart, clipEnd, ok := clip(a.Start, a.End, dayStart, dayEnd)
		if !ok {
			continue
		}

		if clipStart.After(cursor) {
			ledger.Entries = append(ledger.Entries, domain.LedgerEntry{
				Status:   domain.OffDuty,
				Start:    cursor,
				End:      clipStart,
				Location: lastLocation,
			})
			ledger.Hours.OffDutyHours += clipStart.Sub(cursor).Hours()
		}

		location := placeLabel(a.Place)
		if location != "" {
			lastLocation = location
		}

		hours := clipEnd.Sub(clipStart).Hours()
		addHours(&ledger.Hours, a.Status, hours)

		if a.Miles > 0 && a.End.After(a.Start) {
			frac := clipEnd.Sub(clipStart).Hours() / a.End.Sub(a.Start).Hours()
			ledger.TotalMiles += a.Miles * frac
		}

		ledger.Entries = append(ledger.Entries, domain.LedgerEntry{
			Status:   a.Status,
			Start:    clipStart,
			End:      clipEnd,
			Location: lastLocation,
			Activity: a.Description,
		})

		if a.Description != "" {
			ledger.Remarks = append(ledger.Remarks, domain.Remark{
				Time:     clipStart,
				Location: lastLocation,
				Activity: a.Description,
			})
		}

		cursor = clipEnd
	}

	if cursor.Before(dayEnd) {
		ledger.Entries = append(ledger.Entries, domain.LedgerEntry{
			Status:   domain.OffDuty,
			Start:    cursor,
			End:      dayEnd,
			Location: lastLocation,
		})
		ledger.Hours.OffDutyHours += dayEnd.Sub(cursor).Hours()
	}

	if len(ledger.Entries) > 0 {
		ledger.StartLocation = ledger.Entries[0].Location
		ledger.EndLocation = ledger.Entries[len(ledger.Entries)-1].Location
	}

	ledger.Hours.OffDutyHours = domain.RoundHours(ledger.Hours.OffDutyHours)
	ledger.Hours.SleeperHours = domain.RoundHours(ledger.Hours.SleeperHours)
	ledger.Hours.DrivingHours = domain.RoundHours(ledger.Hours.DrivingHours)
	ledger.Hours.OnDutyHours = domain.RoundHours(ledger.Hours.OnDutyHours)
	ledger.TotalMiles = domain.RoundHours(ledger.TotalMiles)

	sum := ledger.Hours.Sum()
	if diff := sum - 24.0; diff > ledgerEpsilonHours || diff < -ledgerEpsilonHours {
		return domain.DailyLedger{}, apperr.Newf(apperr.Internal,
			"daily ledger day %d totals %.4fh, want 24h ± %.4fh", dayNumber, sum, ledgerEpsilonHours)
	}

	return ledger, nil
}

func addHours(h *domain.DailyHours, status domain.DutyStatus, hours float64) {
	switch status {
	case domain.OffDuty:
		h.OffDutyHours += hours
	case domain.SleeperBerth:
		h.SleeperHours += hours
	case domain.Driving:
		h.DrivingHours += hours
	case domain.OnDutyNotDriving:
		h.OnDutyHours += hours
	}
}

// clip intersects [start, end) with [boundStart, boundEnd); ok is false
// when the two ranges don't overlap.
func clip(start, end, boundStart, boundEnd time.Time) (time.Time, time.Time, bool) {
	if !end.After(boundStart) || !start.Before(boundEnd) {
		return time.Time{}, time.Time{}, false
	}
	if start.Before(boundStart) {
		start = boundStart
	}
	if end.After(boundEnd) {
		end = boundEnd
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func placeLabel(p *domain.NamedPlace) string {
	if p == nil {
		return ""
	}
	if p.DisplayName != "" {
		return p.DisplayName
	}
	if p.Address != "" {
		return p.Address
	}
	return p.Coordinate.String()
}

func startOfDay(t time.Time, zone *time.Location) time.Time {
	local := t.In(zone)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, zone)
}

// FormatRemark renders one remarks-column line per §4.3 step 5:
// "HH:MM — <desc> (<place>)".
func FormatRemark(r domain.Remark, zone *time.Location) string {
	return fmt.Sprintf("%s — %s (%s)", r.Time.In(zone).Format("15:04"), r.Activity, r.Location)
}
