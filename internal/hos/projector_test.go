package hos_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hos-trip-service/internal/domain"
	"hos-trip-service/internal/hos"
)

type fixedResolver struct{ zone string }

func (f fixedResolver) Resolve(domain.Coordinate) string { return f.zone }

// Project must split a trip that crosses midnight into two calendar-day
// ledgers whose four duty-status totals each sum to 24h.
func TestProject_SplitsAtMidnight(t *testing.T) {
	loc, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	start := time.Date(2026, 6, 1, 20, 0, 0, 0, loc)

	activities := []domain.Activity{
		{Status: domain.OnDutyNotDriving, Start: start, End: start.Add(2 * time.Hour), Description: "Pre-trip inspection"},
		{Status: domain.Driving, Start: start.Add(2 * time.Hour), End: start.Add(8 * time.Hour), Miles: 300},
		{Status: domain.OffDuty, Start: start.Add(8 * time.Hour), End: start.Add(18 * time.Hour)},
	}

	ledgers, err := hos.Project(activities, domain.NamedPlace{}, fixedResolver{zone: "America/Chicago"})
	require.NoError(t, err)
	require.Len(t, ledgers, 2)

	assert.Equal(t, 1, ledgers[0].DayNumber)
	assert.Equal(t, 2, ledgers[1].DayNumber)
	assert.InDelta(t, 24.0, ledgers[0].Hours.Sum(), 1.0/60)
	assert.InDelta(t, 24.0, ledgers[1].Hours.Sum(), 1.0/60)

	// The 6h driving activity straddles midnight: 2h of it falls on day 1,
	// the remaining 4h (and a proportional share of the miles) on day 2.
	assert.InDelta(t, 2.0, ledgers[0].Hours.DrivingHours, 1.0/60)
	assert.InDelta(t, 100.0, ledgers[0].TotalMiles, 0.5)
	assert.InDelta(t, 4.0, ledgers[1].Hours.DrivingHours, 1.0/60)
	assert.InDelta(t, 200.0, ledgers[1].TotalMiles, 0.5)
}

// Remarks are only emitted for activities carrying a non-empty description.
func TestProject_RemarksOnlyForDescribedActivities(t *testing.T) {
	start := time.Date(2026, 6, 1, 6, 0, 0, 0, time.UTC)

	activities := []domain.Activity{
		{Status: domain.OnDutyNotDriving, Start: start, End: start.Add(time.Hour), Description: "Pre-trip inspection"},
		{Status: domain.Driving, Start: start.Add(time.Hour), End: start.Add(3 * time.Hour), Miles: 150},
		{Status: domain.OffDuty, Start: start.Add(3 * time.Hour), End: start.Add(10 * time.Hour)},
	}

	ledgers, err := hos.Project(activities, domain.NamedPlace{}, fixedResolver{zone: "UTC"})
	require.NoError(t, err)
	require.Len(t, ledgers, 1)

	require.Len(t, ledgers[0].Remarks, 1)
	assert.Equal(t, "Pre-trip inspection", ledgers[0].Remarks[0].Activity)
}

// An empty activity list (a degenerate trip) yields no ledgers rather than
// an error.
func TestProject_EmptyActivities(t *testing.T) {
	ledgers, err := hos.Project(nil, domain.NamedPlace{}, fixedResolver{zone: "UTC"})
	require.NoError(t, err)
	assert.Nil(t, ledgers)
}

func TestFormatRemark(t *testing.T) {
	loc := time.UTC
	remark := domain.Remark{
		Time:     time.Date(2026, 6, 1, 14, 5, 0, 0, loc),
		Location: "Omaha, NE",
		Activity: "Fuel stop",
	}

	assert.Equal(t, "14:05 — Fuel stop (Omaha, NE)", hos.FormatRemark(remark, loc))
}
