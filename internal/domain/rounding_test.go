package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hos-trip-service/internal/domain"
)

// RoundHours must round to two decimal places using ties-to-even, the
// single rounding rule the rest of the package relies on.
func TestRoundHours_TiesToEven(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{3.005, 3.0},  // tie rounds down to the even cent
		{3.015, 3.02}, // tie rounds up to the even cent
		{3.249, 3.25},
		{0.0, 0.0},
		{23.995, 24.0},
	}

	for _, c := range cases {
		assert.InDelta(t, c.want, domain.RoundHours(c.in), 1e-9)
	}
}

func TestStop_DurationMinutes_RoundsToNearestMinute(t *testing.T) {
	now, err := time.Parse(time.RFC3339, "2026-01-01T00:00:00Z")
	require.NoError(t, err)

	stop := domain.Stop{
		ArrivalTime:   now,
		DepartureTime: now.Add(29*time.Minute + 30*time.Second), // tie rounds to the even minute (30)
	}
	assert.Equal(t, 30, stop.DurationMinutes())
}
