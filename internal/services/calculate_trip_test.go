package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hos-trip-service/internal/apperr"
	"hos-trip-service/internal/domain"
	"hos-trip-service/internal/services"
)

// fakeGeocoder resolves addresses from a fixed table, recording which
// addresses it was asked about so geocodeAll's concurrent fan-out can be
// exercised without a network call.
type fakeGeocoder struct {
	mu      sync.Mutex
	places  map[string]domain.NamedPlace
	calls   []string
	missFor string
}

func (f *fakeGeocoder) Geocode(_ context.Context, address string) (domain.NamedPlace, error) {
	f.mu.Lock()
	f.calls = append(f.calls, address)
	f.mu.Unlock()

	if address == f.missFor {
		return domain.NamedPlace{}, apperr.Newf(apperr.UpstreamInvalid, "no geocoding result for %q", address)
	}
	p, ok := f.places[address]
	if !ok {
		return domain.NamedPlace{}, apperr.Newf(apperr.UpstreamInvalid, "no geocoding result for %q", address)
	}
	return p, nil
}

// fakeRouter returns a fixed segment regardless of the endpoints asked
// for, keyed only by call order (start->pickup first, then pickup->dropoff).
type fakeRouter struct {
	segments []domain.RouteSegment
	calls    int
}

func (f *fakeRouter) Route(_ context.Context, from, to domain.NamedPlace) (domain.RouteSegment, error) {
	seg := f.segments[f.calls]
	f.calls++
	seg.Origin = from
	seg.Destination = to
	return seg, nil
}

type nilRestStop struct{}

func (nilRestStop) NearestStop(context.Context, domain.Coordinate, domain.StopKind) (domain.NamedPlace, bool, error) {
	return domain.NamedPlace{}, false, nil
}

func newFixture() (*fakeGeocoder, *fakeRouter) {
	geocoder := &fakeGeocoder{places: map[string]domain.NamedPlace{
		"Chicago, IL":   {Address: "Chicago, IL", Coordinate: domain.Coordinate{Lat: 41.8781, Lng: -87.6298}},
		"Milwaukee, WI": {Address: "Milwaukee, WI", Coordinate: domain.Coordinate{Lat: 43.0389, Lng: -87.9065}},
		"Madison, WI":   {Address: "Madison, WI", Coordinate: domain.Coordinate{Lat: 43.0731, Lng: -89.4012}},
	}}
	router := &fakeRouter{segments: []domain.RouteSegment{
		{DistanceMiles: 93, DurationHours: 1.75, Polyline: "seg1"},
		{DistanceMiles: 80, DurationHours: 1.5, Polyline: "seg2"},
	}}
	return geocoder, router
}

func TestCalculate_HappyPath(t *testing.T) {
	geocoder, router := newFixture()
	calc := services.NewTripCalculator(geocoder, router, nilRestStop{})

	start, err := time.Parse(time.RFC3339, "2026-01-17T06:30:00-06:00")
	require.NoError(t, err)

	trip, err := calc.Calculate(context.Background(), services.CalculateTripRequest{
		OwnerID:           uuid.New(),
		CurrentLocation:   "Chicago, IL",
		PickupLocation:    "Milwaukee, WI",
		DropoffLocation:   "Madison, WI",
		CurrentCycleHours: 10,
		StartTime:         start,
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"Chicago, IL", "Milwaukee, WI", "Madison, WI"}, geocoder.calls)
	assert.Equal(t, "seg1;seg2", trip.Polyline)
	assert.Equal(t, 1, trip.Summary.TotalDays)
	assert.InDelta(t, 3.25, trip.Summary.TotalDrivingHours, 0.01)
	assert.Len(t, trip.Stops, 4)
	assert.Equal(t, "Chicago, IL", trip.StartAddress.Address)
	assert.Equal(t, "Madison, WI", trip.DropoffAddress.Address)

	// The handler, not Calculate, stamps ID/CreatedAt.
	assert.Equal(t, uuid.Nil, trip.ID)
	assert.True(t, trip.CreatedAt.IsZero())
}

// A geocode miss on dropoff_location must surface as UPSTREAM_INVALID with
// details.field identifying the offending field, and Calculate must never
// reach the router or scheduler (S6).
func TestCalculate_GeocodeMiss_ReportsOffendingField(t *testing.T) {
	geocoder, router := newFixture()
	geocoder.missFor = "Madison, WI"
	calc := services.NewTripCalculator(geocoder, router, nilRestStop{})

	_, err := calc.Calculate(context.Background(), services.CalculateTripRequest{
		OwnerID:           uuid.New(),
		CurrentLocation:   "Chicago, IL",
		PickupLocation:    "Milwaukee, WI",
		DropoffLocation:   "Madison, WI",
		CurrentCycleHours: 10,
		StartTime:         time.Now(),
	})
	require.Error(t, err)

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.UpstreamInvalid, appErr.Code)
	assert.Equal(t, "dropoff_location", appErr.Details["field"])

	assert.Zero(t, router.calls)
}

// An out-of-range current_cycle_hours must be rejected by the scheduler
// after routing completes (validation happens inside hos.Schedule).
func TestCalculate_InvalidCycleHours_PropagatesValidationError(t *testing.T) {
	geocoder, router := newFixture()
	calc := services.NewTripCalculator(geocoder, router, nilRestStop{})

	_, err := calc.Calculate(context.Background(), services.CalculateTripRequest{
		OwnerID:           uuid.New(),
		CurrentLocation:   "Chicago, IL",
		PickupLocation:    "Milwaukee, WI",
		DropoffLocation:   "Madison, WI",
		CurrentCycleHours: 90,
		StartTime:         time.Now(),
	})
	require.Error(t, err)

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.Validation, appErr.Code)
}

// Running the same request twice (S5) must yield equal stop sequences and
// summaries, modulo the ID/CreatedAt the handler stamps afterward.
func TestCalculate_Idempotent(t *testing.T) {
	start, err := time.Parse(time.RFC3339, "2026-01-17T06:30:00-06:00")
	require.NoError(t, err)

	req := services.CalculateTripRequest{
		OwnerID:           uuid.New(),
		CurrentLocation:   "Chicago, IL",
		PickupLocation:    "Milwaukee, WI",
		DropoffLocation:   "Madison, WI",
		CurrentCycleHours: 10,
		StartTime:         start,
	}

	geocoder1, router1 := newFixture()
	calc1 := services.NewTripCalculator(geocoder1, router1, nilRestStop{})
	first, err := calc1.Calculate(context.Background(), req)
	require.NoError(t, err)

	geocoder2, router2 := newFixture()
	calc2 := services.NewTripCalculator(geocoder2, router2, nilRestStop{})
	second, err := calc2.Calculate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, first.Stops, second.Stops)
	assert.Equal(t, first.DailyLedgers, second.DailyLedgers)
}
