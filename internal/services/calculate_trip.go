// Package services holds the orchestration layer that sits between the
// HTTP surface and the pure hos package: it fans out the three Geocoder
// calls, sequences the two Router calls behind them, invokes the
// scheduler and daily-log projector, and assembles the persisted Trip
// aggregate (§2 "Data flow for calculate").
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"hos-trip-service/internal/apperr"
	"hos-trip-service/internal/domain"
	"hos-trip-service/internal/hos"
	"hos-trip-service/internal/ports"
)

// CalculateTripRequest is the orchestration layer's input, already parsed
// and range-checked by the HTTP handler (§6 POST /trips/calculate).
type CalculateTripRequest struct {
	OwnerID           uuid.UUID
	CurrentLocation   string
	PickupLocation    string
	DropoffLocation   string
	CurrentCycleHours float64
	StartTime         time.Time
}

// TripCalculator wires the Geocoder, Router, Rest-stop Locator, and
// timezone resolver into the §2 "calculate" pipeline. It holds no request
// state of its own, so one instance is shared by every request handler.
type TripCalculator struct {
	Geocoder   ports.Geocoder
	Router     ports.Router
	RestStop   ports.RestStopLocator
	TZResolver hos.TimezoneResolver
	Rules      hos.Rules
}

// NewTripCalculator builds a calculator using hos.DefaultRules and
// hos.DefaultTimezoneResolver unless overridden by the caller afterward.
func NewTripCalculator(geocoder ports.Geocoder, router ports.Router, restStop ports.RestStopLocator) *TripCalculator {
	return &TripCalculator{
		Geocoder:   geocoder,
		Router:     router,
		RestStop:   restStop,
		TZResolver: hos.DefaultTimezoneResolver,
		Rules:      hos.DefaultRules,
	}
}

// Calculate runs the full pipeline and returns a Trip ready for the HTTP
// response (and, optionally, persistence) but not yet assigned an ID or
// CreatedAt — the caller (the HTTP handler) stamps those, since a
// workflow's "now" must come from outside this pure-ish orchestration
// step; Calculate itself never calls time.Now.
func (c *TripCalculator) Calculate(ctx context.Context, req CalculateTripRequest) (domain.Trip, error) {
	startPlace, pickupPlace, dropoffPlace, err := c.geocodeAll(ctx, req)
	if err != nil {
		return domain.Trip{}, err
	}

	segToPickup, err := c.Router.Route(ctx, startPlace, pickupPlace)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("calculate trip: route to pickup: %w", err)
	}

	segToDropoff, err := c.Router.Route(ctx, pickupPlace, dropoffPlace)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("calculate trip: route to dropoff: %w", err)
	}

	plan := hos.Plan{
		StartTime:         req.StartTime,
		StartPlace:        startPlace,
		PickupPlace:       pickupPlace,
		DropoffPlace:      dropoffPlace,
		SegToPickup:       segToPickup,
		SegToDropoff:      segToDropoff,
		OpeningCycleHours: req.CurrentCycleHours,
	}

	result, err := hos.Schedule(ctx, plan, c.Rules, c.RestStop)
	if err != nil {
		return domain.Trip{}, err
	}

	ledgers, err := hos.Project(result.Activities, startPlace, c.TZResolver)
	if err != nil {
		return domain.Trip{}, err
	}

	summary := result.Summary
	summary.TotalDays = len(ledgers)

	return domain.Trip{
		OwnerID:            req.OwnerID,
		StartAddress:       startPlace,
		PickupAddress:      pickupPlace,
		DropoffAddress:     dropoffPlace,
		StartingCycleHours: req.CurrentCycleHours,
		Polyline:           fullPolyline(segToPickup, segToDropoff),
		SegToPickup:        segToPickup,
		SegToDropoff:       segToDropoff,
		Stops:              result.Stops,
		DailyLedgers:       ledgers,
		Summary:            summary,
	}, nil
}

// geocodeAll resolves the three addresses concurrently (§5 "implementations
// may overlap the three geocoder calls"), using errgroup in place of the
// teacher's hand-rolled WaitGroup/channel fan-out in plan_deliveries.go. A
// miss on any one address fails the whole request with UPSTREAM_INVALID
// and names the offending field (§7, §8 scenario S6).
func (c *TripCalculator) geocodeAll(ctx context.Context, req CalculateTripRequest) (start, pickup, dropoff domain.NamedPlace, err error) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, gErr := c.Geocoder.Geocode(gctx, req.CurrentLocation)
		if gErr != nil {
			return withField(gErr, "current_location")
		}
		start = p
		return nil
	})
	g.Go(func() error {
		p, gErr := c.Geocoder.Geocode(gctx, req.PickupLocation)
		if gErr != nil {
			return withField(gErr, "pickup_location")
		}
		pickup = p
		return nil
	})
	g.Go(func() error {
		p, gErr := c.Geocoder.Geocode(gctx, req.DropoffLocation)
		if gErr != nil {
			return withField(gErr, "dropoff_location")
		}
		dropoff = p
		return nil
	})

	if waitErr := g.Wait(); waitErr != nil {
		return domain.NamedPlace{}, domain.NamedPlace{}, domain.NamedPlace{}, waitErr
	}
	return start, pickup, dropoff, nil
}

// withField annotates an apperr.Error's Details with which request field
// caused it, leaving non-apperr errors (network/deadline failures) to
// propagate unannotated — the HTTP layer still maps them by unwrapping.
func withField(err error, field string) error {
	if e, ok := apperr.As(err); ok {
		details := map[string]any{"field": field}
		for k, v := range e.Details {
			details[k] = v
		}
		return e.WithDetails(details)
	}
	return err
}

// fullPolyline concatenates the two segment polylines with a separator so
// the response's route.polyline can be split back into legs if needed;
// it is stored opaquely otherwise (§3 RouteSegment.polyline).
func fullPolyline(seg1, seg2 domain.RouteSegment) string {
	if seg1.Polyline == "" {
		return seg2.Polyline
	}
	if seg2.Polyline == "" {
		return seg1.Polyline
	}
	return seg1.Polyline + ";" + seg2.Polyline
}
