package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"hos-trip-service/internal/api/dto"
	"hos-trip-service/internal/apperr"
	"hos-trip-service/internal/middleware"
	"hos-trip-service/internal/ports"
	"hos-trip-service/internal/services"
)

// TripHandler wires the trip-calculation pipeline and the trip store to
// the §4.6 HTTP surface. Both fields are read-only after construction so
// one instance is shared across all requests.
type TripHandler struct {
	Calculator *services.TripCalculator
	Store      ports.TripStore
}

// Calculate handles POST /trips/calculate: validates the request body,
// runs the calculation pipeline, persists the result (the chosen
// persist-every-calculation policy, see DESIGN.md), and returns the full
// Trip per §6.
func (h *TripHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID, ok := middleware.UserID(ctx)
	if !ok {
		writeAppError(ctx, w, r, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}

	var body dto.CalculateTripRequest
	if err := decodeJSON(r, &body); err != nil {
		writeAppError(ctx, w, r, apperr.Wrap(apperr.Validation, "malformed request body", err))
		return
	}

	if err := validateCalculateRequest(body); err != nil {
		writeAppError(ctx, w, r, err)
		return
	}

	startTime := time.Now()
	if body.StartTime != nil {
		startTime = *body.StartTime
	}

	trip, err := h.Calculator.Calculate(ctx, services.CalculateTripRequest{
		OwnerID:           ownerID,
		CurrentLocation:   body.CurrentLocation,
		PickupLocation:    body.PickupLocation,
		DropoffLocation:   body.DropoffLocation,
		CurrentCycleHours: body.CurrentCycleHours,
		StartTime:         startTime,
	})
	if err != nil {
		writeAppError(ctx, w, r, err)
		return
	}

	trip.ID = uuid.New()
	trip.CreatedAt = time.Now()

	if err := h.Store.Save(ctx, trip); err != nil {
		writeAppError(ctx, w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toTripResponse(trip))
}

func validateCalculateRequest(body dto.CalculateTripRequest) error {
	missing := map[string]bool{
		"current_location": body.CurrentLocation == "",
		"pickup_location":  body.PickupLocation == "",
		"dropoff_location": body.DropoffLocation == "",
	}
	for field, empty := range missing {
		if empty {
			return apperr.New(apperr.Validation, field+" is required").WithDetails(map[string]any{"field": field})
		}
	}
	if body.CurrentCycleHours < 0 || body.CurrentCycleHours > 70 {
		return apperr.New(apperr.Validation, "current_cycle_hours must be between 0 and 70").
			WithDetails(map[string]any{"field": "current_cycle_hours"})
	}
	return nil
}

// List handles GET /trips: the owner's trips, newest-first, with
// truncated fields (§4.6).
func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID, ok := middleware.UserID(ctx)
	if !ok {
		writeAppError(ctx, w, r, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}

	trips, err := h.Store.ListByOwner(ctx, ownerID)
	if err != nil {
		writeAppError(ctx, w, r, err)
		return
	}

	items := make([]dto.TripListItemResponse, 0, len(trips))
	for _, t := range trips {
		items = append(items, toTripListItemResponse(t))
	}

	writeJSON(w, r, http.StatusOK, dto.ListTripsResponse{Trips: items})
}

// Get handles GET /trips/{id}: the full trip including ledgers, 404 if
// not owned (never FORBIDDEN — the store itself scopes by owner, so an
// unowned id is indistinguishable from a nonexistent one, §4.5).
func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID, ok := middleware.UserID(ctx)
	if !ok {
		writeAppError(ctx, w, r, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}

	tripID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(ctx, w, r, apperr.New(apperr.Validation, "invalid trip id"))
		return
	}

	trip, err := h.Store.Get(ctx, ownerID, tripID)
	if err != nil {
		writeAppError(ctx, w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toTripResponse(trip))
}

// Delete handles DELETE /trips/{id}: 204 on success, 404 otherwise.
func (h *TripHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID, ok := middleware.UserID(ctx)
	if !ok {
		writeAppError(ctx, w, r, apperr.New(apperr.Unauthenticated, "authentication required"))
		return
	}

	tripID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(ctx, w, r, apperr.New(apperr.Validation, "invalid trip id"))
		return
	}

	if err := h.Store.Delete(ctx, ownerID, tripID); err != nil {
		writeAppError(ctx, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
