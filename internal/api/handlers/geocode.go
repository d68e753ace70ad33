package handlers

import (
	"net/http"

	"hos-trip-service/internal/api/dto"
	"hos-trip-service/internal/apperr"
	"hos-trip-service/internal/ports"
)

// GeocodeHandler is a thin passthrough to the Geocoder port (§4.6 "GET
// /geocode?address=… — passthrough to Geocoder, top N results").
type GeocodeHandler struct {
	Geocoder ports.Geocoder
}

// Get handles GET /geocode?address=…. The underlying Geocoder only ever
// resolves a single best match, so the response's results array carries
// at most one entry; the array shape is kept for forward compatibility
// with a ranked-results upstream.
func (h *GeocodeHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	address := r.URL.Query().Get("address")
	if address == "" {
		writeAppError(ctx, w, r, apperr.New(apperr.Validation, "address query parameter is required").
			WithDetails(map[string]any{"field": "address"}))
		return
	}

	place, err := h.Geocoder.Geocode(ctx, address)
	if err != nil {
		writeAppError(ctx, w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.GeocodeResponse{
		Results: []dto.GeocodeResultResponse{
			{
				Address:     place.Address,
				DisplayName: place.DisplayName,
				Coordinates: toCoordinates(place.Coordinate),
			},
		},
	})
}
