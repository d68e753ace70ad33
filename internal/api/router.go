// Package api is the HTTP composition root: it mounts every handler
// behind chi's middleware stack, generalized from the teacher's bare
// http.ServeMux router (internal/api/router.go) onto chi/v5, grounded on
// pkordes-rv-logbook's router composition (§2.7).
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"hos-trip-service/internal/api/handlers"
	"hos-trip-service/internal/auth"
	"hos-trip-service/internal/middleware"
	"hos-trip-service/internal/ports"
	"hos-trip-service/internal/services"
)

// Dependencies bundles everything NewRouter needs to wire handlers,
// mirroring the teacher's NewRouter(repo, provider, hub) signature
// generalized to this service's larger dependency set.
type Dependencies struct {
	Calculator      *services.TripCalculator
	TripStore       ports.TripStore
	Geocoder        ports.Geocoder
	Auth            *auth.Service
	AllowedOrigins  []string
	RequestDeadline time.Duration
}

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler, the API composition root (handlers stay unaware of
// concrete adapters).
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Deadline(deps.RequestDeadline))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: deps.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler)

	r.Get("/health", handlers.Health)

	authHandler := &handlers.AuthHandler{Service: deps.Auth}
	r.Post("/auth/register", authHandler.Register)
	r.Post("/auth/login", authHandler.Login)
	r.Post("/auth/refresh", authHandler.Refresh)
	r.Post("/auth/logout", authHandler.Logout)

	geocodeHandler := &handlers.GeocodeHandler{Geocoder: deps.Geocoder}
	tripHandler := &handlers.TripHandler{Calculator: deps.Calculator, Store: deps.TripStore}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(deps.Auth))

		r.Get("/auth/me", authHandler.Me)
		r.Get("/geocode", geocodeHandler.Get)

		r.Post("/trips/calculate", tripHandler.Calculate)
		r.Get("/trips", tripHandler.List)
		r.Get("/trips/{id}", tripHandler.Get)
		r.Delete("/trips/{id}", tripHandler.Delete)
	})

	return r
}
