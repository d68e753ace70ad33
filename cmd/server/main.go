// Package main is the application composition root. It wires concrete
// adapters (geocoding, routing, rest-stop location, caching, identity,
// persistence) behind their ports and starts the HTTP server, generalized
// from the teacher's cmd/server/main.go (SQLite + ORS + bare mux) onto
// this service's larger dependency set with a Postgres-by-default,
// SQLite-fallback persistence layer and a chi router.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"hos-trip-service/internal/adapters/cache"
	"hos-trip-service/internal/adapters/geocoding"
	"hos-trip-service/internal/adapters/repositories"
	"hos-trip-service/internal/adapters/reststop"
	"hos-trip-service/internal/adapters/routing"
	"hos-trip-service/internal/api"
	"hos-trip-service/internal/auth"
	"hos-trip-service/internal/config"
	"hos-trip-service/internal/domain"
	"hos-trip-service/internal/platform/db"
	"hos-trip-service/internal/platform/obs"
	"hos-trip-service/internal/ports"
	"hos-trip-service/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	obs.Base.SetFormatter(&logrus.JSONFormatter{})

	conn, tripStore, userStore, err := openPersistence(cfg)
	if err != nil {
		obs.Base.WithError(err).Fatal("failed to open persistence layer")
	}
	defer conn.Close()

	geocoder := buildGeocoder(cfg, conn)
	router := buildRouter(cfg, conn)
	restStop := reststop.NewOverpassLocator("https://overpass-api.de/api/interpreter", 0)

	authService := auth.NewService(userStore, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	calculator := services.NewTripCalculator(geocoder, router, restStop)

	handler := api.NewRouter(api.Dependencies{
		Calculator:      calculator,
		TripStore:       tripStore,
		Geocoder:        geocoder,
		Auth:            authService,
		AllowedOrigins:  cfg.AllowedOrigins,
		RequestDeadline: cfg.RequestDeadline,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		obs.Base.WithField("addr", srv.Addr).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			obs.Base.WithError(err).Fatal("server error")
		}
	}()

	<-stop
	obs.Base.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		obs.Base.WithError(err).Fatal("shutdown error")
	}
	obs.Base.Info("server stopped")
}

// openPersistence opens the database and builds TripStore/UserStore,
// preferring Postgres (DATABASE_URL) and falling back to the local/dev
// SQLite file (DB_PATH) when it's unset, per §2.6.
func openPersistence(cfg config.Config) (*sql.DB, ports.TripStore, ports.UserStore, error) {
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		return conn, repositories.NewPostgresTripStore(conn), repositories.NewPostgresUserStore(conn), nil
	}

	conn, err := sql.Open("sqlite", cfg.DBPath)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := conn.Ping(); err != nil {
		return nil, nil, nil, err
	}
	if err := repositories.InitSchema(conn); err != nil {
		return nil, nil, nil, err
	}
	return conn, repositories.NewSQLiteTripStore(conn), repositories.NewSQLiteUserStore(conn), nil
}

// buildGeocoder wires the two-tier cache (in-process LRU + optional
// Redis) in front of NominatimGeocoder, using a SQLite or Postgres
// persistent tier matching whichever store openPersistence picked (§4.4).
func buildGeocoder(cfg config.Config, conn *sql.DB) ports.Geocoder {
	lru := cache.NewLRU[string, domain.NamedPlace](cfg.CacheLRUSize)
	var redisTier *cache.RedisTier
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		redisTier = cache.NewRedisTier(cfg.RedisAddr, "geocode", time.Hour)
	}

	var store cache.GeocodeStore
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		store = cache.NewSQLGeocodeStore(conn)
	} else {
		store = cache.NewSQLiteGeocodeStore(conn)
	}

	return geocoding.NewNominatimGeocoder("", "hos-trip-service/1.0", cfg.GeocodeMinInterval, lru, redisTier, store)
}

// buildRouter mirrors buildGeocoder's cache wiring for the Router port.
func buildRouter(cfg config.Config, conn *sql.DB) ports.Router {
	lru := cache.NewLRU[string, domain.RouteSegment](cfg.CacheLRUSize)
	var redisTier *cache.RedisTier
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		redisTier = cache.NewRedisTier(cfg.RedisAddr, "route", time.Hour)
	}

	var store cache.RouteStore
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		store = cache.NewSQLRouteStore(conn)
	} else {
		store = cache.NewSQLiteRouteStore(conn)
	}

	return routing.NewOSRMRouter("", cfg.RouterAPIKey, lru, redisTier, store)
}
