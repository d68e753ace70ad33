package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"hos-trip-service/internal/domain"
	"hos-trip-service/internal/platform/obs"
)

// SQLRouteStore is a Postgres-backed RouteStore, generalized from the
// teacher's SQLDistanceCache (origin, many destinations, meters/seconds)
// to the richer RouteSegment the Router port returns.
type SQLRouteStore struct {
	DB *sql.DB
}

func NewSQLRouteStore(db *sql.DB) *SQLRouteStore {
	return &SQLRouteStore{DB: db}
}

func (s *SQLRouteStore) GetMany(ctx context.Context, originAddr string, destAddrs []string) (_ map[string]domain.RouteSegment, err error) {
	defer obs.Time(ctx, "route.store.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("route store: db is nil")
	}
	if strings.TrimSpace(originAddr) == "" {
		return nil, errors.New("route store: origin must not be empty")
	}

	uniq := dedupNonEmpty(destAddrs)
	if len(uniq) == 0 {
		return map[string]domain.RouteSegment{}, nil
	}

	q := `
	SELECT destination, destination_lat, destination_lng, destination_display,
	       distance_miles, duration_hours, polyline
    FROM route_cache
    WHERE origin = $1
        AND destination = ANY($2::text[]);
	`

	rows, err := s.DB.QueryContext(ctx, q, originAddr, uniq)
	if err != nil {
		return nil, fmt.Errorf("route store: query route_cache: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.RouteSegment, len(uniq))
	for rows.Next() {
		var dest, display, polyline string
		var lat, lng, miles, hours float64
		if err := rows.Scan(&dest, &lat, &lng, &display, &miles, &hours, &polyline); err != nil {
			return nil, fmt.Errorf("route store: scan row: %w", err)
		}
		out[dest] = domain.RouteSegment{
			Destination: domain.NamedPlace{
				Address:     dest,
				Coordinate:  domain.Coordinate{Lat: lat, Lng: lng},
				DisplayName: display,
			},
			DistanceMiles: miles,
			DurationHours: hours,
			Polyline:      polyline,
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("route store: row iteration: %w", err)
	}

	return out, nil
}

func (s *SQLRouteStore) PutMany(ctx context.Context, originAddr string, segments map[string]domain.RouteSegment) error {
	if s.DB == nil {
		return errors.New("route store: db is nil")
	}
	if len(segments) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("route store: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO route_cache (
		origin, destination, destination_lat, destination_lng, destination_display,
		distance_miles, duration_hours, polyline
	)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (origin, destination) DO UPDATE
	SET destination_lat = EXCLUDED.destination_lat,
		destination_lng = EXCLUDED.destination_lng,
		destination_display = EXCLUDED.destination_display,
		distance_miles = EXCLUDED.distance_miles,
		duration_hours = EXCLUDED.duration_hours,
		polyline = EXCLUDED.polyline;
	`)
	if err != nil {
		return fmt.Errorf("route store: prepare: %w", err)
	}
	defer stmt.Close()

	for dest, seg := range segments {
		if strings.TrimSpace(dest) == "" {
			return fmt.Errorf("route store: empty destination key")
		}
		if _, err := stmt.ExecContext(ctx, originAddr, dest,
			seg.Destination.Coordinate.Lat, seg.Destination.Coordinate.Lng, seg.Destination.DisplayName,
			seg.DistanceMiles, seg.DurationHours, seg.Polyline); err != nil {
			return fmt.Errorf("route store: exec dest=%q: %w", dest, err)
		}
	}

	return tx.Commit()
}
