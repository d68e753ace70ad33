package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"hos-trip-service/internal/domain"
)

// SQLiteRouteStore is the local/dev RouteStore, mirroring SQLRouteStore's
// schema with SQLite placeholder syntax.
type SQLiteRouteStore struct {
	DB *sql.DB
}

func NewSQLiteRouteStore(db *sql.DB) *SQLiteRouteStore {
	return &SQLiteRouteStore{DB: db}
}

func (s *SQLiteRouteStore) GetMany(ctx context.Context, originAddr string, destAddrs []string) (map[string]domain.RouteSegment, error) {
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

	placeholders := make([]string, len(uniq))
	args := make([]any, 0, 1+len(uniq))
	args = append(args, originAddr)
	for i, d := range uniq {
		placeholders[i] = "?"
		args = append(args, d)
	}

	q := fmt.Sprintf(`
	SELECT destination, destination_lat, destination_lng, destination_display,
	       distance_miles, duration_hours, polyline
    FROM route_cache
    WHERE origin = ?
        AND destination IN (%s);
	`, strings.Join(placeholders, ","))

	rows, err := s.DB.QueryContext(ctx, q, args...)
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

func (s *SQLiteRouteStore) PutMany(ctx context.Context, originAddr string, segments map[string]domain.RouteSegment) error {
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
	INSERT OR REPLACE INTO route_cache (
		origin, destination, destination_lat, destination_lng, destination_display,
		distance_miles, duration_hours, polyline
	)
    VALUES (?, ?, ?, ?, ?, ?, ?, ?)
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
