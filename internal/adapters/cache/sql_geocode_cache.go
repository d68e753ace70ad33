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

// SQLGeocodeStore is a Postgres-backed GeocodeStore, generalized from the
// teacher's SQLGeocodeCache to persist the resolved display name
// alongside coordinates.
type SQLGeocodeStore struct {
	DB *sql.DB
}

func NewSQLGeocodeStore(db *sql.DB) *SQLGeocodeStore {
	return &SQLGeocodeStore{DB: db}
}

func (s *SQLGeocodeStore) GetMany(ctx context.Context, addresses []string) (_ map[string]domain.NamedPlace, err error) {
	defer obs.Time(ctx, "geocode.store.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("geocode store: db is nil")
	}

	uniq := dedupNonEmpty(addresses)
	if len(uniq) == 0 {
		return map[string]domain.NamedPlace{}, nil
	}

	q := `
	SELECT address, lat, lng, display_name
    FROM geocode_cache
    WHERE address = ANY($1::text[]);
	`

	rows, err := s.DB.QueryContext(ctx, q, uniq)
	if err != nil {
		return nil, fmt.Errorf("geocode store: query geocode_cache: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.NamedPlace, len(uniq))
	for rows.Next() {
		var addr, display string
		var lat, lng float64
		if err := rows.Scan(&addr, &lat, &lng, &display); err != nil {
			return nil, fmt.Errorf("geocode store: scan row: %w", err)
		}
		out[addr] = domain.NamedPlace{
			Address:     addr,
			Coordinate:  domain.Coordinate{Lat: lat, Lng: lng},
			DisplayName: display,
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("geocode store: row iteration: %w", err)
	}

	return out, nil
}

func (s *SQLGeocodeStore) PutMany(ctx context.Context, places map[string]domain.NamedPlace) error {
	if s.DB == nil {
		return errors.New("geocode store: db is nil")
	}
	if len(places) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("geocode store: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO geocode_cache (address, lat, lng, display_name)
    VALUES ($1, $2, $3, $4)
	ON CONFLICT (address) DO UPDATE
	SET lat = EXCLUDED.lat,
		lng = EXCLUDED.lng,
		display_name = EXCLUDED.display_name;
	`)
	if err != nil {
		return fmt.Errorf("geocode store: prepare: %w", err)
	}
	defer stmt.Close()

	for addr, p := range places {
		if strings.TrimSpace(addr) == "" {
			return fmt.Errorf("geocode store: empty address key")
		}
		if _, err := stmt.ExecContext(ctx, addr, p.Coordinate.Lat, p.Coordinate.Lng, p.DisplayName); err != nil {
			return fmt.Errorf("geocode store: exec addr=%q: %w", addr, err)
		}
	}

	return tx.Commit()
}

func dedupNonEmpty(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
