package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"hos-trip-service/internal/domain"
)

// SQLiteGeocodeStore is the local/dev GeocodeStore, generalized from the
// teacher's SqliteDistanceCache placeholder-building idiom (SQLite can't
// bind a slice into an IN (...) clause, so placeholders are built and
// only the values are parameterized).
type SQLiteGeocodeStore struct {
	DB *sql.DB
}

func NewSQLiteGeocodeStore(db *sql.DB) *SQLiteGeocodeStore {
	return &SQLiteGeocodeStore{DB: db}
}

func (s *SQLiteGeocodeStore) GetMany(ctx context.Context, addresses []string) (map[string]domain.NamedPlace, error) {
	if s.DB == nil {
		return nil, errors.New("geocode store: db is nil")
	}

	uniq := dedupNonEmpty(addresses)
	if len(uniq) == 0 {
		return map[string]domain.NamedPlace{}, nil
	}

	placeholders := make([]string, len(uniq))
	args := make([]any, len(uniq))
	for i, a := range uniq {
		placeholders[i] = "?"
		args[i] = a
	}

	q := fmt.Sprintf(`
	SELECT address, lat, lng, display_name
    FROM geocode_cache
    WHERE address IN (%s);
	`, strings.Join(placeholders, ","))

	rows, err := s.DB.QueryContext(ctx, q, args...)
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

func (s *SQLiteGeocodeStore) PutMany(ctx context.Context, places map[string]domain.NamedPlace) error {
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
	INSERT OR REPLACE INTO geocode_cache (address, lat, lng, display_name)
    VALUES (?, ?, ?, ?)
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
