package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema creates every table the local/dev SQLite database needs,
// generalized from the teacher's InitSchema (packages/distance_cache/
// geocode_cache) to the trip-planning domain's tables. Statements are
// idempotent (CREATE TABLE IF NOT EXISTS) so cmd/server can run this on
// every startup.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS refresh_tokens (
			token      TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			expires_at TEXT NOT NULL,
			revoked    INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user_id ON refresh_tokens(user_id);`,
		`CREATE TABLE IF NOT EXISTS trips (
			id                    TEXT PRIMARY KEY,
			owner_id              TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			start_address         TEXT NOT NULL,
			start_lat             REAL NOT NULL,
			start_lng             REAL NOT NULL,
			start_display         TEXT NOT NULL,
			pickup_address        TEXT NOT NULL,
			pickup_lat            REAL NOT NULL,
			pickup_lng            REAL NOT NULL,
			pickup_display        TEXT NOT NULL,
			dropoff_address       TEXT NOT NULL,
			dropoff_lat           REAL NOT NULL,
			dropoff_lng           REAL NOT NULL,
			dropoff_display       TEXT NOT NULL,
			starting_cycle_hours  REAL NOT NULL,
			polyline              TEXT NOT NULL,
			seg_pickup_distance_miles  REAL NOT NULL DEFAULT 0,
			seg_pickup_duration_hours  REAL NOT NULL DEFAULT 0,
			seg_dropoff_distance_miles REAL NOT NULL DEFAULT 0,
			seg_dropoff_duration_hours REAL NOT NULL DEFAULT 0,
			total_distance_miles  REAL NOT NULL,
			total_driving_hours   REAL NOT NULL,
			total_days            INTEGER NOT NULL,
			cycle_hours_used      REAL NOT NULL,
			cycle_hours_remaining REAL NOT NULL,
			start_time            TEXT NOT NULL,
			end_time              TEXT NOT NULL,
			created_at            TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_trips_owner_id ON trips(owner_id);`,
		`CREATE TABLE IF NOT EXISTS stops (
			trip_id        TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
			ordinal        INTEGER NOT NULL,
			kind           TEXT NOT NULL,
			place_address  TEXT NOT NULL,
			place_lat      REAL NOT NULL,
			place_lng      REAL NOT NULL,
			place_display  TEXT NOT NULL,
			arrival_time   TEXT NOT NULL,
			departure_time TEXT NOT NULL,
			activity_text  TEXT NOT NULL,
			status         TEXT NOT NULL,
			PRIMARY KEY (trip_id, ordinal)
		);`,
		`CREATE TABLE IF NOT EXISTS daily_ledgers (
			trip_id        TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
			day_number     INTEGER NOT NULL,
			date           TEXT NOT NULL,
			timezone       TEXT NOT NULL,
			off_duty_hours REAL NOT NULL,
			sleeper_hours  REAL NOT NULL,
			driving_hours  REAL NOT NULL,
			on_duty_hours  REAL NOT NULL,
			start_location TEXT NOT NULL,
			end_location   TEXT NOT NULL,
			total_miles    REAL NOT NULL,
			entries_json   TEXT NOT NULL,
			remarks_json   TEXT NOT NULL,
			PRIMARY KEY (trip_id, day_number)
		);`,
		`CREATE TABLE IF NOT EXISTS geocode_cache (
			address      TEXT PRIMARY KEY,
			lat          REAL NOT NULL,
			lng          REAL NOT NULL,
			display_name TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS route_cache (
			origin              TEXT NOT NULL,
			destination         TEXT NOT NULL,
			destination_lat     REAL NOT NULL,
			destination_lng     REAL NOT NULL,
			destination_display TEXT NOT NULL,
			distance_miles      REAL NOT NULL,
			duration_hours      REAL NOT NULL,
			polyline            TEXT NOT NULL,
			PRIMARY KEY (origin, destination)
		);`,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
