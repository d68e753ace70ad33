package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"hos-trip-service/internal/apperr"
	"hos-trip-service/internal/domain"
)

// SQLiteTripStore is the local/dev and integration-test TripStore,
// mirroring PostgresTripStore's schema and scan logic with SQLite
// placeholder syntax (generalizes the teacher's sqlite_init.go +
// SqlitePackageRepository pairing).
type SQLiteTripStore struct{ DB *sql.DB }

func NewSQLiteTripStore(db *sql.DB) *SQLiteTripStore {
	return &SQLiteTripStore{DB: db}
}

func (s *SQLiteTripStore) Save(ctx context.Context, trip domain.Trip) error {
	if s.DB == nil {
		return errors.New("trip store: db is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("trip store: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO trips (
		id, owner_id,
		start_address, start_lat, start_lng, start_display,
		pickup_address, pickup_lat, pickup_lng, pickup_display,
		dropoff_address, dropoff_lat, dropoff_lng, dropoff_display,
		starting_cycle_hours, polyline,
		seg_pickup_distance_miles, seg_pickup_duration_hours,
		seg_dropoff_distance_miles, seg_dropoff_duration_hours,
		total_distance_miles, total_driving_hours, total_days,
		cycle_hours_used, cycle_hours_remaining,
		start_time, end_time, created_at
	) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	`,
		trip.ID.String(), trip.OwnerID.String(),
		trip.StartAddress.Address, trip.StartAddress.Coordinate.Lat, trip.StartAddress.Coordinate.Lng, trip.StartAddress.DisplayName,
		trip.PickupAddress.Address, trip.PickupAddress.Coordinate.Lat, trip.PickupAddress.Coordinate.Lng, trip.PickupAddress.DisplayName,
		trip.DropoffAddress.Address, trip.DropoffAddress.Coordinate.Lat, trip.DropoffAddress.Coordinate.Lng, trip.DropoffAddress.DisplayName,
		trip.StartingCycleHours, trip.Polyline,
		trip.SegToPickup.DistanceMiles, trip.SegToPickup.DurationHours,
		trip.SegToDropoff.DistanceMiles, trip.SegToDropoff.DurationHours,
		trip.Summary.TotalDistanceMiles, trip.Summary.TotalDrivingHours, trip.Summary.TotalDays,
		trip.Summary.CycleHoursUsed, trip.Summary.CycleHoursRemaining,
		trip.Summary.StartTime, trip.Summary.EndTime, trip.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("trip store: insert trip: %w", err)
	}

	stopStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO stops (
		trip_id, ordinal, kind, place_address, place_lat, place_lng, place_display,
		arrival_time, departure_time, activity_text, status
	) VALUES (?,?,?,?,?,?,?,?,?,?,?)
	`)
	if err != nil {
		return fmt.Errorf("trip store: prepare stop insert: %w", err)
	}
	defer stopStmt.Close()

	for _, st := range trip.Stops {
		if _, err := stopStmt.ExecContext(ctx, trip.ID.String(), st.Ordinal, st.Kind,
			st.Place.Address, st.Place.Coordinate.Lat, st.Place.Coordinate.Lng, st.Place.DisplayName,
			st.ArrivalTime, st.DepartureTime, st.ActivityText, st.Status); err != nil {
			return fmt.Errorf("trip store: insert stop #%d: %w", st.Ordinal, err)
		}
	}

	ledgerStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO daily_ledgers (
		trip_id, day_number, date, timezone,
		off_duty_hours, sleeper_hours, driving_hours, on_duty_hours,
		start_location, end_location, total_miles, entries_json, remarks_json
	) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)
	`)
	if err != nil {
		return fmt.Errorf("trip store: prepare ledger insert: %w", err)
	}
	defer ledgerStmt.Close()

	for _, l := range trip.DailyLedgers {
		entriesJSON, err := json.Marshal(l.Entries)
		if err != nil {
			return fmt.Errorf("trip store: marshal entries day %d: %w", l.DayNumber, err)
		}
		remarksJSON, err := json.Marshal(l.Remarks)
		if err != nil {
			return fmt.Errorf("trip store: marshal remarks day %d: %w", l.DayNumber, err)
		}

		if _, err := ledgerStmt.ExecContext(ctx, trip.ID.String(), l.DayNumber, l.Date, l.Timezone,
			l.Hours.OffDutyHours, l.Hours.SleeperHours, l.Hours.DrivingHours, l.Hours.OnDutyHours,
			l.StartLocation, l.EndLocation, l.TotalMiles, string(entriesJSON), string(remarksJSON)); err != nil {
			return fmt.Errorf("trip store: insert ledger day %d: %w", l.DayNumber, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteTripStore) Get(ctx context.Context, ownerID, tripID uuid.UUID) (domain.Trip, error) {
	trip, found, err := s.scanTrip(ctx, `
	SELECT id, owner_id, start_address, start_lat, start_lng, start_display,
		pickup_address, pickup_lat, pickup_lng, pickup_display,
		dropoff_address, dropoff_lat, dropoff_lng, dropoff_display,
		starting_cycle_hours, polyline,
		seg_pickup_distance_miles, seg_pickup_duration_hours,
		seg_dropoff_distance_miles, seg_dropoff_duration_hours,
		total_distance_miles, total_driving_hours, total_days,
		cycle_hours_used, cycle_hours_remaining, start_time, end_time, created_at
	FROM trips WHERE id = ? AND owner_id = ?
	`, tripID.String(), ownerID.String())
	if err != nil {
		return domain.Trip{}, err
	}
	if !found {
		return domain.Trip{}, apperr.New(apperr.NotFound, "trip not found")
	}

	if trip.Stops, err = s.loadStops(ctx, tripID); err != nil {
		return domain.Trip{}, err
	}
	if trip.DailyLedgers, err = s.loadLedgers(ctx, tripID); err != nil {
		return domain.Trip{}, err
	}
	return trip, nil
}

func (s *SQLiteTripStore) scanTrip(ctx context.Context, query string, args ...any) (domain.Trip, bool, error) {
	row := s.DB.QueryRowContext(ctx, query, args...)

	var t domain.Trip
	var id, ownerID string
	var start, pickup, dropoff domain.NamedPlace

	err := row.Scan(
		&id, &ownerID,
		&start.Address, &start.Coordinate.Lat, &start.Coordinate.Lng, &start.DisplayName,
		&pickup.Address, &pickup.Coordinate.Lat, &pickup.Coordinate.Lng, &pickup.DisplayName,
		&dropoff.Address, &dropoff.Coordinate.Lat, &dropoff.Coordinate.Lng, &dropoff.DisplayName,
		&t.StartingCycleHours, &t.Polyline,
		&t.SegToPickup.DistanceMiles, &t.SegToPickup.DurationHours,
		&t.SegToDropoff.DistanceMiles, &t.SegToDropoff.DurationHours,
		&t.Summary.TotalDistanceMiles, &t.Summary.TotalDrivingHours, &t.Summary.TotalDays,
		&t.Summary.CycleHoursUsed, &t.Summary.CycleHoursRemaining, &t.Summary.StartTime, &t.Summary.EndTime, &t.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Trip{}, false, nil
	}
	if err != nil {
		return domain.Trip{}, false, fmt.Errorf("trip store: scan trip: %w", err)
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return domain.Trip{}, false, fmt.Errorf("trip store: parse trip id: %w", err)
	}
	parsedOwner, err := uuid.Parse(ownerID)
	if err != nil {
		return domain.Trip{}, false, fmt.Errorf("trip store: parse owner id: %w", err)
	}

	t.ID, t.OwnerID = parsedID, parsedOwner
	t.StartAddress, t.PickupAddress, t.DropoffAddress = start, pickup, dropoff
	return t, true, nil
}

func (s *SQLiteTripStore) loadStops(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error) {
	rows, err := s.DB.QueryContext(ctx, `
	SELECT ordinal, kind, place_address, place_lat, place_lng, place_display,
		arrival_time, departure_time, activity_text, status
	FROM stops WHERE trip_id = ? ORDER BY ordinal
	`, tripID.String())
	if err != nil {
		return nil, fmt.Errorf("trip store: query stops: %w", err)
	}
	defer rows.Close()

	var stops []domain.Stop
	for rows.Next() {
		var st domain.Stop
		if err := rows.Scan(&st.Ordinal, &st.Kind, &st.Place.Address, &st.Place.Coordinate.Lat, &st.Place.Coordinate.Lng,
			&st.Place.DisplayName, &st.ArrivalTime, &st.DepartureTime, &st.ActivityText, &st.Status); err != nil {
			return nil, fmt.Errorf("trip store: scan stop: %w", err)
		}
		stops = append(stops, st)
	}
	return stops, rows.Err()
}

func (s *SQLiteTripStore) loadLedgers(ctx context.Context, tripID uuid.UUID) ([]domain.DailyLedger, error) {
	rows, err := s.DB.QueryContext(ctx, `
	SELECT day_number, date, timezone, off_duty_hours, sleeper_hours, driving_hours, on_duty_hours,
		start_location, end_location, total_miles, entries_json, remarks_json
	FROM daily_ledgers WHERE trip_id = ? ORDER BY day_number
	`, tripID.String())
	if err != nil {
		return nil, fmt.Errorf("trip store: query ledgers: %w", err)
	}
	defer rows.Close()

	var ledgers []domain.DailyLedger
	for rows.Next() {
		var l domain.DailyLedger
		var entriesJSON, remarksJSON string
		if err := rows.Scan(&l.DayNumber, &l.Date, &l.Timezone, &l.Hours.OffDutyHours, &l.Hours.SleeperHours,
			&l.Hours.DrivingHours, &l.Hours.OnDutyHours, &l.StartLocation, &l.EndLocation, &l.TotalMiles,
			&entriesJSON, &remarksJSON); err != nil {
			return nil, fmt.Errorf("trip store: scan ledger: %w", err)
		}
		if err := json.Unmarshal([]byte(entriesJSON), &l.Entries); err != nil {
			return nil, fmt.Errorf("trip store: unmarshal entries day %d: %w", l.DayNumber, err)
		}
		if err := json.Unmarshal([]byte(remarksJSON), &l.Remarks); err != nil {
			return nil, fmt.Errorf("trip store: unmarshal remarks day %d: %w", l.DayNumber, err)
		}
		ledgers = append(ledgers, l)
	}
	return ledgers, rows.Err()
}

func (s *SQLiteTripStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Trip, error) {
	rows, err := s.DB.QueryContext(ctx, `
	SELECT id, owner_id, start_address, start_lat, start_lng, start_display,
		pickup_address, pickup_lat, pickup_lng, pickup_display,
		dropoff_address, dropoff_lat, dropoff_lng, dropoff_display,
		starting_cycle_hours, polyline,
		seg_pickup_distance_miles, seg_pickup_duration_hours,
		seg_dropoff_distance_miles, seg_dropoff_duration_hours,
		total_distance_miles, total_driving_hours, total_days,
		cycle_hours_used, cycle_hours_remaining, start_time, end_time, created_at
	FROM trips WHERE owner_id = ? ORDER BY created_at DESC
	`, ownerID.String())
	if err != nil {
		return nil, fmt.Errorf("trip store: query trips: %w", err)
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		var t domain.Trip
		var id, owner string
		if err := rows.Scan(
			&id, &owner,
			&t.StartAddress.Address, &t.StartAddress.Coordinate.Lat, &t.StartAddress.Coordinate.Lng, &t.StartAddress.DisplayName,
			&t.PickupAddress.Address, &t.PickupAddress.Coordinate.Lat, &t.PickupAddress.Coordinate.Lng, &t.PickupAddress.DisplayName,
			&t.DropoffAddress.Address, &t.DropoffAddress.Coordinate.Lat, &t.DropoffAddress.Coordinate.Lng, &t.DropoffAddress.DisplayName,
			&t.StartingCycleHours, &t.Polyline,
			&t.SegToPickup.DistanceMiles, &t.SegToPickup.DurationHours,
			&t.SegToDropoff.DistanceMiles, &t.SegToDropoff.DurationHours,
			&t.Summary.TotalDistanceMiles, &t.Summary.TotalDrivingHours, &t.Summary.TotalDays,
			&t.Summary.CycleHoursUsed, &t.Summary.CycleHoursRemaining, &t.Summary.StartTime, &t.Summary.EndTime, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("trip store: scan trip: %w", err)
		}
		parsedID, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("trip store: parse trip id: %w", err)
		}
		parsedOwner, err := uuid.Parse(owner)
		if err != nil {
			return nil, fmt.Errorf("trip store: parse owner id: %w", err)
		}
		t.ID, t.OwnerID = parsedID, parsedOwner
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

func (s *SQLiteTripStore) Delete(ctx context.Context, ownerID, tripID uuid.UUID) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM trips WHERE id = ? AND owner_id = ?`, tripID.String(), ownerID.String())
	if err != nil {
		return fmt.Errorf("trip store: delete trip: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("trip store: rows affected: %w", err)
	}
	if n == 0 {
		return apperr.New(apperr.NotFound, "trip not found")
	}
	return nil
}
