// Package dto carries the wire-format request/response shapes for the
// HTTP surface, keeping internal/domain free of JSON tags (§6).
package dto

import "time"

// CalculateTripRequest is POST /trips/calculate's request body.
type CalculateTripRequest struct {
	CurrentLocation   string     `json:"current_location"`
	PickupLocation    string     `json:"pickup_location"`
	DropoffLocation   string     `json:"dropoff_location"`
	CurrentCycleHours float64    `json:"current_cycle_hours"`
	StartTime         *time.Time `json:"start_time"`
}

// Coordinates is the wire shape of domain.Coordinate.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// StopResponse is one entry of the response's "stops" array.
type StopResponse struct {
	Order          int         `json:"order"`
	Kind           string      `json:"kind"`
	Name           string      `json:"name"`
	Address        string      `json:"address"`
	Coordinates    Coordinates `json:"coordinates"`
	Arrival        time.Time   `json:"arrival"`
	Departure      time.Time   `json:"departure"`
	DurationMinutes int        `json:"duration_minutes"`
	Activity       string      `json:"activity"`
}

// LedgerEntryResponse is one row of a daily ledger's "entries" array.
type LedgerEntryResponse struct {
	Status   string    `json:"status"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Location string    `json:"location"`
	Activity string    `json:"activity"`
}

// RemarkResponse is one row of a daily ledger's "remarks" array.
type RemarkResponse struct {
	Time     time.Time `json:"time"`
	Location string    `json:"location"`
	Activity string    `json:"activity"`
}

// DailyHoursResponse is the four duty-status totals for one calendar day.
type DailyHoursResponse struct {
	OffDuty      float64 `json:"off_duty"`
	SleeperBerth float64 `json:"sleeper_berth"`
	Driving      float64 `json:"driving"`
	OnDuty       float64 `json:"on_duty"`
}

// DailyLogResponse is one entry of the response's "daily_logs" array.
type DailyLogResponse struct {
	Day           int                   `json:"day"`
	Date          string                `json:"date"`
	Timezone      string                `json:"timezone"`
	StartLocation string                `json:"start_location"`
	EndLocation   string                `json:"end_location"`
	TotalMiles    float64               `json:"total_miles"`
	Hours         DailyHoursResponse    `json:"hours"`
	Entries       []LedgerEntryResponse `json:"entries"`
	Remarks       []RemarkResponse      `json:"remarks"`
}

// SegmentResponse is one entry of the response's "route.segments" array.
type SegmentResponse struct {
	From          string  `json:"from"`
	To            string  `json:"to"`
	DistanceMiles float64 `json:"distance_miles"`
	DurationHours float64 `json:"duration_hours"`
}

// RouteResponse is the response's "route" object.
type RouteResponse struct {
	Polyline string            `json:"polyline"`
	Segments []SegmentResponse `json:"segments"`
}

// TripSummaryResponse is the response's "summary" object.
type TripSummaryResponse struct {
	TotalDistanceMiles  float64   `json:"total_distance_miles"`
	TotalDrivingHours   float64   `json:"total_driving_hours"`
	TotalDays           int       `json:"total_days"`
	StartTime           time.Time `json:"start_time"`
	EndTime             time.Time `json:"end_time"`
	CycleHoursUsed      float64   `json:"cycle_hours_used"`
	CycleHoursRemaining float64   `json:"cycle_hours_remaining"`
}

// TripResponse is the full POST /trips/calculate and GET /trips/{id}
// response body (§6).
type TripResponse struct {
	TripID    string              `json:"trip_id"`
	Summary   TripSummaryResponse `json:"summary"`
	Route     RouteResponse       `json:"route"`
	Stops     []StopResponse      `json:"stops"`
	DailyLogs []DailyLogResponse  `json:"daily_logs"`
}

// TripListItemResponse is one entry of GET /trips's truncated list (§4.6
// "list owner's trips, newest-first, truncated fields").
type TripListItemResponse struct {
	TripID          string    `json:"trip_id"`
	PickupLocation  string    `json:"pickup_location"`
	DropoffLocation string    `json:"dropoff_location"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	TotalDistance   float64   `json:"total_distance_miles"`
	TotalDays       int       `json:"total_days"`
	CreatedAt       time.Time `json:"created_at"`
}

// ListTripsResponse is GET /trips's response body.
type ListTripsResponse struct {
	Trips []TripListItemResponse `json:"trips"`
}

// GeocodeResultResponse is one entry of GET /geocode's results array.
type GeocodeResultResponse struct {
	Address     string      `json:"address"`
	DisplayName string      `json:"display_name"`
	Coordinates Coordinates `json:"coordinates"`
}

// GeocodeResponse is GET /geocode's response body.
type GeocodeResponse struct {
	Results []GeocodeResultResponse `json:"results"`
}
