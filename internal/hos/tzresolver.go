package hos

import (
	"time"

	"hos-trip-service/internal/domain"
)

// TimezoneResolver maps a coordinate to an IANA time zone name. The §9
// open question — which zone governs day-boundary splitting — is resolved
// as: the scheduler pins the start place's local zone for every ledger in
// the trip, so only one resolution happens per trip.
type TimezoneResolver interface {
	Resolve(c domain.Coordinate) string
}

// staticUSResolver is a small bounding-box lookup table covering the
// continental US's standard time zones. It is the one piece of internal/hos
// built on the standard library alone: no example repo in the retrieval
// pack ships a geo-timezone third-party dependency, so stdlib time.
// LoadLocation is the only available building block (see DESIGN.md).
type staticUSResolver struct{}

// DefaultTimezoneResolver is the resolver services.NewTripCalculator wires
// by default.
var DefaultTimezoneResolver TimezoneResolver = staticUSResolver{}

type zoneBox struct {
	name   string
	minLng float64
	maxLng float64
}

// zoneBoxes are ordered east to west; the first matching longitude band
// wins. This is a coarse approximation — real zone boundaries follow
// state/county lines, not meridians — adequate for a trip-planning demo
// that only needs a consistent, testable zone per trip.
var zoneBoxes = []zoneBox{
	{name: "America/New_York", minLng: -82.5, maxLng: -66.9},
	{name: "America/Chicago", minLng: -104.0, maxLng: -82.5},
	{name: "America/Denver", minLng: -114.0, maxLng: -104.0},
	{name: "America/Los_Angeles", minLng: -124.8, maxLng: -114.0},
}

func (staticUSResolver) Resolve(c domain.Coordinate) string {
	for _, b := range zoneBoxes {
		if c.Lng >= b.minLng && c.Lng < b.maxLng {
			return b.name
		}
	}
	return "UTC"
}

// loadLocation resolves a zone name to a *time.Location, falling back to
// UTC (and reporting the fallback) when the name is unmapped or the
// tzdata entry can't be loaded.
func loadLocation(name string) (*time.Location, string) {
	loc, err := time.LoadLocation(name)
	if err != nil || loc == nil {
		return time.UTC, "UTC"
	}
	return loc, name
}
