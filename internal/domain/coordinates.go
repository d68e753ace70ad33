package domain

import "fmt"

// Coordinate is an immutable decimal-degree geographic position. Values are
// kept and persisted at full float64 precision, not rounded; only String
// renders them with six fractional digits.
type Coordinate struct {
	Lat float64
	Lng float64
}

// CoordsToList returns the coordinate as [lng, lat], the ordering most
// routing/geocoding APIs expect on the wire.
func (c Coordinate) CoordsToList() []float64 { return []float64{c.Lng, c.Lat} }

// String renders the coordinate the way a placeholder stop name embeds it.
func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lng)
}
