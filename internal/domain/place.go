package domain

// NamedPlace is an address resolved to coordinates plus a canonical display
// name. It is immutable after construction — geocoding happens once, up
// front, and every later stage of the trip passes the same value around.
type NamedPlace struct {
	Address     string
	Coordinate  Coordinate
	DisplayName string
}
