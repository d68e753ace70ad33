package ports

import (
	"context"

	"hos-trip-service/internal/domain"
)

// RestStopLocator returns a plausible truck-stop name/address/coordinates
// near a point along the route. It is advisory only — a locator failure
// or miss never blocks the scheduler, which falls back to a synthetic
// placeholder name, per §4.2 "Rest-stop snapping" and §7.
type RestStopLocator interface {
	NearestStop(ctx context.Context, near domain.Coordinate, kind domain.StopKind) (domain.NamedPlace, bool, error)
}
