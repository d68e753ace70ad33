package ports

import (
	"context"

	"hos-trip-service/internal/domain"
)

// Router returns the distance, duration, and an encoded polyline for an
// origin/destination pair. The scheduler consumes RouteSegment directly;
// it never calls a Router itself — services.TripCalculator resolves both
// segments before invoking the scheduler, per §5's sequencing rule.
type Router interface {
	Route(ctx context.Context, from, to domain.NamedPlace) (domain.RouteSegment, error)
}
