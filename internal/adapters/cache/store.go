package cache

import (
	"context"

	"hos-trip-service/internal/domain"
)

// GeocodeStore is the persistent tier behind the LRU/Redis caches,
// generalized from the teacher's SQLGeocodeCache (addr -> Coordinates)
// to addr -> NamedPlace (coordinates plus display name).
type GeocodeStore interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.NamedPlace, error)
	PutMany(ctx context.Context, places map[string]domain.NamedPlace) error
}

// RouteStore is the persistent tier for router results, generalized from
// the teacher's SQLDistanceCache (single origin, many destinations,
// meters/seconds) to single origin, many destinations, full RouteSegment
// (miles/hours/polyline).
type RouteStore interface {
	GetMany(ctx context.Context, originAddr string, destAddrs []string) (map[string]domain.RouteSegment, error)
	PutMany(ctx context.Context, originAddr string, segments map[string]domain.RouteSegment) error
}
