// Package reststop implements the RestStopLocator port (§4.2 "rest-stop
// snapping"). InterpolatingLocator is the default: it has no external
// dependency and always succeeds, decoding the segment's polyline to
// place the stop directly on the route rather than at a raw lerp point.
package reststop

import (
	"context"

	"hos-trip-service/internal/adapters/polyline"
	"hos-trip-service/internal/domain"
)

// InterpolatingLocator snaps a requested point to the nearest vertex of
// an already-decoded polyline, falling back to the point itself when no
// polyline is available. It never fails — the scheduler's correctness
// never depends on locator availability (§7).
type InterpolatingLocator struct {
	segments map[string][]domain.Coordinate
}

// NewInterpolatingLocator builds a locator over the decoded vertices of
// the given encoded polylines, keyed however the caller likes (the
// scheduler has no natural segment key at call time, so this is mainly
// useful for tests and the overpass fallback chain).
func NewInterpolatingLocator(encodedPolylines map[string]string) *InterpolatingLocator {
	segments := make(map[string][]domain.Coordinate, len(encodedPolylines))
	for key, enc := range encodedPolylines {
		segments[key] = polyline.Decode(enc)
	}
	return &InterpolatingLocator{segments: segments}
}

// NearestStop returns a placeholder named place, annotated by kind, at the
// decoded polyline vertex nearest to near, or at near itself when the
// locator holds no vertices. It always reports ok=true: the fallback
// placeholder is itself the intended "can't find a real truck stop" behavior.
func (l *InterpolatingLocator) NearestStop(ctx context.Context, near domain.Coordinate, kind domain.StopKind) (domain.NamedPlace, bool, error) {
	at := near
	best := -1.0
	for _, pts := range l.segments {
		for _, p := range pts {
			dLat, dLng := p.Lat-near.Lat, p.Lng-near.Lng
			if d := dLat*dLat + dLng*dLng; best < 0 || d < best {
				best, at = d, p
			}
		}
	}
	return domain.NamedPlace{
		Coordinate:  at,
		DisplayName: placeholderName(kind, at),
	}, true, nil
}

func placeholderName(kind domain.StopKind, c domain.Coordinate) string {
	label := "Rest Area"
	switch kind {
	case domain.StopFuel:
		label = "Fuel Stop"
	case domain.StopBreak30:
		label = "Rest Area"
	case domain.StopRest10Hr, domain.StopRestart34Hr:
		label = "Truck Stop"
	}
	return label + " near " + c.String()
}
