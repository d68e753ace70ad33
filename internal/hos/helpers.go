package hos

import (
	"time"

	"hos-trip-service/internal/domain"
)

func clampNonNegative(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}

func minDuration(ds ...time.Duration) time.Duration {
	m := ds[0]
	for _, d := range ds[1:] {
		if d < m {
			m = d
		}
	}
	return m
}

func hoursToDuration(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}

// interpolatePosition returns the scheduler's position after driving
// milesIntoSegment cumulative miles of seg, linearly interpolating the two
// endpoint coordinates. The route polyline is not decoded here, so the
// position lies on the straight line between the endpoints and does not
// follow the route's curvature.
func interpolatePosition(seg domain.RouteSegment, milesIntoSegment float64) domain.NamedPlace {
	if seg.DistanceMiles <= 0 {
		return seg.Origin
	}

	frac := milesIntoSegment / seg.DistanceMiles
	if frac > 1 {
		frac = 1
	}
	if frac < 0 {
		frac = 0
	}

	from := seg.Origin.Coordinate
	to := seg.Destination.Coordinate

	lerp := domain.Coordinate{
		Lat: from.Lat + (to.Lat-from.Lat)*frac,
		Lng: from.Lng + (to.Lng-from.Lng)*frac,
	}

	// The endpoint stays exactly at the known place once driven in full;
	// otherwise the interpolated point has no resolved address.
	if frac >= 1 {
		return seg.Destination
	}

	return domain.NamedPlace{
		Coordinate:  lerp,
		DisplayName: "en route",
	}
}
