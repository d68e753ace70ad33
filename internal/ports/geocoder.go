package ports

import (
	"context"

	"hos-trip-service/internal/domain"
)

// Geocoder turns an address string into coordinates plus a canonical
// display name. Implementations cache by request equality and retry
// transient failures per §4.4; callers only see the typed apperr result.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (domain.NamedPlace, error)
}
