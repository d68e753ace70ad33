package ports

import (
	"context"

	"github.com/google/uuid"

	"hos-trip-service/internal/domain"
)

// TripStore persists computed trips and retrieves them by owner. Deletion
// cascades to a trip's stops and daily ledgers; writes are single-row
// transactional per §4.5.
type TripStore interface {
	Save(ctx context.Context, trip domain.Trip) error
	Get(ctx context.Context, ownerID, tripID uuid.UUID) (domain.Trip, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Trip, error)
	Delete(ctx context.Context, ownerID, tripID uuid.UUID) error
}
