package ports

import (
	"context"

	"github.com/google/uuid"

	"hos-trip-service/internal/domain"
)

// UserStore backs the Identity Provider: account lookup/creation and
// rotating-refresh-token bookkeeping.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (domain.User, error)

	SaveRefreshToken(ctx context.Context, tok domain.RefreshToken) error
	GetRefreshToken(ctx context.Context, token string) (domain.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, token string) error
}
