// Package middleware carries the chi middleware stack: auth, per-request
// deadline, and the teacher's request logging pattern adapted to logrus.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"hos-trip-service/internal/auth"
)

type ctxKey string

const userIDKey ctxKey = "auth_user_id"

// Auth validates the bearer access token on every request, attaching the
// authenticated owner id to context, generalized from
// uydev-fleetsustainability's AuthMiddleware.Authenticate.
func Auth(svc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				http.Error(w, `{"error":"authorization header required","code":"UNAUTHENTICATED"}`, http.StatusUnauthorized)
				return
			}

			token := strings.TrimPrefix(header, "Bearer ")
			claims, err := svc.ValidateAccessToken(token)
			if err != nil {
				http.Error(w, `{"error":"invalid or expired token","code":"UNAUTHENTICATED"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID extracts the authenticated owner id attached by Auth. ok is
// false outside an authenticated request (a handler bug, not a client
// error — every route that reads this is behind Auth).
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}
