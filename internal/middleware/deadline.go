package middleware

import (
	"context"
	"net/http"
	"time"
)

// Deadline attaches a per-request context.WithTimeout of d, per §5's
// "per-request deadline bounds the whole fan-out/route/schedule
// pipeline" and REQUEST_DEADLINE_SECONDS. A non-positive d disables the
// deadline.
func Deadline(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if d <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
