package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"hos-trip-service/internal/platform/obs"
)

// Logging logs end-to-end request duration and response size, adapted
// from the teacher's statusWriter/loggingMiddleware pair onto logrus and
// chi's RequestID/WrapResponseWriter instead of a hand-rolled
// statusWriter. The request body is never logged — it can carry
// addresses but never secrets, so there's nothing worth the noise.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		reqID := middleware.GetReqID(r.Context())
		logger := logrus.NewEntry(obs.Base).WithField("req_id", reqID)
		ctx := context.WithValue(r.Context(), obs.RequestIDKey, reqID)
		ctx = obs.WithLogger(ctx, logger)

		next.ServeHTTP(sw, r.WithContext(ctx))

		logger.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": sw.Status(),
			"bytes":  sw.BytesWritten(),
			"dur_ms": time.Since(start).Milliseconds(),
		}).Info("request handled")
	})
}
