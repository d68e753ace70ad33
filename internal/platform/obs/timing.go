// Package obs carries the service's structured logging convention: a
// logrus entry threaded through context, plus a Time helper the network
// adapters and the Postgres-backed stores and caches wrap calls in for
// op/duration/err fields.
package obs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"
const loggerKey ctxKey = "logger"

// Base is the process-wide logger; cmd/server configures its formatter
// once at startup.
var Base = logrus.New()

// WithLogger returns a context carrying logger, retrievable via Logger.
func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// Logger returns the context's logger, falling back to Base with no
// fields when the request hasn't set one (e.g. in tests or background
// jobs that never pass through the HTTP middleware).
func Logger(ctx context.Context) *logrus.Entry {
	if l, ok := ctx.Value(loggerKey).(*logrus.Entry); ok {
		return l
	}
	return logrus.NewEntry(Base)
}

// Time wraps an operation with req_id/op/dur_ms/err structured fields,
// logged at Info on success and Error on failure. Usage:
//
//	defer obs.Time(ctx, "ors.GetDistances")(&err)
func Time(ctx context.Context, op string) func(errp *error) {
	start := time.Now()
	reqID, _ := ctx.Value(RequestIDKey).(string)
	logger := Logger(ctx)

	return func(errp *error) {
		dur := time.Since(start)
		fields := logrus.Fields{
			"req_id": reqID,
			"op":     op,
			"dur_ms": dur.Milliseconds(),
		}

		if errp != nil && *errp != nil {
			logger.WithFields(fields).WithError(*errp).Error("operation failed")
			return
		}
		logger.WithFields(fields).Info("operation complete")
	}
}
