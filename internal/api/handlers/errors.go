package handlers

import (
	"context"
	"errors"
	"net/http"

	"hos-trip-service/internal/apperr"
	"hos-trip-service/internal/platform/obs"
)

// statusFor maps an apperr.Code to its HTTP status per §7's taxonomy. The
// HTTP layer is the only place allowed to do this translation.
func statusFor(code apperr.Code) int {
	switch code {
	case apperr.Validation:
		return http.StatusBadRequest
	case apperr.Unauthenticated:
		return http.StatusUnauthorized
	case apperr.Forbidden:
		return http.StatusForbidden
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Conflict:
		return http.StatusConflict
	case apperr.RateLimited:
		return http.StatusTooManyRequests
	case apperr.UpstreamInvalid:
		return http.StatusUnprocessableEntity
	case apperr.UpstreamTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

type errorEnvelope struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// writeAppError renders err as the uniform error shape of §7, classifying
// context deadline/cancellation as UPSTREAM_TIMEOUT and anything else
// unrecognized as INTERNAL.
func writeAppError(ctx context.Context, w http.ResponseWriter, r *http.Request, err error) {
	code := apperr.Internal
	message := "internal server error"
	var details map[string]any

	if e, ok := apperr.As(err); ok {
		code = e.Code
		message = e.Message
		details = e.Details
	} else if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		code = apperr.UpstreamTimeout
		message = "request deadline exceeded"
	}

	if code == apperr.Internal {
		obs.Logger(ctx).WithError(err).Error("unhandled internal error")
	}

	writeJSON(w, r, statusFor(code), errorEnvelope{
		Error:   message,
		Code:    string(code),
		Details: details,
	})
}
