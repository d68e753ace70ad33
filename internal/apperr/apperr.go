// Package apperr defines the error taxonomy of §7: a small set of typed
// codes that every layer below the HTTP surface returns, and that the HTTP
// surface is the only place allowed to translate into a status code.
package apperr

import "fmt"

// Code is one of the recognized error kinds from §7.
type Code string

const (
	Validation      Code = "VALIDATION"
	Unauthenticated Code = "UNAUTHENTICATED"
	Forbidden       Code = "FORBIDDEN"
	NotFound        Code = "NOT_FOUND"
	Conflict        Code = "CONFLICT"
	RateLimited     Code = "RATE_LIMITED"
	UpstreamInvalid Code = "UPSTREAM_INVALID"
	UpstreamTimeout Code = "UPSTREAM_TIMEOUT"
	Internal        Code = "INTERNAL"
)

// Error is the typed error every package below the HTTP layer should
// return for a recognized failure mode. Details carries structured
// context (e.g. which input field failed) that the HTTP layer surfaces
// under the response's "details" key.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds an *Error with no wrapped cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds an *Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error, preserving it
// for %w-style unwrapping and logging.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// WithDetails returns a copy of e with Details set.
func (e *Error) WithDetails(details map[string]any) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

// As reports whether err is (or wraps) an *Error, mirroring errors.As
// without forcing every call site to import "errors" for this one check.
func As(err error) (*Error, bool) {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}
