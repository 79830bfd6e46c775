// Package apperr defines the error taxonomy shared by the resolver, the retry
// executor and the RPC surface: invalid input, missing entities and upstream
// failures, each carrying an HTTP-equivalent status, a stable code and
// structured context.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind is the category of an Error.
type Kind int

const (
	// KindInvalidParams means the caller supplied malformed or insufficiently scoped input.
	KindInvalidParams Kind = iota + 1
	// KindNotFound means a well-formed identifier did not match any backend entity.
	KindNotFound
	// KindUpstream means a remote operation exhausted its retry budget.
	KindUpstream
)

// Stable error codes exposed to RPC clients.
const (
	CodeInvalidParams = "invalid_params"
	CodeNotFound      = "not_found"
	CodeServerError   = "server_error"
)

// String returns the kind name used in logs and error envelopes.
func (k Kind) String() string {
	switch k {
	case KindInvalidParams:
		return "InvalidParams"
	case KindNotFound:
		return "NotFound"
	case KindUpstream:
		return "UpstreamFailure"
	default:
		return "Unknown"
	}
}

// Error is the uniform error envelope.
type Error struct {
	Kind    Kind
	Status  int
	Code    string
	Message string
	Cause   error
	Context map[string]any
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext attaches a structured context value and returns the error.
func (e *Error) WithContext(key string, value any) *Error {
	e.Context[key] = value
	return e
}

func newError(kind Kind, status int, code, message string, cause error) *Error {
	return &Error{
		Kind:    kind,
		Status:  status,
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// InvalidParams creates an InvalidParams error.
func InvalidParams(format string, args ...any) *Error {
	return newError(KindInvalidParams, http.StatusBadRequest, CodeInvalidParams, fmt.Sprintf(format, args...), nil)
}

// NotFound creates a NotFound error.
func NotFound(format string, args ...any) *Error {
	return newError(KindNotFound, http.StatusNotFound, CodeNotFound, fmt.Sprintf(format, args...), nil)
}

// Upstream creates the terminal failure for an operation that ran out of
// retries. The cause's message is kept as context; the cause itself is not
// wrapped so callers never see the raw transport error type.
func Upstream(operation string, cause error) *Error {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	return newError(KindUpstream, http.StatusInternalServerError, CodeServerError,
		fmt.Sprintf("upstream operation failed: %s", operation), nil).
		WithContext("operation", operation).
		WithContext("originalError", msg)
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	if err == nil {
		return false
	}
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// IsPermanent reports whether retrying err cannot change the outcome.
// Invalid input and missing entities are deterministic.
func IsPermanent(err error) bool {
	return IsKind(err, KindInvalidParams) || IsKind(err, KindNotFound)
}

// RateLimitError signals that the remote side is throttling the caller.
// RetryAfter is zero when the server gave no hint.
type RateLimitError struct {
	RetryAfter time.Duration
	Err        error
}

// Error returns the error message.
func (e *RateLimitError) Error() string {
	msg := "rate limited"
	if e.RetryAfter > 0 {
		msg = fmt.Sprintf("rate limited (retry after %s)", e.RetryAfter)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// RetryAfterHint extracts the server-provided wait from a rate-limit failure.
// ok is false when err is not rate limited or carries no hint.
func RetryAfterHint(err error) (wait time.Duration, ok bool) {
	var rl *RateLimitError
	if !errors.As(err, &rl) {
		return 0, false
	}
	if rl.RetryAfter <= 0 {
		return 0, false
	}
	return rl.RetryAfter, true
}

// IsRateLimited reports whether err carries a rate-limit signal.
func IsRateLimited(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}
