package api

import (
	"errors"
	"fmt"
)

// Code is a stable machine-readable category for client-observable failures.
type Code string

const (
	// CodeNetwork: the request never completed (DNS, connection, timeout).
	CodeNetwork Code = "network"
	// CodeClient: the request itself was wrong (4xx); retry cannot help.
	CodeClient Code = "client_error"
	// CodeServer: the orchestrator failed (5xx); retryable with backoff.
	CodeServer Code = "server_error"
	// CodeNotFound: 404 on a required resource. Optional "latest" resources
	// never produce this; they return a nil value instead.
	CodeNotFound Code = "not_found"
	// CodeUnavailable: the capability is not present or not enabled (503 /
	// not-yet-deployed). Rendered as a degraded state, not an error banner.
	CodeUnavailable Code = "feature_unavailable"
	// CodeValidation: the response arrived but violated its contract.
	CodeValidation Code = "validation"
)

// Error is a categorized orchestrator API failure. User-visible failures name
// the resource, say whether retry is worthwhile, and carry the backend
// correlation id for cross-system log lookup when one was supplied.
type Error struct {
	Code          Code
	Resource      string
	Message       string
	Retryable     bool
	CorrelationID string
	HTTPStatus    int
	RetryAfterSec int
	Err           error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s (%s)", e.Resource, e.Message, e.Code)
	if e.CorrelationID != "" {
		msg += fmt.Sprintf(" [correlation_id=%s]", e.CorrelationID)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError extracts a categorized *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsUnavailable reports whether err means the capability is not deployed.
func IsUnavailable(err error) bool {
	e, ok := AsError(err)
	return ok && e.Code == CodeUnavailable
}

// IsNotFound reports whether err is a hard 404.
func IsNotFound(err error) bool {
	e, ok := AsError(err)
	return ok && e.Code == CodeNotFound
}

// IsRetryable reports whether retrying the same request may succeed.
// Unknown error kinds are treated as retryable network-level failures.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if e, ok := AsError(err); ok {
		return e.Retryable
	}
	return true
}
