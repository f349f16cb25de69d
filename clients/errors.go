package clients

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrCollaboratorUnavailable covers transport failures and an open circuit.
var ErrCollaboratorUnavailable = errors.New("collaborator unavailable")

// StatusError is a non-2xx answer from the collaborator.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("collaborator %s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("collaborator %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Retryable reports whether repeating the call later may succeed.
func (e *StatusError) Retryable() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

// IsNotFound reports a 404 from the collaborator.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// IsRetryable reports errors worth offering a manual retry for.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrCollaboratorUnavailable) {
		return true
	}
	var se *StatusError
	return errors.As(err, &se) && se.Retryable()
}

// countsAsSuccess keeps client errors from tripping the breaker.
func countsAsSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var se *StatusError
	return errors.As(err, &se) && !se.Retryable()
}
