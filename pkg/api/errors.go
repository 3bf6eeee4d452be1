package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrShapeMismatch is returned when a collection payload is none of the
	// supported envelopes.
	ErrShapeMismatch = errors.New("unrecognized collection response shape")

	// ErrNotFound matches any StatusError carrying a 404.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized matches any StatusError carrying a 401 or 403.
	ErrUnauthorized = errors.New("unauthorized")
)

// StatusError is returned for non-2xx backend responses.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Code)
	}

	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// Is lets callers use errors.Is with the package sentinels.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Code == http.StatusNotFound
	case ErrUnauthorized:
		return e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden
	}

	return false
}

// Retryable reports whether the backend signalled a transient failure.
func (e *StatusError) Retryable() bool {
	return e.Code >= 500 || e.Code == http.StatusTooManyRequests
}
