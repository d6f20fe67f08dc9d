package mfgapi

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrBackendUnreachable wraps every transport-level failure (refused connection, DNS, reset).
var ErrBackendUnreachable = errors.New("backend unreachable")

// ErrUnexpectedResponse wraps a response the backend did send but whose body could not be decoded.
var ErrUnexpectedResponse = errors.New("unexpected backend response")

// StatusError is returned when the backend answers with a non-success status.
type StatusError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: backend returned status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: backend returned status %d: %s", e.Op, e.StatusCode, e.Message)
}

// apiError is the JSON error body produced by the backend.
type apiError struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnauthorized
}

// IsUnreachable reports whether err came from a transport failure.
func IsUnreachable(err error) bool {
	return errors.Is(err, ErrBackendUnreachable)
}

// StatusCode extracts the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

// Message returns the backend's error text carried by err, or fallback.
func Message(err error, fallback string) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Message != "" {
		return statusErr.Message
	}
	return fallback
}
