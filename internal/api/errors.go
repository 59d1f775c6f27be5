package api

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// TransportError is a failure below HTTP: DNS, refused connection, reset,
// timeout. It is the only kind of error the client retries.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPError is a non-2xx response. Its message is "<code> <text>", so the
// status code is always visible to the user.
type HTTPError struct {
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	text := strings.TrimSpace(strings.TrimPrefix(e.Status, fmt.Sprintf("%d", e.StatusCode)))
	if text == "" {
		return fmt.Sprintf("%d", e.StatusCode)
	}
	return fmt.Sprintf("%d %s", e.StatusCode, text)
}

// MalformedResponseError means the body was not JSON or lacked the fields
// every page response carries.
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response: %s: %v", e.Reason, e.Err)
	}
	return "malformed response: " + e.Reason
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// IsCanceled reports whether err stems from a cancelled request context.
// Cancellation is how superseded requests end and is never shown to the user.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.StatusCode == 404
}
