package backend

import (
	"errors"
	"fmt"
)

// ErrNoToken is returned when an authenticated call is made before any
// bearer token has been obtained or loaded.
var ErrNoToken = errors.New("no authentication token")

// APIError is a non-2xx response from the backend, carrying the message
// from the server's structured error body when one was present.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("backend: request failed with status %d", e.StatusCode)
}

// Message extracts the server-supplied error message from err, or returns
// the empty string when err carries none.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
