package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned for any authenticated call the server
	// rejects with 401. The caller decides whether to drop the session.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned when a note id does not resolve.
	ErrNotFound = errors.New("note not found")
)

// RequestError is a non-2xx response that is neither a 401 nor a missing
// note. Message carries the server's error text when the payload had one,
// otherwise a per-operation fallback.
type RequestError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s failed with status %d", e.Op, e.StatusCode)
}

// NetworkError wraps a transport failure (unreachable server, reset
// connection). The request never produced a status code.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: request failed: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
