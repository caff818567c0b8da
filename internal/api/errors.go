package api

import (
	"errors"
	"fmt"
)

// Error is a structured error for requests the server answered but rejected:
// a non-2xx status or a response envelope with success=false.
type Error struct {
	// Status is the HTTP status code of the response.
	Status int

	// Message is the server-provided message, if any.
	Message string

	// Op names the failed operation, e.g. "POST /expenses/".
	Op string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s: %s (status %d)", e.Op, e.Message, e.Status)
	}
	return fmt.Sprintf("api: %s: status %d", e.Op, e.Status)
}

// StatusOf returns the HTTP status carried by err, or 0 if err is not an
// *Error (transport failures and malformed bodies have no status).
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
