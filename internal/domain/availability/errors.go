package availability

import (
	"errors"
	"fmt"
)

// ErrSuperseded is returned when a newer query was issued for the same session
// before this one completed.
var ErrSuperseded = errors.New("query superseded by a newer request")

// UpstreamError reports a non-success HTTP status from the booking provider.
type UpstreamError struct {
	Status     int
	StatusText string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error: %d %s", e.Status, e.StatusText)
}

// TransportError reports a round trip that could not complete.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "upstream transport failed: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError reports a response body that is not the expected JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "decode upstream response: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ValidationError reports a missing or malformed request parameter.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
