package jeedom

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrMalformedEnvelope is returned when a response carries neither a result nor an error.
	ErrMalformedEnvelope = errors.New("malformed JSON-RPC envelope")

	// ErrMissingCategory is returned when a required summary category is absent.
	ErrMissingCategory = errors.New("missing summary category")

	// ErrResponseTooLarge is returned when a response body exceeds the read limit.
	ErrResponseTooLarge = errors.New("response too large")

	ErrURLNotParsable = errors.New("url is not parsable")
	ErrURLHostUnknown = errors.New("url host is unknown")
	ErrNoReachableURL = errors.New("no reachable jeedom url")
)

// APIError is an error reported by the controller in the JSON-RPC error member.
type APIError struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("jeedom api error %d: %s", e.Code, e.Message)
}

// DecodeError is returned when a response payload does not have the expected shape.
type DecodeError struct {
	Method string
	Err    error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s response: %v", e.Method, e.Err)
}

// Unwrap allows errors.Is and errors.As to reach the cause.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// HTTPStatusError is returned when the controller answers with a non-200 status.
type HTTPStatusError struct {
	Method     string
	StatusCode int
}

// Error implements the error interface.
func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status code %d", e.Method, e.StatusCode)
}
