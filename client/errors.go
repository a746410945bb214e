package client

import (
	"errors"
	"fmt"
)

// Sentinel errors for the backend's failure taxonomy. Compare with
// errors.Is; the concrete *APIError carries the server message.
var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrValidation        = errors.New("validation failure")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
)

// APIError is a non-success envelope decoded from the backend.
type APIError struct {
	HTTPStatus int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %s (%d): %s", e.Code, e.HTTPStatus, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthenticated:
		return e.Code == "UNAUTHENTICATED"
	case ErrUnauthorized:
		return e.Code == "UNAUTHORIZED"
	case ErrInvalidTransition:
		return e.Code == "INVALID_TRANSITION"
	case ErrValidation:
		return e.Code == "VALIDATION_FAILURE"
	case ErrNotFound:
		return e.Code == "NOT_FOUND"
	case ErrConflict:
		return e.Code == "CONFLICT"
	}
	return false
}

// RequestError marks a request that never produced a response. Polling
// screens treat it as "abandon this tick and keep the previous view".
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
