package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors for the domain error taxonomy. Handlers translate these
// to HTTP status codes; everything else maps to a generic 500.
var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflict")
	ErrUnauthenticated = errors.New("not authenticated")
)

// AppError carries a sentinel plus a human-readable message safe to
// return to the caller.
type AppError struct {
	Err     error
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound returns an AppError for a missing resource
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// Validation returns an AppError for missing or malformed input
func Validation(message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
	}
}

// Conflict returns an AppError for a domain conflict such as a
// duplicate category name
func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Unauthenticated returns an AppError for requests with no valid identity
func Unauthenticated() *AppError {
	return &AppError{
		Err:     ErrUnauthenticated,
		Message: "valid authentication required",
	}
}
