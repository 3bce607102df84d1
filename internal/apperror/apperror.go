// Package apperror defines the error kinds shared by the service, auth and
// handler layers. Services return *AppError values wrapping one of the
// sentinels below; the HTTP layer maps the sentinel to a status code.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("validation error")
	ErrConflict       = errors.New("conflict")
	ErrForbidden      = errors.New("forbidden")
	ErrAuthentication = errors.New("unauthenticated")
)

// GenericMessage is the only text clients see for errors that are not an
// *AppError. The underlying cause is logged server-side.
const GenericMessage = "the request could not be processed"

type AppError struct {
	Err     error  // actual error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource string, id any) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %v", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports a violated uniqueness rule, e.g. a taken nickname.
func Conflict(field, message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
		Field:   field,
	}
}

// Forbidden returns an AppError indicating the caller does not own the
// resource it tried to change.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Unauthenticated covers credential and session-token failures.
func Unauthenticated(message string) *AppError {
	return &AppError{
		Err:     ErrAuthentication,
		Message: message,
	}
}

// Is reports whether err is an *AppError of the given kind.
func Is(err, kind error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && errors.Is(appErr.Err, kind)
}
