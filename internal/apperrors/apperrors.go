package apperrors

import (
	"errors"
	"fmt"
)

// Error kinds. Every domain error wraps exactly one of them.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrPermission   = errors.New("permission denied")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
)

// Error is a domain error with a message meant to be shown to the end user.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap lets errors.Is match the kind.
func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(format string, args ...any) error {
	return newError(ErrUnauthorized, format, args...)
}

func Permission(format string, args ...any) error {
	return newError(ErrPermission, format, args...)
}

func NotFound(format string, args ...any) error {
	return newError(ErrNotFound, format, args...)
}

func Validation(format string, args ...any) error {
	return newError(ErrValidation, format, args...)
}

func Conflict(format string, args ...any) error {
	return newError(ErrConflict, format, args...)
}

// IsDomain reports whether err carries one of the domain kinds, as opposed
// to a store or transport failure.
func IsDomain(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr)
}
