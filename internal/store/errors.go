package store

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a persistence error carrying the HTTP status it maps to.
type Error struct {
	Code    int    // HTTP status code
	Message string // User-facing message
	Err     error  // Underlying error (optional)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same code, so WithMessage variants satisfy errors.Is
// against the sentinels.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPCode returns the HTTP status code associated with this error.
func (e *Error) HTTPCode() int { return e.Code }

// WithMessage returns a new error with a custom message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Code: e.Code, Message: msg, Err: e.Err}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Err: err}
}

// Sentinel errors.
var (
	ErrNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "resource not found",
	}

	ErrAlreadyExists = &Error{
		Code:    http.StatusConflict,
		Message: "resource already exists",
	}

	ErrInvalidInput = &Error{
		Code:    http.StatusBadRequest,
		Message: "invalid input",
	}
)

// Entity-specific variants. They match the sentinels above with errors.Is.
var (
	ErrCreatorNotFound     = ErrNotFound.WithMessage("creator not found")
	ErrSlugTaken           = ErrAlreadyExists.WithMessage("slug already in use")
	ErrApplicationNotFound = ErrNotFound.WithMessage("application not found")
	ErrAdminNotFound       = ErrNotFound.WithMessage("admin not found")
	ErrEmailTaken          = ErrAlreadyExists.WithMessage("email already in use")
	ErrSessionNotFound     = ErrNotFound.WithMessage("session not found")
	ErrResetNotFound       = ErrNotFound.WithMessage("reset token not found")
)
