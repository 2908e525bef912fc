// Package apperr defines the error taxonomy shared by the auth flow, the trip
// catalogue and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kinds. Every *Error carries exactly one of them.
var (
	ErrValidation     = errors.New("validation failed")
	ErrAuthentication = errors.New("authentication failed")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrPersistence    = errors.New("persistence failure")
)

// Error is a typed operation error.
// Msg is safe to show to the client; Err (the cause) is for logs only.
type Error struct {
	Kind error
	Err  error
	Op   string
	Msg  string
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v: %s: %v", e.Op, e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Kind, e.Msg)
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Validation builds an ErrValidation error.
func Validation(op, msg string) error {
	return &Error{Op: op, Kind: ErrValidation, Msg: msg}
}

// Authentication builds an ErrAuthentication error.
func Authentication(op, msg string) error {
	return &Error{Op: op, Kind: ErrAuthentication, Msg: msg}
}

// NotFound builds an ErrNotFound error.
func NotFound(op, msg string) error {
	return &Error{Op: op, Kind: ErrNotFound, Msg: msg}
}

// Conflict builds an ErrConflict error.
func Conflict(op, msg string) error {
	return &Error{Op: op, Kind: ErrConflict, Msg: msg}
}

// Persistence wraps a store failure. The cause never reaches the client.
func Persistence(op string, cause error) error {
	return &Error{Op: op, Kind: ErrPersistence, Msg: "internal server error", Err: cause}
}

// HTTPStatus maps err to a response status. Unknown errors are 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		// Дубликат email отдаем как 400, так исторически ведет себя API
		return http.StatusBadRequest
	case errors.Is(err, ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	return "internal server error"
}
