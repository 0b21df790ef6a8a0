// Package apperr defines the error kinds the service surfaces to API callers.
package apperr

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindValidation   Kind = "validation"
	KindConflict     Kind = "conflict"
	KindUnauthorized Kind = "unauthorized"
	KindNotFound     Kind = "not-found"
	KindUnavailable  Kind = "unavailable"
	KindInternal     Kind = "internal"
)

// Error is a domain error with a caller-safe message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind, so callers can compare against
// the sentinel values below with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
	}
	return false
}

// Sentinels for errors.Is checks; the message is left empty so any error of
// the kind matches.
var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrConflict     = &Error{Kind: KindConflict}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrUnavailable  = &Error{Kind: KindUnavailable}
)

func Validation(msg string, err error) *Error { return &Error{Kind: KindValidation, Message: msg, Err: err} }
func Conflict(msg string) *Error { return &Error{Kind: KindConflict, Message: msg} }
func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }
func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }
func Unavailable(msg string) *Error { return &Error{Kind: KindUnavailable, Message: msg} }

// Status maps an error to the HTTP status code and the message that is safe
// to return to the caller. Anything that is not an *Error is internal.
func Status(err error) (int, string) {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError, "Internal server error"
	}

	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity, e.Message
	case KindConflict:
		return http.StatusBadRequest, e.Message
	case KindUnauthorized:
		return http.StatusUnauthorized, e.Message
	case KindNotFound:
		return http.StatusNotFound, e.Message
	case KindUnavailable:
		return http.StatusServiceUnavailable, e.Message
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
