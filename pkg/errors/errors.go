// ================== pkg/errors/errors.go =================
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an error so the API layer can map it to a stable response.
type Kind string

const (
	KindValidation        Kind = "VALIDATION_FAILED"
	KindNotFound          Kind = "NOT_FOUND"
	KindUnauthorized      Kind = "UNAUTHORIZED"
	KindForbidden         Kind = "FORBIDDEN"
	KindInvalidTransition Kind = "INVALID_TRANSITION"
	KindConflict          Kind = "CONFLICT"
	KindDependency        Kind = "DEPENDENCY_FAILURE"
	KindInternal          Kind = "INTERNAL_ERROR"
)

var (
	ErrNotFound          = &Error{Kind: KindNotFound, Message: "resource not found"}
	ErrUnauthorized      = &Error{Kind: KindUnauthorized, Message: "unauthorized"}
	ErrForbidden         = &Error{Kind: KindForbidden, Message: "access forbidden"}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition, Message: "invalid status transition"}
	ErrDuplicate         = &Error{Kind: KindConflict, Message: "resource already exists"}
	ErrValidation        = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrInternal          = &Error{Kind: KindInternal, Message: "internal server error"}
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the error value passed between services and handlers.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind so callers can compare against the package sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(message string) *Error { return New(KindNotFound, message) }

func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }

func Forbidden(message string) *Error { return New(KindForbidden, message) }

func Conflict(message string) *Error { return New(KindConflict, message) }

func InvalidTransition(message string) *Error { return New(KindInvalidTransition, message) }

func Validation(message string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func Dependency(message string, err error) *Error { return Wrap(KindDependency, message, err) }

func Internal(message string, err error) *Error { return Wrap(KindInternal, message, err) }

// KindOf returns the Kind carried by err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// As exposes the standard library helper so callers need a single import.
func As(err error, target any) bool { return errors.As(err, target) }

// Is exposes the standard library helper so callers need a single import.
func Is(err, target error) bool { return errors.Is(err, target) }
