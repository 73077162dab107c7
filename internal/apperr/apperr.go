// Package apperr defines the error kinds surfaced by the service layer.
// Handlers map a Kind to an HTTP status; everything else is InternalFailure.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindInvalidCredentials
	KindUnauthenticated
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationFailed"
	case KindConflict:
		return "Conflict"
	case KindNotFound:
		return "NotFound"
	case KindInvalidCredentials:
		return "InvalidCredentials"
	case KindUnauthenticated:
		return "Unauthenticated"
	default:
		return "InternalFailure"
	}
}

// FieldError describes a single rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(message string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// InvalidCredentials carries the same message for an unknown name and a wrong password.
func InvalidCredentials() *Error {
	return &Error{Kind: KindInvalidCredentials, Message: "Invalid name or password"}
}

func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

// Internal wraps a persistence or unexpected fault. The cause is kept for
// logging only.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Something must have gone wrong!", Err: err}
}

// KindOf returns the kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
