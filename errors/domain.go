package errors

import (
	stderrors "errors"
	"fmt"
)

var (
	ErrInvalidRequest = stderrors.New("invalid request")
	ErrNotFound       = stderrors.New("not found")
	ErrInsufficient   = stderrors.New("insufficient availability")
	ErrUnavailable    = stderrors.New("unavailable")
	ErrForbidden      = stderrors.New("forbidden")
)

// Error carries the human readable message shown to the caller together
// with the class it belongs to.
type Error struct {
	Class   error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Class
}

func Invalid(format string, args ...any) error {
	return &Error{Class: ErrInvalidRequest, Message: fmt.Sprintf(format, args...)}
}

func NotFound(message string) error {
	return &Error{Class: ErrNotFound, Message: message}
}

func Insufficient(message string) error {
	return &Error{Class: ErrInsufficient, Message: message}
}

func Unavailable(message string) error {
	return &Error{Class: ErrUnavailable, Message: message}
}

func Forbidden(message string) error {
	return &Error{Class: ErrForbidden, Message: message}
}

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target any) bool {
	return stderrors.As(err, target)
}
