// Package apperr defines the error type used across toolbox
package apperr

import (
	"errors"
	"fmt"
)

// Error represents an application error. Message may contain fmt verbs
// which are filled in with Fmt.
type Error struct {
	Cause   error
	Message string
	key     string
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}

	return e.Message + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target was derived from the same template as e.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return e.template() == t.template()
}

// Fmt returns a copy of the error with the message template filled in.
func (e *Error) Fmt(args ...any) *Error {
	return &Error{
		Message: fmt.Sprintf(e.Message, args...),
		Cause:   e.Cause,
		key:     e.template(),
	}
}

// Wrap returns a copy of the error that wraps err.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		Message: e.Message,
		Cause:   err,
		key:     e.template(),
	}
}

func (e *Error) template() string {
	if e.key != "" {
		return e.key
	}

	return e.Message
}
