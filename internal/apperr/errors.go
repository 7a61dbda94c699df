// Package apperr defines the typed errors the engine returns to its callers.
// Operations fail fast with one of these kinds; the HTTP layer maps kinds to
// status codes and user-facing messages.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindValidation marks invalid input to an operation.
	KindValidation Kind = iota + 1
	// KindInvalidState marks a status change not permitted from the current state.
	KindInvalidState
	// KindNotFound marks a reference to a missing entity.
	KindNotFound
	// KindBusinessRule marks a domain rule violation outside the state machine.
	KindBusinessRule
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindInvalidState:
		return "invalid_state"
	case KindNotFound:
		return "not_found"
	case KindBusinessRule:
		return "business_rule"
	default:
		return "unknown"
	}
}

// Error is a typed domain error.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports invalid input.
func Validation(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// InvalidState reports a forbidden state-machine transition.
func InvalidState(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidState, Msg: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing entity.
func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// BusinessRule reports a domain rule violation.
func BusinessRule(format string, args ...interface{}) error {
	return &Error{Kind: KindBusinessRule, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, or 0 if err is not a domain error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Is reports whether err is a domain error of the given kind.
func Is(err error, k Kind) bool {
	return KindOf(err) == k
}
