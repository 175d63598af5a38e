// Package apperr defines the error taxonomy shared by the tracker, the
// stores and the HTTP layer.
//
// Every failure that reaches a handler is an *Error with a Kind. Handlers
// map the Kind to a status code; they never inspect messages.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindPermission
	KindConflict
	KindNotFound
	KindStore
	KindWorkflow
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindPermission:
		return "permission"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindStore:
		return "store"
	case KindWorkflow:
		return "workflow"
	default:
		return "unknown"
	}
}

// ForbiddenMsg is the only message a permission failure ever carries.
const ForbiddenMsg = "forbidden"

// Error is a classified failure. Field is set for validation errors that
// refer to a single input field. Err is the wrapped cause, if any.
type Error struct {
	Kind  Kind
	Field string
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	var s string
	if e.Field != "" {
		s = e.Field + ": " + e.Msg
	} else {
		s = e.Msg
	}
	if e.Err != nil {
		return s + ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error with the same Kind and, when set on the
// target, the same Msg. This lets callers write errors.Is(err, apperr.ErrForbidden).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Msg == "" || t.Msg == e.Msg
}

// Sentinels for errors.Is checks.
var (
	ErrForbidden = &Error{Kind: KindPermission, Msg: ForbiddenMsg}
	ErrNotFound  = &Error{Kind: KindNotFound}
)

// Validation reports bad input on a single field.
func Validation(field, msg string) *Error {
	return &Error{Kind: KindValidation, Field: field, Msg: msg}
}

// Forbidden reports a role gate failure. It never names the resource.
func Forbidden() *Error {
	return &Error{Kind: KindPermission, Msg: ForbiddenMsg}
}

// Conflict reports a uniqueness or state conflict with a human-readable cause.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Msg: msg}
}

// NotFound reports a missing entity ("game", "player", ...).
func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Msg: entity + " not found"}
}

// Store wraps a backend failure for operation op.
func Store(op string, err error) *Error {
	return &Error{Kind: KindStore, Msg: op + " failed", Err: err}
}

// Workflow reports a rejected game state transition or a locked game.
func Workflow(msg string) *Error {
	return &Error{Kind: KindWorkflow, Msg: msg}
}

// Workflowf is Workflow with formatting.
func Workflowf(format string, args ...any) *Error {
	return Workflow(fmt.Sprintf(format, args...))
}

// KindOf returns the Kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// FieldOf returns the field name of a validation error, if any.
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}
