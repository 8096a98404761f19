// Package errors provides structured error types used across the engine.
// We prefer these over raw fmt.Errorf strings to enable reliable checks with
// errors.Is / errors.As and to carry minimal context about the failure.
package errors

import (
	"errors"
	"fmt"
)

// NotFoundError indicates a referenced record is absent, or a source item
// is of the wrong kind for the requested matching direction.
type NotFoundError struct {
	Op  string // where it happened (package.Function)
	Msg string // human friendly message
	Err error  // underlying cause (optional)
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("not found: %s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("not found: %s: %s", e.Op, e.Msg)
}

func (e *NotFoundError) Unwrap() error     { return e.Err }
func (e *NotFoundError) Operation() string { return e.Op }
func (e *NotFoundError) Message() string   { return e.Msg }

func NewNotFound(op, msg string, err error) error {
	return &NotFoundError{Op: op, Msg: msg, Err: err}
}

// InvalidInputError indicates malformed input provided by a caller,
// e.g. an out-of-range coordinate or an unknown status value.
type InvalidInputError struct {
	Op  string
	Msg string
	Err error
}

func (e *InvalidInputError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("invalid input: %s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("invalid input: %s: %s", e.Op, e.Msg)
}

func (e *InvalidInputError) Unwrap() error     { return e.Err }
func (e *InvalidInputError) Operation() string { return e.Op }
func (e *InvalidInputError) Message() string   { return e.Msg }

func NewInvalidInput(op, msg string, err error) error {
	return &InvalidInputError{Op: op, Msg: msg, Err: err}
}

// ConflictError indicates a uniqueness violation, surfaced by the store
// when two writers race to create the same match pair.
type ConflictError struct {
	Op  string
	Msg string
	Err error
}

func (e *ConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("conflict: %s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("conflict: %s: %s", e.Op, e.Msg)
}

func (e *ConflictError) Unwrap() error     { return e.Err }
func (e *ConflictError) Operation() string { return e.Op }
func (e *ConflictError) Message() string   { return e.Msg }

func NewConflict(op, msg string, err error) error {
	return &ConflictError{Op: op, Msg: msg, Err: err}
}

// DBError represents record-store access/operation failures.
type DBError struct {
	Op  string
	Msg string
	Err error
}

func (e *DBError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("db: %s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("db: %s: %s", e.Op, e.Msg)
}

func (e *DBError) Unwrap() error     { return e.Err }
func (e *DBError) Operation() string { return e.Op }
func (e *DBError) Message() string   { return e.Msg }

func NewDB(op, msg string, err error) error { return &DBError{Op: op, Msg: msg, Err: err} }

// IsKind helpers: allow callers to check error kind without type assertions.
// Example: if errors.Is(err, errors.ErrConflict) { ... }
var (
	ErrNotFound     = &NotFoundError{}
	ErrInvalidInput = &InvalidInputError{}
	ErrConflict     = &ConflictError{}
	ErrDB           = &DBError{}
)

// Is enables errors.Is(err, ErrNotFound) via errors.As semantics.
// We delegate to errors.As with the zero-value pointer of each type.
func Is(err, target error) bool {
	if err == nil || target == nil {
		return errors.Is(err, target)
	}
	switch target.(type) {
	case *NotFoundError:
		var n *NotFoundError
		return errors.As(err, &n)
	case *InvalidInputError:
		var i *InvalidInputError
		return errors.As(err, &i)
	case *ConflictError:
		var c *ConflictError
		return errors.As(err, &c)
	case *DBError:
		var d *DBError
		return errors.As(err, &d)
	default:
		return errors.Is(err, target)
	}
}
