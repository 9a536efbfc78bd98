package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation         Kind = "validation"
	KindNotFound           Kind = "not_found"
	KindConflict           Kind = "conflict"
	KindUnavailable        Kind = "unavailable"
	KindUnauthorized       Kind = "unauthorized"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindAccountExists      Kind = "account_exists"
)

// Error tags an underlying error with the kind the HTTP layer maps to a status code.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Op != "" && e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func Validation(op string, err error) *Error   { return New(KindValidation, op, err) }
func NotFound(op string, err error) *Error     { return New(KindNotFound, op, err) }
func Conflict(op string, err error) *Error     { return New(KindConflict, op, err) }
func Unavailable(op string, err error) *Error  { return New(KindUnavailable, op, err) }
func Unauthorized(op string, err error) *Error { return New(KindUnauthorized, op, err) }

// KindOf returns the kind of the outermost *Error in the chain, or "" for untagged errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
