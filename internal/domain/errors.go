package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the transport layer can map it without string matching.
type Kind string

const (
	KindNotFound        Kind = "NotFound"
	KindInvalidState    Kind = "InvalidState"
	KindConflict        Kind = "Conflict"
	KindValidation      Kind = "ValidationError"
	KindUnauthenticated Kind = "Unauthenticated"
	KindInternal        Kind = "Internal"
)

type Error struct {
	Kind    Kind
	Message string
	Field   string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func InvalidState(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Validation(field, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

func Unauthenticated(format string, args ...any) *Error {
	return &Error{Kind: KindUnauthenticated, Message: fmt.Sprintf(format, args...)}
}

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf reports the kind of the first *Error in err's chain; anything else is Internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var target *Error
	if errors.As(err, &target) {
		return target.Kind
	}
	return KindInternal
}

func IsNotFound(err error) bool     { return KindOf(err) == KindNotFound }
func IsInvalidState(err error) bool { return KindOf(err) == KindInvalidState }
func IsConflict(err error) bool     { return KindOf(err) == KindConflict }
func IsValidation(err error) bool   { return KindOf(err) == KindValidation }
