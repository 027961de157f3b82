package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies domain errors so transports can switch on them
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindDuplicate
	KindLimitExceeded
	KindNotFound
)

// String returns the display name for an error kind
func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation error"
	case KindDuplicate:
		return "duplicate"
	case KindLimitExceeded:
		return "limit exceeded"
	case KindNotFound:
		return "not found"
	default:
		return "unknown error"
	}
}

// Error is the root of the application error taxonomy
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return e.Msg
}

// Is reports whether target is the sentinel for the same kind.
// Sentinels carry no message, so errors.Is(err, ErrNotFound) matches every
// not-found error regardless of its text.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Msg == "" && t.Kind == e.Kind
}

// Sentinels for errors.Is checks
var (
	ErrValidation    = &Error{Kind: KindValidation}
	ErrDuplicate     = &Error{Kind: KindDuplicate}
	ErrLimitExceeded = &Error{Kind: KindLimitExceeded}
	ErrNotFound      = &Error{Kind: KindNotFound}
)

// KindOf returns the kind of the first domain error in err's chain
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func newError(kind ErrorKind, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Validationf returns a validation error with a formatted message
func Validationf(format string, args ...any) error {
	return newError(KindValidation, format, args...)
}

// Duplicatef returns a duplicate error with a formatted message
func Duplicatef(format string, args ...any) error {
	return newError(KindDuplicate, format, args...)
}

// LimitExceededf returns a limit error with a formatted message
func LimitExceededf(format string, args ...any) error {
	return newError(KindLimitExceeded, format, args...)
}

// NotFoundf returns a not-found error with a formatted message
func NotFoundf(format string, args ...any) error {
	return newError(KindNotFound, format, args...)
}
