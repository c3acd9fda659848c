// Package apperr defines the error categories surfaced to the user or scheduler.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is an error category.
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindParse
	KindFilesystem
	KindEnvironment
	KindNotAvailable
)

// String returns the category name.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindParse:
		return "parse"
	case KindFilesystem:
		return "filesystem"
	case KindEnvironment:
		return "environment"
	case KindNotAvailable:
		return "not available"
	default:
		return "unknown"
	}
}

// Error is a categorised error. Op names the failing operation.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// Category sentinels, for use with errors.Is.
var (
	ErrNetwork      = &Error{Kind: KindNetwork}
	ErrParse        = &Error{Kind: KindParse}
	ErrFilesystem   = &Error{Kind: KindFilesystem}
	ErrEnvironment  = &Error{Kind: KindEnvironment}
	ErrNotAvailable = &Error{Kind: KindNotAvailable}
)

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Op != "" && e.Err != nil:
		return e.Op + ": " + e.Err.Error()
	case e.Err != nil:
		return e.Err.Error()
	case e.Op != "":
		return e.Op + ": " + e.Kind.String() + " error"
	default:
		return e.Kind.String() + " error"
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same Kind, so a sentinel matches every
// error in its category.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New wraps err in the given category.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf builds a categorised error from a format string.
func Errorf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// Network wraps a transport failure.
func Network(op string, err error) *Error { return New(KindNetwork, op, err) }

// Parse wraps unexpected content.
func Parse(op string, err error) *Error { return New(KindParse, op, err) }

// Filesystem wraps a local disk failure.
func Filesystem(op string, err error) *Error { return New(KindFilesystem, op, err) }

// Environment wraps a missing desktop facility.
func Environment(op string, err error) *Error { return New(KindEnvironment, op, err) }

// KindOf returns the category of err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// ExitCode maps err to a process exit status. Navigation past the ends
// of the history is not a failure.
func ExitCode(err error) int {
	if err == nil || errors.Is(err, ErrNotAvailable) {
		return 0
	}
	return 1
}
