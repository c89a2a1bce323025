// Package serrors provides semantic error kinds for the resolution and
// caching taxonomy. A Kind is a comparable sentinel; Error wraps a kind, an
// optional cause and an optional message while remaining fully compatible
// with errors.Is/As.
package serrors

import (
	"errors"
	"fmt"
)

// Kind is a marker interface implemented by all semantic error kinds created
// with NewKind. It allows distinguishing semantic kinds from ordinary errors.
type Kind interface {
	error
	isKind()
}

// kind is an unexported implementation of Kind used as a sentinel value.
type kind struct{ s string }

func (k kind) Error() string { return k.s }
func (k kind) isKind()       {}

// NewKind creates a new semantic error kind (a sentinel) with the provided
// name. Kinds are comparable and usable with errors.Is/As through the Error
// wrapper.
func NewKind(name string) Kind { return kind{s: name} }

// Kinds cover every failure class a URL can hit on its way through the
// expansion pipeline, plus generic setup-time categories.
var (
	// ErrTimeout indicates the total per-URL deadline elapsed before the
	// redirect chain completed.
	ErrTimeout = NewKind("TIMEOUT")
	// ErrDNS indicates the target host could not be resolved.
	ErrDNS = NewKind("DNS")
	// ErrConnection indicates a TCP/TLS level failure while contacting a hop.
	ErrConnection = NewKind("CONNECTION")
	// ErrProtocol indicates a malformed response or other HTTP-level failure.
	ErrProtocol = NewKind("PROTOCOL")
	// ErrRedirectLimit indicates the redirect chain exceeded the hop budget.
	ErrRedirectLimit = NewKind("REDIRECT_LIMIT")
	// ErrCacheBackend indicates the cache backend failed a get/set round-trip.
	ErrCacheBackend = NewKind("CACHE_BACKEND")
	// ErrBadRequest indicates invalid caller-supplied input.
	ErrBadRequest = NewKind("BAD_REQUEST")
	// ErrUnavailable indicates a required backend is unreachable at startup.
	ErrUnavailable = NewKind("UNAVAILABLE")
	// ErrInternal indicates an unexpected internal failure.
	ErrInternal = NewKind("INTERNAL")
)

// Error is a semantic error carrying a kind, an optional wrapped cause and an
// optional message.
//
// Matching semantics: errors.Is/As match against either the kind sentinel or
// the wrapped cause.
type Error struct {
	kind Kind
	err  error
	msg  string
}

// With constructs a new semantic error with the given kind and message.
func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(msgFmt, args...)}
}

// Wrap constructs a new semantic error with the given kind, wrapping err.
func Wrap(k Kind, err error, msgFmt string, args ...any) *Error {
	return &Error{kind: k, err: err, msg: fmt.Sprintf(msgFmt, args...)}
}

// KindOnly creates a semantic error carrying only the kind.
func KindOnly(k Kind) *Error { return &Error{kind: k} }

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	default:
		if e.kind != nil {
			return e.kind.Error()
		}

		return "unknown error"
	}
}

// Unwrap returns the wrapped cause, enabling errors.Unwrap/Is/As traversal.
func (e *Error) Unwrap() error { return e.err }

// Is matches against either the kind sentinel or the wrapped cause.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return e == nil && target == nil
	}
	if e.kind != nil && errors.Is(e.kind, target) {
		return true
	}
	if e.err != nil && errors.Is(e.err, target) {
		return true
	}

	return false
}

// As matches against either the kind sentinel or the wrapped cause.
func (e *Error) As(target any) bool {
	if e == nil || target == nil {
		return false
	}
	if e.kind != nil && errors.As(e.kind, target) {
		return true
	}
	if e.err != nil && errors.As(e.err, target) {
		return true
	}

	return false
}

// Kind returns the semantic kind sentinel associated with this error, or nil.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the message attached to this error.
func (e *Error) Message() string { return e.msg }

// Cause returns the wrapped cause (may be nil).
func (e *Error) Cause() error { return e.err }
