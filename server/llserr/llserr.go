// Package llserr provides the registry service's error type: a message
// plus a chain of sentinel causes, so call sites can both log a
// human-readable message and test for a specific failure category with
// errors.Is.
//
// Grounded directly on server/serr/serr.go, renamed for this service's
// domain (grammar/parser registry rather than game sessions) and with its
// sentinel set replaced to match that domain's failure modes.
package llserr

import "strings"

// Error is a message paired with zero or more wrapped sentinel causes.
type Error struct {
	msg   string
	cause []error
}

// New creates an Error with msg as its message and causes as its wrapped
// sentinels. If msg is empty, the first cause's message is used instead.
func New(msg string, causes ...error) Error {
	return Error{msg: msg, cause: causes}
}

// WrapStore wraps a data-store error with ErrStore, for sqlite-layer
// failures that shouldn't leak driver-specific detail to API callers.
func WrapStore(msg string, err error) Error {
	return New(msg, err, ErrStore)
}

func (e Error) Error() string {
	if e.msg != "" {
		return e.msg
	}
	msgs := make([]string, 0, len(e.cause))
	for _, c := range e.cause {
		if c != nil {
			msgs = append(msgs, c.Error())
		}
	}
	return strings.Join(msgs, ": ")
}

// Unwrap exposes every wrapped cause to errors.Is/errors.As.
func (e Error) Unwrap() []error {
	return e.cause
}

// Is reports whether target matches msg-less bare equality against e
// itself, beyond the usual Unwrap-based chain errors.Is already walks. This
// lets a caller compare two Errors with equal causes as equivalent even
// when their messages differ.
func (e Error) Is(target error) bool {
	other, ok := target.(Error)
	if !ok {
		return false
	}
	if len(e.cause) != len(other.cause) {
		return false
	}
	for i := range e.cause {
		if e.cause[i] != other.cause[i] {
			return false
		}
	}
	return true
}

// Sentinel causes. Check against these with errors.Is, never by comparing
// Error values directly.
var (
	ErrNotFound       = sentinel("not found")
	ErrAlreadyExists  = sentinel("already exists")
	ErrBadGrammar     = sentinel("invalid grammar")
	ErrConflict       = sentinel("grammar is not LL(1)")
	ErrSyntax         = sentinel("syntax error")
	ErrStore          = sentinel("data store error")
	ErrBadArgument    = sentinel("bad argument")
	ErrBodyUnmarshal  = sentinel("could not unmarshal request body")
	ErrPermissions    = sentinel("permission denied")
	ErrBadCredentials = sentinel("bad credentials")
)

type sentinelErr string

func (s sentinelErr) Error() string { return string(s) }

func sentinel(msg string) error { return sentinelErr(msg) }
