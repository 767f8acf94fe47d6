// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package apperr defines the application error taxonomy shared by the
// publishing and moderation cores. Every error carries a user-presentable
// message so handlers can show something more specific than "operation failed".
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind int

// Error kinds, in rough order of who is at fault.
const (
	KindValidation    Kind = iota // malformed or missing caller input
	KindConflict                  // state conflict, e.g. slug already taken
	KindAuthorization             // caller lacks permission
	KindNotFound                  // referenced record does not exist
	KindStorage                   // object storage (upload) failure
	KindBackend                   // data store read/write failure
)

// String returns a short name for the kind, used in logs.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindStorage:
		return "storage"
	case KindBackend:
		return "backend"
	default:
		return "unknown"
	}
}

// Error is a classified application error with an optional wrapped cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Message returns the user-presentable message without the wrapped cause.
func (e *Error) Message() string {
	return e.Msg
}

// Validation returns a validation error.
func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// Conflict returns a conflict error.
func Conflict(format string, args ...any) error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

// Authorization returns an authorization error.
func Authorization(format string, args ...any) error {
	return &Error{Kind: KindAuthorization, Msg: fmt.Sprintf(format, args...)}
}

// NotFound returns a not-found error.
func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// Storage wraps an object storage failure.
func Storage(err error, format string, args ...any) error {
	return &Error{Kind: KindStorage, Msg: fmt.Sprintf(format, args...), Err: err}
}

// Backend wraps a data store failure.
func Backend(err error, format string, args ...any) error {
	return &Error{Kind: KindBackend, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of err, or KindBackend if err is not an *Error.
// Unclassified errors are treated as backend failures: the safest default
// for anything that escapes the core without a classification.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindBackend
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// UserMessage returns the user-presentable message for err.
// For unclassified errors it returns a generic message rather than leaking
// internal detail.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "internal error"
}
