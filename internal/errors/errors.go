// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package errors provides structured errors for the airlock system, each
// carrying a Kind that maps to one of the pipeline stages an error can
// actually originate from: loading a config, replaying a capture, driving a
// raw socket, parsing a frame, or latching a rule violation.
package errors

import (
	"errors"
	"fmt"
)

// Kind categorizes an error by the pipeline stage it came from, not by a
// generic HTTP-style status. The stage determines how a caller should react
// to it (see Fatal and Retryable below), which is why the taxonomy is this
// shape rather than, say, validation/not-found/conflict.
type Kind int

const (
	KindUnknown Kind = iota
	KindInternal
	KindConfig
	KindProtocol
	KindCapture
	KindSocket
	KindViolation
)

func (k Kind) String() string {
	switch k {
	case KindInternal:
		return "internal"
	case KindConfig:
		return "config"
	case KindProtocol:
		return "protocol"
	case KindCapture:
		return "capture"
	case KindSocket:
		return "socket"
	case KindViolation:
		return "violation"
	default:
		return "unknown"
	}
}

// Fatal reports whether an error of this Kind should stop the process rather
// than be logged and worked around. A malformed config can never be repaired
// by retrying; a bad internal invariant is the same. Every other stage has a
// narrower blast radius than the whole process.
func (k Kind) Fatal() bool {
	return k == KindConfig || k == KindInternal
}

// Retryable reports whether the operation that produced this Kind of error
// is worth attempting again as-is. A raw socket read/write can fail
// transiently (interface flap, ENOBUFS) and succeed on the next attempt; a
// capture source can hit a truncated record mid-stream and still have good
// packets after it. A protocol or violation error never will, since the
// bytes that caused it won't change on a second look.
func (k Kind) Retryable() bool {
	return k == KindSocket || k == KindCapture
}

// Error is a Kind-tagged error carrying an optional wrapped cause and a bag
// of structured attributes, so call sites can attach the frame offset, rule
// name, or interface name that explains *why* without string-formatting it
// into the message.
type Error struct {
	Kind       Kind
	Message    string
	Underlying error
	Attributes map[string]any
}

func build(kind Kind, msg string, underlying error) *Error {
	return &Error{Kind: kind, Message: msg, Underlying: underlying}
}

func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Underlying)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Underlying
}

// New creates a new Error of the specified kind.
func New(kind Kind, msg string) error {
	return build(kind, msg, nil)
}

// Errorf creates a new Error of the specified kind with a formatted message.
func Errorf(kind Kind, format string, args ...any) error {
	return build(kind, fmt.Sprintf(format, args...), nil)
}

// Wrap wraps an existing error as a new Error of the specified kind.
func Wrap(err error, kind Kind, msg string) error {
	if err == nil {
		return nil
	}
	return build(kind, msg, err)
}

// Wrapf wraps an existing error as a new Error of the specified kind with a
// formatted message.
func Wrapf(err error, kind Kind, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return build(kind, fmt.Sprintf(format, args...), err)
}

// Attr attaches an attribute to an error. If the error is not an *Error, it
// is wrapped as KindInternal first, since a stdlib error reaching this far
// in means something wasn't classified on the way up.
func Attr(err error, key string, val any) error {
	if err == nil {
		return nil
	}

	var e *Error
	if !errors.As(err, &e) {
		e = build(KindInternal, err.Error(), err)
	}

	if e.Attributes == nil {
		e.Attributes = make(map[string]any)
	}
	e.Attributes[key] = val
	return e
}

// GetKind returns the Kind of the error, or KindUnknown if it's not an
// airlock error.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// GetAttributes walks the error chain and merges every *Error's Attributes,
// innermost losing to outermost on key collision.
func GetAttributes(err error) map[string]any {
	attrs := make(map[string]any)
	collectAttrs(err, attrs)
	return attrs
}

func collectAttrs(err error, into map[string]any) {
	var e *Error
	if !errors.As(err, &e) {
		return
	}
	for k, v := range e.Attributes {
		if _, seen := into[k]; !seen {
			into[k] = v
		}
	}
	collectAttrs(e.Underlying, into)
}

// LogArgs flattens an error's Kind and Attributes into the key/value pairs
// internal/logging's Logger.Error(msg string, kv ...any) expects, so a call
// site can do logger.Error("bridge run failed", errors.LogArgs(err)...)
// instead of hand-building the same "kind", attr, attr... slice each time.
func LogArgs(err error) []any {
	args := []any{"error_kind", GetKind(err).String()}
	for k, v := range GetAttributes(err) {
		args = append(args, k, v)
	}
	return args
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target, and if so,
// sets target to that error value and returns true.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err, if err's
// type contains an Unwrap method returning error.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}
