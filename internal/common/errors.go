package common

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure so the caller gets an actionable message
type ErrorKind string

const (
	KindInvalidArgument ErrorKind = "invalid_argument"
	KindNotFound        ErrorKind = "not_found"
	KindUpstreamFailure ErrorKind = "upstream_failure"
)

// Error is the typed error carried from the provider and shaping layers up to
// the tool handlers. Hint is the suggested next step shown to the caller.
type Error struct {
	Kind    ErrorKind
	Message string
	Hint    string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// InvalidArgument reports a caller mistake: bad enum, conflicting or unparseable parameters
func InvalidArgument(hint, format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...), Hint: hint}
}

// NotFound reports an unknown ticker or an empty data set
func NotFound(hint, format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...), Hint: hint}
}

// UpstreamFailure wraps a provider failure (network, rate limit, bad payload)
func UpstreamFailure(err error, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    KindUpstreamFailure,
		Message: fmt.Sprintf(format, args...),
		Hint:    "Yahoo Finance may be unavailable or rate limiting requests; wait a moment and try again.",
		Err:     err,
	}
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindUpstreamFailure for untyped errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUpstreamFailure
}

// HintOf returns the next-step hint of the first *Error in err's chain
func HintOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Hint
	}
	return ""
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
