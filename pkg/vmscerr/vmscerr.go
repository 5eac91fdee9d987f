// Package vmscerr defines the enumerated error kinds raised across the vMSC
// signaling pipeline: a single wrappable error struct with package-level
// sentinels for each kind.
package vmscerr

import "fmt"

// Kind enumerates the distinct error conditions the vMSC core can raise.
type Kind string

const (
	KindNotRunning        Kind = "NotRunning"
	KindDuplicateIMSI     Kind = "DuplicateIMSI"
	KindNotFound          Kind = "NotFound"
	KindWrongState        Kind = "WrongState"
	KindAlreadyInProgress Kind = "AlreadyInProgress"
	KindInvalidDigit      Kind = "InvalidDigit"
	KindInvalidMessage    Kind = "InvalidMessage"
	KindInvalidConfig     Kind = "InvalidConfig"
	KindNoRoute           Kind = "NoRoute"
	KindTransportError    Kind = "TransportError"
)

// Error is the single error type raised by every package in this module.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is allows errors.Is(err, vmscerr.ErrNotFound) to match by Kind rather than
// identity, since callers often construct a fresh *Error with a contextual
// Message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New builds an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error of the given kind that wraps an underlying cause.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// Sentinels usable with errors.Is for callers that don't need a custom message.
var (
	ErrNotRunning        = &Error{Kind: KindNotRunning, Message: "orchestrator is not running"}
	ErrDuplicateIMSI     = &Error{Kind: KindDuplicateIMSI, Message: "subscriber already registered"}
	ErrNotFound          = &Error{Kind: KindNotFound, Message: "not found"}
	ErrWrongState        = &Error{Kind: KindWrongState, Message: "invalid state transition"}
	ErrAlreadyInProgress = &Error{Kind: KindAlreadyInProgress, Message: "handover already in progress"}
	ErrInvalidDigit      = &Error{Kind: KindInvalidDigit, Message: "invalid decimal digit"}
	ErrInvalidMessage    = &Error{Kind: KindInvalidMessage, Message: "malformed message"}
	ErrInvalidConfig     = &Error{Kind: KindInvalidConfig, Message: "invalid configuration"}
	ErrNoRoute           = &Error{Kind: KindNoRoute, Message: "no route to destination"}
	ErrTransportError    = &Error{Kind: KindTransportError, Message: "transport send failed"}
)
