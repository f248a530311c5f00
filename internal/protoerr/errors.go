// Package protoerr defines the compositor's error taxonomy and the
// structured error type every layer of the server uses to report faults.
package protoerr

import (
	"errors"
	"fmt"
	"syscall"
)

// Code is a high-level protocol-error category.
type Code string

const (
	// CodeMalformedFrame: header or argument area could not be decoded.
	// Fatal to the connection.
	CodeMalformedFrame Code = "MalformedFrame"

	// CodeInvalidObject: request targeted an unknown id (non-fatal,
	// logged and skipped by the caller) or a new_id collided with an
	// already-bound id (fatal).
	CodeInvalidObject Code = "InvalidObject"

	// CodeProtocolViolation: a required fd was missing, an argument had
	// the wrong shape, or an enum value was out of range. Fatal.
	CodeProtocolViolation Code = "ProtocolViolation"

	// CodeMappingError: mmap or remap failed outright. Fatal.
	CodeMappingError Code = "MappingError"

	// CodeResizeFailed: an in-place pool resize could not keep the
	// mapping's address. Fatal.
	CodeResizeFailed Code = "ResizeFailed"

	// CodePeerClosed: normal end of stream. Clean teardown, not an error
	// surfaced to the client.
	CodePeerClosed Code = "PeerClosed"
)

// Error is the structured error type threaded through every layer: wire
// decoding, the registry, shm mapping, and the dispatcher. Op names the
// operation that failed; ObjectID and Opcode are filled in when the fault is
// tied to one request (0/-1 when not applicable).
type Error struct {
	Op       string
	ObjectID uint32
	Opcode   int
	Code     Code
	Errno    syscall.Errno
	Msg      string
	Inner    error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}
	if e.ObjectID != 0 {
		return fmt.Sprintf("waycompd: %s (op=%s object=%d)", msg, e.Op, e.ObjectID)
	}
	if e.Op != "" {
		return fmt.Sprintf("waycompd: %s (op=%s)", msg, e.Op)
	}
	return fmt.Sprintf("waycompd: %s", msg)
}

func (e *Error) Unwrap() error { return e.Inner }

func (e *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == te.Code
}

// New creates a structured error for the given operation and taxonomy code.
func New(op string, code Code, msg string) *Error {
	return &Error{Op: op, Code: code, Msg: msg, Opcode: -1}
}

// WithObject attaches the target object id and opcode to an error.
func (e *Error) WithObject(objectID uint32, opcode int) *Error {
	e.ObjectID = objectID
	e.Opcode = opcode
	return e
}

// Wrap classifies an arbitrary error under the given operation and code,
// preserving it as the wrapped cause.
func Wrap(op string, code Code, err error) *Error {
	if err == nil {
		return nil
	}
	e := &Error{Op: op, Code: code, Msg: err.Error(), Inner: err, Opcode: -1}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		e.Errno = errno
	}
	return e
}

// IsCode reports whether err is a *Error carrying the given taxonomy code.
func IsCode(err error, code Code) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}

// IsFatal reports whether the taxonomy code requires tearing down the
// connection, per the propagation policy.
func IsFatal(code Code) bool {
	switch code {
	case CodeMalformedFrame, CodeProtocolViolation, CodeMappingError, CodeResizeFailed:
		return true
	case CodeInvalidObject:
		// Unknown-id lookups are non-fatal and never constructed with this
		// code by callers that intend to continue; only the id-collision
		// path raises CodeInvalidObject as an error value, and that path is
		// always fatal.
		return true
	default:
		return false
	}
}
