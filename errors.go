package compositor

import "github.com/wlbind/waycompd/internal/protoerr"

// Error is the structured error type returned by every fallible compositor
// operation. It is a re-export of the internal taxonomy type so that callers
// never need to import an internal package to use errors.As/errors.Is.
type Error = protoerr.Error

// Code classifies a failure into one of the taxonomy's categories.
type Code = protoerr.Code

// Taxonomy, matching the propagation policy: MalformedFrame, InvalidObject,
// and ProtocolViolation/MappingError/ResizeFailed are fatal to the
// connection; PeerClosed is a clean shutdown.
const (
	CodeMalformedFrame    = protoerr.CodeMalformedFrame
	CodeInvalidObject     = protoerr.CodeInvalidObject
	CodeProtocolViolation = protoerr.CodeProtocolViolation
	CodeMappingError      = protoerr.CodeMappingError
	CodeResizeFailed      = protoerr.CodeResizeFailed
	CodePeerClosed        = protoerr.CodePeerClosed
)

// IsCode reports whether err is a *Error carrying the given taxonomy code.
func IsCode(err error, code Code) bool {
	return protoerr.IsCode(err, code)
}
