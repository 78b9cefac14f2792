package spdy

import (
	"fmt"

	"github.com/rotisserie/eris"
)

// ErrorCode classifies the three error taxonomies this package reports.
type ErrorCode string

const (
	CodeProtocolError      ErrorCode = "PROTOCOL_ERROR"
	CodeUnsupportedVersion ErrorCode = "UNSUPPORTED_VERSION"
	CodeTypeError          ErrorCode = "TYPE_ERROR"
)

// ProtocolError reports malformed framing, an unknown control type, a
// version mismatch, a duplicate header name, or a decompression failure.
// Receiving one from Context.GetFrame poisons the Context.
type ProtocolError struct {
	Code     ErrorCode
	StreamID uint32
	cause    error
}

func (e *ProtocolError) Error() string {
	if e.StreamID != 0 {
		return fmt.Sprintf("spdy: protocol error on stream %d: %s", e.StreamID, e.cause)
	}
	return fmt.Sprintf("spdy: protocol error: %s", e.cause)
}

func (e *ProtocolError) Unwrap() error { return e.cause }

func newProtocolError(streamID uint32, format string, args ...interface{}) *ProtocolError {
	return &ProtocolError{
		Code:     CodeProtocolError,
		StreamID: streamID,
		cause:    eris.Wrap(fmt.Errorf(format, args...), "spdy"),
	}
}

// wrapProtocolError wraps an underlying error (typically from the
// header-block zlib stream) as a ProtocolError, preserving it for
// errors.Is/errors.As via eris's causal chain.
func wrapProtocolError(streamID uint32, cause error, context string) *ProtocolError {
	return &ProtocolError{
		Code:     CodeProtocolError,
		StreamID: streamID,
		cause:    eris.Wrap(cause, context),
	}
}

// UnsupportedVersionError is returned by NewContext when given a version
// outside {2, 3}.
type UnsupportedVersionError struct {
	Version uint16
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("spdy: unsupported version %d", e.Version)
}

// TypeError is returned by Context.PutFrame for a nil frame and by
// NewContext for an invalid Side.
type TypeError struct {
	msg string
}

func (e *TypeError) Error() string { return "spdy: " + e.msg }

func newTypeError(format string, args ...interface{}) *TypeError {
	return &TypeError{msg: fmt.Sprintf(format, args...)}
}
