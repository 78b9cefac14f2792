package spdy

import "net/http"

// Frame is the sum type of every SPDY frame kind this codec understands.
// Every variant knows its own control-frame type (or reports IsControl()
// == false for DataFrame) and its flags.
type Frame interface {
	// Version is the SPDY protocol version this frame was parsed with or
	// is to be encoded for.
	Version() uint16
	// IsControl reports whether the frame's first bit is 1 on the wire.
	IsControl() bool
	// FrameFlags returns the frame's 8-bit flags field.
	FrameFlags() uint8
}

// DataFrame carries stream payload for an already-open stream.
//
//	+----------------------------------+
//	|0|       Stream-ID (31bits)       |
//	+----------------------------------+
//	| flags (8)  |  Length (24 bits)   |
//	+----------------------------------+
//	|               Data               |
//	+----------------------------------+
type DataFrame struct {
	StreamVersion uint16
	StreamID      uint32
	Flags         DataFlags
	Data          []byte
}

func (f *DataFrame) Version() uint16   { return f.StreamVersion }
func (f *DataFrame) IsControl() bool   { return false }
func (f *DataFrame) FrameFlags() uint8 { return uint8(f.Flags) }

// controlHeader carries the fields common to every control frame, decoded
// from the frame's 8-byte header before the per-variant payload is parsed.
type controlHeader struct {
	version   uint16
	frameType ControlFrameType
	flags     ControlFlags
	length    uint32
}

// SynStreamFrame opens a new stream, carrying the initial request headers.
type SynStreamFrame struct {
	CFVersion            uint16
	Flags                ControlFlags
	StreamID             uint32
	AssociatedToStreamID uint32
	Priority             uint8 // 0..3 (v2) or 0..7 (v3), highest priority is 0
	Slot                 uint8 // v3 only
	Headers              http.Header
}

func (f *SynStreamFrame) Version() uint16   { return f.CFVersion }
func (f *SynStreamFrame) IsControl() bool   { return true }
func (f *SynStreamFrame) FrameFlags() uint8 { return uint8(f.Flags) }

// SynReplyFrame completes the request/response handshake for a stream.
type SynReplyFrame struct {
	CFVersion uint16
	Flags     ControlFlags
	StreamID  uint32
	Headers   http.Header
}

func (f *SynReplyFrame) Version() uint16   { return f.CFVersion }
func (f *SynReplyFrame) IsControl() bool   { return true }
func (f *SynReplyFrame) FrameFlags() uint8 { return uint8(f.Flags) }

// RstStreamFrame aborts a stream with a status code.
type RstStreamFrame struct {
	CFVersion  uint16
	Flags      ControlFlags
	StreamID   uint32
	StatusCode RSTStatusCode
}

func (f *RstStreamFrame) Version() uint16   { return f.CFVersion }
func (f *RstStreamFrame) IsControl() bool   { return true }
func (f *RstStreamFrame) FrameFlags() uint8 { return uint8(f.Flags) }

// SettingsEntry is one (ID, persistence flag, value) triple carried by a
// SETTINGS frame.
type SettingsEntry struct {
	ID    SettingsID
	Flag  SettingsIDFlag
	Value uint32
}

// SettingsFrame communicates configuration parameters affecting the whole
// connection.
type SettingsFrame struct {
	CFVersion uint16
	Flags     ControlFlags
	Entries   []SettingsEntry
}

func (f *SettingsFrame) Version() uint16   { return f.CFVersion }
func (f *SettingsFrame) IsControl() bool   { return true }
func (f *SettingsFrame) FrameFlags() uint8 { return uint8(f.Flags) }

// PingFrame measures round-trip time; its UniqID is echoed back by the
// receiving peer.
type PingFrame struct {
	CFVersion uint16
	Flags     ControlFlags
	UniqID    uint32
}

func (f *PingFrame) Version() uint16   { return f.CFVersion }
func (f *PingFrame) IsControl() bool   { return true }
func (f *PingFrame) FrameFlags() uint8 { return uint8(f.Flags) }

// GoawayFrame announces the sender is done accepting new streams.
type GoawayFrame struct {
	CFVersion        uint16
	Flags            ControlFlags
	LastGoodStreamID uint32
	StatusCode       uint32 // v3 only; zero on v2
}

func (f *GoawayFrame) Version() uint16   { return f.CFVersion }
func (f *GoawayFrame) IsControl() bool   { return true }
func (f *GoawayFrame) FrameFlags() uint8 { return uint8(f.Flags) }

// HeadersFrame carries additional or trailing headers for a stream.
type HeadersFrame struct {
	CFVersion uint16
	Flags     ControlFlags
	StreamID  uint32
	Headers   http.Header
}

func (f *HeadersFrame) Version() uint16   { return f.CFVersion }
func (f *HeadersFrame) IsControl() bool   { return true }
func (f *HeadersFrame) FrameFlags() uint8 { return uint8(f.Flags) }

// WindowUpdateFrame adjusts a stream's (or, with StreamID 0, the
// connection's) flow-control window. The core only models its shape;
// flow control itself is not implemented.
type WindowUpdateFrame struct {
	CFVersion       uint16
	Flags           ControlFlags
	StreamID        uint32
	DeltaWindowSize uint32
}

func (f *WindowUpdateFrame) Version() uint16   { return f.CFVersion }
func (f *WindowUpdateFrame) IsControl() bool   { return true }
func (f *WindowUpdateFrame) FrameFlags() uint8 { return uint8(f.Flags) }

// CredentialFrame carries a TLS client certificate slot's proof and
// certificate chain. Only its shape is modeled; no validation of the
// proof or certificates is performed by this core.
type CredentialFrame struct {
	CFVersion    uint16
	Flags        ControlFlags
	Slot         uint16
	Proof        []byte
	Certificates [][]byte
}

func (f *CredentialFrame) Version() uint16   { return f.CFVersion }
func (f *CredentialFrame) IsControl() bool   { return true }
func (f *CredentialFrame) FrameFlags() uint8 { return uint8(f.Flags) }

// frameControlType maps a control Frame value to its wire type number.
// DataFrame and unrecognized values are not control frames and are never
// passed here.
func frameControlType(f Frame) ControlFrameType {
	switch f.(type) {
	case *SynStreamFrame:
		return TypeSynStream
	case *SynReplyFrame:
		return TypeSynReply
	case *RstStreamFrame:
		return TypeRstStream
	case *SettingsFrame:
		return TypeSettings
	case *PingFrame:
		return TypePing
	case *GoawayFrame:
		return TypeGoaway
	case *HeadersFrame:
		return TypeHeaders
	case *WindowUpdateFrame:
		return TypeWindowUpdate
	case *CredentialFrame:
		return TypeCredential
	default:
		return 0
	}
}
