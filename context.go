package spdy

import "github.com/nnnrd/spdy/headerblock"

// Side identifies which end of a SPDY connection a Context represents. It
// determines whether allocated stream/ping IDs start odd (CLIENT) or even
// (SERVER).
type Side int

const (
	CLIENT Side = iota
	SERVER
)

func (s Side) String() string {
	if s == CLIENT {
		return "CLIENT"
	}
	return "SERVER"
}

// Context is the per-connection façade: it buffers partial input, holds
// the outgoing frame queue, owns the one inflate/deflate header-block
// codec pair for its whole lifetime, and allocates stream/ping IDs.
//
// A Context is not safe for concurrent use: its input buffer, outgoing
// queue, ID counters, and compression streams form one mutable unit.
// Callers needing multiple goroutines must serialize access with an
// external mutex, or restrict each goroutine to a disjoint method set
// (e.g. one goroutine calling Incoming/GetFrame, another calling
// PutFrame/Outgoing) — the base contract does not require supporting
// that split, but nothing here prevents it either.
type Context struct {
	side    Side
	version uint16

	inputBuffer []byte
	outgoing    []Frame

	headers *headerblock.Codec

	nextStreamID uint32
	nextPingID   uint32

	poisoned error
}

// NewContext constructs a Context for one connection. It fails with
// *UnsupportedVersionError if version is outside {2, 3}, and with
// *TypeError if side is neither CLIENT nor SERVER.
func NewContext(side Side, version uint16) (*Context, error) {
	if side != CLIENT && side != SERVER {
		return nil, newTypeError("side must be CLIENT or SERVER")
	}
	if !isValidVersion(version) {
		return nil, &UnsupportedVersionError{Version: version}
	}

	dict := ZLIB_DICT_V2
	if version == Version3 {
		dict = ZLIB_DICT_V3
	}

	c := &Context{
		side:    side,
		version: version,
		headers: headerblock.NewCodec(version, dict),
	}
	if side == SERVER {
		c.nextStreamID = 2
		c.nextPingID = 2
	} else {
		c.nextStreamID = 1
		c.nextPingID = 1
	}
	return c, nil
}

// Version reports the SPDY protocol version this Context was constructed
// with.
func (c *Context) Version() uint16 { return c.version }

// Side reports which end of the connection this Context represents.
func (c *Context) Side() Side { return c.side }

// Poisoned reports whether a prior GetFrame call returned a protocol
// error. A poisoned Context's header-compression state is no longer
// trustworthy and the Context must be discarded.
func (c *Context) Poisoned() bool { return c.poisoned != nil }

// Incoming appends chunk to the Context's input buffer. It never blocks
// and never fails — parsing happens lazily, in GetFrame.
func (c *Context) Incoming(chunk []byte) {
	c.inputBuffer = append(c.inputBuffer, chunk...)
}

// GetFrame attempts to parse one frame from the front of the input
// buffer. It returns (nil, nil) if fewer than 8 bytes are buffered, or if
// the announced payload length exceeds what is currently buffered
// ("insufficient data" is not an error). On success it removes exactly
// 8+length bytes from the buffer's front and returns the parsed frame.
//
// A SPDY/2 NOOP control frame carries no data and is silently consumed
// without being returned; GetFrame keeps parsing forward until it either
// produces a frame, runs out of buffered data, or hits an error.
//
// Any ProtocolError poisons the Context: this and all subsequent
// GetFrame calls return that same error without attempting to parse
// further, since the header-block zlib streams may be left in an
// undefined state by a failed decompression.
func (c *Context) GetFrame() (Frame, error) {
	if c.poisoned != nil {
		return nil, c.poisoned
	}

	for {
		frame, consumed, err := ParseFrame(c.version, c.inputBuffer, c.headers)
		if err != nil {
			c.poisoned = err
			return nil, err
		}
		if consumed == 0 {
			return nil, nil
		}
		c.inputBuffer = c.inputBuffer[consumed:]
		if frame != nil {
			return frame, nil
		}
		// frame == nil, consumed > 0: a NOOP was skipped; keep going.
	}
}

// PutFrame appends frame to the outgoing queue. It rejects a nil frame
// with a *TypeError.
func (c *Context) PutFrame(frame Frame) error {
	if frame == nil {
		return newTypeError("frame must not be nil")
	}
	c.outgoing = append(c.outgoing, frame)
	return nil
}

// Outgoing drains the outgoing queue in FIFO order, encoding each frame
// in turn, and returns the concatenated wire bytes. The queue is empty on
// return. Header compression advances once per encoded header-bearing
// frame, so calling Outgoing once for N queued frames produces the same
// bytes as calling PutFrame/Outgoing N times in the same order.
func (c *Context) Outgoing() ([]byte, error) {
	var out []byte
	for len(c.outgoing) > 0 {
		frame := c.outgoing[0]
		c.outgoing = c.outgoing[1:]

		encoded, err := EncodeFrame(frame, c.headers)
		if err != nil {
			return nil, err
		}
		out = append(out, encoded...)
	}
	return out, nil
}

// NextStreamID returns the current stream ID counter and post-increments
// it by 2. The sequence is strictly monotonic and odd for CLIENT, even
// for SERVER.
func (c *Context) NextStreamID() uint32 {
	id := c.nextStreamID
	c.nextStreamID += 2
	return id
}

// NextPingID returns the current ping ID counter and post-increments it
// by 2, following the same odd/even monotonic rule as NextStreamID.
func (c *Context) NextPingID() uint32 {
	id := c.nextPingID
	c.nextPingID += 2
	return id
}
