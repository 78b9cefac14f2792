// Package headerblock implements the SPDY name/value header block format:
// a zlib-compressed, length-prefixed sequence of (name, value) pairs,
// seeded with a version-specific preset dictionary so that common header
// names and values compress well from the very first frame of a
// connection.
//
// A Codec's inflate and deflate streams are stateful across the whole
// connection: they must be created once and fed every header block in
// wire order, one inflate/deflate pair per direction per connection.
package headerblock

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"strings"
)

// lengthPrefixWidth returns the byte width of the count/length prefixes
// used by the header block format for the given SPDY version: 2 bytes for
// v2, 4 bytes for v3.
func lengthPrefixWidth(version uint16) int {
	if version == 2 {
		return 2
	}
	return 4
}

func readLength(r io.Reader, width int) (uint32, error) {
	buf := make([]byte, width)
	if _, err := io.ReadFull(r, buf); err != nil {
		return 0, err
	}
	var v uint32
	for _, b := range buf {
		v = v<<8 | uint32(b)
	}
	return v, nil
}

func appendLength(buf []byte, width int, v uint32) []byte {
	start := len(buf)
	for i := 0; i < width; i++ {
		buf = append(buf, 0)
		_ = i
	}
	for i := width - 1; i >= 0; i-- {
		buf[start+i] = byte(v)
		v >>= 8
	}
	return buf
}

// Codec holds the one inflate stream and one deflate stream that a single
// direction of a single SPDY connection uses for every header-bearing
// frame it parses or encodes.
type Codec struct {
	version    uint16
	dictionary []byte

	deflateBuf *bytes.Buffer
	deflate    *zlib.Writer

	inflateSrc *bytes.Buffer
	inflate    io.ReadCloser
}

// NewCodec constructs a Codec for the given SPDY version and preset
// dictionary. The caller supplies the dictionary (ZLIB_DICT_V2 or
// ZLIB_DICT_V3) so this package has no dependency on the frame-constants
// package.
func NewCodec(version uint16, dictionary []byte) *Codec {
	return &Codec{version: version, dictionary: dictionary}
}

// Encode compresses a name/value header map into a header block using
// this Codec's deflate stream. The deflate output is sync-flushed so the
// peer's inflate stream can recover a complete block boundary from it;
// no trailing byte is dropped.
func (c *Codec) Encode(headers map[string][]string) ([]byte, error) {
	width := lengthPrefixWidth(c.version)

	var plain []byte
	plain = appendLength(plain, width, uint32(len(headers)))
	for name, values := range headers {
		nameBytes := []byte(name)
		plain = appendLength(plain, width, uint32(len(nameBytes)))
		plain = append(plain, nameBytes...)

		value := strings.Join(values, "\x00")
		valueBytes := []byte(value)
		plain = appendLength(plain, width, uint32(len(valueBytes)))
		plain = append(plain, valueBytes...)
	}

	if c.deflate == nil {
		c.deflateBuf = new(bytes.Buffer)
		w, err := zlib.NewWriterLevelDict(c.deflateBuf, zlib.DefaultCompression, c.dictionary)
		if err != nil {
			return nil, fmt.Errorf("headerblock: init deflate: %w", err)
		}
		c.deflate = w
	} else {
		c.deflateBuf.Reset()
	}

	if _, err := c.deflate.Write(plain); err != nil {
		return nil, fmt.Errorf("headerblock: deflate write: %w", err)
	}
	if err := c.deflate.Flush(); err != nil {
		return nil, fmt.Errorf("headerblock: deflate flush: %w", err)
	}

	out := make([]byte, c.deflateBuf.Len())
	copy(out, c.deflateBuf.Bytes())
	return out, nil
}

// ErrDuplicateName is returned by Decode when a header block names the
// same header twice. Pairs with a zero-length name or value are skipped
// rather than treated as errors.
type ErrDuplicateName struct {
	Name string
}

func (e *ErrDuplicateName) Error() string {
	return fmt.Sprintf("headerblock: duplicate header name %q", e.Name)
}

// Decode decompresses and parses one header block using this Codec's
// inflate stream. The stream is created lazily on the first call and
// never reset; feeding blocks out of wire order, or calling Decode again
// after it has returned an error, produces undefined results — the owning
// Context is responsible for tearing itself down on any Decode error.
func (c *Codec) Decode(compressed []byte) (map[string][]string, error) {
	if c.inflateSrc == nil {
		c.inflateSrc = bytes.NewBuffer(nil)
	}
	c.inflateSrc.Write(compressed)

	if c.inflate == nil {
		r, err := zlib.NewReaderDict(c.inflateSrc, c.dictionary)
		if err != nil {
			return nil, fmt.Errorf("headerblock: init inflate: %w", err)
		}
		c.inflate = r
	}

	// Read every field directly off the inflate stream with exact-size
	// io.ReadFull calls, never asking it for more than the block's own
	// framing says exists. This avoids relying on the flate decoder to
	// signal a clean io.EOF at a sync-flush boundary, which it does not.
	width := lengthPrefixWidth(c.version)

	numPairs, err := readLength(c.inflate, width)
	if err != nil {
		return nil, fmt.Errorf("headerblock: read pair count: %w", err)
	}

	headers := make(map[string][]string, numPairs)
	for i := uint32(0); i < numPairs; i++ {
		nameLen, err := readLength(c.inflate, width)
		if err != nil {
			return nil, fmt.Errorf("headerblock: read name length: %w", err)
		}
		nameBytes := make([]byte, nameLen)
		if _, err := io.ReadFull(c.inflate, nameBytes); err != nil {
			return nil, fmt.Errorf("headerblock: read name: %w", err)
		}

		valueLen, err := readLength(c.inflate, width)
		if err != nil {
			return nil, fmt.Errorf("headerblock: read value length: %w", err)
		}
		valueBytes := make([]byte, valueLen)
		if _, err := io.ReadFull(c.inflate, valueBytes); err != nil {
			return nil, fmt.Errorf("headerblock: read value: %w", err)
		}

		if nameLen == 0 || valueLen == 0 {
			// Tolerated padding, not an error.
			continue
		}

		name := string(nameBytes)
		if _, exists := headers[name]; exists {
			return nil, &ErrDuplicateName{Name: name}
		}
		headers[name] = strings.Split(string(valueBytes), "\x00")
	}

	return headers, nil
}
