package spdy

import (
	"encoding/hex"
	"net/http"
	"testing"

	"github.com/nnnrd/spdy/headerblock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTrip encodes f and re-parses the result, asserting the encoded
// length equals 8+payload_length and that parsing consumes every byte.
func roundTrip(t *testing.T, version uint16, f Frame) Frame {
	t.Helper()
	wire, err := EncodeFrame(f, nil)
	require.NoError(t, err)

	got, consumed, err := ParseFrame(version, wire, nil)
	require.NoError(t, err)
	require.Equal(t, len(wire), consumed)
	require.NotNil(t, got)
	return got
}

func TestRoundTripDataFrame(t *testing.T) {
	for _, version := range []uint16{2, 3} {
		f := &DataFrame{StreamVersion: version, StreamID: 7, Flags: DataFlagFin, Data: []byte("hello")}
		got := roundTrip(t, version, f).(*DataFrame)
		assert.Equal(t, f.StreamID, got.StreamID)
		assert.Equal(t, f.Flags, got.Flags)
		assert.Equal(t, f.Data, got.Data)
	}
}

func TestRoundTripDataFrameEmptyIsValid(t *testing.T) {
	f := &DataFrame{StreamVersion: 3, StreamID: 1, Data: []byte{}}
	got := roundTrip(t, 3, f).(*DataFrame)
	assert.Equal(t, 0, len(got.Data))
}

func TestRoundTripRstStream(t *testing.T) {
	for _, version := range []uint16{2, 3} {
		f := &RstStreamFrame{CFVersion: version, StreamID: 3, StatusCode: StatusCancel}
		got := roundTrip(t, version, f).(*RstStreamFrame)
		assert.Equal(t, f.StreamID, got.StreamID)
		assert.Equal(t, f.StatusCode, got.StatusCode)
	}
}

func TestRoundTripPing(t *testing.T) {
	f := &PingFrame{CFVersion: 2, UniqID: 42}
	got := roundTrip(t, 2, f).(*PingFrame)
	assert.Equal(t, uint32(42), got.UniqID)
}

func TestRoundTripGoawayV2(t *testing.T) {
	f := &GoawayFrame{CFVersion: 2, LastGoodStreamID: 9}
	got := roundTrip(t, 2, f).(*GoawayFrame)
	assert.Equal(t, uint32(9), got.LastGoodStreamID)
	assert.Equal(t, uint32(0), got.StatusCode)
}

func TestRoundTripGoawayV3(t *testing.T) {
	f := &GoawayFrame{CFVersion: 3, LastGoodStreamID: 5, StatusCode: 1}
	got := roundTrip(t, 3, f).(*GoawayFrame)
	assert.Equal(t, uint32(5), got.LastGoodStreamID)
	assert.Equal(t, uint32(1), got.StatusCode)
}

func TestRoundTripWindowUpdate(t *testing.T) {
	f := &WindowUpdateFrame{CFVersion: 3, StreamID: 11, DeltaWindowSize: 65535}
	got := roundTrip(t, 3, f).(*WindowUpdateFrame)
	assert.Equal(t, f.StreamID, got.StreamID)
	assert.Equal(t, f.DeltaWindowSize, got.DeltaWindowSize)
}

func TestRoundTripSettings(t *testing.T) {
	for _, version := range []uint16{2, 3} {
		f := &SettingsFrame{CFVersion: version, Entries: []SettingsEntry{
			{ID: SettingsMaxConcurrentStreams, Flag: IDFlagPersistValue, Value: 100},
			{ID: SettingsInitialWindowSize, Flag: IDFlagPersistNone, Value: 65536},
		}}
		got := roundTrip(t, version, f).(*SettingsFrame)
		require.Len(t, got.Entries, 2)
		assert.Equal(t, f.Entries, got.Entries)
	}
}

func TestRoundTripCredential(t *testing.T) {
	f := &CredentialFrame{
		CFVersion:    3,
		Slot:         1,
		Proof:        []byte("proof-bytes"),
		Certificates: [][]byte{[]byte("cert-a"), []byte("cert-b")},
	}
	got := roundTrip(t, 3, f).(*CredentialFrame)
	assert.Equal(t, f.Slot, got.Slot)
	assert.Equal(t, f.Proof, got.Proof)
	assert.Equal(t, f.Certificates, got.Certificates)
}

func TestRoundTripCredentialNoCertificates(t *testing.T) {
	f := &CredentialFrame{CFVersion: 3, Slot: 0, Proof: []byte{}}
	got := roundTrip(t, 3, f).(*CredentialFrame)
	assert.Equal(t, 0, len(got.Certificates))
}

// TestPingEncodesExactWireBytes pins down PING's wire encoding byte for
// byte, not just its round-trip shape.
func TestPingEncodesExactWireBytes(t *testing.T) {
	f := &PingFrame{CFVersion: 2, UniqID: 1}
	wire, err := EncodeFrame(f, nil)
	require.NoError(t, err)

	want, err := hex.DecodeString("800200060000000400000001")
	require.NoError(t, err)
	require.Equal(t, want, wire)

	got, consumed, err := ParseFrame(2, wire, nil)
	require.NoError(t, err)
	assert.Equal(t, len(wire), consumed)
	assert.Equal(t, f, got)
}

// TestSettingsV3EncodesExactWirePayload pins down the SPDY/3
// flag-then-24-bit-ID entry layout byte for byte.
func TestSettingsV3EncodesExactWirePayload(t *testing.T) {
	f := &SettingsFrame{CFVersion: 3, Entries: []SettingsEntry{
		{ID: 1, Flag: 0, Value: 60},
		{ID: 2, Flag: 0, Value: 128},
	}}
	wire, err := EncodeFrame(f, nil)
	require.NoError(t, err)

	want, err := hex.DecodeString("0000000200000001000000" + "3C" + "0000000200000080")
	require.NoError(t, err)
	assert.Equal(t, want, wire[8:])
}

// TestGoawayV3EncodesExactWireTail pins down the v3 trailing status-code
// word that v2 omits.
func TestGoawayV3EncodesExactWireTail(t *testing.T) {
	f := &GoawayFrame{CFVersion: 3, LastGoodStreamID: 5, StatusCode: 1}
	wire, err := EncodeFrame(f, nil)
	require.NoError(t, err)

	want, err := hex.DecodeString("0000000500000001")
	require.NoError(t, err)
	assert.Equal(t, want, wire[8:])
}

// TestUnknownFrameTypeIsRejected verifies an unrecognized control frame
// type raises PROTOCOL_ERROR.
func TestUnknownFrameTypeIsRejected(t *testing.T) {
	buf := make([]byte, 8)
	buf[0] = 0x80 | byte(2>>8)
	buf[1] = byte(2)
	buf[2] = byte(999 >> 8)
	buf[3] = byte(999)
	// flags=0, length=0

	_, _, err := ParseFrame(2, buf, nil)
	require.Error(t, err)
	var pe *ProtocolError
	require.ErrorAs(t, err, &pe)
}

// TestVersionMismatchIsRejected verifies a frame announcing a version
// other than the Context's configured one raises PROTOCOL_ERROR.
func TestVersionMismatchIsRejected(t *testing.T) {
	f := &PingFrame{CFVersion: 3, UniqID: 1}
	wire, err := EncodeFrame(f, nil)
	require.NoError(t, err)

	_, _, err = ParseFrame(2, wire, nil)
	require.Error(t, err)
}

// TestSettingsEndiannessDiffersByVersion verifies the same settings ID
// serializes to different byte orders on v2 versus v3.
func TestSettingsEndiannessDiffersByVersion(t *testing.T) {
	v2 := &SettingsFrame{CFVersion: 2, Entries: []SettingsEntry{{ID: 0x010203, Flag: 0, Value: 0}}}
	wireV2, err := EncodeFrame(v2, nil)
	require.NoError(t, err)
	entryV2 := wireV2[12:16] // after number_of_entries(4)+header(8)
	assert.Equal(t, []byte{0x03, 0x02, 0x01, 0x00}, entryV2)

	v3 := &SettingsFrame{CFVersion: 3, Entries: []SettingsEntry{{ID: 0x010203, Flag: 0, Value: 0}}}
	wireV3, err := EncodeFrame(v3, nil)
	require.NoError(t, err)
	entryV3 := wireV3[12:16]
	assert.Equal(t, []byte{0x00, 0x01, 0x02, 0x03}, entryV3)

	gotV2, _, err := ParseFrame(2, wireV2, nil)
	require.NoError(t, err)
	assert.Equal(t, SettingsID(0x010203), gotV2.(*SettingsFrame).Entries[0].ID)

	gotV3, _, err := ParseFrame(3, wireV3, nil)
	require.NoError(t, err)
	assert.Equal(t, SettingsID(0x010203), gotV3.(*SettingsFrame).Entries[0].ID)
}

// Reserved-bit tolerance: parser accepts nonzero reserved bits; encoder
// always writes them as zero.
func TestReservedBitToleranceOnParse(t *testing.T) {
	f := &RstStreamFrame{CFVersion: 3, StreamID: 5, StatusCode: StatusCancel}
	wire, err := EncodeFrame(f, nil)
	require.NoError(t, err)

	// Flip the reserved top bit of the stream-id word to 1.
	wire[8] |= 0x80

	got, _, err := ParseFrame(3, wire, nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), got.(*RstStreamFrame).StreamID)
}

func TestInsufficientDataShortHeader(t *testing.T) {
	f, consumed, err := ParseFrame(3, []byte{0x80, 0x03}, nil)
	require.NoError(t, err)
	assert.Nil(t, f)
	assert.Equal(t, 0, consumed)
}

func TestInsufficientDataShortPayload(t *testing.T) {
	full, err := EncodeFrame(&PingFrame{CFVersion: 3, UniqID: 1}, nil)
	require.NoError(t, err)

	f, consumed, err := ParseFrame(3, full[:len(full)-1], nil)
	require.NoError(t, err)
	assert.Nil(t, f)
	assert.Equal(t, 0, consumed)
}

func TestNoopIsSkippedOnParse(t *testing.T) {
	noop := make([]byte, 8)
	noop[0] = 0x80
	noop[1] = 2
	noop[2] = byte(TypeNoop >> 8)
	noop[3] = byte(TypeNoop)

	ping, err := EncodeFrame(&PingFrame{CFVersion: 2, UniqID: 9}, nil)
	require.NoError(t, err)

	buf := append(noop, ping...)

	f, consumed, err := ParseFrame(2, buf, nil)
	require.NoError(t, err)
	assert.Nil(t, f)
	assert.Equal(t, 8, consumed)

	f, consumed, err = ParseFrame(2, buf[consumed:], nil)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, uint32(9), f.(*PingFrame).UniqID)
}

func TestHeaderFrameRoundTripSingleCodec(t *testing.T) {
	hc := headerblock.NewCodec(3, ZLIB_DICT_V3)

	f := &SynStreamFrame{
		CFVersion: 3,
		Flags:     FlagFin,
		StreamID:  1,
		Priority:  2,
		Slot:      0,
		Headers: http.Header{
			"method":  {"GET"},
			"url":     {"/"},
			"version": {"HTTP/1.1"},
		},
	}

	wire, err := EncodeFrame(f, hc)
	require.NoError(t, err)

	got, consumed, err := ParseFrame(3, wire, hc)
	require.NoError(t, err)
	assert.Equal(t, len(wire), consumed)

	gotSyn := got.(*SynStreamFrame)
	assert.Equal(t, f.StreamID, gotSyn.StreamID)
	assert.Equal(t, f.Priority, gotSyn.Priority)
	assert.Equal(t, f.Headers, gotSyn.Headers)
}

// TestHeaderFrameRoundTripPreservesConnectionScopedHeaderNames verifies
// the codec passes header names through verbatim: it has no notion of
// which names are connection-scoped, since that is application
// semantics outside a framing layer's concern.
func TestHeaderFrameRoundTripPreservesConnectionScopedHeaderNames(t *testing.T) {
	hc := headerblock.NewCodec(3, ZLIB_DICT_V3)
	f := &SynStreamFrame{
		CFVersion: 3,
		StreamID:  1,
		Headers:   http.Header{"Host": {"example.com"}, "Connection": {"keep-alive"}},
	}
	wire, err := EncodeFrame(f, hc)
	require.NoError(t, err)

	got, _, err := ParseFrame(3, wire, hc)
	require.NoError(t, err)
	assert.Equal(t, f.Headers, got.(*SynStreamFrame).Headers)
}
