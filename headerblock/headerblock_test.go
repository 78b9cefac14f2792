package headerblock

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var testDictV3 = []byte("testdictionary-method-statusversionhostaccept-encoding")

func TestEncodeDecodeRoundTrip(t *testing.T) {
	enc := NewCodec(3, testDictV3)
	dec := NewCodec(3, testDictV3)

	in := map[string][]string{
		"method":  {"GET"},
		"url":     {"/"},
		"version": {"HTTP/1.1"},
	}

	wire, err := enc.Encode(in)
	require.NoError(t, err)

	out, err := dec.Decode(wire)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestStatefulAcrossMultipleBlocks(t *testing.T) {
	enc := NewCodec(3, testDictV3)
	dec := NewCodec(3, testDictV3)

	blocks := []map[string][]string{
		{"method": {"GET"}, "url": {"/"}},
		{"status": {"200 OK"}, "version": {"HTTP/1.1"}},
		{"method": {"POST"}, "url": {"/submit"}, "host": {"example.com"}},
	}

	for _, want := range blocks {
		wire, err := enc.Encode(want)
		require.NoError(t, err)

		got, err := dec.Decode(wire)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestEmptyNameOrValueSkipped(t *testing.T) {
	enc := NewCodec(2, testDictV3)
	dec := NewCodec(2, testDictV3)

	in := map[string][]string{
		"":       {"x"},
		"method": {"GET"},
	}

	wire, err := enc.Encode(in)
	require.NoError(t, err)

	out, err := dec.Decode(wire)
	require.NoError(t, err)
	require.Equal(t, map[string][]string{"method": {"GET"}}, out)
}

func TestV2LengthPrefixWidth(t *testing.T) {
	require.Equal(t, 2, lengthPrefixWidth(2))
	require.Equal(t, 4, lengthPrefixWidth(3))
}

func TestMultiValueHeaderJoinedBySeparator(t *testing.T) {
	enc := NewCodec(3, testDictV3)
	dec := NewCodec(3, testDictV3)

	in := map[string][]string{
		"set-cookie": {"a=1", "b=2"},
	}

	wire, err := enc.Encode(in)
	require.NoError(t, err)

	out, err := dec.Decode(wire)
	require.NoError(t, err)
	require.Equal(t, in, out)
}
