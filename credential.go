package spdy

import "github.com/nnnrd/spdy/bitio"

// decodeCredentialFrame parses a CREDENTIAL (v3) payload: a 16-bit slot, a
// 32-bit-length-prefixed proof, and a repeated sequence of
// 32-bit-length-prefixed certificates running to the end of the frame. Its
// variable-length repeated list falls outside the fixed-width layout
// descriptor model controlLayout builds for every other control frame, so
// it is parsed directly here instead.
func decodeCredentialFrame(version uint16, flags ControlFlags, payload []byte) (*CredentialFrame, error) {
	if len(payload) < 6 {
		return nil, newProtocolError(0, "credential frame shorter than minimum header")
	}
	slot := uint16(bitio.ReadUint16BE(payload[0:2]))
	off := 2

	proofLen := int(bitio.ReadUint32BE(payload[off : off+4]))
	off += 4
	if off+proofLen > len(payload) {
		return nil, newProtocolError(0, "credential frame proof length out of range")
	}
	proof := append([]byte(nil), payload[off:off+proofLen]...)
	off += proofLen

	var certs [][]byte
	for off < len(payload) {
		if off+4 > len(payload) {
			return nil, newProtocolError(0, "credential frame truncated certificate length")
		}
		certLen := int(bitio.ReadUint32BE(payload[off : off+4]))
		off += 4
		if off+certLen > len(payload) {
			return nil, newProtocolError(0, "credential frame certificate length out of range")
		}
		certs = append(certs, append([]byte(nil), payload[off:off+certLen]...))
		off += certLen
	}

	return &CredentialFrame{CFVersion: version, Flags: flags, Slot: slot, Proof: proof, Certificates: certs}, nil
}

// encodeCredentialFrame is decodeCredentialFrame's inverse.
func encodeCredentialFrame(f *CredentialFrame) ([]byte, error) {
	size := 2 + 4 + len(f.Proof)
	for _, c := range f.Certificates {
		size += 4 + len(c)
	}

	out := make([]byte, size)
	bitio.PutUint16BE(out[0:2], uint32(f.Slot))
	off := 2

	bitio.PutUint32BE(out[off:off+4], uint32(len(f.Proof)))
	off += 4
	copy(out[off:], f.Proof)
	off += len(f.Proof)

	for _, c := range f.Certificates {
		bitio.PutUint32BE(out[off:off+4], uint32(len(c)))
		off += 4
		copy(out[off:], c)
		off += len(c)
	}

	return out, nil
}
