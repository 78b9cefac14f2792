package spdy

import (
	"net/http"

	"github.com/nnnrd/spdy/bitio"
	"github.com/nnnrd/spdy/headerblock"
)

// ParseFrame attempts to parse one frame from the front of buf. It returns
// (nil, 0, nil) when buf holds fewer than 8 bytes, or announces a payload
// longer than buf currently holds — "insufficient data" is not an error.
// version is the Context's configured SPDY version; a control frame
// announcing a different version is a ProtocolError.
//
// hc is the Context's inflate-direction header-block codec; it is only
// touched for header-bearing frame types.
func ParseFrame(version uint16, buf []byte, hc *headerblock.Codec) (Frame, int, error) {
	if len(buf) < 8 {
		return nil, 0, nil
	}

	if buf[0]&0x80 != 0 {
		frameVersion := uint16(buf[0]&0x7f)<<8 | uint16(buf[1])
		if frameVersion != version {
			return nil, 0, newProtocolError(0, "frame announces SPDY version %d, context is version %d", frameVersion, version)
		}
		length := bitio.ReadUint24BE(buf[5:8])
		if len(buf) < 8+int(length) {
			return nil, 0, nil
		}
		ch := controlHeader{
			version:   version,
			frameType: ControlFrameType(uint16(buf[2])<<8 | uint16(buf[3])),
			flags:     ControlFlags(buf[4]),
			length:    length,
		}
		payload := buf[8 : 8+int(length)]

		frame, err := decodeControlFrame(ch, payload, hc)
		if err != nil {
			return nil, 0, err
		}
		return frame, 8 + int(length), nil
	}

	streamID := (uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])) & 0x7fffffff
	flags := buf[4]
	length := bitio.ReadUint24BE(buf[5:8])
	if len(buf) < 8+int(length) {
		return nil, 0, nil
	}
	data := make([]byte, length)
	copy(data, buf[8:8+int(length)])
	return &DataFrame{StreamVersion: version, StreamID: streamID, Flags: DataFlags(flags), Data: data}, 8 + int(length), nil
}

// decodeControlFrame builds the typed Frame for one control frame payload.
// NOOP is a recognized but content-free SPDY/2 type that carries no
// information forward; it reports success with a nil Frame so the caller
// skips it and continues parsing the buffer. Unknown types fail fast.
func decodeControlFrame(ch controlHeader, payload []byte, hc *headerblock.Codec) (Frame, error) {
	version, flags := ch.version, ch.flags

	switch ch.frameType {
	case TypeNoop:
		return nil, nil
	case TypeCredential:
		return decodeCredentialFrame(version, flags, payload)
	}

	layout := controlLayout(ch.frameType, version)
	if layout == nil {
		return nil, newProtocolError(0, "unknown control frame type %d", ch.frameType)
	}

	fields, headers, entries, err := decodeControlPayload(layout, version, payload, hc)
	if err != nil {
		return nil, err
	}

	switch ch.frameType {
	case TypeSynStream:
		return &SynStreamFrame{
			CFVersion:            version,
			Flags:                flags,
			StreamID:             fields["stream_id"],
			AssociatedToStreamID: fields["associated_stream_id"],
			Priority:             uint8(fields["priority"]),
			Slot:                 uint8(fields["slot"]),
			Headers:              headers,
		}, nil

	case TypeSynReply:
		return &SynReplyFrame{CFVersion: version, Flags: flags, StreamID: fields["stream_id"], Headers: headers}, nil

	case TypeRstStream:
		return &RstStreamFrame{
			CFVersion:  version,
			Flags:      flags,
			StreamID:   fields["stream_id"],
			StatusCode: RSTStatusCode(fields["status_code"]),
		}, nil

	case TypeSettings:
		return &SettingsFrame{CFVersion: version, Flags: flags, Entries: entries}, nil

	case TypePing:
		return &PingFrame{CFVersion: version, Flags: flags, UniqID: fields["uniq_id"]}, nil

	case TypeGoaway:
		return &GoawayFrame{
			CFVersion:        version,
			Flags:            flags,
			LastGoodStreamID: fields["last_good_stream_id"],
			StatusCode:       fields["status_code"],
		}, nil

	case TypeHeaders:
		return &HeadersFrame{CFVersion: version, Flags: flags, StreamID: fields["stream_id"], Headers: headers}, nil

	case TypeWindowUpdate:
		return &WindowUpdateFrame{
			CFVersion:       version,
			Flags:           flags,
			StreamID:        fields["stream_id"],
			DeltaWindowSize: fields["delta_window_size"],
		}, nil
	}

	return nil, newProtocolError(0, "unhandled control frame type %d", ch.frameType)
}

// decodeControlPayload drives layout over payload using a bit-stream
// reader. Scalar fixed-width fields land in the returned map keyed by
// field name; reserved fields are read and discarded without validating
// they are zero. The remaining-bits tail field is either a header block
// (delegated to hc) or a SETTINGS id_value_pairs block (delegated to
// settings.go); both span the remainder of the payload and always
// terminate the descriptor.
func decodeControlPayload(layout []layoutField, version uint16, payload []byte, hc *headerblock.Codec) (map[string]uint32, http.Header, []SettingsEntry, error) {
	r := bitio.NewReader(payload)
	fields := make(map[string]uint32, len(layout))
	var headers http.Header
	var entries []SettingsEntry

	for _, f := range layout {
		if f.Bits == remaining {
			tail, err := r.ReadRemaining()
			if err != nil {
				return nil, nil, nil, newProtocolError(0, "layout error reading %q: %v", f.Name, err)
			}
			switch f.Name {
			case "headers":
				raw, err := hc.Decode(tail)
				if err != nil {
					return nil, nil, nil, wrapProtocolError(0, err, "decode header block")
				}
				headers = cloneHeader(http.Header(raw))
			case "id_value_pairs":
				entries, err = decodeSettingsEntries(version, fields["number_of_entries"], tail)
				if err != nil {
					return nil, nil, nil, err
				}
			}
			break
		}

		if f.Name == "" {
			if err := r.SkipBits(f.Bits); err != nil {
				return nil, nil, nil, newProtocolError(0, "layout error skipping reserved bits: %v", err)
			}
			continue
		}

		v, err := r.ReadBits(f.Bits)
		if err != nil {
			return nil, nil, nil, newProtocolError(0, "layout error reading %q: %v", f.Name, err)
		}
		fields[f.Name] = v
	}

	return fields, headers, entries, nil
}

// EncodeFrame produces the exact on-wire bytes for f. hc is the Context's
// deflate-direction header-block codec; it is only touched for
// header-bearing frame types.
func EncodeFrame(f Frame, hc *headerblock.Codec) ([]byte, error) {
	if !f.IsControl() {
		df := f.(*DataFrame)
		out := make([]byte, 8+len(df.Data))
		out[0] = byte(df.StreamID >> 24 & 0x7f)
		out[1] = byte(df.StreamID >> 16)
		out[2] = byte(df.StreamID >> 8)
		out[3] = byte(df.StreamID)
		out[4] = uint8(df.Flags)
		bitio.PutUint24BE(out[5:8], uint32(len(df.Data)))
		copy(out[8:], df.Data)
		return out, nil
	}

	frameType := frameControlType(f)
	version := f.Version()

	var payload []byte
	var err error
	if frameType == TypeCredential {
		payload, err = encodeCredentialFrame(f.(*CredentialFrame))
	} else {
		payload, err = encodeControlPayload(frameType, version, f, hc)
	}
	if err != nil {
		return nil, err
	}

	out := make([]byte, 8+len(payload))
	out[0] = byte(version>>8) | 0x80
	out[1] = byte(version)
	out[2] = byte(frameType >> 8)
	out[3] = byte(frameType)
	out[4] = f.FrameFlags()
	bitio.PutUint24BE(out[5:8], uint32(len(payload)))
	copy(out[8:], payload)
	return out, nil
}

// frameScalarFields extracts a control frame's named scalar fields into
// the same generic shape decodeControlPayload produces, so a single
// layout-driven writer (encodeControlPayload) can serialize every variant.
func frameScalarFields(f Frame) map[string]uint32 {
	switch v := f.(type) {
	case *SynStreamFrame:
		return map[string]uint32{
			"stream_id":            v.StreamID,
			"associated_stream_id": v.AssociatedToStreamID,
			"priority":             uint32(v.Priority),
			"slot":                 uint32(v.Slot),
		}
	case *SynReplyFrame:
		return map[string]uint32{"stream_id": v.StreamID}
	case *RstStreamFrame:
		return map[string]uint32{"stream_id": v.StreamID, "status_code": uint32(v.StatusCode)}
	case *SettingsFrame:
		return map[string]uint32{"number_of_entries": uint32(len(v.Entries))}
	case *PingFrame:
		return map[string]uint32{"uniq_id": v.UniqID}
	case *GoawayFrame:
		return map[string]uint32{"last_good_stream_id": v.LastGoodStreamID, "status_code": v.StatusCode}
	case *HeadersFrame:
		return map[string]uint32{"stream_id": v.StreamID}
	case *WindowUpdateFrame:
		return map[string]uint32{"stream_id": v.StreamID, "delta_window_size": v.DeltaWindowSize}
	default:
		return nil
	}
}

// frameHeaders returns the header map carried by a header-bearing control
// frame, or nil for variants that don't carry one.
func frameHeaders(f Frame) http.Header {
	switch v := f.(type) {
	case *SynStreamFrame:
		return v.Headers
	case *SynReplyFrame:
		return v.Headers
	case *HeadersFrame:
		return v.Headers
	default:
		return nil
	}
}

// encodeControlPayload is decodeControlPayload's inverse: it drives the
// same layout descriptor over a bit-stream writer, reading scalar values
// out of frameScalarFields and delegating the remaining-bits tail field to
// the header-block codec or the SETTINGS entry codec.
func encodeControlPayload(frameType ControlFrameType, version uint16, f Frame, hc *headerblock.Codec) ([]byte, error) {
	layout := controlLayout(frameType, version)
	scalars := frameScalarFields(f)
	w := bitio.NewWriter()

	for _, fld := range layout {
		if fld.Bits == remaining {
			switch fld.Name {
			case "headers":
				wire, err := hc.Encode(frameHeaders(f))
				if err != nil {
					return nil, wrapProtocolError(0, err, "encode header block")
				}
				if err := w.WriteBytes(wire); err != nil {
					return nil, err
				}
			case "id_value_pairs":
				sf := f.(*SettingsFrame)
				if err := w.WriteBytes(encodeSettingsEntries(version, sf.Entries)); err != nil {
					return nil, err
				}
			}
			break
		}

		if fld.Name == "" {
			w.WriteZeros(fld.Bits)
			continue
		}

		w.WriteBits(scalars[fld.Name], fld.Bits)
	}

	return w.Bytes(), nil
}
