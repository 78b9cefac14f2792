package spdy

// layoutField is one entry of a control frame payload's layout
// descriptor: either a named, fixed-width bit field, a reserved run of
// bits (Name == ""), or the tail "consume all remaining bits" field
// (Bits == -1), used for the headers or id_value_pairs block that always
// terminates a payload. This generalizes what would otherwise be a
// hand-written field read per frame type (e.g. shifting a byte right by
// five bits to drop reserved bits after a 3-bit priority) into one static
// table per (frame type, version) pair.
type layoutField struct {
	Name string
	Bits int
}

const remaining = -1

// controlLayout returns the ordered field descriptor for a control
// frame's payload (the bytes after the common 8-byte header), given its
// type and the connection's SPDY version. It returns nil for CREDENTIAL,
// whose variable-length certificate list falls outside the fixed-width
// descriptor model (see credential.go's dedicated encode/decode path), for
// the content-free NOOP, and for any type this codec does not recognize.
func controlLayout(frameType ControlFrameType, version uint16) []layoutField {
	switch frameType {
	case TypeSynStream:
		if version == Version2 {
			return []layoutField{
				{"", 1}, {"stream_id", 31},
				{"", 1}, {"associated_stream_id", 31},
				{"priority", 2}, {"", 14},
				{"headers", remaining},
			}
		}
		return []layoutField{
			{"", 1}, {"stream_id", 31},
			{"", 1}, {"associated_stream_id", 31},
			{"priority", 3}, {"", 5}, {"slot", 8},
			{"headers", remaining},
		}
	case TypeSynReply:
		if version == Version2 {
			return []layoutField{
				{"", 1}, {"stream_id", 31},
				{"", 16},
				{"headers", remaining},
			}
		}
		return []layoutField{
			{"", 1}, {"stream_id", 31},
			{"headers", remaining},
		}
	case TypeRstStream:
		return []layoutField{
			{"", 1}, {"stream_id", 31},
			{"status_code", 32},
		}
	case TypeSettings:
		return []layoutField{
			{"number_of_entries", 32},
			{"id_value_pairs", remaining},
		}
	case TypePing:
		return []layoutField{
			{"uniq_id", 32},
		}
	case TypeGoaway:
		if version == Version2 {
			return []layoutField{
				{"", 1}, {"last_good_stream_id", 31},
			}
		}
		return []layoutField{
			{"", 1}, {"last_good_stream_id", 31},
			{"status_code", 32},
		}
	case TypeHeaders:
		if version == Version2 {
			return []layoutField{
				{"", 1}, {"stream_id", 31},
				{"", 16},
				{"headers", remaining},
			}
		}
		return []layoutField{
			{"", 1}, {"stream_id", 31},
			{"headers", remaining},
		}
	case TypeWindowUpdate:
		return []layoutField{
			{"", 1}, {"stream_id", 31},
			{"", 1}, {"delta_window_size", 31},
		}
	default:
		return nil
	}
}
