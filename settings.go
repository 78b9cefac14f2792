package spdy

import "github.com/nnnrd/spdy/bitio"

// settingsEntrySize is the fixed wire size of one SETTINGS entry in both
// versions: a 24-bit ID, an 8-bit flag, and a 32-bit value.
const settingsEntrySize = 8

// decodeSettingsEntries parses numEntries SETTINGS entries from data, using
// the version-specific endianness split: SPDY/2 packs a little-endian
// 24-bit ID before the flag byte, SPDY/3 packs the flag byte before a
// big-endian 24-bit ID. This is the one deliberately little-endian field in
// the whole protocol.
func decodeSettingsEntries(version uint16, numEntries uint32, data []byte) ([]SettingsEntry, error) {
	want := int(numEntries) * settingsEntrySize
	if len(data) != want {
		return nil, newProtocolError(0, "settings: expected %d bytes for %d entries, got %d", want, numEntries, len(data))
	}

	entries := make([]SettingsEntry, numEntries)
	for i := 0; i < int(numEntries); i++ {
		b := data[i*settingsEntrySize : (i+1)*settingsEntrySize]
		var id uint32
		var flag byte
		if version == Version2 {
			id = bitio.ReadUint24LE(b[0:3])
			flag = b[3]
		} else {
			flag = b[0]
			id = bitio.ReadUint24BE(b[1:4])
		}
		value := bitio.ReadUint32BE(b[4:8])
		entries[i] = SettingsEntry{ID: SettingsID(id), Flag: SettingsIDFlag(flag), Value: value}
	}
	return entries, nil
}

// encodeSettingsEntries is decodeSettingsEntries's inverse, preserving the
// caller-given entry order.
func encodeSettingsEntries(version uint16, entries []SettingsEntry) []byte {
	out := make([]byte, len(entries)*settingsEntrySize)
	for i, e := range entries {
		b := out[i*settingsEntrySize : (i+1)*settingsEntrySize]
		if version == Version2 {
			bitio.PutUint24LE(b[0:3], uint32(e.ID))
			b[3] = byte(e.Flag)
		} else {
			b[0] = byte(e.Flag)
			bitio.PutUint24BE(b[1:4], uint32(e.ID))
		}
		bitio.PutUint32BE(b[4:8], e.Value)
	}
	return out
}
