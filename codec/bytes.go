package codec

import "encoding/binary"

// ToBytes serializes e as the wire format spec.md §6 defines: a 4-byte
// big-endian bit-length prefix followed by the packed bytes. The prefix
// carries BitLen (not NBases) so FromBytes can reconstruct Width-ambiguous
// values without a side channel — the caller still has to know which codec
// produced the bytes, but doesn't need to know NBases separately.
func ToBytes(e Encoded) []byte {
	out := make([]byte, 4+len(e.Packed))
	binary.BigEndian.PutUint32(out[:4], uint32(e.BitLen))
	copy(out[4:], e.Packed)
	return out
}

// FromBytes is ToBytes's inverse for a given width (2 for DNA2, 4 for
// DNA4). Returns *Error{Kind: InvalidBitLength} if data is shorter than its
// own declared prefix.
func FromBytes(data []byte, width int) (Encoded, error) {
	if len(data) < 4 {
		return Encoded{}, &Error{Kind: InvalidBitLength, Width: width, BitLen: -1}
	}
	bitLen := int(binary.BigEndian.Uint32(data[:4]))
	packed := data[4:]
	wantBytes := (bitLen + 7) / 8
	if len(packed) != wantBytes {
		return Encoded{}, &Error{Kind: InvalidBitLength, Width: width, BitLen: bitLen}
	}
	return Encoded{Width: width, BitLen: bitLen, Packed: packed}, nil
}
