// Package codec implements the binary DNA codec of spec.md §4.1: bit-packed
// 2-bit (ACGT) and 4-bit (IUPAC-degenerate) encodings with uniform
// scalar/SIMD-accelerated encode, decode, compare, and hash.
//
// The package mirrors the teacher regex engine's SIMD-dispatch shape
// (github.com/coregx/coregex/simd): a package-level capability flag set at
// init from golang.org/x/sys/cpu, one accelerated kernel selected above a
// length threshold, and a portable fallback below it or on platforms
// without the capability.
package codec

// Encoded is a variable-length bit-packed DNA sequence (spec.md §3).
//
// Packed holds ceil(BitLen/8) bytes in big-endian bit order: base 0 occupies
// the most-significant Width bits of byte 0, base 1 the next Width bits, and
// so on. Bits past BitLen in the final byte are always zero — Equal and
// CompareOrdering rely on that invariant instead of re-masking on every call.
type Encoded struct {
	Width  int // 2 (DNA2) or 4 (DNA4)
	BitLen int // NBases() * Width
	Packed []byte
}

// NBases returns the number of bases this Encoded value represents.
func (e Encoded) NBases() int {
	if e.Width == 0 {
		return 0
	}
	return e.BitLen / e.Width
}

// Codec translates between textual DNA and bit-packed form, and compares,
// hashes, and serializes packed sequences. DNA2 and DNA4 are the two
// implementations (spec.md §3, §9 "Polymorphism over DNA2/DNA4").
type Codec interface {
	// Width returns 2 for DNA2, 4 for DNA4.
	Width() int

	// Encode packs text (case-insensitive, U folded to T) into an Encoded
	// value. Returns *Error{Kind: InvalidCharacter} for any byte outside the
	// codec's alphabet.
	Encode(text []byte) (Encoded, error)

	// Decode is Encode's exact inverse. Returns *Error{Kind: InvalidBitLength}
	// if e.BitLen is not a multiple of Width. DNA4 additionally fails if the
	// packed data contains the forbidden 0000 code.
	Decode(e Encoded) ([]byte, error)

	// CompareOrdering returns -1, 0, or +1: a total, deterministic order
	// (shorter bit length first, then byte-wise comparison) matching the
	// order the external inverted index uses to organize keys (spec.md §4.1).
	CompareOrdering(a, b Encoded) int

	// Equal reports whether a and b encode the same sequence.
	Equal(a, b Encoded) bool

	// Hash returns a seeded 64-bit hash of e's packed bytes only. Two
	// Encoded values with identical Packed bytes but different BitLen hash
	// to the same value; hashing ToBytes(e) instead includes the bit length.
	Hash(e Encoded, seed uint64) uint64
}
