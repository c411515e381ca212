package codec

import "bytes"

// dna4Codes lists the fifteen IUPAC nucleotide symbols DNA4 can represent,
// in the fixed order their 4-bit codes are assigned (1-15; 0 is the
// forbidden sentinel, spec.md §3 invariant). A/C/G/T occupy the first four
// codes so a DNA4 value restricted to the strict alphabet numerically
// agrees with DNA2's ordering.
var dna4Codes = [15]byte{
	'A', 'C', 'G', 'T',
	'R', 'Y', 'S', 'W', 'K', 'M',
	'B', 'D', 'H', 'V', 'N',
}

var dna4Table = func() [256]byte {
	var t [256]byte
	for i := range t {
		t[i] = 0xff
	}
	for i, c := range dna4Codes {
		t[c] = byte(i + 1)
		t[c+('a'-'A')] = byte(i + 1)
	}
	t['U'], t['u'] = dna4Table4('T'), dna4Table4('t')
	return t
}()

// dna4Table4 resolves the code T was assigned, used once at init time to
// fold U/u onto it before the table closure returns.
func dna4Table4(base byte) byte {
	for i, c := range dna4Codes {
		if c == base || c+('a'-'A') == base {
			return byte(i + 1)
		}
	}
	return 0xff
}

var dna4Inverse = func() [16]byte {
	var t [16]byte
	for i, c := range dna4Codes {
		t[i+1] = c
	}
	return t
}()

// DNA4 implements Codec over the full IUPAC degenerate-base alphabet, four
// bits per base. Code 0000 is never produced by Encode and is rejected by
// Decode (spec.md §3: "the four-bit code 0000 is forbidden").
type DNA4 struct{}

// NewDNA4 returns the DNA4 codec. It carries no state, so any number of
// goroutines may share one value.
func NewDNA4() DNA4 { return DNA4{} }

func (DNA4) Width() int { return 4 }

func (DNA4) Encode(text []byte) (Encoded, error) {
	if len(text) > 0 && !fastInLetterRange(text, 'A', 'z'+1) {
		return encodeSlow4(text)
	}
	w := newBitWriter((len(text)*4 + 7) / 8)
	for _, c := range text {
		code := dna4Table[c]
		if code == 0xff {
			return Encoded{}, &Error{Kind: InvalidCharacter, Byte: c, Width: 4}
		}
		w.write(code, 4)
	}
	return Encoded{Width: 4, BitLen: len(text) * 4, Packed: w.flush()}, nil
}

// encodeSlow4 mirrors encodeSlow2 for the wider IUPAC alphabet.
func encodeSlow4(text []byte) (Encoded, error) {
	for _, c := range text {
		if dna4Table[c] == 0xff {
			return Encoded{}, &Error{Kind: InvalidCharacter, Byte: c, Width: 4}
		}
	}
	w := newBitWriter((len(text)*4 + 7) / 8)
	for _, c := range text {
		w.write(dna4Table[c], 4)
	}
	return Encoded{Width: 4, BitLen: len(text) * 4, Packed: w.flush()}, nil
}

func (DNA4) Decode(e Encoded) ([]byte, error) {
	if e.BitLen%4 != 0 {
		return nil, &Error{Kind: InvalidBitLength, Width: 4, BitLen: e.BitLen}
	}
	n := e.BitLen / 4
	out := make([]byte, n)
	r := newBitReader(e.Packed)
	for i := 0; i < n; i++ {
		code := r.read(4)
		if code == 0 {
			return nil, &Error{Kind: InvalidFourBitCode, Width: 4, BitLen: e.BitLen}
		}
		out[i] = dna4Inverse[code]
	}
	return out, nil
}

func (DNA4) CompareOrdering(a, b Encoded) int {
	return compareEncoded(a, b)
}

func (DNA4) Equal(a, b Encoded) bool {
	return a.BitLen == b.BitLen && bytes.Equal(a.Packed, b.Packed)
}

func (DNA4) Hash(e Encoded, seed uint64) uint64 {
	return hashPacked(e, seed)
}

// IsDegenerate reports whether c is one of the eleven IUPAC ambiguity codes
// (not a plain A/C/G/T). Used by kmer's expansion-bound check (spec.md §4.2).
func IsDegenerate(c byte) bool {
	code := dna4Table[c]
	return code >= 5 && code <= 15
}

// DegenerateBases returns the set of strict bases (A, C, G, T) an IUPAC
// ambiguity code can stand for. Returns nil for a plain base or an
// unrecognized byte.
func DegenerateBases(c byte) []byte {
	switch c {
	case 'R', 'r':
		return []byte{'A', 'G'}
	case 'Y', 'y':
		return []byte{'C', 'T'}
	case 'S', 's':
		return []byte{'G', 'C'}
	case 'W', 'w':
		return []byte{'A', 'T'}
	case 'K', 'k':
		return []byte{'G', 'T'}
	case 'M', 'm':
		return []byte{'A', 'C'}
	case 'B', 'b':
		return []byte{'C', 'G', 'T'}
	case 'D', 'd':
		return []byte{'A', 'G', 'T'}
	case 'H', 'h':
		return []byte{'A', 'C', 'T'}
	case 'V', 'v':
		return []byte{'A', 'C', 'G'}
	case 'N', 'n':
		return []byte{'A', 'C', 'G', 'T'}
	default:
		return nil
	}
}
