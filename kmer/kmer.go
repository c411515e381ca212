// Package kmer implements the sliding-window k-mer extractor of spec.md
// §4.2: occurrence-numbered keys over a stable window order, with bounded
// degenerate-base expansion for IUPAC-ambiguous input.
package kmer

import (
	"github.com/coreseq/coreseq/codec"
	"github.com/coreseq/coreseq/internal/conv"
	"github.com/coreseq/coreseq/internal/sparse"
)

var baseCode = map[byte]uint64{'A': 0, 'C': 1, 'G': 2, 'T': 3}

// NumberedKey is a packed 2k+b bit key: a window's canonical k-mer value
// followed by its occurrence number minus one, in the order the external
// inverted index organizes keys (spec.md §3, §4.2).
type NumberedKey struct {
	BitLen int
	Packed []byte
}

// KmerArray is the tagged output of Extract: numbered keys for the
// external index, plus an unnumbered raw-integer form for the analyzer's
// shared hash table when one fits (spec.md §4.2: u16 for k<=8, u32 for
// k<=16, u64 for k<=32; k>32 has no integer raw form, only Numbered).
type KmerArray struct {
	K, B     int
	RawWidth int // 16, 32, 64, or 0 if unsupported for this k
	U16      []uint16
	U32      []uint32
	U64      []uint64
	Numbered []NumberedKey
}

// Len returns the number of keys extracted (len(Numbered)).
func (a KmerArray) Len() int { return len(a.Numbered) }

// Extract produces the occurrence-numbered key set for seq under the given
// k-mer size and occurrence-bit-length, per spec.md §4.2. seq's Width
// (2 or 4) selects the decoding codec.
func Extract(seq codec.Encoded, k, b int) (KmerArray, error) {
	if k < 4 || k > 64 {
		return KmerArray{}, &Error{Kind: InvalidKmerSize, K: k}
	}

	var text []byte
	var err error
	switch seq.Width {
	case 2:
		text, err = codec.NewDNA2().Decode(seq)
	default:
		text, err = codec.NewDNA4().Decode(seq)
	}
	if err != nil {
		return KmerArray{}, err
	}

	n := len(text)
	result := KmerArray{K: k, B: b, RawWidth: rawWidth(k)}
	if n < k {
		return result, nil
	}

	maxOcc := uint32(1) << uint(b)
	occ := newOccurrenceTracker(k)

	for i := 0; i+k <= n; i++ {
		window := text[i : i+k]
		nN, nVHDB, nMRWSYK := windowClassCounts(window)
		if nN+nVHDB+nMRWSYK == 0 {
			result.appendConcrete(window, occ, maxOcc)
			continue
		}
		if exceedsExpansionBound(nN, nVHDB, nMRWSYK) {
			continue
		}
		for _, concrete := range expandWindow(window) {
			result.appendConcrete(concrete, occ, maxOcc)
		}
	}
	return result, nil
}

// rawWidth picks the raw-integer form width for k, or 0 if k doesn't fit
// any fixed-width unsigned integer (spec.md §4.2).
func rawWidth(k int) int {
	switch {
	case k <= 8:
		return 16
	case k <= 16:
		return 32
	case k <= 32:
		return 64
	default:
		return 0
	}
}

// appendConcrete emits one key for a fully-concrete (non-degenerate)
// window, assigning the next occurrence number and dropping it if that
// number exceeds maxOcc (spec.md §4.2, §9: drop on overflow, not saturate).
func (a *KmerArray) appendConcrete(window []byte, occ *occurrenceTracker, maxOcc uint32) {
	v := canonicalValue(window)
	n := occ.incr(v, window)
	if n > maxOcc {
		return
	}
	a.appendRaw(v)
	a.Numbered = append(a.Numbered, buildNumberedKey(window, n-1, a.B))
}

func (a *KmerArray) appendRaw(v uint64) {
	switch a.RawWidth {
	case 16:
		a.U16 = append(a.U16, conv.Uint64ToUint16(v))
	case 32:
		a.U32 = append(a.U32, conv.Uint64ToUint32(v))
	case 64:
		a.U64 = append(a.U64, v)
	}
}

// canonicalValue packs a fully-concrete window's bases into the
// most-significant-base-first 2k-bit unsigned integer spec.md §3 defines.
// Only meaningful for k<=32 (the result is truncated silently beyond that,
// matching the "no integer raw form for k>32" contract — callers never
// read it in that regime since appendRaw is a no-op for RawWidth==0).
func canonicalValue(window []byte) uint64 {
	var v uint64
	for _, c := range window {
		v = v<<2 | baseCode[c]
	}
	return v
}

// occurrenceTracker counts occurrences of each distinct k-mer value within
// one row (spec.md §4.2). Extract allocates a fresh tracker on every call
// and drops it when the row's keys are emitted; it is not reused across
// rows. For small k (k<=8) the universe of possible values fits
// a directly-indexed counter (internal/sparse.Counter); larger k falls
// back to a map keyed by the window's canonical integer, or by its raw
// bytes when no integer representation exists (k>32).
type occurrenceTracker struct {
	k        int
	direct   *sparse.Counter
	byInt    map[uint64]uint32
	byString map[string]uint32
}

func newOccurrenceTracker(k int) *occurrenceTracker {
	t := &occurrenceTracker{k: k}
	switch {
	case k <= 8:
		t.direct = sparse.NewCounter(1 << uint(2*k))
	case k <= 32:
		t.byInt = make(map[uint64]uint32)
	default:
		t.byString = make(map[string]uint32)
	}
	return t
}

func (t *occurrenceTracker) incr(v uint64, window []byte) uint32 {
	switch {
	case t.direct != nil:
		return t.direct.Incr(conv.Uint64ToUint32(v))
	case t.byInt != nil:
		t.byInt[v]++
		return t.byInt[v]
	default:
		key := string(window)
		t.byString[key]++
		return t.byString[key]
	}
}
