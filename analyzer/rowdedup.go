package analyzer

import "github.com/coreseq/coreseq/internal/sparse"

// rowDedup tracks which k-mer values have already been counted for the
// current row, so a worker never increments a shared-table entry more
// than once per row (spec.md §4.4, "Deduplication per row").
//
// spec.md allows a 2^(2k)-bit bitset for k up to 16, but that's up to
// 512MiB per worker for k=16 — one buffer reused across rows, not
// reallocated per row, but still allocated once per worker goroutine.
// That's a reasonable ask of a DBA-tuned C extension; it is not a
// reasonable default for a Go worker pool sized by GOMAXPROCS. coreseq
// narrows the direct bitset to k<=12 (2^24 bits, 2MiB) and falls back to
// a hash set above that, one tier earlier than spec.md's own fallback
// point. This is a deliberate, documented deviation from the literal
// k<=16 threshold, not an oversight.
//
// The bitset tier still needs O(touched) reset between rows rather than
// O(2^2k), so it tracks which 64-bit words got dirtied using
// internal/sparse.SparseSet over word indices (a far smaller, genuinely
// bounded universe — 2^24 bits is only 2^18 words) instead of hand-rolling
// the same sparse/dense bookkeeping a second time.
type rowDedup struct {
	useBitset    bool
	words        []uint64
	touchedWords *sparse.SparseSet
	seen         map[uint64]struct{}
}

const bitsetKmerLimit = 12

func newRowDedup(k int) *rowDedup {
	if k <= bitsetKmerLimit {
		nBits := uint64(1) << uint(2*k)
		nWords := (nBits + 63) / 64
		return &rowDedup{
			useBitset:    true,
			words:        make([]uint64, nWords),
			touchedWords: sparse.NewSparseSet(uint32(nWords)),
		}
	}
	return &rowDedup{seen: make(map[uint64]struct{})}
}

// markIfNew reports whether kmer had not yet been seen this row, and
// records it as seen either way.
func (d *rowDedup) markIfNew(kmer uint64) bool {
	if d.useBitset {
		w := uint32(kmer / 64)
		bit := uint64(1) << (kmer % 64)
		if d.words[w]&bit != 0 {
			return false
		}
		d.touchedWords.Insert(w)
		d.words[w] |= bit
		return true
	}
	if _, ok := d.seen[kmer]; ok {
		return false
	}
	d.seen[kmer] = struct{}{}
	return true
}

// reset clears all marks in O(touched) time for the bitset path, or
// deletes every key from the map in place for the hash-set path.
func (d *rowDedup) reset() {
	if d.useBitset {
		d.touchedWords.Iter(func(w uint32) {
			d.words[w] = 0
		})
		d.touchedWords.Clear()
		return
	}
	for k := range d.seen {
		delete(d.seen, k)
	}
}
