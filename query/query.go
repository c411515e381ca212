// Package query implements the query-side k-mer extraction and scoring of
// spec.md §4.3: reduce a query string to an unnumbered k-mer set, then
// score and evaluate a match against an indexed row's numbered key set.
package query

import (
	"github.com/coreseq/coreseq/codec"
	"github.com/coreseq/coreseq/kmer"
)

// Key is an unnumbered canonical k-mer: the first 2k bits of a row's
// NumberedKey, compared ignoring occurrence number (spec.md §4.3: "the
// effective match predicate compares only the first 2k bits").
type Key struct {
	K      int
	Packed []byte // ceil(2k/8) bytes, big-endian, same bit order as codec.Encoded
}

// ExtractQueryKeys reduces text to its unnumbered k-mer key set. Degenerate
// windows expand using the same bound as kmer.Extract (spec.md §4.2);
// query windows never carry occurrence numbers, so every concrete
// expansion of every window contributes exactly one key, with duplicates
// collapsed (a query k-mer set has no multiplicity, spec.md §4.3).
func ExtractQueryKeys(seq codec.Encoded, k int) ([]Key, error) {
	var text []byte
	var err error
	switch seq.Width {
	case 2:
		text, err = codec.NewDNA2().Decode(seq)
	default:
		text, err = codec.NewDNA4().Decode(seq)
	}
	if err != nil {
		return nil, err
	}
	if len(text) < k {
		return nil, &Error{Kind: QueryTooShort, K: k, N: len(text)}
	}

	// b=0 forces occurrence-width to zero so kmer.Extract's numbered
	// packing degenerates to exactly the 2k-bit canonical prefix this
	// package needs; overflow-dropping with maxOcc=1 is irrelevant here
	// since we immediately discard occurrence and dedup below.
	arr, err := kmer.Extract(seq, k, 0)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, arr.Len())
	keys := make([]Key, 0, arr.Len())
	for _, nk := range arr.Numbered {
		s := string(nk.Packed)
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		keys = append(keys, Key{K: k, Packed: nk.Packed})
	}
	return keys, nil
}

// rowPrefix extracts the first 2k bits of a row key's packed bytes,
// re-packed into their own zero-tail-padded buffer so the result compares
// equal to a query key built over the same bases (kmer.NumberedKey.BasePrefix
// handles the bit-level re-extraction; a plain byte slice of Packed is not
// comparable whenever 2k isn't a multiple of 8, since the occurrence field
// immediately follows the base bits with no padding between them).
func rowPrefix(rk kmer.NumberedKey, k int) string {
	return string(rk.BasePrefix(k))
}

// Score computes the shared-count between a row's numbered keys and a
// query's unnumbered keys (spec.md §4.3): a row key whose first 2k bits
// equal a query key is a hit regardless of occurrence number, and a
// row-side k-mer present with occurrences 1..m counts as m hits.
//
// Built as a set-membership pass (build the query prefix set once, then
// scan row keys against it) rather than a nested loop, so cost is
// O(rowKeys + queryKeys) instead of O(rowKeys * queryKeys).
func Score(rowKeys []kmer.NumberedKey, queryKeys []Key) int {
	if len(queryKeys) == 0 {
		return 0
	}
	k := queryKeys[0].K
	qset := make(map[string]struct{}, len(queryKeys))
	for _, qk := range queryKeys {
		qset[string(qk.Packed)] = struct{}{}
	}
	shared := 0
	for _, rk := range rowKeys {
		if _, ok := qset[rowPrefix(rk, k)]; ok {
			shared++
		}
	}
	return shared
}

// EvaluateMatch applies the composite predicate of spec.md §4.3:
// shared >= sMin AND shared/queryTotal >= rMin, with 0/0 defined as 0.
func EvaluateMatch(shared, queryTotal int, sMin int, rMin float64) bool {
	if shared < sMin {
		return false
	}
	var rate float64
	if queryTotal > 0 {
		rate = float64(shared) / float64(queryTotal)
	}
	return rate >= rMin
}
