package codec

import "github.com/cespare/xxhash/v2"

// hashPacked hashes e's packed bytes with a caller-supplied seed, folded in
// ahead of the digest so distinct seeds produce independent hash spaces
// from the same bytes. xxhash is the pack's fast non-cryptographic string hash (also used
// by the teacher's literal-matching prefilter), reused here for the same
// reason: packed k-mer bytes are short and this runs per-window.
func hashPacked(e Encoded, seed uint64) uint64 {
	d := xxhash.NewWithSeed(seed)
	_, _ = d.Write(e.Packed)
	return d.Sum64()
}
