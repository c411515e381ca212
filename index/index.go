// Package index implements the external-inverted-index adapter of
// spec.md §4.6: the three callbacks a GIN-style index needs to store and
// query coreseq's k-mer keys, built on top of codec, kmer, query, and
// cache the way the teacher's meta.Engine sits on top of nfa, dfa/lazy,
// dfa/onepass, and prefilter.
package index

import (
	"github.com/coreseq/coreseq/cache"
	"github.com/coreseq/coreseq/codec"
	"github.com/coreseq/coreseq/config"
	"github.com/coreseq/coreseq/kmer"
	"github.com/coreseq/coreseq/query"
)

// Consistency is the three-valued result of IsConsistent (spec.md §4.6
// and Glossary: "Recheck" means the inverted index's presence filter
// alone cannot decide, so the caller must fall back to full scoring).
type Consistency int

const (
	No Consistency = iota
	Yes
	Recheck
)

func (c Consistency) String() string {
	switch c {
	case Yes:
		return "Yes"
	case Recheck:
		return "Recheck"
	default:
		return "No"
	}
}

// Adapter implements the three GIN-style opclass callbacks over a single
// configuration and an optional high-frequency prefilter/cache pair.
// Mirrors the teacher's meta.Engine: it is the one type in the module
// that wires every other package together.
type Adapter struct {
	cfg       config.Config
	highFreq  *cache.LocalCache      // nil disables high-frequency filtering
	prefilter *cache.HighFreqPrefilter // nil: always recheck exactly
}

// NewAdapter builds an Adapter for cfg. highFreq and prefilter may be nil
// (filtering disabled, matching spec.md §4.6's "if high-frequency
// filtering is enabled and the cache is populated... else return all
// keys").
func NewAdapter(cfg config.Config, highFreq *cache.LocalCache, prefilter *cache.HighFreqPrefilter) *Adapter {
	return &Adapter{cfg: cfg, highFreq: highFreq, prefilter: prefilter}
}

// KeysForValue extracts the indexable key set for one row's column value
// (spec.md §4.6 first callback). When PrecludeHighFreq is enabled and a
// populated LocalCache is attached, any key whose canonical prefix is a
// cached high-frequency k-mer is dropped before the caller ever sees it —
// those k-mers would otherwise dominate every posting list without
// improving selectivity.
func (a *Adapter) KeysForValue(seq codec.Encoded) ([]kmer.NumberedKey, error) {
	arr, err := kmer.Extract(seq, a.cfg.KmerSize, a.cfg.OccurrenceBits)
	if err != nil {
		return nil, err
	}
	if !a.cfg.PrecludeHighFreq || a.highFreq == nil || !a.highFreq.Loaded() {
		return arr.Numbered, nil
	}

	kept := make([]kmer.NumberedKey, 0, len(arr.Numbered))
	for _, nk := range arr.Numbered {
		if a.prefilter != nil {
			decoded, err := decodeBasePrefix(nk, a.cfg.KmerSize)
			if err != nil {
				return nil, err
			}
			if !a.prefilter.MayContainHighFreq(decoded) {
				kept = append(kept, nk)
				continue
			}
		}
		if !a.highFreq.Contains(prefixValue(nk.Packed, 2*a.cfg.KmerSize)) {
			kept = append(kept, nk)
		}
	}
	return kept, nil
}

// decodeBasePrefix decodes nk's leading 2k canonical base bits to ASCII
// text, the form cache.HighFreqPrefilter.MayContainHighFreq requires (its
// automaton is built over decoded k-mer patterns, not packed binary). Row
// keys always carry only concrete A/C/G/T bases (degenerate windows are
// resolved to concrete ones before a NumberedKey is ever built), so DNA2
// always applies here regardless of the column's own encoding width.
func decodeBasePrefix(nk kmer.NumberedKey, k int) ([]byte, error) {
	prefix := codec.Encoded{Width: 2, BitLen: 2 * k, Packed: nk.BasePrefix(k)}
	return codec.NewDNA2().Decode(prefix)
}

// KeysForQuery extracts the unnumbered query key set (spec.md §4.6 second
// callback, delegating directly to query.ExtractQueryKeys).
func (a *Adapter) KeysForQuery(seq codec.Encoded) ([]query.Key, error) {
	return query.ExtractQueryKeys(seq, a.cfg.KmerSize)
}

// ExcludedCount reports how many of queryKeys are themselves
// high-frequency k-mers under the loaded cache — spec.md §4.6's
// `|excluded_in_query|`, the term subtracted from s_min before the
// presence-count comparison. Returns 0 if no cache is loaded, matching
// "if high-frequency filtering is enabled and the cache is
// populated... else" for the query side.
func (a *Adapter) ExcludedCount(queryKeys []query.Key) int {
	if a.highFreq == nil || !a.highFreq.Loaded() {
		return 0
	}
	excluded := 0
	for _, qk := range queryKeys {
		if a.highFreq.Contains(prefixValue(qk.Packed, 2*qk.K)) {
			excluded++
		}
	}
	return excluded
}

// IsConsistent implements spec.md §4.6's third callback: given the
// inverted index's report of which query keys are present in a
// candidate's posting lists (presenceBitmap, one bit per entry of
// queryKeys in the same order) and the query key set itself, decide
// whether the candidate can be rejected outright (No) or must be
// rescored by the caller (Recheck). s_adj = max(0, s_min - excluded)
// lowers the presence threshold to account for query k-mers the cache
// already knows are high-frequency; Yes is never returned, since the
// index only proves presence, not the shared/query-total rate §4.3
// also requires, so a pass here is always provisional.
func (a *Adapter) IsConsistent(presenceBitmap []bool, queryKeys []query.Key) Consistency {
	count := 0
	for _, present := range presenceBitmap {
		if present {
			count++
		}
	}
	excluded := a.ExcludedCount(queryKeys)
	sAdj := a.cfg.MinScore - excluded
	if sAdj < 0 {
		sAdj = 0
	}
	if count >= sAdj {
		return Recheck
	}
	return No
}

// Recheck rescores a candidate row's numbered key set against queryKeys
// using the full §4.3 predicate, resolving the Recheck verdict
// IsConsistent cannot settle on presence alone.
func (a *Adapter) Recheck(rowKeys []kmer.NumberedKey, queryKeys []query.Key) bool {
	shared := query.Score(rowKeys, queryKeys)
	return query.EvaluateMatch(shared, len(queryKeys), a.cfg.MinScore, a.cfg.MinSharedRate)
}

// prefixValue decodes packed's leading prefixBits bits into the uint64
// form cache.LocalCache.Contains expects. Only meaningful for k<=32 (32
// bits of 2-bit codes fits u64), the range spec.md §4.4's high-frequency
// table itself supports — k>32 k-mers have no fixed-width integer form
// and are never written to the high-frequency table to begin with.
func prefixValue(packed []byte, prefixBits int) uint64 {
	var v uint64
	bitsRead := 0
	for _, b := range packed {
		if bitsRead >= prefixBits {
			break
		}
		take := 8
		if prefixBits-bitsRead < 8 {
			take = prefixBits - bitsRead
		}
		v = v<<uint(take) | uint64(b)>>uint(8-take)
		bitsRead += take
	}
	return v
}
