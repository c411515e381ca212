package cache

import "github.com/coregx/ahocorasick"

// HighFreqPrefilter wraps an Aho-Corasick automaton built from the decoded
// text of the cache's high-frequency k-mer set, consulted before the exact
// per-window membership check in index.KeysForValue — the same role the
// teacher's meta.Engine gives its own ahocorasick.Automaton: a cheap
// multi-pattern scan that answers "could this row contain any
// high-frequency k-mer at all" before paying for exact per-window
// comparisons (grounded on meta/compile.go's ahocorasick.NewBuilder usage
// and meta/find.go's Engine.findAhoCorasick).
type HighFreqPrefilter struct {
	automaton *ahocorasick.Automaton
}

// BuildHighFreqPrefilter compiles an automaton over the decoded canonical
// text of each high-frequency k-mer. Returns a nil-automaton prefilter
// (MayContain always true) if patterns is empty, matching the teacher's
// own "no patterns, fall through" handling in compile.go.
func BuildHighFreqPrefilter(decodedKmers [][]byte) (*HighFreqPrefilter, error) {
	if len(decodedKmers) == 0 {
		return &HighFreqPrefilter{}, nil
	}
	builder := ahocorasick.NewBuilder()
	for _, pattern := range decodedKmers {
		builder.AddPattern(pattern)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return &HighFreqPrefilter{automaton: auto}, nil
}

// MayContainHighFreq reports whether decodedText could contain any
// cached high-frequency k-mer. A false return is exact: the caller can
// skip the per-window check entirely. A true return requires the caller
// to still verify (the automaton only proves presence of the pattern
// text, not that it aligns with a k-mer window boundary).
func (p *HighFreqPrefilter) MayContainHighFreq(decodedText []byte) bool {
	if p == nil || p.automaton == nil {
		return true
	}
	return p.automaton.IsMatch(decodedText)
}
