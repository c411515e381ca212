package index

import (
	"testing"

	"github.com/coreseq/coreseq/cache"
	"github.com/coreseq/coreseq/codec"
	"github.com/coreseq/coreseq/config"
	"github.com/coreseq/coreseq/host"
	"github.com/coreseq/coreseq/kmer"
)

func encode(t *testing.T, text string) codec.Encoded {
	t.Helper()
	enc, err := codec.NewDNA2().Encode([]byte(text))
	if err != nil {
		t.Fatalf("Encode(%q) error: %v", text, err)
	}
	return enc
}

func TestKeysForValueNoFiltering(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.KmerSize = 4
	a := NewAdapter(cfg, nil, nil)

	seq := encode(t, "ACGTACGTAA")
	keys, err := a.KeysForValue(seq)
	if err != nil {
		t.Fatalf("KeysForValue error: %v", err)
	}
	if len(keys) == 0 {
		t.Fatal("expected non-empty key set")
	}
}

func TestKeysForValueDropsHighFrequency(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.KmerSize = 4
	cfg.PrecludeHighFreq = true

	seq := encode(t, "ACGTACGTAA")
	arr, err := kmer.Extract(seq, cfg.KmerSize, cfg.OccurrenceBits)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if len(arr.Numbered) == 0 {
		t.Fatal("expected at least one extracted key to test against")
	}
	hfValue := prefixValue(arr.Numbered[0].Packed, 2*cfg.KmerSize)

	lc := cache.NewLocalCache()
	meta := host.AnalysisMeta{K: cfg.KmerSize, OccurrenceBit: cfg.OccurrenceBits, MaxRate: cfg.MaxAppearanceRate, MaxRows: cfg.MaxAppearanceRows}
	if err := lc.Load(meta, meta, []host.HighFreqRecord{{Kmer: hfValue}}); err != nil {
		t.Fatalf("Load error: %v", err)
	}

	a := NewAdapter(cfg, lc, nil)
	keys, err := a.KeysForValue(seq)
	if err != nil {
		t.Fatalf("KeysForValue error: %v", err)
	}
	for _, k := range keys {
		if prefixValue(k.Packed, 2*cfg.KmerSize) == hfValue {
			t.Errorf("expected high-frequency key %d dropped, found in result", hfValue)
		}
	}
	if len(keys) >= len(arr.Numbered) {
		t.Error("expected at least one key filtered out")
	}
}

func TestKeysForValueConsultsPrefilterWithDecodedText(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.KmerSize = 4
	cfg.PrecludeHighFreq = true

	seq := encode(t, "ACGTACGTAA")
	arr, err := kmer.Extract(seq, cfg.KmerSize, cfg.OccurrenceBits)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if len(arr.Numbered) == 0 {
		t.Fatal("expected at least one extracted key to test against")
	}
	hfValue := prefixValue(arr.Numbered[0].Packed, 2*cfg.KmerSize)

	lc := cache.NewLocalCache()
	meta := host.AnalysisMeta{K: cfg.KmerSize, OccurrenceBit: cfg.OccurrenceBits, MaxRate: cfg.MaxAppearanceRate, MaxRows: cfg.MaxAppearanceRows}
	if err := lc.Load(meta, meta, []host.HighFreqRecord{{Kmer: hfValue}}); err != nil {
		t.Fatalf("Load error: %v", err)
	}

	// "ACGT" is the row's actual first k-mer in decoded ASCII form — a
	// prefilter fed the raw packed bytes instead would never match this
	// pattern and would silently let every key through unfiltered.
	prefilter, err := cache.BuildHighFreqPrefilter([][]byte{[]byte("ACGT")})
	if err != nil {
		t.Fatalf("BuildHighFreqPrefilter error: %v", err)
	}

	a := NewAdapter(cfg, lc, prefilter)
	keys, err := a.KeysForValue(seq)
	if err != nil {
		t.Fatalf("KeysForValue error: %v", err)
	}
	for _, k := range keys {
		if prefixValue(k.Packed, 2*cfg.KmerSize) == hfValue {
			t.Errorf("expected high-frequency key %d dropped, found in result", hfValue)
		}
	}
	if len(keys) >= len(arr.Numbered) {
		t.Error("expected at least one key filtered out with a real prefilter wired")
	}
}

func TestKeysForValueFilteringSkippedWhenCacheNotLoaded(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.KmerSize = 4
	cfg.PrecludeHighFreq = true

	lc := cache.NewLocalCache() // never Loaded
	a := NewAdapter(cfg, lc, nil)

	seq := encode(t, "ACGTACGTAA")
	keys, err := a.KeysForValue(seq)
	if err != nil {
		t.Fatalf("KeysForValue error: %v", err)
	}
	arr, _ := kmer.Extract(seq, cfg.KmerSize, cfg.OccurrenceBits)
	if len(keys) != len(arr.Numbered) {
		t.Errorf("expected no filtering with an unloaded cache, got %d want %d", len(keys), len(arr.Numbered))
	}
}

func TestKeysForQuery(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.KmerSize = 4
	a := NewAdapter(cfg, nil, nil)

	seq := encode(t, "ACGTACGT")
	keys, err := a.KeysForQuery(seq)
	if err != nil {
		t.Fatalf("KeysForQuery error: %v", err)
	}
	if len(keys) == 0 {
		t.Fatal("expected non-empty query key set")
	}
}

func TestIsConsistentNoWhenCountBelowThreshold(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.KmerSize = 4
	cfg.MinScore = 3
	a := NewAdapter(cfg, nil, nil)

	seq := encode(t, "ACGTACGT")
	queryKeys, _ := a.KeysForQuery(seq)
	presence := make([]bool, len(queryKeys)) // all false
	got := a.IsConsistent(presence, queryKeys)
	if got != No {
		t.Errorf("IsConsistent() = %v, want No", got)
	}
}

func TestIsConsistentRecheckWhenCountMeetsThreshold(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.KmerSize = 4
	cfg.MinScore = 1
	a := NewAdapter(cfg, nil, nil)

	seq := encode(t, "ACGTACGT")
	queryKeys, _ := a.KeysForQuery(seq)
	if len(queryKeys) == 0 {
		t.Fatal("expected at least one query key")
	}
	presence := make([]bool, len(queryKeys))
	presence[0] = true
	got := a.IsConsistent(presence, queryKeys)
	if got != Recheck {
		t.Errorf("IsConsistent() = %v, want Recheck", got)
	}
}

func TestIsConsistentSAdjLoweredByExcluded(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.KmerSize = 4
	cfg.MinScore = 2
	cfg.PrecludeHighFreq = true

	seq := encode(t, "ACGTACGT")
	arr, _ := kmer.Extract(seq, cfg.KmerSize, cfg.OccurrenceBits)
	hfValue := prefixValue(arr.Numbered[0].Packed, 2*cfg.KmerSize)

	lc := cache.NewLocalCache()
	meta := host.AnalysisMeta{K: cfg.KmerSize, OccurrenceBit: cfg.OccurrenceBits, MaxRate: cfg.MaxAppearanceRate, MaxRows: cfg.MaxAppearanceRows}
	if err := lc.Load(meta, meta, []host.HighFreqRecord{{Kmer: hfValue}}); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	a := NewAdapter(cfg, lc, nil)

	queryKeys, _ := a.KeysForQuery(seq)
	excluded := a.ExcludedCount(queryKeys)
	if excluded == 0 {
		t.Fatal("expected at least one query key marked high-frequency for this test to be meaningful")
	}

	// One present key is below MinScore=2 but meets s_adj = MinScore - excluded.
	presence := make([]bool, len(queryKeys))
	presence[0] = true
	got := a.IsConsistent(presence, queryKeys)
	if got != Recheck {
		t.Errorf("IsConsistent() = %v, want Recheck with s_adj = %d", got, cfg.MinScore-excluded)
	}
}

func TestRecheckAppliesFullPredicate(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.KmerSize = 4
	cfg.MinScore = 1
	cfg.MinSharedRate = 0.5
	a := NewAdapter(cfg, nil, nil)

	seq := encode(t, "ACGTACGT")
	arr, err := kmer.Extract(seq, cfg.KmerSize, cfg.OccurrenceBits)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	queryKeys, err := a.KeysForQuery(seq)
	if err != nil {
		t.Fatalf("KeysForQuery error: %v", err)
	}
	if !a.Recheck(arr.Numbered, queryKeys) {
		t.Error("expected Recheck(self, self) to be a match")
	}
}

func TestConsistencyString(t *testing.T) {
	cases := []struct {
		c    Consistency
		want string
	}{{No, "No"}, {Yes, "Yes"}, {Recheck, "Recheck"}}
	for _, tc := range cases {
		if got := tc.c.String(); got != tc.want {
			t.Errorf("%v.String() = %q, want %q", int(tc.c), got, tc.want)
		}
	}
}
