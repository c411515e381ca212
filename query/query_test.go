package query

import (
	"testing"

	"github.com/coreseq/coreseq/codec"
	"github.com/coreseq/coreseq/kmer"
)

func encode2(t *testing.T, s string) codec.Encoded {
	t.Helper()
	e, err := codec.NewDNA2().Encode([]byte(s))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return e
}

func TestExtractQueryKeysDedup(t *testing.T) {
	seq := encode2(t, "AAAAAAA") // every window is "AAAA"
	keys, err := ExtractQueryKeys(seq, 4)
	if err != nil {
		t.Fatalf("ExtractQueryKeys error: %v", err)
	}
	if len(keys) != 1 {
		t.Errorf("len(keys) = %d, want 1 (query keys have no multiplicity)", len(keys))
	}
}

func TestExtractQueryKeysDistinct(t *testing.T) {
	seq := encode2(t, "ACGTACGT")
	keys, err := ExtractQueryKeys(seq, 4)
	if err != nil {
		t.Fatalf("ExtractQueryKeys error: %v", err)
	}
	// 5 windows, but ACGT repeats: 4 distinct k-mers.
	if len(keys) != 4 {
		t.Errorf("len(keys) = %d, want 4 distinct k-mers", len(keys))
	}
}

func TestScoreIgnoresOccurrenceNumber(t *testing.T) {
	rowSeq := encode2(t, "AAAAAAA") // 4 windows of "AAAA", numbered 1..4
	rowArr, err := kmer.Extract(rowSeq, 4, 8)
	if err != nil {
		t.Fatalf("kmer.Extract error: %v", err)
	}
	querySeq := encode2(t, "AAAA")
	qKeys, err := ExtractQueryKeys(querySeq, 4)
	if err != nil {
		t.Fatalf("ExtractQueryKeys error: %v", err)
	}
	shared := Score(rowArr.Numbered, qKeys)
	if shared != 4 {
		t.Errorf("Score() = %d, want 4 (all four occurrences are hits)", shared)
	}
}

func TestScoreNoOverlap(t *testing.T) {
	rowSeq := encode2(t, "CCCCCCC")
	rowArr, err := kmer.Extract(rowSeq, 4, 8)
	if err != nil {
		t.Fatalf("kmer.Extract error: %v", err)
	}
	querySeq := encode2(t, "AAAA")
	qKeys, err := ExtractQueryKeys(querySeq, 4)
	if err != nil {
		t.Fatalf("ExtractQueryKeys error: %v", err)
	}
	if shared := Score(rowArr.Numbered, qKeys); shared != 0 {
		t.Errorf("Score() = %d, want 0", shared)
	}
}

func TestEvaluateMatch(t *testing.T) {
	cases := []struct {
		shared, total int
		sMin          int
		rMin          float64
		want          bool
	}{
		{5, 10, 3, 0.4, true},
		{2, 10, 3, 0.4, false}, // below sMin
		{5, 10, 3, 0.6, false}, // below rMin
		{0, 0, 0, 0.5, false},  // 0/0 := 0, and 0 < rMin=0.5
		{0, 0, 1, 0.5, false},  // sMin=1 fails regardless
	}
	for i, tc := range cases {
		got := EvaluateMatch(tc.shared, tc.total, tc.sMin, tc.rMin)
		if got != tc.want {
			t.Errorf("case %d: EvaluateMatch(%d,%d,%d,%v) = %v, want %v",
				i, tc.shared, tc.total, tc.sMin, tc.rMin, got, tc.want)
		}
	}
}

func TestScoreNonByteAlignedKWithHighOccurrence(t *testing.T) {
	// k=5: 2k=10 bits, not a byte multiple, so the occurrence field starts
	// mid-byte. "AAAAA" repeated gives the 5th window occurrence number 5
	// (occAdj=4), exercising the case that previously went unmatched.
	rowSeq := encode2(t, "AAAAAAAAA") // 5 windows of "AAAAA", numbered 1..5
	rowArr, err := kmer.Extract(rowSeq, 5, 8)
	if err != nil {
		t.Fatalf("kmer.Extract error: %v", err)
	}
	querySeq := encode2(t, "AAAAA")
	qKeys, err := ExtractQueryKeys(querySeq, 5)
	if err != nil {
		t.Fatalf("ExtractQueryKeys error: %v", err)
	}
	shared := Score(rowArr.Numbered, qKeys)
	if shared != 5 {
		t.Errorf("Score() = %d, want 5 (all five occurrences are hits, including occurrence>=2 at non-byte-aligned k)", shared)
	}
}

func TestExtractQueryKeysTooShort(t *testing.T) {
	seq := encode2(t, "ACGT")
	_, err := ExtractQueryKeys(seq, 8)
	if err == nil {
		t.Fatal("expected error for query shorter than k")
	}
	qerr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error = %T, want *query.Error", err)
	}
	if qerr.Kind != QueryTooShort {
		t.Errorf("Kind = %v, want QueryTooShort", qerr.Kind)
	}
	if qerr.N != 4 || qerr.K != 8 {
		t.Errorf("N=%d K=%d, want N=4 K=8", qerr.N, qerr.K)
	}
}

func TestEvaluateMatchZeroOverZero(t *testing.T) {
	// 0/0 defined as 0: with sMin=0 and rMin=0, shared=0 passes sMin and
	// the defined rate 0 >= rMin=0 passes too.
	if !EvaluateMatch(0, 0, 0, 0) {
		t.Error("0/0 with sMin=0, rMin=0 should pass (0>=0, 0>=0)")
	}
}
