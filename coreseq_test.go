package coreseq

import (
	"testing"

	"github.com/coreseq/coreseq/query"
)

func TestIndexMatchIdenticalSequence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KmerSize = 4
	cfg.MinScore = 1
	cfg.MinSharedRate = 0.5
	idx, err := NewIndex(cfg)
	if err != nil {
		t.Fatalf("NewIndex error: %v", err)
	}

	row := []byte("ACGTACGTACGT")
	matched, err := idx.Match(row, row)
	if err != nil {
		t.Fatalf("Match error: %v", err)
	}
	if !matched {
		t.Error("expected a sequence to match itself")
	}
}

func TestIndexMatchUnrelatedSequence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KmerSize = 8
	cfg.MinScore = 1
	cfg.MinSharedRate = 0.9
	idx, err := NewIndex(cfg)
	if err != nil {
		t.Fatalf("NewIndex error: %v", err)
	}

	matched, err := idx.Match([]byte("AAAAAAAAAAAAAAAA"), []byte("CCCCCCCCCCCCCCCC"))
	if err != nil {
		t.Fatalf("Match error: %v", err)
	}
	if matched {
		t.Error("expected unrelated sequences not to match")
	}
}

func TestIndexRawScoreAndCorrectedScoreAgree(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KmerSize = 4
	idx := MustNewIndex(cfg)

	row := []byte("ACGTACGTACGT")
	query := []byte("ACGTACGT")

	raw, err := idx.RawScore(row, query)
	if err != nil {
		t.Fatalf("RawScore error: %v", err)
	}
	corrected, err := idx.CorrectedScore(row, query)
	if err != nil {
		t.Fatalf("CorrectedScore error: %v", err)
	}
	if raw != corrected {
		t.Errorf("CorrectedScore() = %d, want equal to RawScore() = %d", corrected, raw)
	}
	if raw == 0 {
		t.Error("expected a nonzero shared-k-mer count for overlapping sequences")
	}
}

func TestNewIndexRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KmerSize = 200
	if _, err := NewIndex(cfg); err == nil {
		t.Fatal("expected NewIndex to reject an out-of-range KmerSize")
	}
}

func TestMustNewIndexPanicsOnInvalidConfig(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected MustNewIndex to panic on invalid config")
		}
	}()
	cfg := DefaultConfig()
	cfg.KmerSize = 0
	MustNewIndex(cfg)
}

func TestIndexMatchRejectsQueryShorterThanK(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KmerSize = 8
	idx := MustNewIndex(cfg)

	_, err := idx.Match([]byte("ACGTACGTACGT"), []byte("ACGT"))
	if err == nil {
		t.Fatal("expected QueryTooShort error for a query shorter than k")
	}
	qerr, ok := err.(*query.Error)
	if !ok {
		t.Fatalf("error = %T, want *query.Error", err)
	}
	if qerr.Kind != query.QueryTooShort {
		t.Errorf("Kind = %v, want QueryTooShort", qerr.Kind)
	}
}

func TestIndexMatchRejectsInvalidCharacter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KmerSize = 4
	idx := MustNewIndex(cfg)

	if _, err := idx.Match([]byte("ACGTXX"), []byte("ACGT")); err == nil {
		t.Fatal("expected an error for an invalid base character")
	}
}
