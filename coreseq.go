// Package coreseq provides k-mer-based DNA sequence indexing and
// similarity search.
//
// coreseq reduces DNA sequences to sets of occurrence-numbered k-mer keys
// (package kmer), extracts comparable key sets from query strings
// (package query), and exposes the three callbacks an external inverted
// index needs to store and search them (package index). A companion
// parallel analyzer (package analyzer) identifies k-mers so common they
// would dominate every posting list without improving selectivity, and a
// multi-tier cache (package cache) keeps that set queryable from the
// extractor's hot path.
//
// Basic usage:
//
//	idx, err := coreseq.NewIndex(coreseq.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	matched, err := idx.Match(rowSeq, queryText)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Operator surface (spec.md §6's conceptual match/raw_score/
// corrected_score functions):
//
//	ok, _ := idx.Match(row, query)
//	raw, _ := idx.RawScore(row, query)
//	corrected, _ := idx.CorrectedScore(row, query) // currently == raw
package coreseq

import (
	"github.com/coreseq/coreseq/codec"
	"github.com/coreseq/coreseq/config"
	"github.com/coreseq/coreseq/kmer"
	"github.com/coreseq/coreseq/query"
)

// Config re-exports config.Config so callers need only import this
// package for the common path.
type Config = config.Config

// DefaultConfig returns spec.md §6's default configuration.
func DefaultConfig() Config {
	return config.DefaultConfig()
}

// Index is the top-level similarity-search handle: it owns a validated
// Config and exposes the match/raw_score/corrected_score operator
// surface directly over DNA2-encoded text, without requiring callers to
// drive codec/kmer/query themselves for the common case.
//
// An Index is safe for concurrent read-only use (Match/RawScore/
// CorrectedScore never mutate it) — the same concurrency contract the
// teacher's Regex gives its own read path.
type Index struct {
	cfg config.Config
}

// NewIndex validates cfg and returns an Index. Returns a *config.ConfigError
// if cfg is out of range.
func NewIndex(cfg Config) (*Index, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Index{cfg: cfg}, nil
}

// MustNewIndex is like NewIndex but panics on an invalid Config, the same
// shape as the teacher's MustCompile for configuration known valid at
// call time.
func MustNewIndex(cfg Config) *Index {
	idx, err := NewIndex(cfg)
	if err != nil {
		panic("coreseq: NewIndex: " + err.Error())
	}
	return idx
}

// encodeDNA2 encodes raw ASCII DNA text (case-insensitive ACGT/U) with the
// strict 2-bit codec, the encoding spec.md's worked examples and the
// operator surface both assume for row/query text.
func encodeDNA2(text []byte) (codec.Encoded, error) {
	return codec.NewDNA2().Encode(text)
}

// Match reports spec.md §6's `match(encoded_seq, query_text)`: whether
// query's k-mer set clears rowText's under the Index's configured
// thresholds.
func (idx *Index) Match(rowText, queryText []byte) (bool, error) {
	shared, queryTotal, err := idx.score(rowText, queryText)
	if err != nil {
		return false, err
	}
	return query.EvaluateMatch(shared, queryTotal, idx.cfg.MinScore, idx.cfg.MinSharedRate), nil
}

// RawScore reports spec.md §6's `raw_score(encoded_seq, query_text)`: the
// shared-k-mer count between row and query, ignoring occurrence number
// (package query's Score).
func (idx *Index) RawScore(rowText, queryText []byte) (int, error) {
	shared, _, err := idx.score(rowText, queryText)
	return shared, err
}

// CorrectedScore reports spec.md §6's `corrected_score`. spec.md §9
// documents this as an open question the reference source never
// resolved beyond aliasing raw_score (a planned "mutual excluded
// k-mers" correction was never wired to any GIN-side data), so
// CorrectedScore is exactly RawScore — not an invented behavior.
func (idx *Index) CorrectedScore(rowText, queryText []byte) (int, error) {
	return idx.RawScore(rowText, queryText)
}

// score is the shared implementation behind Match/RawScore/CorrectedScore:
// encode both inputs, extract row keys with occurrence numbers and query
// keys without, and run query.Score.
func (idx *Index) score(rowText, queryText []byte) (shared, queryTotal int, err error) {
	rowSeq, err := encodeDNA2(rowText)
	if err != nil {
		return 0, 0, err
	}
	querySeq, err := encodeDNA2(queryText)
	if err != nil {
		return 0, 0, err
	}

	rowArr, err := kmer.Extract(rowSeq, idx.cfg.KmerSize, idx.cfg.OccurrenceBits)
	if err != nil {
		return 0, 0, err
	}
	queryKeys, err := query.ExtractQueryKeys(querySeq, idx.cfg.KmerSize)
	if err != nil {
		return 0, 0, err
	}

	return query.Score(rowArr.Numbered, queryKeys), len(queryKeys), nil
}
