package analyzer

import (
	"context"
	"testing"

	"github.com/coreseq/coreseq/codec"
	"github.com/coreseq/coreseq/config"
	"github.com/coreseq/coreseq/host"
)

func encodeRow(t *testing.T, s string) host.Row {
	t.Helper()
	enc, err := codec.NewDNA2().Encode([]byte(s))
	if err != nil {
		t.Fatalf("encode %q: %v", s, err)
	}
	return host.Row{Width: 2, BitLen: enc.BitLen, Value: enc.Packed}
}

func TestLeaderRunFindsHighFrequencyKmer(t *testing.T) {
	// Every row contains "AAAA" at least once; with MaxAppearanceRows=2
	// it must be flagged high-frequency.
	rows := []host.Row{
		encodeRow(t, "AAAACGTG"),
		encodeRow(t, "AAAATTTT"),
		encodeRow(t, "AAAAGGGG"),
	}
	source := host.NewMemoryTableSource(rows, 1)
	cfg := config.DefaultConfig()
	cfg.KmerSize = 4
	cfg.OccurrenceBits = 8
	cfg.MaxAppearanceRows = 2

	leader := &Leader{
		Config:     cfg,
		TableID:    "t1",
		ColumnID:   "c1",
		Width:      2,
		NumWorkers: 2,
		Lock:       host.NewMemoryTableLock(),
		Storage:    host.IdentityStorage{},
	}
	res, err := leader.Run(context.Background(), source)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	found := false
	for _, rec := range res.Records {
		if rec.RowCount == 3 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a high-frequency record with RowCount=3, got %+v", res.Records)
	}
}

func TestLeaderRunReleasesLockOnSuccess(t *testing.T) {
	rows := []host.Row{encodeRow(t, "ACGTACGT")}
	source := host.NewMemoryTableSource(rows, 1)
	lock := host.NewMemoryTableLock()
	leader := &Leader{
		Config:     config.DefaultConfig(),
		TableID:    "t1",
		Width:      2,
		NumWorkers: 1,
		Lock:       lock,
		Storage:    host.IdentityStorage{},
	}
	if _, err := leader.Run(context.Background(), source); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	// A second run should succeed too, proving the lock was released.
	if _, err := leader.Run(context.Background(), source); err != nil {
		t.Fatalf("second Run error: %v", err)
	}
}

func TestLeaderRunRejectsInvalidWidth(t *testing.T) {
	leader := &Leader{
		Config:  config.DefaultConfig(),
		TableID: "t1",
		Width:   3,
		Lock:    host.NewMemoryTableLock(),
		Storage: host.IdentityStorage{},
	}
	_, err := leader.Run(context.Background(), host.NewMemoryTableSource(nil, 1))
	if err == nil {
		t.Fatal("expected error for invalid column width")
	}
}

func TestSharedTableIncrAndCount(t *testing.T) {
	tbl := NewSharedTable()
	tbl.Incr(42)
	tbl.Incr(42)
	tbl.Incr(7)
	if got := tbl.Count(42); got != 2 {
		t.Errorf("Count(42) = %d, want 2", got)
	}
	if got := tbl.Count(7); got != 1 {
		t.Errorf("Count(7) = %d, want 1", got)
	}
	if got := tbl.Count(999); got != 0 {
		t.Errorf("Count(999) = %d, want 0", got)
	}
}

func TestRowDedupBitsetPath(t *testing.T) {
	d := newRowDedup(4) // k=4 <= bitsetKmerLimit
	if !d.useBitset {
		t.Fatal("expected bitset path for small k")
	}
	if !d.markIfNew(5) {
		t.Error("first mark of 5 should report new")
	}
	if d.markIfNew(5) {
		t.Error("second mark of 5 should report not-new")
	}
	d.reset()
	if !d.markIfNew(5) {
		t.Error("after reset, 5 should be new again")
	}
}

func TestRowDedupMapPath(t *testing.T) {
	d := newRowDedup(20) // k=20 > bitsetKmerLimit
	if d.useBitset {
		t.Fatal("expected map path for large k")
	}
	if !d.markIfNew(5) || d.markIfNew(5) {
		t.Error("dedup semantics broken for map path")
	}
}

func TestThresholdComputation(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MaxAppearanceRate = 0.5
	cfg.MaxAppearanceRows = 0
	if got := threshold(cfg, 100); got != 50 {
		t.Errorf("threshold() = %d, want 50", got)
	}
	cfg.MaxAppearanceRows = 80
	if got := threshold(cfg, 100); got != 80 {
		t.Errorf("threshold() = %d, want 80 (MaxAppearanceRows wins)", got)
	}
}
