// Package host declares the abstract external services spec.md §1 calls
// "deliberately out of scope": the host database's storage manager, its
// catalog tables, and its table-locking primitive. coreseq treats these as
// Go interfaces with in-memory reference implementations for tests, never
// wiring a real storage engine — the contracts exist so analyzer and index
// are fully testable standalone (spec.md §1's scope boundary).
package host

import "context"

// Row is one live tuple's DNA column value, as the storage manager would
// hand it to a worker after resolving TOAST-style out-of-line storage
// (spec.md §4.4 "load the column value... TOAST-style compressed datums
// must be expanded").
type Row struct {
	RowID  int64
	Value  []byte // raw column bytes, possibly still compressed
	Width  int    // 2 or 4, the DNA codec width the column was declared with
	BitLen int    // encoded bit length once Value is expanded (NBases * Width)
}

// Block is one storage-block's worth of live tuples (spec.md §4.4 step 6,
// "read the block via the storage manager").
type Block struct {
	Rows []Row
}

// TableSource resolves a (table, column) to block-granularity scan access,
// the storage-manager contract spec.md §4.4 steps 1, 6 describe.
type TableSource interface {
	// TotalBlocks returns the storage-block count for this source's
	// table, used to initialize the leader's work cursor (spec.md §4.4
	// step 6).
	TotalBlocks(ctx context.Context) (int, error)

	// ReadBlock returns the live tuples in the given storage block.
	ReadBlock(ctx context.Context, blockNum int) (Block, error)

	// TotalRows returns the table's total row count, used for the
	// appearance-rate threshold (spec.md §4.4 step 11).
	TotalRows(ctx context.Context) (int64, error)
}

// Storage performs the TOAST-style expansion spec.md §4.4 calls out as "a
// common source of crashes if omitted": a column value may be stored
// compressed or out-of-line, and must be expanded to a contiguous packed
// form before kmer.Extract can decode it.
type Storage interface {
	// Expand returns value's contiguous, decompressed form. For a value
	// that is already contiguous, Expand is the identity.
	Expand(value []byte) ([]byte, error)
}

// HighFreqRecord is the persisted (table, column, k-mer) triple of
// spec.md §3's "high-frequency record".
type HighFreqRecord struct {
	TableID    string
	ColumnID   string
	Kmer       uint64
	Reason     string
	RowCount   int64
	AnalyzedAt int64 // unix seconds; supplied by the caller
}

// AnalysisMeta is the persisted per-(table,column,k) configuration record
// spec.md §3 describes, used by cache.Load's GUC-mismatch check.
type AnalysisMeta struct {
	TableID       string
	ColumnID      string
	K             int
	OccurrenceBit int
	MaxRate       float64
	MaxRows       int64
	AnalyzedAt    int64
}

// Catalog models two persisted-table shapes: highfreq_kmer (high-frequency
// records) and highfreq_meta (analysis metadata). It has no methods for a
// gin_index_meta table.
type Catalog interface {
	InsertHighFreq(ctx context.Context, records []HighFreqRecord) error
	LoadHighFreq(ctx context.Context, tableID, columnID string) ([]HighFreqRecord, error)
	SaveAnalysisMeta(ctx context.Context, meta AnalysisMeta) error
	LoadAnalysisMeta(ctx context.Context, tableID, columnID string) (AnalysisMeta, bool, error)
}

// TableLock is the exclusive table lock spec.md §4.4 steps 3 and 12
// acquire and release around an analysis run.
type TableLock interface {
	Lock(ctx context.Context, tableID string) error
	Unlock(tableID string) error
}
