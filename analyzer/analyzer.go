// Package analyzer implements the parallel high-frequency k-mer scan of
// spec.md §4.4: a leader distributes storage blocks of one (table, column)
// across workers, which extract k-mers per row into a shared hash table of
// k-mer -> distinct-row count; the leader then selects entries above a
// threshold as high-frequency.
package analyzer

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/coreseq/coreseq/codec"
	"github.com/coreseq/coreseq/config"
	"github.com/coreseq/coreseq/host"
	"github.com/coreseq/coreseq/kmer"
)

// Threshold is the result of an analyzer run: the row-count cutoff used,
// and every k-mer whose appearance-row-count exceeded it.
type Threshold struct {
	Cutoff  int64
	Records []host.HighFreqRecord
}

// Leader runs the analyzer protocol of spec.md §4.4 against one
// (table, column). It holds no state across runs; Run is reentrant
// provided the caller supplies a fresh TableLock per concurrent run.
type Leader struct {
	Config      config.Config
	TableID     string
	ColumnID    string
	Width       int // 2 or 4, the column's declared codec width
	NumWorkers  int
	Lock        host.TableLock
	Storage     host.Storage
}

// Run implements the leader protocol: lock the table (step 3), allocate
// the shared table (step 4, realized as an ordinary Go value — see
// DESIGN.md), start workers (steps 6-8) via errgroup so the first worker
// error cancels the rest and is returned (step 9), then scan the shared
// table and select high-frequency entries (step 11), always releasing the
// lock (step 12) even on error.
func (l *Leader) Run(ctx context.Context, source host.TableSource) (Threshold, error) {
	if l.Width != 2 && l.Width != 4 {
		return Threshold{}, &Error{Kind: InvalidColumnType, Message: "column width must be 2 or 4"}
	}
	if err := l.Lock.Lock(ctx, l.TableID); err != nil {
		return Threshold{}, &Error{Kind: AnalysisAlreadyRunning, Message: err.Error()}
	}
	defer l.Lock.Unlock(l.TableID)

	totalBlocks, err := source.TotalBlocks(ctx)
	if err != nil {
		return Threshold{}, err
	}
	totalRows, err := source.TotalRows(ctx)
	if err != nil {
		return Threshold{}, err
	}

	table := NewSharedTable()
	cursor := newWorkCursor(totalBlocks)

	numWorkers := l.NumWorkers
	if numWorkers < 1 {
		numWorkers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < numWorkers; i++ {
		w := &Worker{
			Config:  l.Config,
			Width:   l.Width,
			Storage: l.Storage,
			Table:   table,
			Source:  source,
			Cursor:  cursor,
		}
		g.Go(func() error {
			return w.Run(gctx)
		})
	}
	if err := g.Wait(); err != nil {
		return Threshold{}, &Error{Kind: WorkerError, Message: err.Error()}
	}

	// Suspension-point discipline (spec.md §5): parallel execution has
	// fully stopped above (g.Wait returned); only now do we touch the
	// catalog-shaped result the caller will persist.
	cutoff := threshold(l.Config, totalRows)
	records := make([]host.HighFreqRecord, 0)
	table.Entries(func(kmer uint64, count int64) {
		if count > cutoff {
			records = append(records, host.HighFreqRecord{
				TableID:  l.TableID,
				ColumnID: l.ColumnID,
				Kmer:     kmer,
				Reason:   "appearance-rate",
				RowCount: count,
			})
		}
	})
	return Threshold{Cutoff: cutoff, Records: records}, nil
}

// threshold computes max(N, ceil(r * total-rows)) per spec.md §4.4 step 11.
func threshold(cfg config.Config, totalRows int64) int64 {
	byRate := int64(math.Ceil(cfg.MaxAppearanceRate * float64(totalRows)))
	if cfg.MaxAppearanceRows > byRate {
		return cfg.MaxAppearanceRows
	}
	return byRate
}

// Worker implements the worker protocol of spec.md §4.4: fetch-and-
// increment the shared work cursor, read and process blocks until the
// table is exhausted or ctx is cancelled.
type Worker struct {
	Config  config.Config
	Width   int
	Storage host.Storage
	Table   *SharedTable
	Source  host.TableSource
	Cursor  *workCursor
}

// Run drains the work cursor, processing one block per iteration, until
// no blocks remain or ctx is cancelled (the Go-idiomatic realization of
// spec.md §5's cooperative cancel flag).
func (w *Worker) Run(ctx context.Context) error {
	dedup := newRowDedup(w.Config.KmerSize)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		blockNum, ok := w.Cursor.next()
		if !ok {
			return nil
		}
		block, err := w.Source.ReadBlock(ctx, blockNum)
		if err != nil {
			return err
		}
		if err := w.processBlock(block, dedup); err != nil {
			return err
		}
	}
}

// processBlock extracts k-mers from every row in block, expanding any
// TOAST-style compressed column values first (spec.md §4.4: "performing
// any needed decompression to obtain a contiguous packed form... a common
// source of crashes if omitted"), and increments the shared table once
// per distinct k-mer per row.
func (w *Worker) processBlock(block host.Block, dedup *rowDedup) error {
	for _, row := range block.Rows {
		expanded, err := w.Storage.Expand(row.Value)
		if err != nil {
			return err
		}
		seq := codec.Encoded{Width: w.Width, BitLen: row.BitLen, Packed: expanded}
		arr, err := kmer.Extract(seq, w.Config.KmerSize, w.Config.OccurrenceBits)
		if err != nil {
			return err
		}
		dedup.reset()
		for _, v := range kmerValues(arr) {
			if dedup.markIfNew(v) {
				w.Table.Incr(v)
			}
		}
	}
	return nil
}

// kmerValues returns arr's raw-integer form regardless of which width was
// selected, widening u16/u32 to u64 for the shared table's uniform key
// type (SharedTable always keys by uint64; the narrower raw forms exist
// only to size KmerArray's slices economically, per spec.md §4.2).
func kmerValues(arr kmer.KmerArray) []uint64 {
	switch arr.RawWidth {
	case 16:
		out := make([]uint64, len(arr.U16))
		for i, v := range arr.U16 {
			out[i] = uint64(v)
		}
		return out
	case 32:
		out := make([]uint64, len(arr.U32))
		for i, v := range arr.U32 {
			out[i] = uint64(v)
		}
		return out
	case 64:
		return arr.U64
	default:
		return nil
	}
}
