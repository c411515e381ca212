package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/coreseq/coreseq/analyzer"
	"github.com/coreseq/coreseq/codec"
	"github.com/coreseq/coreseq/host"
)

var (
	analyzeTableID  string
	analyzeColumnID string
	analyzeWorkers  int
	analyzeWidth    int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze SEQUENCES_FILE",
	Short: "Run the high-frequency k-mer analyzer over a file of sequences",
	Long: `analyze reads one DNA sequence per line from SEQUENCES_FILE, treats each
line as a row of a single (table, column), and runs the parallel
high-frequency analyzer (spec.md §4.4) over it, printing every k-mer
whose appearance-row-count cleared the configured threshold.

This stands in for a real host database table: kmeranalyze has no
storage-engine dependency of its own (spec.md §1's scope boundary), so
it drives analyzer.Leader against an in-memory host.TableSource built
from the file.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeTableID, "table", "sequences", "table identifier recorded on high-frequency records")
	analyzeCmd.Flags().StringVar(&analyzeColumnID, "column", "seq", "column identifier recorded on high-frequency records")
	analyzeCmd.Flags().IntVar(&analyzeWorkers, "workers", 4, "number of concurrent worker goroutines")
	analyzeCmd.Flags().IntVar(&analyzeWidth, "width", 2, "column codec width: 2 (DNA2) or 4 (DNA4)")
}

func runAnalyze(c *cobra.Command, args []string) error {
	rows, err := loadRows(args[0], analyzeWidth)
	if err != nil {
		return fmt.Errorf("kmeranalyze: %w", err)
	}

	source := host.NewMemoryTableSource(rows, resolvedConfig().AnalysisBatchSize)
	leader := &analyzer.Leader{
		Config:     resolvedConfig(),
		TableID:    analyzeTableID,
		ColumnID:   analyzeColumnID,
		Width:      analyzeWidth,
		NumWorkers: analyzeWorkers,
		Lock:       host.NewMemoryTableLock(),
		Storage:    host.IdentityStorage{},
	}

	start := time.Now()
	result, err := leader.Run(context.Background(), source)
	if err != nil {
		return fmt.Errorf("kmeranalyze: analysis failed: %w", err)
	}
	elapsed := time.Since(start)

	fmt.Printf("Analyzed %d rows, %d k-mers exceeded the high-frequency cutoff (%d) in %s\n\n",
		len(rows), len(result.Records), result.Cutoff, elapsed)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"K-mer (canonical int)", "Row count", "Reason"})
	for _, rec := range result.Records {
		t.AppendRow(table.Row{rec.Kmer, rec.RowCount, rec.Reason})
	}
	t.Render()
	return nil
}

// loadRows reads newline-separated DNA sequences from path and encodes
// each with the codec matching width.
func loadRows(path string, width int) ([]host.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var c codec.Codec
	switch width {
	case 2:
		c = codec.NewDNA2()
	case 4:
		c = codec.NewDNA4()
	default:
		return nil, fmt.Errorf("unsupported width %d (must be 2 or 4)", width)
	}

	var rows []host.Row
	scanner := bufio.NewScanner(f)
	var rowID int64
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		enc, err := c.Encode([]byte(line))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", rowID+1, err)
		}
		rows = append(rows, host.Row{RowID: rowID, Value: enc.Packed, Width: width, BitLen: enc.BitLen})
		rowID++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}
