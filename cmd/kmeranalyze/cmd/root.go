package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/coreseq/coreseq/config"
)

var (
	version = "0.1.0"

	kmerSize       int
	occurrenceBits int
	maxRate        float64
	maxRows        int64
	minScore       int
	minSharedRate  float64
)

var rootCmd = &cobra.Command{
	Use:     "kmeranalyze",
	Short:   "k-mer index analyzer and query tool",
	Version: version,
	Long: `kmeranalyze v` + version + `
Operate coreseq's k-mer index outside of a host database: run the
high-frequency analyzer over a batch of sequences, score a query string
against a row, and manage the cross-process high-frequency cache file.`,
}

func init() {
	d := config.DefaultConfig()
	rootCmd.PersistentFlags().IntVar(&kmerSize, "k", d.KmerSize, "k-mer size")
	rootCmd.PersistentFlags().IntVar(&occurrenceBits, "b", d.OccurrenceBits, "occurrence-number bit width")
	rootCmd.PersistentFlags().Float64Var(&maxRate, "max-rate", d.MaxAppearanceRate, "high-frequency appearance-rate bound")
	rootCmd.PersistentFlags().Int64Var(&maxRows, "max-rows", d.MaxAppearanceRows, "high-frequency appearance-row bound (0 disables)")
	rootCmd.PersistentFlags().IntVar(&minScore, "min-score", d.MinScore, "s_min, minimum shared k-mer count for a match")
	rootCmd.PersistentFlags().Float64Var(&minSharedRate, "min-shared-rate", d.MinSharedRate, "r_min, minimum shared/query-total ratio for a match")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(cacheCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func resolvedConfig() config.Config {
	return config.Config{
		KmerSize:          kmerSize,
		OccurrenceBits:    occurrenceBits,
		MaxAppearanceRate: maxRate,
		MaxAppearanceRows: maxRows,
		MinScore:          minScore,
		MinSharedRate:     minSharedRate,
		PrecludeHighFreq:  false,
		AnalysisBatchSize: 10000,
	}
}
