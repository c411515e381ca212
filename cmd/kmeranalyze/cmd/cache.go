package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coreseq/coreseq/cache"
)

var cachePath string

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the cross-process high-frequency k-mer cache",
}

var cacheLoadCmd = &cobra.Command{
	Use:   "load HIGHFREQ_FILE",
	Short: "Populate the shared cache from a file of high-frequency k-mer integers",
	Long: `load reads one canonical k-mer integer and its row count per line
(space-separated) from HIGHFREQ_FILE and writes them into the
cross-process shared cache at --cache-path (spec.md §4.5's second
tier), so that every coreseq-linked process on this host can query it
without repeating the analyzer run.`,
	Args: cobra.ExactArgs(1),
	RunE: runCacheLoad,
}

var cacheUnloadCmd = &cobra.Command{
	Use:   "unload",
	Short: "Remove the shared cache file at --cache-path",
	RunE:  runCacheUnload,
}

func init() {
	cacheCmd.PersistentFlags().StringVar(&cachePath, "cache-path", "kmeranalyze.cache", "path to the shared cache file")
	cacheCmd.AddCommand(cacheLoadCmd)
	cacheCmd.AddCommand(cacheUnloadCmd)
}

func runCacheLoad(c *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("kmeranalyze: %w", err)
	}
	defer f.Close()

	type entry struct {
		kmer  uint64
		count int64
	}
	var entries []entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return fmt.Errorf("kmeranalyze: malformed line %q, want \"<kmer> <count>\"", line)
		}
		kmer, err := strconv.ParseUint(fields[0], 10, 64)
		if err != nil {
			return fmt.Errorf("kmeranalyze: %w", err)
		}
		count, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return fmt.Errorf("kmeranalyze: %w", err)
		}
		entries = append(entries, entry{kmer: kmer, count: count})
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	sc, err := cache.OpenSharedCache(cachePath, len(entries))
	if err != nil {
		return fmt.Errorf("kmeranalyze: %w", err)
	}
	defer sc.Close()

	for _, e := range entries {
		if err := sc.Set(e.kmer, e.count); err != nil {
			return fmt.Errorf("kmeranalyze: %w", err)
		}
	}
	fmt.Printf("loaded %d high-frequency k-mers into %s\n", len(entries), cachePath)
	return nil
}

func runCacheUnload(c *cobra.Command, args []string) error {
	if err := os.Remove(cachePath); err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("%s already absent\n", cachePath)
			return nil
		}
		return fmt.Errorf("kmeranalyze: %w", err)
	}
	fmt.Printf("removed %s\n", cachePath)
	return nil
}
