// Command kmeranalyze is the operator CLI for the coreseq k-mer index:
// run the high-frequency analyzer against a column of sequences, query
// an encoded row against a query string, and load/unload the
// cross-process high-frequency cache file. spec.md §6 describes this surface
// conceptually ("Operator surface (conceptual)"); this command gives it
// a concrete shape in the style of the teacher pack's own
// cobra-based CLI (1ph-sim_reader/cmd).
package main

import "github.com/coreseq/coreseq/cmd/kmeranalyze/cmd"

func main() {
	cmd.Execute()
}
