package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "zimcorpus",
	Short: "zimcorpus - turn a Wikipedia ZIM dump into a plain-text NLP corpus",
	Long: `zimcorpus extracts an offline Wikipedia snapshot distributed in the ZIM
container format into a structured, compressed corpus of plain-text
articles suitable for downstream natural-language processing.

It runs as a three-stage pipeline: extract (ZIM -> gzipped semantic XML),
convert (semantic XML -> one paragraph per line of text), and normalize or
tokenize (fold Unicode to a restricted alphabet and optionally tokenize).`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
