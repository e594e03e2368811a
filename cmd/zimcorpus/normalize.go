package main

import (
	"bufio"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/wikixtract/zimcorpus/pkg/corpusio"
	"github.com/wikixtract/zimcorpus/pkg/textclean"
)

var (
	normalizeMinLength int
	normalizeDictzip   bool
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <text-in> <text-out>",
	Short: "Fold each line of text to the normalized ASCII-like alphabet",
	Long: `Normalize reads one paragraph per line, folds it through the Unicode
normalization table, and drops any line shorter than --min-length
characters after folding.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runNormalize(args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
	normalizeCmd.Flags().IntVar(&normalizeMinLength, "min-length", 100, "drop normalized lines shorter than this many characters")
	normalizeCmd.Flags().BoolVar(&normalizeDictzip, "dictzip", false, "write output as dictzip instead of plain gzip")
}

func runNormalize(inPath, outPath string) {
	in, err := os.Open(inPath)
	if err != nil {
		log.Fatalf("opening %s: %v", inPath, err)
	}
	defer in.Close()

	src, err := corpusio.NewReader(in)
	if err != nil {
		log.Fatalf("opening %s: %v", inPath, err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		log.Fatalf("creating %s: %v", outPath, err)
	}
	defer out.Close()

	dst, err := corpusio.NewWriter(out, normalizeDictzip)
	if err != nil {
		log.Fatalf("opening compressed writer: %v", err)
	}
	defer dst.Close()

	bw := bufio.NewWriter(dst)
	defer bw.Flush()

	kept, dropped := 0, 0
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		normalized := textclean.Normalize(scanner.Text())
		if len(normalized) < normalizeMinLength {
			dropped++
			continue
		}
		if _, err := bw.WriteString(normalized); err != nil {
			log.Fatalf("writing output: %v", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			log.Fatalf("writing output: %v", err)
		}
		kept++
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("reading %s: %v", inPath, err)
	}

	fmt.Printf("Normalized %s -> %s (%d lines kept, %d dropped below %d chars)\n",
		inPath, outPath, kept, dropped, normalizeMinLength)
}
