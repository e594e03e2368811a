package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wikixtract/zimcorpus/pkg/corpusio"
	"github.com/wikixtract/zimcorpus/pkg/textclean"
)

var (
	tokenizeMinTokens int
	tokenizeDictzip   bool
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <text-in> <text-out>",
	Short: "Tokenize each line of text and drop short lines",
	Long: `Tokenize reads one paragraph per line, splits it into simplified tokens,
re-joins them with single spaces, and drops any line producing fewer than
--min-tokens tokens.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runTokenize(args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(tokenizeCmd)
	tokenizeCmd.Flags().IntVar(&tokenizeMinTokens, "min-tokens", 10, "drop lines producing fewer than this many tokens")
	tokenizeCmd.Flags().BoolVar(&tokenizeDictzip, "dictzip", false, "write output as dictzip instead of plain gzip")
}

func runTokenize(inPath, outPath string) {
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

	dst, err := corpusio.NewWriter(out, tokenizeDictzip)
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
		tokens := textclean.TokenizeSimplified(scanner.Text())
		if len(tokens) < tokenizeMinTokens {
			dropped++
			continue
		}
		if _, err := bw.WriteString(strings.Join(tokens, " ")); err != nil {
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

	fmt.Printf("Tokenized %s -> %s (%d lines kept, %d dropped below %d tokens)\n",
		inPath, outPath, kept, dropped, tokenizeMinTokens)
}
