package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/wikixtract/zimcorpus/pkg/convert"
	"github.com/wikixtract/zimcorpus/pkg/corpusio"
)

var convertDictzip bool

var convertCmd = &cobra.Command{
	Use:   "convert <gz-xml-input> <text-output>",
	Short: "Convert gzipped semantic XML into one paragraph per line of text",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runConvert(args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().BoolVar(&convertDictzip, "dictzip", false, "write output as dictzip instead of plain gzip")
}

func runConvert(inPath, outPath string) {
	in, err := os.Open(inPath)
	if err != nil {
		log.Fatalf("opening %s: %v", inPath, err)
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		log.Fatalf("creating %s: %v", outPath, err)
	}
	defer out.Close()

	gw, err := corpusio.NewWriter(out, convertDictzip)
	if err != nil {
		log.Fatalf("opening compressed writer: %v", err)
	}
	defer gw.Close()

	if err := convert.ToPlainText(in, gw); err != nil {
		log.Fatalf("converting %s: %v", inPath, err)
	}
	fmt.Printf("Converted %s -> %s\n", inPath, outPath)
}
