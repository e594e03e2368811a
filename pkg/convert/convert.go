// Package convert implements the trivial streaming stage that turns the
// gzipped semantic XML produced by the extractor into plain text: one
// paragraph per output line.
package convert

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// ToPlainText reads gzip-compressed XML with a <wikipedia> root from r and
// writes one line per <p> element's concatenated text content to w. It
// streams via a token decoder so memory use stays bounded to a single
// element's text regardless of corpus size, the same shape as the
// reference implementation's iterparse-based walk.
func ToPlainText(r io.Reader, w io.Writer) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("convert: opening gzip stream: %w", err)
	}
	defer gz.Close()

	bw := bufio.NewWriter(w)
	defer bw.Flush()

	dec := xml.NewDecoder(gz)
	var textBuf []byte
	inP := false
	depth := 0

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("convert: decoding xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "wikipedia" {
				continue
			}
			if t.Name.Local == "p" {
				inP = true
				depth = 0
				textBuf = textBuf[:0]
			} else if inP {
				depth++
			}
		case xml.CharData:
			if inP {
				textBuf = append(textBuf, t...)
			}
		case xml.EndElement:
			if t.Name.Local == "p" {
				if inP && depth == 0 {
					if _, err := bw.Write(textBuf); err != nil {
						return err
					}
					if err := bw.WriteByte('\n'); err != nil {
						return err
					}
					inP = false
				} else if depth > 0 {
					depth--
				}
			} else if inP && t.Name.Local != "p" {
				if depth > 0 {
					depth--
				}
			}
		}
	}
	return bw.Flush()
}
