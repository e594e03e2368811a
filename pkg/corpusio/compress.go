// Package corpusio picks the compressed writer a pipeline stage streams its
// output through. Every stage writes gzip by default; --dictzip swaps in
// the random-access dictzip variant instead, since both satisfy the same
// io.WriteCloser shape and a dictzip file is itself a valid gzip file.
package corpusio

import (
	"io"

	"github.com/ianlewis/go-dictzip"
	"github.com/klauspost/compress/gzip"
)

// NewWriter wraps w in a gzip writer, or a dictzip writer when useDictzip is
// set. Callers must Close the returned writer to flush the final block and
// trailer.
func NewWriter(w io.Writer, useDictzip bool) (io.WriteCloser, error) {
	if useDictzip {
		return dictzip.NewWriter(w)
	}
	return gzip.NewWriter(w), nil
}
