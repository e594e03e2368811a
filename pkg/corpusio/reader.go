package corpusio

import (
	"bufio"
	"io"

	"github.com/klauspost/compress/gzip"
)

// gzipMagic is the two leading bytes of every gzip (and therefore every
// dictzip, since dictzip is a conformant gzip file) stream.
var gzipMagic = []byte{0x1f, 0x8b}

// NewReader peeks at r's first two bytes and transparently unwraps a gzip
// or dictzip stream; plain text passes through unchanged. Either way the
// returned reader needs no explicit Close.
func NewReader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(2)
	if err != nil {
		if err == io.EOF {
			return br, nil
		}
		return nil, err
	}
	if head[0] == gzipMagic[0] && head[1] == gzipMagic[1] {
		return gzip.NewReader(br)
	}
	return br, nil
}
