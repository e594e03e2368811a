// Package zim implements a read-only parser for the ZIM archive format:
// fixed header, MIME-type list, URL-pointer directory, and LZMA-compressed
// clusters of article blobs.
package zim

import (
	"fmt"
	"os"
)

// DefaultClusterCacheSize bounds how many decompressed clusters Reader
// keeps resident at once.
const DefaultClusterCacheSize = 64

// Reader is a parsed ZIM archive, ready to enumerate articles and
// redirects and to fetch article bodies.
type Reader struct {
	br      *BinaryReader
	h       header
	mime    []string
	cluster *ClusterStore

	Redirects     []Redirect
	Articles      []ArticleRef
	DirectoryURLs map[uint32]string
}

// Open parses path as a ZIM archive: header, MIME list, directory and
// cluster-pointer array. onProgress, if non-nil, is called after each
// directory entry is classified.
func Open(path string, onProgress func(done, total int)) (*Reader, error) {
	br, err := NewBinaryReader(path)
	if err != nil {
		return nil, err
	}

	fi, err := os.Stat(path)
	if err != nil {
		br.Close()
		return nil, fmt.Errorf("%w: stat %s: %v", ErrIO, path, err)
	}

	h, err := readHeader(br)
	if err != nil {
		br.Close()
		return nil, err
	}
	mime, err := readMimeTypes(br, h)
	if err != nil {
		br.Close()
		return nil, err
	}

	redirects, articles, directoryURLs, err := Scan(br, h, mime, onProgress)
	if err != nil {
		br.Close()
		return nil, err
	}

	cluster, err := NewClusterStore(br, h, fi.Size(), DefaultClusterCacheSize)
	if err != nil {
		br.Close()
		return nil, err
	}

	return &Reader{
		br:            br,
		h:             h,
		mime:          mime,
		cluster:       cluster,
		Redirects:     redirects,
		Articles:      articles,
		DirectoryURLs: directoryURLs,
	}, nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	return r.br.Close()
}

// ArticleCount returns the header's declared article count (includes
// redirects and non-article namespaces; not the same as len(r.Articles)).
func (r *Reader) ArticleCount() uint32 {
	return r.h.ArticleCount
}

// ClusterCount returns the header's declared cluster count.
func (r *Reader) ClusterCount() uint32 {
	return r.h.ClusterCount
}

// ArticleHTML returns the raw HTML body for one article reference. Safe to
// call concurrently across goroutines sharing this Reader.
func (r *Reader) ArticleHTML(ref ArticleRef) ([]byte, error) {
	return r.cluster.Blob(ref.ClusterIdx, ref.BlobIdx)
}

// ClusterOffset returns the absolute file offset of cluster idx.
func (r *Reader) ClusterOffset(idx uint32) uint64 {
	return r.cluster.ClusterOffset(idx)
}

// SetClusterCacheMetrics wires hit/miss counters into the underlying
// cluster cache; either may be nil.
func (r *Reader) SetClusterCacheMetrics(hits, misses Counter) {
	r.cluster.SetCacheMetrics(hits, misses)
}

// ResolveRedirect returns the URL a redirect ultimately targets.
func (r *Reader) ResolveRedirect(rd Redirect) (string, error) {
	return ResolveRedirectTarget(r.DirectoryURLs, rd.TargetID)
}
