package zim

import (
	"fmt"
	"sort"
)

const (
	mimeRedirect = 0xFFFF
	mimeSkipA    = 0xFFFE
	mimeSkipB    = 0xFFFD
	articleNS    = 'A'
)

// Redirect is a retained redirect directory entry.
type Redirect struct {
	URL      string
	Title    string
	TargetID uint32 // position in the sorted pointer array the entry targets
}

// ArticleRef locates one article's HTML body inside a cluster.
type ArticleRef struct {
	URL         string
	Title       string
	ClusterIdx  uint32
	BlobIdx     uint32
}

// directoryEntry is one parsed record from the URL-pointer array, before
// classification.
type directoryEntry struct {
	mimeType   uint16
	namespace  byte
	isRedirect bool
	redirectID uint32
	clusterIdx uint32
	blobIdx    uint32
	url        string
	title      string
}

func readDirectoryEntry(r *BinaryReader, mimeTypes []string) (directoryEntry, bool, error) {
	var e directoryEntry

	mt, err := r.ReadU16LE()
	if err != nil {
		return e, false, err
	}
	e.mimeType = mt

	if mt == mimeSkipA || mt == mimeSkipB {
		return e, false, nil
	}
	e.isRedirect = mt == mimeRedirect

	if _, err := r.ReadU8(); err != nil { // parameter length, unused
		return e, false, err
	}
	ns, err := r.ReadU8()
	if err != nil {
		return e, false, err
	}
	e.namespace = ns

	if _, err := r.ReadU32LE(); err != nil { // revision, unused
		return e, false, err
	}

	if e.isRedirect {
		if e.redirectID, err = r.ReadU32LE(); err != nil {
			return e, false, err
		}
	} else {
		if e.clusterIdx, err = r.ReadU32LE(); err != nil {
			return e, false, err
		}
		if e.blobIdx, err = r.ReadU32LE(); err != nil {
			return e, false, err
		}
	}

	if e.url, err = r.ReadCString(); err != nil {
		return e, false, err
	}
	if e.title, err = r.ReadCString(); err != nil {
		return e, false, err
	}
	if e.title == "" {
		e.title = e.url
	}

	return e, true, nil
}

// Scan reads the header, MIME-type list and URL-pointer array, then walks
// every directory entry and classifies it as article, redirect, or skip.
//
// Per spec.md §4.2, the pointer array is sorted ascending before the walk
// (for sequential file access), and the directory_index used both as the
// loop position and as the key for every retained entry's URL is the
// position within that *sorted* array — including for resolving a
// redirect's raw target field. This reproduces the reference Python
// implementation's behavior (extract.py: "directory_offsets =
// numpy.sort(...)" followed by "directory_urls[redirect_index]" against the
// same loop index) rather than re-deriving the ZIM spec's own url-ordered
// numbering, since spec.md directs exactly this.
func Scan(r *BinaryReader, h header, mimeTypes []string, onProgress func(done, total int)) (redirects []Redirect, articles []ArticleRef, directoryURLs map[uint32]string, err error) {
	if err := r.Seek(int64(h.URLPtrPos)); err != nil {
		return nil, nil, nil, err
	}
	ptrs := make([]uint64, h.ArticleCount)
	for i := range ptrs {
		if ptrs[i], err = r.ReadU64LE(); err != nil {
			return nil, nil, nil, err
		}
	}
	sort.Slice(ptrs, func(i, j int) bool { return ptrs[i] < ptrs[j] })

	directoryURLs = make(map[uint32]string)
	for i, ptr := range ptrs {
		if err := r.Seek(int64(ptr)); err != nil {
			return nil, nil, nil, err
		}

		mt, err := r.ReadU16LE()
		if err != nil {
			return nil, nil, nil, err
		}
		if mt == mimeSkipA || mt == mimeSkipB {
			if onProgress != nil {
				onProgress(i+1, len(ptrs))
			}
			continue
		}
		if err := r.SeekRel(-2); err != nil {
			return nil, nil, nil, err
		}

		entry, kept, err := readDirectoryEntry(r, mimeTypes)
		if err != nil {
			return nil, nil, nil, err
		}
		if !kept || entry.namespace != articleNS {
			if onProgress != nil {
				onProgress(i+1, len(ptrs))
			}
			continue
		}

		if !entry.isRedirect {
			mimeStr := ""
			if int(entry.mimeType) < len(mimeTypes) {
				mimeStr = mimeTypes[entry.mimeType]
			}
			if mimeStr != "text/html" {
				if onProgress != nil {
					onProgress(i+1, len(ptrs))
				}
				continue
			}
		}

		directoryURLs[uint32(i)] = entry.url
		if entry.isRedirect {
			redirects = append(redirects, Redirect{URL: entry.url, Title: entry.title, TargetID: entry.redirectID})
		} else {
			articles = append(articles, ArticleRef{
				URL:        entry.url,
				Title:      entry.title,
				ClusterIdx: entry.clusterIdx,
				BlobIdx:    entry.blobIdx,
			})
		}

		if onProgress != nil {
			onProgress(i+1, len(ptrs))
		}
	}

	return redirects, articles, directoryURLs, nil
}

// ResolveRedirectTarget looks up the URL a redirect points to, given the
// directory_index → url mapping produced by Scan.
func ResolveRedirectTarget(directoryURLs map[uint32]string, target uint32) (string, error) {
	url, ok := directoryURLs[target]
	if !ok {
		return "", fmt.Errorf("%w: redirect target %d not found", ErrInvalidFormat, target)
	}
	return url, nil
}
