package zim

import "errors"

// Error kinds returned by the reader and directory scanner. Callers should
// use errors.Is against these sentinels rather than matching strings.
var (
	// ErrInvalidFormat marks a structural problem with the archive itself:
	// bad magic, an out-of-range cluster or blob index, a malformed blob
	// offset table. Reads that run past EOF are reported as ErrIO.
	ErrInvalidFormat = errors.New("zim: invalid format")

	// ErrIO marks a failure of the underlying file handle.
	ErrIO = errors.New("zim: io error")

	// ErrDecode marks a byte sequence that was required to be UTF-8 but
	// was not.
	ErrDecode = errors.New("zim: decode error")

	// ErrUnsupported marks a recognized-but-unhandled feature, such as a
	// cluster compression byte other than "uncompressed" or "LZMA".
	ErrUnsupported = errors.New("zim: unsupported")
)
