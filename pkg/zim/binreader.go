package zim

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// BinaryReader is a random-access little-endian byte reader over a ZIM
// file. It is the leaf component of the stack: everything else in this
// package is built on its seek/read primitives, mirroring the way the
// teacher's ZIMReader wrapped raw binary.Read calls directly but pulled out
// into a standalone, reusable type.
type BinaryReader struct {
	file *os.File
}

// NewBinaryReader opens path for random-access reading.
func NewBinaryReader(path string) (*BinaryReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrIO, path, err)
	}
	return &BinaryReader{file: f}, nil
}

// Close releases the underlying file handle.
func (r *BinaryReader) Close() error {
	return r.file.Close()
}

// Seek moves the read cursor to an absolute offset.
func (r *BinaryReader) Seek(pos int64) error {
	if _, err := r.file.Seek(pos, io.SeekStart); err != nil {
		return fmt.Errorf("%w: seek %d: %v", ErrIO, pos, err)
	}
	return nil
}

// SeekRel moves the read cursor by a relative offset from its current
// position.
func (r *BinaryReader) SeekRel(delta int64) error {
	if _, err := r.file.Seek(delta, io.SeekCurrent); err != nil {
		return fmt.Errorf("%w: seek relative %d: %v", ErrIO, delta, err)
	}
	return nil
}

// Read returns the next n bytes, failing with ErrIO on a short read. It
// shares the file's single seek cursor with Seek/SeekRel, so callers that
// might run concurrently with other readers of this BinaryReader must use
// ReadAt instead.
func (r *BinaryReader) Read(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.file, buf); err != nil {
		return nil, fmt.Errorf("%w: read %d bytes: %v", ErrIO, n, err)
	}
	return buf, nil
}

// ReadAt reads n bytes starting at the absolute offset pos without moving
// the shared seek cursor, via the OS's pread: unlike Seek+Read, concurrent
// callers can safely issue overlapping ReadAt calls on the same file.
func (r *BinaryReader) ReadAt(pos int64, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(io.NewSectionReader(r.file, pos, int64(n)), buf); err != nil {
		return nil, fmt.Errorf("%w: read %d bytes at %d: %v", ErrIO, n, pos, err)
	}
	return buf, nil
}

// ReadU8 reads one byte.
func (r *BinaryReader) ReadU8() (uint8, error) {
	b, err := r.Read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16LE reads a little-endian uint16.
func (r *BinaryReader) ReadU16LE() (uint16, error) {
	b, err := r.Read(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadU32LE reads a little-endian uint32.
func (r *BinaryReader) ReadU32LE() (uint32, error) {
	b, err := r.Read(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadU64LE reads a little-endian uint64.
func (r *BinaryReader) ReadU64LE() (uint64, error) {
	b, err := r.Read(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadCString reads bytes up to (and consuming) a NUL terminator, or until
// EOF, and decodes the result as UTF-8.
func (r *BinaryReader) ReadCString() (string, error) {
	var buf bytes.Buffer
	one := make([]byte, 1)
	for {
		n, err := r.file.Read(one)
		if n == 0 || err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: read cstring: %v", ErrIO, err)
		}
		if one[0] == 0 {
			break
		}
		buf.WriteByte(one[0])
	}
	if !utf8.Valid(buf.Bytes()) {
		return "", fmt.Errorf("%w: cstring is not valid utf-8", ErrDecode)
	}
	return buf.String(), nil
}
