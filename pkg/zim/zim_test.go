package zim

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/ulikunitz/xz/lzma"
)

// buildTestZIM assembles a minimal but structurally valid ZIM file with one
// HTML article, one redirect to that article, and a single uncompressed
// cluster holding the article body.
func buildTestZIM(t *testing.T, articleBody string) string {
	t.Helper()

	var buf bytes.Buffer
	buf.Grow(512)

	// Reserve space for the 80-byte header; fill it in after we know
	// every downstream offset.
	buf.Write(make([]byte, 80))

	mimeListPos := buf.Len()
	buf.WriteString("text/html\x00")
	buf.WriteByte(0) // terminates the mime-type list

	urlPtrPos := buf.Len()
	// Two pointers (article, redirect) reserved; filled in below once we
	// know where each directory entry lands.
	ptrPos := buf.Len()
	buf.Write(make([]byte, 16))

	articleOff := buf.Len()
	writeU16(&buf, 0) // mimeType index 0 = text/html
	buf.WriteByte(0)  // param length
	buf.WriteByte('A')
	writeU32(&buf, 0) // revision
	writeU32(&buf, 0) // cluster index
	writeU32(&buf, 0) // blob index
	buf.WriteString("Main_Page\x00")
	buf.WriteByte(0) // empty title, falls back to url

	redirectOff := buf.Len()
	writeU16(&buf, 0xFFFF)
	buf.WriteByte(0)
	buf.WriteByte('A')
	writeU32(&buf, 0)
	writeU32(&buf, 0) // target = sorted-array position 0 (the article)
	buf.WriteString("Redirect_Page\x00")
	buf.WriteByte(0)

	clusterPtrPos := buf.Len()
	clusterPtrSlot := buf.Len()
	buf.Write(make([]byte, 8)) // one cluster pointer, filled in below

	clusterOff := buf.Len()
	buf.WriteByte(1) // compression: uncompressed
	buf.Write([]byte{0, 0, 0})
	offsetTableStart := buf.Len()
	blobStart := uint32(8)
	blobEnd := blobStart + uint32(len(articleBody))
	writeU32(&buf, blobStart)
	writeU32(&buf, blobEnd)
	if buf.Len() != offsetTableStart+8 {
		t.Fatalf("offset table miscomputed")
	}
	buf.WriteString(articleBody)

	out := buf.Bytes()

	binary.LittleEndian.PutUint64(out[ptrPos:], uint64(articleOff))
	binary.LittleEndian.PutUint64(out[ptrPos+8:], uint64(redirectOff))
	binary.LittleEndian.PutUint64(out[clusterPtrSlot:], uint64(clusterOff))

	// Patch the header now that every position is known.
	binary.LittleEndian.PutUint32(out[0:], magicNumber)
	binary.LittleEndian.PutUint16(out[4:], 5)                     // major version
	binary.LittleEndian.PutUint16(out[6:], 0)                     // minor version
	binary.LittleEndian.PutUint32(out[24:], 2)                    // article count (incl. redirect)
	binary.LittleEndian.PutUint32(out[28:], 1)                    // cluster count
	binary.LittleEndian.PutUint64(out[32:], uint64(urlPtrPos))     // url ptr pos
	binary.LittleEndian.PutUint64(out[40:], uint64(urlPtrPos))     // title ptr pos, unused
	binary.LittleEndian.PutUint64(out[48:], uint64(clusterPtrPos)) // cluster ptr pos
	binary.LittleEndian.PutUint64(out[56:], uint64(mimeListPos))   // mime list pos

	path := filepath.Join(t.TempDir(), "test.zim")
	if err := os.WriteFile(path, out, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func writeU16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func TestOpenAndScan(t *testing.T) {
	body := "<html><body><p>Hello</p></body></html>"
	path := buildTestZIM(t, body)

	r, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	if len(r.Articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(r.Articles))
	}
	if r.Articles[0].URL != "Main_Page" {
		t.Errorf("article url = %q, want Main_Page", r.Articles[0].URL)
	}
	if r.Articles[0].Title != "Main_Page" {
		t.Errorf("article title = %q, want fallback to url", r.Articles[0].Title)
	}

	if len(r.Redirects) != 1 {
		t.Fatalf("expected 1 redirect, got %d", len(r.Redirects))
	}
	target, err := r.ResolveRedirect(r.Redirects[0])
	if err != nil {
		t.Fatalf("ResolveRedirect: %v", err)
	}
	if target != "Main_Page" {
		t.Errorf("redirect target = %q, want Main_Page", target)
	}

	html, err := r.ArticleHTML(r.Articles[0])
	if err != nil {
		t.Fatalf("ArticleHTML: %v", err)
	}
	if string(html) != body {
		t.Errorf("article html = %q, want %q", html, body)
	}
}

func TestOpenBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.zim")
	if err := os.WriteFile(path, make([]byte, 80), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path, nil); err == nil {
		t.Fatal("expected error for bad magic, got nil")
	}
}

func TestDecompressLZMAAlone(t *testing.T) {
	want := []byte("the quick brown fox jumps over the lazy dog, repeated for compressibility, " +
		"the quick brown fox jumps over the lazy dog")

	var compressed bytes.Buffer
	w, err := lzma.NewWriter(&compressed)
	if err != nil {
		t.Fatalf("lzma.NewWriter: %v", err)
	}
	if _, err := w.Write(want); err != nil {
		t.Fatalf("lzma write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("lzma close: %v", err)
	}

	got, err := decompressLZMAAlone(compressed.Bytes())
	if err != nil {
		t.Fatalf("decompressLZMAAlone: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("decompressed mismatch:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestReadBlobOffsetsRejectsShortBody(t *testing.T) {
	if _, err := readBlobOffsets([]byte{1, 2}); err == nil {
		t.Fatal("expected error for undersized cluster body")
	}
}
