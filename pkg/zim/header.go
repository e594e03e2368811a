package zim

import "fmt"

// magicNumber is the little-endian ZIM archive signature, 72173914
// decimal. spec.md writes this as 0x044D155A, which does not actually equal
// 72173914 (0x044D495A does) — the decimal value and the teacher's own
// ZimMagicNumber constant agree, so it is used here as the resolution of
// that typo (see DESIGN.md).
const magicNumber uint32 = 72173914

// header is the fixed 80-byte region at the start of a ZIM file, with
// fields at the byte offsets spec.md §4.2 specifies. MainPage/LayoutPage
// are real ZIM fields the distilled spec omits; they are read but unused
// here.
type header struct {
	Magic         uint32
	MajorVersion  uint16
	MinorVersion  uint16
	UUID          [16]byte
	ArticleCount  uint32
	ClusterCount  uint32
	URLPtrPos     uint64
	TitlePtrPos   uint64
	ClusterPtrPos uint64
	MimeListPos   uint64
	MainPage      uint32
	LayoutPage    uint32
	ChecksumPos   uint64
}

func readHeader(r *BinaryReader) (header, error) {
	var h header
	if err := r.Seek(0); err != nil {
		return h, err
	}

	magic, err := r.ReadU32LE()
	if err != nil {
		return h, err
	}
	if magic != magicNumber {
		return h, fmt.Errorf("%w: bad magic %#x", ErrInvalidFormat, magic)
	}
	h.Magic = magic

	if h.MajorVersion, err = r.ReadU16LE(); err != nil {
		return h, err
	}
	if h.MinorVersion, err = r.ReadU16LE(); err != nil {
		return h, err
	}
	uuid, err := r.Read(16)
	if err != nil {
		return h, err
	}
	copy(h.UUID[:], uuid)

	if h.ArticleCount, err = r.ReadU32LE(); err != nil {
		return h, err
	}
	if h.ClusterCount, err = r.ReadU32LE(); err != nil {
		return h, err
	}
	if h.URLPtrPos, err = r.ReadU64LE(); err != nil {
		return h, err
	}
	if h.TitlePtrPos, err = r.ReadU64LE(); err != nil {
		return h, err
	}
	if h.ClusterPtrPos, err = r.ReadU64LE(); err != nil {
		return h, err
	}
	if h.MimeListPos, err = r.ReadU64LE(); err != nil {
		return h, err
	}
	if h.MainPage, err = r.ReadU32LE(); err != nil {
		return h, err
	}
	if h.LayoutPage, err = r.ReadU32LE(); err != nil {
		return h, err
	}
	if h.ChecksumPos, err = r.ReadU64LE(); err != nil {
		return h, err
	}
	return h, nil
}

func readMimeTypes(r *BinaryReader, h header) ([]string, error) {
	if err := r.Seek(int64(h.MimeListPos)); err != nil {
		return nil, err
	}
	var mimeTypes []string
	for {
		s, err := r.ReadCString()
		if err != nil {
			return nil, err
		}
		if s == "" {
			break
		}
		mimeTypes = append(mimeTypes, s)
	}
	return mimeTypes, nil
}
