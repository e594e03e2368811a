package zim

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/ulikunitz/xz/lzma"
)

// Counter is satisfied by prometheus.Counter; declaring it locally keeps
// this package free of a direct dependency on the metrics stack while still
// letting callers observe cache behavior.
type Counter interface {
	Inc()
}

const (
	// compressionUncompressed is the only non-LZMA value spec.md accepts;
	// the cluster body after this byte carries 3 reserved bytes before
	// the offset table begins.
	compressionUncompressed = 1
	compressionLZMA         = 4
)

// clusterInfo is a lazily-decoded cluster: its raw bytes and the blob
// offset table carved out of the start of those bytes. The whole cluster is
// decompressed in one forward pass, so blobs can then be sliced out of the
// payload in any order.
type clusterInfo struct {
	compressed byte
	blobOffs   []uint32
	payload    []byte // uncompressed cluster body, decoded on first access
}

// ClusterStore provides random access to article bodies ("blobs") stored
// inside ZIM clusters, decompressing each cluster once and caching the
// result up to a configurable number of entries — the same bounded-cache
// shape as the teacher's clusterCache, minus its zstd/zlib branches, which
// this format does not use.
type ClusterStore struct {
	r        *BinaryReader
	ptrs     []uint64
	fileSize int64

	mu       sync.Mutex
	cache    map[uint32]*clusterInfo
	order    []uint32
	capacity int

	cacheHits   Counter
	cacheMisses Counter
}

// SetCacheMetrics wires hit/miss counters into the store; either may be nil
// to skip that observation. Concurrent extraction workers share one store,
// so this reports real cache contention under --workers N.
func (s *ClusterStore) SetCacheMetrics(hits, misses Counter) {
	s.cacheHits = hits
	s.cacheMisses = misses
}

// NewClusterStore reads the cluster-pointer array and prepares a store with
// the given cache capacity (0 disables caching).
func NewClusterStore(r *BinaryReader, h header, fileSize int64, cacheCapacity int) (*ClusterStore, error) {
	if err := r.Seek(int64(h.ClusterPtrPos)); err != nil {
		return nil, err
	}
	ptrs := make([]uint64, h.ClusterCount)
	for i := range ptrs {
		p, err := r.ReadU64LE()
		if err != nil {
			return nil, err
		}
		ptrs[i] = p
	}
	return &ClusterStore{
		r:        r,
		ptrs:     ptrs,
		fileSize: fileSize,
		cache:    make(map[uint32]*clusterInfo),
		capacity: cacheCapacity,
	}, nil
}

func (s *ClusterStore) clusterEnd(idx uint32) int64 {
	if int(idx)+1 < len(s.ptrs) {
		return int64(s.ptrs[idx+1])
	}
	return s.fileSize
}

// ClusterOffset returns the absolute file offset of cluster idx, or 0 if
// idx is out of range. Article extraction order is sorted on this value,
// not on idx itself, since cluster index order and on-disk layout order
// need not coincide.
func (s *ClusterStore) ClusterOffset(idx uint32) uint64 {
	if int(idx) >= len(s.ptrs) {
		return 0
	}
	return s.ptrs[idx]
}

// load decompresses (or fetches from cache) the cluster at idx. It holds
// s.mu for the whole operation, including the file read and decompression:
// concurrent extraction workers (--workers N) all share one ClusterStore, so
// this is what keeps the cache map and LRU order list race-free.
func (s *ClusterStore) load(idx uint32) (*clusterInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.cache[idx]; ok {
		for i, o := range s.order {
			if o == idx {
				s.order = append(s.order[:i], s.order[i+1:]...)
				s.order = append(s.order, idx)
				break
			}
		}
		if s.cacheHits != nil {
			s.cacheHits.Inc()
		}
		return c, nil
	}
	if s.cacheMisses != nil {
		s.cacheMisses.Inc()
	}
	if int(idx) >= len(s.ptrs) {
		return nil, fmt.Errorf("%w: cluster index %d out of range", ErrInvalidFormat, idx)
	}

	start := int64(s.ptrs[idx])
	end := s.clusterEnd(idx)
	if end < start {
		return nil, fmt.Errorf("%w: cluster %d has negative length", ErrInvalidFormat, idx)
	}

	block, err := s.r.ReadAt(start, int(end-start))
	if err != nil {
		return nil, err
	}
	compByte := block[0]
	raw := block[1:]

	var payload []byte
	switch compByte {
	case compressionUncompressed:
		if len(raw) < 3 {
			return nil, fmt.Errorf("%w: uncompressed cluster shorter than reserved prefix", ErrInvalidFormat)
		}
		payload = raw[3:]
	case compressionLZMA:
		payload, err = decompressLZMAAlone(raw)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: cluster compression byte %d", ErrUnsupported, compByte)
	}

	blobOffs, err := readBlobOffsets(payload)
	if err != nil {
		return nil, err
	}

	c := &clusterInfo{compressed: compByte, blobOffs: blobOffs, payload: payload}
	s.put(idx, c)
	return c, nil
}

func (s *ClusterStore) put(idx uint32, c *clusterInfo) {
	if s.capacity <= 0 {
		return
	}
	if _, exists := s.cache[idx]; !exists {
		if len(s.order) >= s.capacity {
			evict := s.order[0]
			s.order = s.order[1:]
			delete(s.cache, evict)
		}
		s.order = append(s.order, idx)
	}
	s.cache[idx] = c
}

// decompressLZMAAlone decodes a "LZMA-alone" stream — the classic 13-byte
// header format (properties byte + 4-byte dictionary size + 8-byte
// uncompressed size) that lzma.open() in Python auto-detects and that ZIM
// clusters use for compression byte 4.
func decompressLZMAAlone(raw []byte) ([]byte, error) {
	lr, err := lzma.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: lzma header: %v", ErrUnsupported, err)
	}
	out, err := io.ReadAll(lr)
	if err != nil {
		return nil, fmt.Errorf("%w: lzma decode: %v", ErrUnsupported, err)
	}
	return out, nil
}

// readBlobOffsets parses the blob offset table at the start of a decoded
// cluster body: a run of little-endian u32 offsets into the same body,
// terminated implicitly by the first offset itself (blob_count =
// first_offset / 4).
func readBlobOffsets(payload []byte) ([]uint32, error) {
	if len(payload) < 4 {
		return nil, fmt.Errorf("%w: cluster body too small for offset table", ErrInvalidFormat)
	}
	first := binary.LittleEndian.Uint32(payload[0:4])
	if first%4 != 0 || first == 0 {
		return nil, fmt.Errorf("%w: malformed blob offset table", ErrInvalidFormat)
	}
	count := first / 4
	if uint64(count)*4 > uint64(len(payload)) {
		return nil, fmt.Errorf("%w: blob offset table runs past cluster body", ErrInvalidFormat)
	}
	offs := make([]uint32, count)
	for i := range offs {
		offs[i] = binary.LittleEndian.Uint32(payload[i*4 : i*4+4])
	}
	return offs, nil
}

// Blob returns the raw bytes of one blob within a cluster.
func (s *ClusterStore) Blob(clusterIdx, blobIdx uint32) ([]byte, error) {
	c, err := s.load(clusterIdx)
	if err != nil {
		return nil, err
	}
	if int(blobIdx)+1 >= len(c.blobOffs) {
		return nil, fmt.Errorf("%w: blob index %d out of range in cluster %d", ErrInvalidFormat, blobIdx, clusterIdx)
	}
	start := c.blobOffs[blobIdx]
	end := c.blobOffs[blobIdx+1]
	if end < start || int(end) > len(c.payload) {
		return nil, fmt.Errorf("%w: blob %d/%d has invalid bounds", ErrInvalidFormat, clusterIdx, blobIdx)
	}
	return c.payload[start:end], nil
}
