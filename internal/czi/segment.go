// segment.go reads the ZISRAW segment framing: every top-level structure
// in a CZI file is a segment with a fixed 32-byte header.
package czi

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"
)

// Segment ids. Ids are ASCII, null-padded to 16 bytes on disk.
const (
	segmentFile      = "ZISRAWFILE"
	segmentMetadata  = "ZISRAWMETADATA"
	segmentDirectory = "ZISRAWDIRECTORY"
	segmentSubBlock  = "ZISRAWSUBBLOCK"
)

// segmentHeaderSize is the fixed size of a segment header on disk.
const segmentHeaderSize = 32

// segmentHeader is the 32-byte header preceding every segment's data.
type segmentHeader struct {
	// ID is the trimmed ASCII segment id (e.g., "ZISRAWFILE").
	ID string

	// AllocatedSize is the on-disk size reserved for the segment data.
	AllocatedSize int64

	// UsedSize is the size of the meaningful portion of the segment data.
	// Zero means the whole allocated size is used.
	UsedSize int64
}

// readSegmentHeader reads the segment header at the given file offset.
func readSegmentHeader(r io.ReaderAt, offset int64) (*segmentHeader, error) {
	buf := make([]byte, segmentHeaderSize)
	if _, err := r.ReadAt(buf, offset); err != nil {
		return nil, fmt.Errorf("%w: segment header at %d: %v", ErrTruncated, offset, err)
	}

	h := &segmentHeader{
		ID:            strings.TrimRight(string(buf[:16]), "\x00"),
		AllocatedSize: int64(binary.LittleEndian.Uint64(buf[16:24])),
		UsedSize:      int64(binary.LittleEndian.Uint64(buf[24:32])),
	}
	if h.AllocatedSize < 0 || h.UsedSize < 0 || h.UsedSize > h.AllocatedSize {
		return nil, fmt.Errorf("%w: segment at %d has sizes allocated=%d used=%d",
			ErrTruncated, offset, h.AllocatedSize, h.UsedSize)
	}
	return h, nil
}

// expectSegment reads the segment header at offset and verifies its id.
func expectSegment(r io.ReaderAt, offset int64, id string) (*segmentHeader, error) {
	h, err := readSegmentHeader(r, offset)
	if err != nil {
		return nil, err
	}
	if h.ID != id {
		return nil, fmt.Errorf("expected %s segment at %d, found %q", id, offset, h.ID)
	}
	return h, nil
}

// dataSize returns the size of the segment's meaningful data.
func (h *segmentHeader) dataSize() int64 {
	if h.UsedSize > 0 {
		return h.UsedSize
	}
	return h.AllocatedSize
}
