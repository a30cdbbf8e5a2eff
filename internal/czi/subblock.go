// subblock.go parses the subblock directory and reads subblock payloads.
//
// Directory entries use the "DV" schema: fixed fields followed by a list
// of dimension entries, one per dimension the subblock extends over. The
// subblock segment itself repeats the directory entry and pads the header
// to at least 256 bytes before the pixel payload.
package czi

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/zstd"

	"github.com/hiraku-ota/czarr/internal/zarr"
)

// Pixel type codes from the ZISRAW specification.
const (
	pixelGray8       = 0
	pixelGray16      = 1
	pixelGray32Float = 2
)

// Compression codes from the ZISRAW specification.
const (
	compressionNone = 0
	compressionZstd = 5
)

// dimensionEntrySize is the on-disk size of one dimension entry.
const dimensionEntrySize = 20

// minSubBlockHeader is the minimum offset of the metadata/payload region
// within a subblock segment's data.
const minSubBlockHeader = 256

// DimensionEntry describes a subblock's extent along one dimension.
type DimensionEntry struct {
	// Dimension is the single-letter dimension id ("X", "Y", "C", "Z",
	// "T", "S", ...).
	Dimension string

	// Start is the dimension start coordinate in the global pixel space.
	Start int

	// Size is the logical extent along the dimension.
	Size int

	// StoredSize is the stored extent (differs from Size only for
	// pyramid subblocks, which this reader does not consume).
	StoredSize int
}

// SubBlock is one subblock directory entry.
type SubBlock struct {
	// PixelType is the ZISRAW pixel type code.
	PixelType int

	// FilePosition is the absolute file offset of the subblock segment.
	FilePosition int64

	// Compression is the ZISRAW compression code.
	Compression int

	// Dimensions lists the subblock's dimension entries in storage order.
	Dimensions []DimensionEntry
}

// Dim returns the dimension entry with the given id, or a zero entry with
// ok=false when the subblock has no such dimension.
func (sb *SubBlock) Dim(id string) (DimensionEntry, bool) {
	for _, d := range sb.Dimensions {
		if d.Dimension == id {
			return d, true
		}
	}
	return DimensionEntry{}, false
}

// dimStart returns the start coordinate of the given dimension, or 0 when
// the subblock does not extend over it.
func (sb *SubBlock) dimStart(id string) int {
	if d, ok := sb.Dim(id); ok {
		return d.Start
	}
	return 0
}

// DType maps the subblock's pixel type to the output element type.
func (sb *SubBlock) DType() (zarr.DType, error) {
	switch sb.PixelType {
	case pixelGray8:
		return zarr.Uint8, nil
	case pixelGray16:
		return zarr.Uint16, nil
	case pixelGray32Float:
		return zarr.Float32, nil
	}
	return "", fmt.Errorf("%w: pixel type code %d", ErrUnsupportedPixelType, sb.PixelType)
}

// parseDirectory parses the ZISRAWDIRECTORY segment data into subblock
// entries.
func parseDirectory(data []byte) ([]*SubBlock, error) {
	if len(data) < 128 {
		return nil, fmt.Errorf("%w: directory segment of %d bytes", ErrTruncated, len(data))
	}
	count := int(int32(binary.LittleEndian.Uint32(data[0:4])))
	if count < 0 {
		return nil, fmt.Errorf("%w: negative entry count", ErrTruncated)
	}

	// 124 reserved bytes follow the entry count.
	offset := 128
	entries := make([]*SubBlock, 0, count)
	for i := 0; i < count; i++ {
		entry, n, err := parseDirectoryEntry(data[offset:])
		if err != nil {
			return nil, fmt.Errorf("directory entry %d: %w", i, err)
		}
		entries = append(entries, entry)
		offset += n
	}
	return entries, nil
}

// parseDirectoryEntry parses one DV directory entry and returns it along
// with its on-disk size.
func parseDirectoryEntry(data []byte) (*SubBlock, int, error) {
	if len(data) < 32 {
		return nil, 0, fmt.Errorf("%w: %d bytes left for entry header", ErrTruncated, len(data))
	}
	if string(data[0:2]) != "DV" {
		return nil, 0, fmt.Errorf("unsupported directory entry schema %q", string(data[0:2]))
	}

	sb := &SubBlock{
		PixelType:    int(int32(binary.LittleEndian.Uint32(data[2:6]))),
		FilePosition: int64(binary.LittleEndian.Uint64(data[6:14])),
		Compression:  int(int32(binary.LittleEndian.Uint32(data[18:22]))),
		// data[22] pyramid type, data[23:28] spare
	}
	dimCount := int(int32(binary.LittleEndian.Uint32(data[28:32])))
	if dimCount < 0 || 32+dimCount*dimensionEntrySize > len(data) {
		return nil, 0, fmt.Errorf("%w: %d dimension entries", ErrTruncated, dimCount)
	}

	for i := 0; i < dimCount; i++ {
		d := data[32+i*dimensionEntrySize:]
		sb.Dimensions = append(sb.Dimensions, DimensionEntry{
			Dimension:  trimNul(string(d[0:4])),
			Start:      int(int32(binary.LittleEndian.Uint32(d[4:8]))),
			Size:       int(int32(binary.LittleEndian.Uint32(d[8:12]))),
			StoredSize: int(int32(binary.LittleEndian.Uint32(d[16:20]))),
		})
	}

	return sb, 32 + dimCount*dimensionEntrySize, nil
}

// entrySize returns the on-disk size of the subblock's directory entry.
func (sb *SubBlock) entrySize() int {
	return 32 + len(sb.Dimensions)*dimensionEntrySize
}

// readPayload reads and decompresses the subblock's pixel payload.
//
// The subblock segment data starts with three size fields (metadata,
// attachment, data), repeats the directory entry, and pads the header to
// at least 256 bytes. The XML metadata block precedes the pixel data.
func (sb *SubBlock) readPayload(r io.ReaderAt) ([]byte, error) {
	h, err := expectSegment(r, sb.FilePosition, segmentSubBlock)
	if err != nil {
		return nil, err
	}

	dataStart := sb.FilePosition + segmentHeaderSize

	var sizes [16]byte
	if _, err := r.ReadAt(sizes[:], dataStart); err != nil {
		return nil, fmt.Errorf("%w: subblock sizes at %d: %v", ErrTruncated, dataStart, err)
	}
	metadataSize := int64(int32(binary.LittleEndian.Uint32(sizes[0:4])))
	dataSize := int64(binary.LittleEndian.Uint64(sizes[8:16]))
	if metadataSize < 0 || dataSize < 0 {
		return nil, fmt.Errorf("%w: negative subblock sizes", ErrTruncated)
	}

	headerSize := int64(16 + sb.entrySize())
	if headerSize < minSubBlockHeader {
		headerSize = minSubBlockHeader
	}
	payloadOffset := headerSize + metadataSize
	if payloadOffset+dataSize > h.dataSize() {
		return nil, fmt.Errorf("%w: payload of %d bytes at offset %d exceeds segment size %d",
			ErrTruncated, dataSize, payloadOffset, h.dataSize())
	}

	payload := make([]byte, dataSize)
	if _, err := r.ReadAt(payload, dataStart+payloadOffset); err != nil {
		return nil, fmt.Errorf("%w: subblock payload: %v", ErrTruncated, err)
	}

	switch sb.Compression {
	case compressionNone:
		return payload, nil
	case compressionZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("initializing zstd: %w", err)
		}
		defer dec.Close()
		out, err := dec.DecodeAll(payload, nil)
		if err != nil {
			return nil, fmt.Errorf("decompressing subblock: %w", err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: compression code %d", ErrUnsupportedCompression, sb.Compression)
}

// plane converts the subblock payload into a (Y, X) array of the
// subblock's dtype. The stored byte count must match exactly.
func (sb *SubBlock) plane(r io.ReaderAt) (*zarr.Array, error) {
	dtype, err := sb.DType()
	if err != nil {
		return nil, err
	}
	ydim, ok := sb.Dim("Y")
	if !ok {
		return nil, fmt.Errorf("subblock at %d has no Y dimension", sb.FilePosition)
	}
	xdim, ok := sb.Dim("X")
	if !ok {
		return nil, fmt.Errorf("subblock at %d has no X dimension", sb.FilePosition)
	}

	payload, err := sb.readPayload(r)
	if err != nil {
		return nil, err
	}

	want := ydim.Size * xdim.Size * dtype.ItemSize()
	if len(payload) != want {
		return nil, fmt.Errorf("%w: subblock payload is %d bytes, want %d (%dx%d %s)",
			ErrTruncated, len(payload), want, ydim.Size, xdim.Size, dtype)
	}

	return &zarr.Array{
		DType: dtype,
		Shape: []int{ydim.Size, xdim.Size},
		Data:  payload,
	}, nil
}

// trimNul strips trailing NUL padding from fixed-width ASCII fields.
func trimNul(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			return s[:i]
		}
	}
	return s
}

// sceneBounds computes the bounding box of the given subblocks in Y/X
// pixel space. Plate scenes carry absolute stage-aligned pixel origins, so
// planes are placed relative to this box.
func sceneBounds(blocks []*SubBlock) (y0, x0, height, width int) {
	y0, x0 = math.MaxInt, math.MaxInt
	y1, x1 := math.MinInt, math.MinInt
	for _, sb := range blocks {
		yd, _ := sb.Dim("Y")
		xd, _ := sb.Dim("X")
		if yd.Start < y0 {
			y0 = yd.Start
		}
		if xd.Start < x0 {
			x0 = xd.Start
		}
		if yd.Start+yd.Size > y1 {
			y1 = yd.Start + yd.Size
		}
		if xd.Start+xd.Size > x1 {
			x1 = xd.Start + xd.Size
		}
	}
	return y0, x0, y1 - y0, x1 - x0
}
