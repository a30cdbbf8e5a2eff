package czi

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hiraku-ota/czarr/internal/zarr"
)

// fileHeaderSize is the size of the ZISRAWFILE segment data we consume.
const fileHeaderSize = 80

// File represents an open CZI container.
type File struct {
	path      string
	file      *os.File
	metadata  *Metadata
	subblocks []*SubBlock
	closed    bool
}

// Open opens a CZI container, parses its file header, metadata XML, and
// subblock directory, and returns a File ready for scene reads.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}

	czi := &File{path: path, file: f}
	if err := czi.readHeader(); err != nil {
		f.Close()
		return nil, err
	}
	return czi, nil
}

// Close releases the underlying file handle.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	return f.file.Close()
}

// Path returns the path the container was opened from.
func (f *File) Path() string {
	return f.path
}

// Metadata returns the parsed container metadata.
func (f *File) Metadata() *Metadata {
	return f.metadata
}

// SubBlocks returns the parsed subblock directory entries.
func (f *File) SubBlocks() []*SubBlock {
	return f.subblocks
}

// readHeader parses the ZISRAWFILE segment and the two segments it points
// at: the metadata XML and the subblock directory.
func (f *File) readHeader() error {
	h, err := readSegmentHeader(f.file, 0)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotCZI, err)
	}
	if h.ID != segmentFile {
		return fmt.Errorf("%w: leading segment is %q", ErrNotCZI, h.ID)
	}

	buf := make([]byte, fileHeaderSize)
	if _, err := f.file.ReadAt(buf, segmentHeaderSize); err != nil {
		return fmt.Errorf("%w: file header: %v", ErrTruncated, err)
	}

	// Header layout: version (8), reserved (8), primary file GUID (16),
	// file GUID (16), file part (4), then the segment positions.
	directoryPos := int64(binary.LittleEndian.Uint64(buf[52:60]))
	metadataPos := int64(binary.LittleEndian.Uint64(buf[60:68]))

	if metadataPos > 0 {
		if err := f.readMetadata(metadataPos); err != nil {
			return err
		}
	} else {
		f.metadata = &Metadata{Filename: filepath.Base(f.path), SizeS: 1, SizeT: 1, SizeC: 1, SizeZ: 1}
	}

	if directoryPos > 0 {
		if err := f.readDirectory(directoryPos); err != nil {
			return err
		}
	}
	return nil
}

// readMetadata reads and parses the ZISRAWMETADATA segment at the given
// offset.
func (f *File) readMetadata(offset int64) error {
	if _, err := expectSegment(f.file, offset, segmentMetadata); err != nil {
		return err
	}

	// Segment data: XML size (4), attachment size (4), 248 spare bytes,
	// then the XML document.
	var sizes [8]byte
	if _, err := f.file.ReadAt(sizes[:], offset+segmentHeaderSize); err != nil {
		return fmt.Errorf("%w: metadata sizes: %v", ErrTruncated, err)
	}
	xmlSize := int(int32(binary.LittleEndian.Uint32(sizes[0:4])))
	if xmlSize <= 0 {
		return fmt.Errorf("%w: metadata XML size %d", ErrTruncated, xmlSize)
	}

	xmlData := make([]byte, xmlSize)
	if _, err := f.file.ReadAt(xmlData, offset+segmentHeaderSize+256); err != nil {
		return fmt.Errorf("%w: metadata XML: %v", ErrTruncated, err)
	}

	md, err := parseMetadataXML(xmlData, filepath.Base(f.path))
	if err != nil {
		return err
	}
	f.metadata = md
	return nil
}

// readDirectory reads and parses the ZISRAWDIRECTORY segment at the given
// offset.
func (f *File) readDirectory(offset int64) error {
	h, err := expectSegment(f.file, offset, segmentDirectory)
	if err != nil {
		return err
	}

	data := make([]byte, h.dataSize())
	if _, err := f.file.ReadAt(data, offset+segmentHeaderSize); err != nil {
		return fmt.Errorf("%w: subblock directory: %v", ErrTruncated, err)
	}

	blocks, err := parseDirectory(data)
	if err != nil {
		return err
	}
	f.subblocks = blocks
	return nil
}

// sceneBlocks returns the level-0 subblocks belonging to the given scene
// index. Containers without an S dimension expose all subblocks as scene 0.
func (f *File) sceneBlocks(sceneIndex int) []*SubBlock {
	var blocks []*SubBlock
	for _, sb := range f.subblocks {
		// Pyramid levels store fewer pixels than they cover; skip them.
		if yd, ok := sb.Dim("Y"); ok && yd.StoredSize > 0 && yd.StoredSize != yd.Size {
			continue
		}
		if sd, ok := sb.Dim("S"); ok {
			if sd.Start == sceneIndex {
				blocks = append(blocks, sb)
			}
		} else if sceneIndex == 0 {
			blocks = append(blocks, sb)
		}
	}
	return blocks
}

// ReadScene assembles the full 5D (T, C, Z, Y, X) pixel array for one
// scene from its subblocks. The Y/X extent is the bounding box of the
// scene's subblocks; T/C/Z extents come from the container metadata.
func (f *File) ReadScene(sceneIndex int) (*zarr.Array, error) {
	if f.closed {
		return nil, ErrClosed
	}

	blocks := f.sceneBlocks(sceneIndex)
	if len(blocks) == 0 {
		return nil, fmt.Errorf("%w: scene index %d", ErrSceneNotFound, sceneIndex)
	}

	dtype, err := blocks[0].DType()
	if err != nil {
		return nil, err
	}

	y0, x0, height, width := sceneBounds(blocks)
	shape := []int{f.metadata.SizeT, f.metadata.SizeC, f.metadata.SizeZ, height, width}
	scene, err := zarr.NewArray(dtype, shape)
	if err != nil {
		return nil, fmt.Errorf("allocating scene %d: %w", sceneIndex, err)
	}

	for _, sb := range blocks {
		plane, err := sb.plane(f.file)
		if err != nil {
			return nil, fmt.Errorf("scene %d: %w", sceneIndex, err)
		}

		yd, _ := sb.Dim("Y")
		xd, _ := sb.Dim("X")
		offset := []int{
			sb.dimStart("T"),
			sb.dimStart("C"),
			sb.dimStart("Z"),
			yd.Start - y0,
			xd.Start - x0,
		}

		// Lift the (Y, X) plane to 5D so SetRegion can place it.
		plane5d := &zarr.Array{
			DType: plane.DType,
			Shape: []int{1, 1, 1, plane.Shape[0], plane.Shape[1]},
			Data:  plane.Data,
		}
		if err := scene.SetRegion(offset, plane5d); err != nil {
			return nil, fmt.Errorf("scene %d: placing subblock at %d: %w",
				sceneIndex, sb.FilePosition, err)
		}
	}

	return scene, nil
}
