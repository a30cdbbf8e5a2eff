// Package czitest builds small synthetic CZI containers for tests.
//
// The builder emits the same segment layout the czi package parses: a
// ZISRAWFILE header, one ZISRAWSUBBLOCK per plane, a ZISRAWMETADATA
// segment with a generated ImageDocument XML, and a ZISRAWDIRECTORY
// segment referencing the subblocks. It intentionally implements only what
// the reader consumes; it is a test fixture generator, not a writer for
// production CZI files.
package czitest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Pixel type and compression codes mirrored from the ZISRAW specification.
const (
	PixelGray8       = 0
	PixelGray16      = 1
	PixelGray32Float = 2

	CompressionNone = 0
	CompressionZstd = 5
)

// Channel describes one channel in the generated metadata XML.
type Channel struct {
	Name  string
	Color string // "#AARRGGBB", empty to omit

	// Low/High are normalized display limits; written only when HasLimits.
	Low, High float64
	HasLimits bool
}

// Scene describes one scene-table entry (a well field).
type Scene struct {
	Index int
	Name  string // well token, e.g. "B4"
}

// Plane is one subblock: a single (Y, X) plane at fixed S/T/C/Z.
type Plane struct {
	S, T, C, Z     int
	YStart, XStart int
	Height, Width  int
	PixelType      int
	Compression    int
	Data           []byte // raw little-endian pixel bytes, len = H*W*itemsize
}

// Builder accumulates the pieces of a synthetic container.
type Builder struct {
	SizeT, SizeC, SizeZ, SizeY, SizeX int
	PixelTypeName                     string // e.g. "Gray16"
	ComponentBitCount                 int
	ScalingXYZ                        [3]float64 // micrometers; 0 omits the axis
	Channels                          []Channel
	Scenes                            []Scene
	Planes                            []Plane
}

// FillPlane returns a plane-sized buffer where every element holds the
// given 16-bit value, for PixelGray16 planes.
func FillPlane(height, width int, value uint16) []byte {
	buf := make([]byte, height*width*2)
	for i := 0; i < height*width; i++ {
		binary.LittleEndian.PutUint16(buf[i*2:], value)
	}
	return buf
}

// WriteFile assembles the container and writes it to path.
func (b *Builder) WriteFile(path string) error {
	var out bytes.Buffer

	// The file header is patched with segment positions once they are
	// known; reserve its full extent now.
	fileHeader := make([]byte, segHeaderSize+80)
	out.Write(fileHeader)

	// Subblock segments.
	positions := make([]int64, len(b.Planes))
	for i := range b.Planes {
		positions[i] = int64(out.Len())
		seg, err := buildSubBlock(&b.Planes[i], b.sizeS())
		if err != nil {
			return fmt.Errorf("plane %d: %w", i, err)
		}
		out.Write(seg)
	}

	// Metadata segment.
	metadataPos := int64(out.Len())
	xml := b.metadataXML()
	out.Write(buildMetadataSegment(xml))

	// Subblock directory segment.
	directoryPos := int64(out.Len())
	out.Write(buildDirectorySegment(b.Planes, positions, b.sizeS()))

	// Patch the file header segment in place.
	data := out.Bytes()
	writeSegHeader(data[0:], "ZISRAWFILE", 80)
	hdr := data[segHeaderSize:]
	binary.LittleEndian.PutUint32(hdr[0:4], 1) // major version
	binary.LittleEndian.PutUint64(hdr[52:60], uint64(directoryPos))
	binary.LittleEndian.PutUint64(hdr[60:68], uint64(metadataPos))

	return os.WriteFile(path, data, 0o644)
}

// sizeS infers the S extent from the scene table.
func (b *Builder) sizeS() int {
	if len(b.Scenes) == 0 {
		return 1
	}
	return len(b.Scenes)
}

const segHeaderSize = 32

// writeSegHeader fills a 32-byte segment header in place.
func writeSegHeader(buf []byte, id string, used int64) {
	for i := range buf[:16] {
		buf[i] = 0
	}
	copy(buf[:16], id)
	binary.LittleEndian.PutUint64(buf[16:24], uint64(used))
	binary.LittleEndian.PutUint64(buf[24:32], uint64(used))
}

// dimensionOrder is the dimension entry order used in generated subblocks.
var dimensionOrder = []string{"S", "T", "C", "Z", "Y", "X"}

// buildEntry serializes one DV directory entry for the plane.
func buildEntry(p *Plane, position int64, sizeS int) []byte {
	dims := planeDims(p, sizeS)

	entry := make([]byte, 32+len(dims)*20)
	copy(entry[0:2], "DV")
	binary.LittleEndian.PutUint32(entry[2:6], uint32(p.PixelType))
	binary.LittleEndian.PutUint64(entry[6:14], uint64(position))
	binary.LittleEndian.PutUint32(entry[18:22], uint32(p.Compression))
	binary.LittleEndian.PutUint32(entry[28:32], uint32(len(dims)))

	for i, d := range dims {
		e := entry[32+i*20:]
		copy(e[0:4], d.name)
		binary.LittleEndian.PutUint32(e[4:8], uint32(d.start))
		binary.LittleEndian.PutUint32(e[8:12], uint32(d.size))
		binary.LittleEndian.PutUint32(e[16:20], uint32(d.size)) // stored == logical
	}
	return entry
}

type dimSpec struct {
	name        string
	start, size int
}

// planeDims lists the plane's dimension entries. The S entry is omitted
// for single-scene containers, matching real acquisitions without scenes.
func planeDims(p *Plane, sizeS int) []dimSpec {
	var dims []dimSpec
	for _, name := range dimensionOrder {
		switch name {
		case "S":
			if sizeS > 1 {
				dims = append(dims, dimSpec{"S", p.S, 1})
			}
		case "T":
			dims = append(dims, dimSpec{"T", p.T, 1})
		case "C":
			dims = append(dims, dimSpec{"C", p.C, 1})
		case "Z":
			dims = append(dims, dimSpec{"Z", p.Z, 1})
		case "Y":
			dims = append(dims, dimSpec{"Y", p.YStart, p.Height})
		case "X":
			dims = append(dims, dimSpec{"X", p.XStart, p.Width})
		}
	}
	return dims
}

// buildSubBlock serializes one ZISRAWSUBBLOCK segment. The entry position
// field is patched later by the directory builder; within the subblock
// segment itself the position is not consulted by the reader.
func buildSubBlock(p *Plane, sizeS int) ([]byte, error) {
	payload := p.Data
	if p.Compression == CompressionZstd {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}
		payload = enc.EncodeAll(p.Data, nil)
		if err := enc.Close(); err != nil {
			return nil, err
		}
	} else if p.Compression != CompressionNone {
		return nil, fmt.Errorf("builder does not support compression code %d", p.Compression)
	}

	entry := buildEntry(p, 0, sizeS)

	headerSize := 16 + len(entry)
	if headerSize < 256 {
		headerSize = 256
	}
	data := make([]byte, headerSize+len(payload))
	// metadataSize = 0, attachmentSize = 0
	binary.LittleEndian.PutUint64(data[8:16], uint64(len(payload)))
	copy(data[16:], entry)
	copy(data[headerSize:], payload)

	seg := make([]byte, segHeaderSize+len(data))
	writeSegHeader(seg, "ZISRAWSUBBLOCK", int64(len(data)))
	copy(seg[segHeaderSize:], data)
	return seg, nil
}

// buildMetadataSegment serializes the ZISRAWMETADATA segment.
func buildMetadataSegment(xml string) []byte {
	data := make([]byte, 256+len(xml))
	binary.LittleEndian.PutUint32(data[0:4], uint32(len(xml)))
	copy(data[256:], xml)

	seg := make([]byte, segHeaderSize+len(data))
	writeSegHeader(seg, "ZISRAWMETADATA", int64(len(data)))
	copy(seg[segHeaderSize:], data)
	return seg
}

// buildDirectorySegment serializes the ZISRAWDIRECTORY segment with one
// entry per plane, carrying the planes' actual file positions.
func buildDirectorySegment(planes []Plane, positions []int64, sizeS int) []byte {
	var entries bytes.Buffer
	for i := range planes {
		entries.Write(buildEntry(&planes[i], positions[i], sizeS))
	}

	data := make([]byte, 128+entries.Len())
	binary.LittleEndian.PutUint32(data[0:4], uint32(len(planes)))
	copy(data[128:], entries.Bytes())

	seg := make([]byte, segHeaderSize+len(data))
	writeSegHeader(seg, "ZISRAWDIRECTORY", int64(len(data)))
	copy(seg[segHeaderSize:], data)
	return seg
}

// metadataXML generates the ImageDocument XML for the builder's settings.
func (b *Builder) metadataXML() string {
	var sb strings.Builder
	sb.WriteString("<ImageDocument><Metadata>")

	// Information/Image
	sb.WriteString("<Information><Image>")
	fmt.Fprintf(&sb, "<SizeX>%d</SizeX><SizeY>%d</SizeY>", b.SizeX, b.SizeY)
	fmt.Fprintf(&sb, "<SizeC>%d</SizeC><SizeZ>%d</SizeZ><SizeT>%d</SizeT>", max1(b.SizeC), max1(b.SizeZ), max1(b.SizeT))
	if len(b.Scenes) > 0 {
		fmt.Fprintf(&sb, "<SizeS>%d</SizeS>", len(b.Scenes))
	}
	fmt.Fprintf(&sb, "<PixelType>%s</PixelType>", b.PixelTypeName)
	if b.ComponentBitCount > 0 {
		fmt.Fprintf(&sb, "<ComponentBitCount>%d</ComponentBitCount>", b.ComponentBitCount)
	}
	sb.WriteString("<Dimensions><Channels>")
	for i, ch := range b.Channels {
		fmt.Fprintf(&sb, `<Channel Id="Channel:%d" Name="%s">`, i, ch.Name)
		if ch.Color != "" {
			fmt.Fprintf(&sb, "<Color>%s</Color>", ch.Color)
		}
		sb.WriteString("</Channel>")
	}
	sb.WriteString("</Channels>")
	if len(b.Scenes) > 0 {
		sb.WriteString("<S><Scenes>")
		for _, s := range b.Scenes {
			fmt.Fprintf(&sb, `<Scene Index="%d" Name="%s"></Scene>`, s.Index, s.Name)
		}
		sb.WriteString("</Scenes></S>")
	}
	sb.WriteString("</Dimensions></Image></Information>")

	// DisplaySetting
	sb.WriteString("<DisplaySetting><Channels>")
	for i, ch := range b.Channels {
		fmt.Fprintf(&sb, `<Channel Id="Channel:%d" Name="%s">`, i, ch.Name)
		if ch.HasLimits {
			fmt.Fprintf(&sb, "<Low>%g</Low><High>%g</High>", ch.Low, ch.High)
		}
		sb.WriteString("</Channel>")
	}
	sb.WriteString("</Channels></DisplaySetting>")

	// Scaling (values are stored in meters)
	if b.ScalingXYZ != [3]float64{} {
		sb.WriteString("<Scaling><Items>")
		for i, id := range []string{"X", "Y", "Z"} {
			if b.ScalingXYZ[i] > 0 {
				fmt.Fprintf(&sb, `<Distance Id="%s"><Value>%g</Value></Distance>`, id, b.ScalingXYZ[i]*1e-6)
			}
		}
		sb.WriteString("</Items></Scaling>")
	}

	sb.WriteString("</Metadata></ImageDocument>")
	return sb.String()
}

func max1(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}

// itemSize returns the element size for a pixel type code.
func itemSize(pixelType int) int {
	switch pixelType {
	case PixelGray8:
		return 1
	case PixelGray16:
		return 2
	case PixelGray32Float:
		return 4
	}
	return 0
}

// GradientPlane returns a plane buffer where element (y, x) holds
// y*width+x truncated to the pixel type, handy for positional assertions.
func GradientPlane(height, width, pixelType int) []byte {
	size := itemSize(pixelType)
	buf := make([]byte, height*width*size)
	for i := 0; i < height*width; i++ {
		switch size {
		case 1:
			buf[i] = byte(i)
		case 2:
			binary.LittleEndian.PutUint16(buf[i*2:], uint16(i))
		case 4:
			binary.LittleEndian.PutUint32(buf[i*4:], uint32(i))
		}
	}
	return buf
}
