// metadata.go parses the ZISRAWMETADATA segment's embedded XML document
// into the subset of metadata the conversion pipeline consumes: image
// dimensions, channel display settings, physical scaling, and the scene
// (well/field) table.
package czi

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strings"
)

// Metadata is the cooked view of the container's XML metadata document.
type Metadata struct {
	// Filename is the base name of the source container, carried into the
	// omero "name" field of the output.
	Filename string

	// SizeS/T/C/Z/Y/X are the dimension extents of the acquisition.
	// Missing dimensions default to 1.
	SizeS, SizeT, SizeC, SizeZ, SizeY, SizeX int

	// PixelType is the declared pixel type (e.g., "Gray16").
	PixelType string

	// ComponentBitCount is the effective bit depth per component (e.g.,
	// 14 for many sCMOS acquisitions stored as Gray16). Zero when absent.
	ComponentBitCount int

	// Channels holds per-channel naming and display metadata, in channel
	// order.
	Channels []Channel

	// Scaling holds the physical pixel size per axis in micrometers.
	// Zero values mean the container declared no scaling for that axis.
	Scaling Scaling

	// Scenes is the scene table in ascending index order. For plate
	// acquisitions the scene name is the well-position token ("B4") and
	// each field of view in a well is its own scene.
	Scenes []Scene
}

// Channel holds one image channel's naming and display settings.
type Channel struct {
	// ID is the channel id (e.g., "Channel:0").
	ID string

	// Name is the channel display name (e.g., "DAPI").
	Name string

	// Color is the display color in "#AARRGGBB" form as stored in the
	// container. Empty when the container declares none.
	Color string

	// Low and High are the normalized display limits (0..1). Only
	// meaningful when HasDisplayLimits is true.
	Low, High float64

	// HasDisplayLimits reports whether the container carried display
	// limits for this channel. When false, consumers fall back to the
	// full 0..max intensity range.
	HasDisplayLimits bool
}

// Scaling holds the physical pixel sizes in micrometers.
type Scaling struct {
	X, Y, Z float64
}

// Scene is one entry of the scene table.
type Scene struct {
	// Index is the scene's position in the S dimension.
	Index int

	// Name is the scene name. For plate acquisitions this is the
	// well-position token (e.g., "B4").
	Name string
}

// metersToMicrometers converts the container's scaling unit (meters) to
// the micrometer unit used in NGFF axis metadata.
const metersToMicrometers = 1e6

// --- raw XML shapes ------------------------------------------------------

// xmlDocument mirrors the parts of the ImageDocument XML tree we read.
// Unknown elements are ignored by encoding/xml.
type xmlDocument struct {
	XMLName  xml.Name `xml:"ImageDocument"`
	Metadata struct {
		Information struct {
			Image struct {
				SizeX             int    `xml:"SizeX"`
				SizeY             int    `xml:"SizeY"`
				SizeC             int    `xml:"SizeC"`
				SizeZ             int    `xml:"SizeZ"`
				SizeT             int    `xml:"SizeT"`
				SizeS             int    `xml:"SizeS"`
				PixelType         string `xml:"PixelType"`
				ComponentBitCount int    `xml:"ComponentBitCount"`
				Dimensions        struct {
					Channels struct {
						Channel []xmlChannel `xml:"Channel"`
					} `xml:"Channels"`
					S struct {
						Scenes struct {
							Scene []xmlScene `xml:"Scene"`
						} `xml:"Scenes"`
					} `xml:"S"`
				} `xml:"Dimensions"`
			} `xml:"Image"`
		} `xml:"Information"`
		DisplaySetting struct {
			Channels struct {
				Channel []xmlDisplayChannel `xml:"Channel"`
			} `xml:"Channels"`
		} `xml:"DisplaySetting"`
		Scaling struct {
			Items struct {
				Distance []xmlDistance `xml:"Distance"`
			} `xml:"Items"`
		} `xml:"Scaling"`
	} `xml:"Metadata"`
}

type xmlChannel struct {
	ID    string `xml:"Id,attr"`
	Name  string `xml:"Name,attr"`
	Color string `xml:"Color"`
}

type xmlDisplayChannel struct {
	ID    string   `xml:"Id,attr"`
	Name  string   `xml:"Name,attr"`
	Color string   `xml:"Color"`
	Low   *float64 `xml:"Low"`
	High  *float64 `xml:"High"`
}

type xmlScene struct {
	Index int    `xml:"Index,attr"`
	Name  string `xml:"Name,attr"`
}

type xmlDistance struct {
	ID    string  `xml:"Id,attr"`
	Value float64 `xml:"Value"`
}

// parseMetadataXML parses the raw XML document into Metadata.
func parseMetadataXML(data []byte, filename string) (*Metadata, error) {
	var doc xmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing metadata XML: %w", err)
	}

	img := doc.Metadata.Information.Image
	md := &Metadata{
		Filename:          filename,
		SizeS:             orOne(img.SizeS),
		SizeT:             orOne(img.SizeT),
		SizeC:             orOne(img.SizeC),
		SizeZ:             orOne(img.SizeZ),
		SizeY:             img.SizeY,
		SizeX:             img.SizeX,
		PixelType:         img.PixelType,
		ComponentBitCount: img.ComponentBitCount,
	}

	// Display settings are keyed by channel id; the dimension channel list
	// defines the channel order.
	display := make(map[string]xmlDisplayChannel)
	for _, dc := range doc.Metadata.DisplaySetting.Channels.Channel {
		display[dc.ID] = dc
	}

	for _, xc := range img.Dimensions.Channels.Channel {
		ch := Channel{
			ID:    xc.ID,
			Name:  xc.Name,
			Color: strings.TrimSpace(xc.Color),
		}
		if dc, ok := display[xc.ID]; ok {
			if ch.Color == "" {
				ch.Color = strings.TrimSpace(dc.Color)
			}
			if ch.Name == "" {
				ch.Name = dc.Name
			}
			if dc.Low != nil && dc.High != nil {
				ch.Low = *dc.Low
				ch.High = *dc.High
				ch.HasDisplayLimits = true
			}
		}
		md.Channels = append(md.Channels, ch)
	}

	for _, d := range doc.Metadata.Scaling.Items.Distance {
		um := d.Value * metersToMicrometers
		switch d.ID {
		case "X":
			md.Scaling.X = um
		case "Y":
			md.Scaling.Y = um
		case "Z":
			md.Scaling.Z = um
		}
	}

	for _, xs := range img.Dimensions.S.Scenes.Scene {
		md.Scenes = append(md.Scenes, Scene{Index: xs.Index, Name: xs.Name})
	}
	sort.Slice(md.Scenes, func(i, j int) bool {
		return md.Scenes[i].Index < md.Scenes[j].Index
	})

	return md, nil
}

// orOne substitutes 1 for absent (zero) dimension extents.
func orOne(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}

// MaxValue returns the maximum representable intensity for the container's
// pixel type, honoring ComponentBitCount when present (a Gray16 container
// from a 14-bit camera has a 0..16383 range).
func (m *Metadata) MaxValue() float64 {
	if m.PixelType == "Gray32Float" {
		// Float data has no integer range, whatever bit count the
		// container declares; display code treats the normalized
		// limits as absolute.
		return 1
	}
	bits := m.ComponentBitCount
	if bits <= 0 {
		switch m.PixelType {
		case "Gray8":
			bits = 8
		default:
			bits = 16
		}
	}
	return float64(uint64(1)<<uint(bits)) - 1
}

// WellCounter returns the mapping from well-position token to acquired
// field count, mirroring the sample metadata of the original toolchain:
// each field of view is its own scene, and scenes belonging to the same
// well share a name.
func (m *Metadata) WellCounter() map[string]int {
	counter := make(map[string]int, len(m.Scenes))
	for _, s := range m.Scenes {
		counter[s.Name]++
	}
	return counter
}

// WellSceneIndices returns, per well token, the scene indices of the
// well's fields in ascending scene order.
func (m *Metadata) WellSceneIndices() map[string][]int {
	indices := make(map[string][]int)
	for _, s := range m.Scenes {
		indices[s.Name] = append(indices[s.Name], s.Index)
	}
	return indices
}

// WellArrayNames returns the distinct well tokens in first-seen scene
// order.
func (m *Metadata) WellArrayNames() []string {
	var names []string
	seen := make(map[string]bool)
	for _, s := range m.Scenes {
		if !seen[s.Name] {
			seen[s.Name] = true
			names = append(names, s.Name)
		}
	}
	return names
}
