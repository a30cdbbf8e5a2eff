// metadata.go defines the NGFF v0.4 metadata documents as marshaled into
// .zattrs files.
package ngff

import (
	"github.com/hiraku-ota/czarr/internal/model"
	"github.com/hiraku-ota/czarr/internal/plate"
)

// Version is the OME-NGFF metadata version written by this package.
const Version = "0.4"

// Plate is the "plate" document stored on the plate root group.
type Plate struct {
	// Name is the display name of the plate.
	Name string `json:"name,omitempty"`

	// Rows lists the plate's row labels in display order.
	Rows []PlateRow `json:"rows"`

	// Columns lists the plate's column labels in display order.
	Columns []PlateColumn `json:"columns"`

	// Wells lists every well path with its row/column indices.
	Wells []PlateWell `json:"wells"`

	// Acquisitions lists the plate's acquisition rounds. A conversion run
	// always produces a single acquisition with id 0.
	Acquisitions []PlateAcquisition `json:"acquisitions,omitempty"`

	// FieldCount is the maximum number of fields per well.
	FieldCount int `json:"field_count,omitempty"`

	// Version is the NGFF metadata version.
	Version string `json:"version"`
}

// PlateRow names one plate row.
type PlateRow struct {
	Name string `json:"name"`
}

// PlateColumn names one plate column.
type PlateColumn struct {
	Name string `json:"name"`
}

// PlateWell locates one well within the plate grid.
type PlateWell struct {
	// Path is the "{row}/{column}" group path relative to the plate root.
	Path string `json:"path"`

	// RowIndex is the index into the plate's Rows list.
	RowIndex int `json:"rowIndex"`

	// ColumnIndex is the index into the plate's Columns list.
	ColumnIndex int `json:"columnIndex"`
}

// PlateAcquisition identifies one acquisition round.
type PlateAcquisition struct {
	ID int `json:"id"`
}

// plateAttrs wraps a Plate for the .zattrs document.
type plateAttrs struct {
	Plate *Plate `json:"plate"`
}

// Well is the "well" document stored on each well group.
type Well struct {
	// Images lists the well's fields of view.
	Images []WellImage `json:"images"`

	// Version is the NGFF metadata version.
	Version string `json:"version"`
}

// WellImage references one field-of-view image group within a well.
type WellImage struct {
	// Path is the image group name relative to the well ("0", "1", ...).
	Path string `json:"path"`

	// Acquisition references the plate acquisition the field belongs to.
	Acquisition *int `json:"acquisition,omitempty"`
}

// wellAttrs wraps a Well for the .zattrs document.
type wellAttrs struct {
	Well *Well `json:"well"`
}

// Multiscale is one entry of the "multiscales" document stored on each
// image group.
type Multiscale struct {
	// Name is the image display name.
	Name string `json:"name,omitempty"`

	// Axes lists the array dimensions in storage order.
	Axes []Axis `json:"axes"`

	// Datasets lists the resolution levels, finest first. This package
	// always writes a single level "0".
	Datasets []Dataset `json:"datasets"`

	// Version is the NGFF metadata version.
	Version string `json:"version"`
}

// Axis describes one array dimension.
type Axis struct {
	// Name is the single-letter axis name ("t", "c", "z", "y", "x").
	Name string `json:"name"`

	// Type is the axis kind: "time", "channel", or "space".
	Type string `json:"type,omitempty"`

	// Unit is the physical unit for space axes (e.g., "micrometer").
	Unit string `json:"unit,omitempty"`
}

// Dataset is one resolution level of a multiscale image.
type Dataset struct {
	// Path is the array name relative to the image group.
	Path string `json:"path"`

	// CoordinateTransformations maps array coordinates to physical
	// coordinates; a single "scale" transformation per level.
	CoordinateTransformations []CoordinateTransformation `json:"coordinateTransformations"`
}

// CoordinateTransformation is an NGFF coordinate transformation. Only the
// "scale" type is produced.
type CoordinateTransformation struct {
	Type  string    `json:"type"`
	Scale []float64 `json:"scale,omitempty"`
}

// Omero is the viewer-oriented display document stored next to
// multiscales on image groups.
type Omero struct {
	// Name is the image display name, conventionally the source filename.
	Name string `json:"name,omitempty"`

	// Channels holds per-channel rendering settings.
	Channels []OmeroChannel `json:"channels"`
}

// OmeroChannel is one channel's rendering settings.
type OmeroChannel struct {
	// Color is the 6-digit RGB hex color without "#".
	Color string `json:"color"`

	// Label is the channel display name.
	Label string `json:"label,omitempty"`

	// Active reports whether the channel renders by default.
	Active bool `json:"active"`

	// Window is the contrast window.
	Window *OmeroWindow `json:"window,omitempty"`
}

// OmeroWindow is a channel contrast window: start/end are the rendered
// range, min/max bound the data range.
type OmeroWindow struct {
	Min   float64 `json:"min"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Max   float64 `json:"max"`
}

// imageAttrs is the .zattrs document of an image group.
type imageAttrs struct {
	Multiscales []Multiscale `json:"multiscales"`
	Omero       *Omero       `json:"omero,omitempty"`
}

// NewPlate builds the plate document for an observed layout: the rows,
// columns, and full cartesian-product well paths extracted from the
// acquisition's well tokens.
func NewPlate(name string, layout plate.Layout, fieldCount int) *Plate {
	p := &Plate{
		Name:         name,
		Version:      Version,
		FieldCount:   fieldCount,
		Acquisitions: []PlateAcquisition{{ID: 0}},
	}

	colIndex := make(map[string]int, len(layout.Columns))
	for i, c := range layout.Columns {
		p.Columns = append(p.Columns, PlateColumn{Name: c})
		colIndex[c] = i
	}
	rowIndex := make(map[string]int, len(layout.Rows))
	for i, r := range layout.Rows {
		p.Rows = append(p.Rows, PlateRow{Name: r})
		rowIndex[r] = i
	}

	for _, wp := range layout.WellPaths {
		row, col := plate.SplitWellToken(wp)
		p.Wells = append(p.Wells, PlateWell{
			Path:        wp,
			RowIndex:    rowIndex[row],
			ColumnIndex: colIndex[col],
		})
	}
	return p
}

// PlateFromGeometry builds the plate document for a standard microplate
// geometry with every well enumerated.
func PlateFromGeometry(g plate.Geometry, fieldCount int) *Plate {
	p := &Plate{
		Name:         g.Name,
		Version:      Version,
		FieldCount:   fieldCount,
		Acquisitions: []PlateAcquisition{{ID: 0}},
	}
	for _, r := range g.RowLabels() {
		p.Rows = append(p.Rows, PlateRow{Name: r})
	}
	for _, c := range g.ColumnLabels() {
		p.Columns = append(p.Columns, PlateColumn{Name: c})
	}
	for _, w := range g.Wells() {
		p.Wells = append(p.Wells, PlateWell{
			Path:        w.Path,
			RowIndex:    w.RowIndex,
			ColumnIndex: w.ColumnIndex,
		})
	}
	return p
}

// DefaultAxes returns the 5D TCZYX axis list with micrometer units on the
// space axes.
func DefaultAxes() []Axis {
	return []Axis{
		{Name: "t", Type: "time"},
		{Name: "c", Type: "channel"},
		{Name: "z", Type: "space", Unit: "micrometer"},
		{Name: "y", Type: "space", Unit: "micrometer"},
		{Name: "x", Type: "space", Unit: "micrometer"},
	}
}

// ScaleForAxes builds the per-axis scale vector for the TCZYX axis list
// from physical pixel sizes in micrometers. Unknown (zero) sizes become
// 1.0, the NGFF identity scale.
func ScaleForAxes(zUM, yUM, xUM float64) []float64 {
	return []float64{1, 1, orIdentity(zUM), orIdentity(yUM), orIdentity(xUM)}
}

func orIdentity(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}

// ChannelsToOmero converts derived channel display settings into omero
// channel entries. Channels is never nil: the image schema requires a
// channels array, so zero channels marshal as an empty list.
func ChannelsToOmero(name string, displays []model.ChannelDisplay) *Omero {
	om := &Omero{Name: name, Channels: make([]OmeroChannel, 0, len(displays))}
	for _, d := range displays {
		om.Channels = append(om.Channels, OmeroChannel{
			Color:  d.Color,
			Label:  d.Label,
			Active: d.Active,
			Window: &OmeroWindow{
				Min:   d.Min,
				Start: d.Start,
				End:   d.End,
				Max:   d.Max,
			},
		})
	}
	return om
}
