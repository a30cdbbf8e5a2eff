// writer.go writes NGFF metadata documents and image arrays onto zarr
// groups.
package ngff

import (
	"fmt"

	"github.com/hiraku-ota/czarr/internal/zarr"
)

// WritePlateMetadata stores the plate document on the plate root group.
func WritePlateMetadata(root *zarr.Group, p *Plate) error {
	if err := root.SetAttrs(plateAttrs{Plate: p}); err != nil {
		return fmt.Errorf("writing plate metadata: %w", err)
	}
	return nil
}

// WriteWellMetadata stores the well document, listing one image per field
// path, on a well group. All fields reference acquisition 0.
func WriteWellMetadata(well *zarr.Group, fieldPaths []string) error {
	acquisition := 0
	doc := &Well{Version: Version}
	for _, fp := range fieldPaths {
		doc.Images = append(doc.Images, WellImage{Path: fp, Acquisition: &acquisition})
	}
	if err := well.SetAttrs(wellAttrs{Well: doc}); err != nil {
		return fmt.Errorf("writing well metadata for %s: %w", well.Path(), err)
	}
	return nil
}

// ImageOptions control how WriteImage stores an array.
type ImageOptions struct {
	// Name is the multiscale display name.
	Name string

	// Scale is the per-axis physical scale vector; its length must match
	// the array rank. Nil means identity.
	Scale []float64

	// Chunks is the chunk shape. Nil selects one chunk per (t, c, z)
	// plane: (1, ..., 1, Y, X).
	Chunks []int

	// CompressionLevel is the zlib level for chunk payloads (0 disables).
	CompressionLevel int

	// Omero, when non-nil, is stored alongside the multiscales document.
	Omero *Omero
}

// WriteImage stores the array as the single resolution level "0" of the
// image group and writes the multiscales (and optional omero) attributes.
// It returns the compressed payload bytes written.
func WriteImage(group *zarr.Group, a *zarr.Array, axes []Axis, opts ImageOptions) (int64, error) {
	if len(axes) != a.NDim() {
		return 0, fmt.Errorf("axis count %d does not match array rank %d", len(axes), a.NDim())
	}

	scale := opts.Scale
	if scale == nil {
		scale = make([]float64, a.NDim())
		for i := range scale {
			scale[i] = 1
		}
	}
	if len(scale) != a.NDim() {
		return 0, fmt.Errorf("scale length %d does not match array rank %d", len(scale), a.NDim())
	}

	chunks := opts.Chunks
	if chunks == nil {
		chunks = PlaneChunks(a.Shape)
	}

	written, err := group.CreateArray("0", a, chunks, opts.CompressionLevel)
	if err != nil {
		return written, fmt.Errorf("writing image array: %w", err)
	}

	attrs := imageAttrs{
		Multiscales: []Multiscale{{
			Name:    opts.Name,
			Version: Version,
			Axes:    axes,
			Datasets: []Dataset{{
				Path: "0",
				CoordinateTransformations: []CoordinateTransformation{
					{Type: "scale", Scale: scale},
				},
			}},
		}},
		Omero: opts.Omero,
	}
	if err := group.SetAttrs(attrs); err != nil {
		return written, fmt.Errorf("writing image metadata: %w", err)
	}
	return written, nil
}

// PlaneChunks returns the (1, ..., 1, Y, X) chunk shape for an image
// array: one chunk per final-two-dimension plane.
func PlaneChunks(shape []int) []int {
	chunks := make([]int, len(shape))
	for i := range chunks {
		if i >= len(shape)-2 {
			chunks[i] = shape[i]
		} else {
			chunks[i] = 1
		}
	}
	return chunks
}
