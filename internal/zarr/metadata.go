// metadata.go defines the Zarr v2 .zarray and .zgroup JSON documents.
package zarr

import "strconv"

// zarrFormat is the Zarr format version written to .zarray and .zgroup.
const zarrFormat = 2

// ArrayMeta represents the Zarr v2 .zarray metadata document.
type ArrayMeta struct {
	// Shape holds the array dimension sizes.
	Shape []int `json:"shape"`

	// Chunks holds the chunk dimension sizes. Edge chunks are stored at
	// full chunk size, zero-padded.
	Chunks []int `json:"chunks"`

	// DType is the numpy-style dtype string (e.g., "<u2").
	DType string `json:"dtype"`

	// Compressor is the chunk codec configuration, or nil for raw chunks.
	Compressor *CompressorConfig `json:"compressor"`

	// FillValue is the value used for unwritten array regions. Always 0
	// for image data.
	FillValue interface{} `json:"fill_value"`

	// Order is the memory layout; this package only writes "C".
	Order string `json:"order"`

	// Filters are pre-compression codecs; always null here.
	Filters interface{} `json:"filters"`

	// DimensionSeparator separates chunk indices in chunk keys. The
	// OME-ZARR convention uses "/", placing chunks in nested directories.
	DimensionSeparator string `json:"dimension_separator"`

	// ZarrFormat is the Zarr format version (2).
	ZarrFormat int `json:"zarr_format"`
}

// CompressorConfig is the numcodecs-style codec configuration stored in
// .zarray. Only the zlib codec is produced by this package.
type CompressorConfig struct {
	// ID is the codec identifier (e.g., "zlib").
	ID string `json:"id"`

	// Level is the compression level, 1 (fastest) to 9 (smallest).
	Level int `json:"level,omitempty"`
}

// groupMeta is the .zgroup document: just the format version.
type groupMeta struct {
	ZarrFormat int `json:"zarr_format"`
}

// ChunkKey builds the storage key for a chunk from its grid indices,
// joined with the given separator ("/" for the OME-ZARR layout, "." for
// the classic Zarr default). A 0-dimensional array has the single key "0".
func ChunkKey(indices []int, separator string) string {
	if len(indices) == 0 {
		return "0"
	}
	key := strconv.Itoa(indices[0])
	for _, idx := range indices[1:] {
		key += separator + strconv.Itoa(idx)
	}
	return key
}
