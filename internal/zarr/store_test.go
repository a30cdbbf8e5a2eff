package zarr

import (
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fillUint16 writes sequential uint16 values into the array buffer so
// round-trip tests can verify chunk contents positionally.
func fillUint16(t *testing.T, a *Array) {
	t.Helper()
	require.Equal(t, Uint16, a.DType)
	for i := 0; i < a.NumElements(); i++ {
		binary.LittleEndian.PutUint16(a.Data[i*2:], uint16(i))
	}
}

// TestCreate_WritesGroupMeta verifies a new store has a root .zgroup with
// zarr_format 2.
func TestCreate_WritesGroupMeta(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "test.zarr")
	_, err := Create(dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, ".zgroup"))
	require.NoError(t, err)

	var meta map[string]int
	require.NoError(t, json.Unmarshal(data, &meta))
	assert.Equal(t, 2, meta["zarr_format"])
}

// TestRequireGroup_Nested verifies that multi-level group paths ("B/4")
// create a .zgroup at every level, which is what makes the well hierarchy
// readable by generic zarr tools.
func TestRequireGroup_Nested(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plate.zarr")
	root, err := Create(dir)
	require.NoError(t, err)

	well, err := root.RequireGroup("B/4")
	require.NoError(t, err)
	assert.Equal(t, "B/4", well.Path())

	assert.FileExists(t, filepath.Join(dir, "B", ".zgroup"))
	assert.FileExists(t, filepath.Join(dir, "B", "4", ".zgroup"))

	// RequireGroup must be idempotent.
	_, err = root.RequireGroup("B/4")
	require.NoError(t, err)
}

// TestGroup_Attrs verifies .zattrs round-trips arbitrary JSON documents.
func TestGroup_Attrs(t *testing.T) {
	root, err := Create(filepath.Join(t.TempDir(), "attrs.zarr"))
	require.NoError(t, err)

	in := map[string]interface{}{
		"plate": map[string]interface{}{
			"name":    "Example Plate",
			"version": "0.4",
		},
	}
	require.NoError(t, root.SetAttrs(in))

	var out map[string]interface{}
	require.NoError(t, root.Attrs(&out))
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("attrs mismatch (-want +got):\n%s", diff)
	}
}

// TestCreateArray_RoundTrip writes a 2-plane uint16 array with one chunk
// per plane and reads both chunks back through the zlib codec.
func TestCreateArray_RoundTrip(t *testing.T) {
	root, err := Create(filepath.Join(t.TempDir(), "array.zarr"))
	require.NoError(t, err)

	a, err := NewArray(Uint16, []int{2, 4, 8})
	require.NoError(t, err)
	fillUint16(t, a)

	written, err := root.CreateArray("0", a, []int{1, 4, 8}, 5)
	require.NoError(t, err)
	assert.Positive(t, written)

	meta, err := root.ArrayMeta("0")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4, 8}, meta.Shape)
	assert.Equal(t, []int{1, 4, 8}, meta.Chunks)
	assert.Equal(t, "<u2", meta.DType)
	assert.Equal(t, "/", meta.DimensionSeparator)
	require.NotNil(t, meta.Compressor)
	assert.Equal(t, "zlib", meta.Compressor.ID)
	assert.Equal(t, 5, meta.Compressor.Level)

	// Each plane is one chunk; plane 1 starts at element 32.
	chunk, err := root.ReadChunk("0", []int{1, 0, 0})
	require.NoError(t, err)
	require.Len(t, chunk, 4*8*2)
	assert.Equal(t, uint16(32), binary.LittleEndian.Uint16(chunk[0:2]))
	assert.Equal(t, uint16(63), binary.LittleEndian.Uint16(chunk[62:64]))

	// Chunks use the "/" separator, so plane chunks are nested files.
	assert.FileExists(t, filepath.Join(root.dir(), "0", "1", "0", "0"))
}

// TestCreateArray_Uncompressed verifies that level 0 writes raw chunks and
// a null compressor.
func TestCreateArray_Uncompressed(t *testing.T) {
	root, err := Create(filepath.Join(t.TempDir(), "raw.zarr"))
	require.NoError(t, err)

	a, err := NewArray(Uint8, []int{4, 4})
	require.NoError(t, err)
	for i := range a.Data {
		a.Data[i] = byte(i)
	}

	written, err := root.CreateArray("0", a, []int{4, 4}, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(16), written)

	meta, err := root.ArrayMeta("0")
	require.NoError(t, err)
	assert.Nil(t, meta.Compressor)

	chunk, err := root.ReadChunk("0", []int{0, 0})
	require.NoError(t, err)
	assert.Equal(t, a.Data, chunk)
}

// TestCreateArray_EdgeChunksPadded verifies that edge chunks are stored at
// full chunk size with zero padding.
func TestCreateArray_EdgeChunksPadded(t *testing.T) {
	root, err := Create(filepath.Join(t.TempDir(), "edge.zarr"))
	require.NoError(t, err)

	// 5 rows with chunk height 4 → second row chunk covers rows 4-7, of
	// which only row 4 exists.
	a, err := NewArray(Uint8, []int{5, 3})
	require.NoError(t, err)
	for i := range a.Data {
		a.Data[i] = 0xAA
	}

	_, err = root.CreateArray("0", a, []int{4, 3}, 0)
	require.NoError(t, err)

	chunk, err := root.ReadChunk("0", []int{1, 0})
	require.NoError(t, err)
	require.Len(t, chunk, 4*3)
	assert.Equal(t, []byte{0xAA, 0xAA, 0xAA}, chunk[0:3], "acquired row")
	assert.Equal(t, []byte{0, 0, 0}, chunk[3:6], "padding rows are fill value")
}

// TestCreateArray_Validation covers chunk shape and level validation.
func TestCreateArray_Validation(t *testing.T) {
	root, err := Create(filepath.Join(t.TempDir(), "bad.zarr"))
	require.NoError(t, err)

	a, err := NewArray(Uint8, []int{4, 4})
	require.NoError(t, err)

	_, err = root.CreateArray("0", a, []int{4}, 1)
	assert.Error(t, err, "rank mismatch must be rejected")

	_, err = root.CreateArray("0", a, []int{0, 4}, 1)
	assert.Error(t, err, "zero chunk dimension must be rejected")

	_, err = root.CreateArray("0", a, []int{4, 4}, 12)
	assert.Error(t, err, "compression level above 9 must be rejected")
}

// TestOpen verifies Open succeeds on a store and fails on a bare directory.
func TestOpen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "open.zarr")
	_, err := Create(dir)
	require.NoError(t, err)

	_, err = Open(dir)
	assert.NoError(t, err)

	_, err = Open(t.TempDir())
	assert.Error(t, err)
}
