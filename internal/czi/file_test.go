package czi

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiraku-ota/czarr/internal/czi/czitest"
	"github.com/hiraku-ota/czarr/internal/zarr"
)

// buildPlateFile writes a synthetic two-well plate container: wells B4 and
// B5, two fields each, one channel, 4x6 pixels, Gray16.
func buildPlateFile(t *testing.T) string {
	t.Helper()

	b := &czitest.Builder{
		SizeT: 1, SizeC: 1, SizeZ: 1, SizeY: 4, SizeX: 6,
		PixelTypeName:     "Gray16",
		ComponentBitCount: 14,
		ScalingXYZ:        [3]float64{0.1, 0.1, 0.5},
		Channels: []czitest.Channel{
			{Name: "DAPI", Color: "#FF0050FF", Low: 0.01, High: 0.5, HasLimits: true},
		},
		Scenes: []czitest.Scene{
			{Index: 0, Name: "B4"},
			{Index: 1, Name: "B4"},
			{Index: 2, Name: "B5"},
			{Index: 3, Name: "B5"},
		},
	}

	// One plane per scene. Stage positions differ per scene; pixel values
	// encode the scene index so reads can be told apart.
	for s := 0; s < 4; s++ {
		b.Planes = append(b.Planes, czitest.Plane{
			S: s, YStart: s * 100, XStart: s * 200,
			Height: 4, Width: 6,
			PixelType:   czitest.PixelGray16,
			Compression: czitest.CompressionNone,
			Data:        czitest.FillPlane(4, 6, uint16(1000+s)),
		})
	}

	path := filepath.Join(t.TempDir(), "plate.czi")
	require.NoError(t, b.WriteFile(path))
	return path
}

// TestOpen_ParsesMetadata verifies dimensions, channels, scaling, and the
// scene table of a synthetic plate container.
func TestOpen_ParsesMetadata(t *testing.T) {
	f, err := Open(buildPlateFile(t))
	require.NoError(t, err)
	defer f.Close()

	md := f.Metadata()
	assert.Equal(t, 4, md.SizeS)
	assert.Equal(t, 1, md.SizeT)
	assert.Equal(t, 1, md.SizeC)
	assert.Equal(t, 1, md.SizeZ)
	assert.Equal(t, 4, md.SizeY)
	assert.Equal(t, 6, md.SizeX)
	assert.Equal(t, "Gray16", md.PixelType)
	assert.Equal(t, 14, md.ComponentBitCount)
	assert.Equal(t, float64(16383), md.MaxValue())

	require.Len(t, md.Channels, 1)
	ch := md.Channels[0]
	assert.Equal(t, "DAPI", ch.Name)
	assert.Equal(t, "#FF0050FF", ch.Color)
	assert.True(t, ch.HasDisplayLimits)
	assert.InDelta(t, 0.01, ch.Low, 1e-9)
	assert.InDelta(t, 0.5, ch.High, 1e-9)

	// Scaling values arrive in meters and are exposed in micrometers.
	assert.InDelta(t, 0.1, md.Scaling.X, 1e-9)
	assert.InDelta(t, 0.1, md.Scaling.Y, 1e-9)
	assert.InDelta(t, 0.5, md.Scaling.Z, 1e-9)

	require.Len(t, md.Scenes, 4)
	assert.Equal(t, "B4", md.Scenes[0].Name)
	assert.Equal(t, "B5", md.Scenes[3].Name)
}

// TestMetadata_WellDerivations verifies the sample-info views used by the
// HCS pipeline.
func TestMetadata_WellDerivations(t *testing.T) {
	f, err := Open(buildPlateFile(t))
	require.NoError(t, err)
	defer f.Close()

	md := f.Metadata()
	assert.Equal(t, map[string]int{"B4": 2, "B5": 2}, md.WellCounter())
	assert.Equal(t, map[string][]int{"B4": {0, 1}, "B5": {2, 3}}, md.WellSceneIndices())
	assert.Equal(t, []string{"B4", "B5"}, md.WellArrayNames())
}

// TestReadScene verifies scene assembly: shape, dtype, and the per-scene
// pixel payload.
func TestReadScene(t *testing.T) {
	f, err := Open(buildPlateFile(t))
	require.NoError(t, err)
	defer f.Close()

	for s := 0; s < 4; s++ {
		scene, err := f.ReadScene(s)
		require.NoError(t, err, "scene %d", s)

		assert.Equal(t, zarr.Uint16, scene.DType)
		assert.Equal(t, []int{1, 1, 1, 4, 6}, scene.Shape)

		// Every pixel of the scene carries 1000+sceneIndex.
		for i := 0; i < scene.NumElements(); i++ {
			v := binary.LittleEndian.Uint16(scene.Data[i*2:])
			require.Equal(t, uint16(1000+s), v, "scene %d element %d", s, i)
		}
	}

	_, err = f.ReadScene(4)
	assert.ErrorIs(t, err, ErrSceneNotFound)
}

// TestReadScene_Zstd verifies zstd-compressed subblock payloads decode to
// the same plane bytes.
func TestReadScene_Zstd(t *testing.T) {
	data := czitest.GradientPlane(3, 5, czitest.PixelGray16)
	b := &czitest.Builder{
		SizeT: 1, SizeC: 1, SizeZ: 1, SizeY: 3, SizeX: 5,
		PixelTypeName: "Gray16",
		Channels:      []czitest.Channel{{Name: "EGFP"}},
		Planes: []czitest.Plane{{
			Height: 3, Width: 5,
			PixelType:   czitest.PixelGray16,
			Compression: czitest.CompressionZstd,
			Data:        data,
		}},
	}

	path := filepath.Join(t.TempDir(), "zstd.czi")
	require.NoError(t, b.WriteFile(path))

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	scene, err := f.ReadScene(0)
	require.NoError(t, err)
	assert.Equal(t, data, scene.Data)
}

// TestReadScene_MultiDimensional verifies T/C/Z placement of planes in the
// assembled scene array.
func TestReadScene_MultiDimensional(t *testing.T) {
	b := &czitest.Builder{
		SizeT: 2, SizeC: 2, SizeZ: 1, SizeY: 2, SizeX: 2,
		PixelTypeName: "Gray8",
		Channels:      []czitest.Channel{{Name: "DAPI"}, {Name: "EGFP"}},
	}
	// Value = 10*t + c, one plane per (t, c).
	for ti := 0; ti < 2; ti++ {
		for c := 0; c < 2; c++ {
			v := byte(10*ti + c)
			b.Planes = append(b.Planes, czitest.Plane{
				T: ti, C: c, Height: 2, Width: 2,
				PixelType: czitest.PixelGray8,
				Data:      []byte{v, v, v, v},
			})
		}
	}

	path := filepath.Join(t.TempDir(), "tc.czi")
	require.NoError(t, b.WriteFile(path))

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	scene, err := f.ReadScene(0)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 1, 2, 2}, scene.Shape)

	// C-order layout: (t, c, z, y, x). Plane (t=1, c=0) starts at element 8.
	assert.Equal(t, byte(0), scene.Data[0])
	assert.Equal(t, byte(1), scene.Data[4])
	assert.Equal(t, byte(10), scene.Data[8])
	assert.Equal(t, byte(11), scene.Data[12])
}

// TestOpen_NotCZI verifies junk files are rejected with ErrNotCZI.
func TestOpen_NotCZI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.czi")
	require.NoError(t, os.WriteFile(path, []byte("this is not a container at all, just text padding 1234567890"), 0o644))

	_, err := Open(path)
	assert.ErrorIs(t, err, ErrNotCZI)
}

// TestOpen_Missing verifies missing files surface the underlying OS error.
func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.czi"))
	assert.Error(t, err)
}

// TestDisplayLimits_Absent verifies channels without display limits report
// HasDisplayLimits=false, which drives the 0..max fallback downstream.
func TestDisplayLimits_Absent(t *testing.T) {
	b := &czitest.Builder{
		SizeY: 2, SizeX: 2,
		PixelTypeName: "Gray8",
		Channels:      []czitest.Channel{{Name: "TL Brightfield"}},
		Planes: []czitest.Plane{{
			Height: 2, Width: 2,
			PixelType: czitest.PixelGray8,
			Data:      []byte{1, 2, 3, 4},
		}},
	}
	path := filepath.Join(t.TempDir(), "nolimits.czi")
	require.NoError(t, b.WriteFile(path))

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	require.Len(t, f.Metadata().Channels, 1)
	assert.False(t, f.Metadata().Channels[0].HasDisplayLimits)
	assert.Equal(t, float64(255), f.Metadata().MaxValue())
}

// TestMaxValue verifies the intensity range per pixel type. Float data is
// normalized to 0..1 even though containers declare a 32-bit component.
func TestMaxValue(t *testing.T) {
	cases := []struct {
		pixelType string
		bits      int
		want      float64
	}{
		{"Gray8", 0, 255},
		{"Gray16", 0, 65535},
		{"Gray16", 14, 16383},
		{"Gray32Float", 0, 1},
		{"Gray32Float", 32, 1},
	}
	for _, c := range cases {
		md := &Metadata{PixelType: c.pixelType, ComponentBitCount: c.bits}
		assert.Equal(t, c.want, md.MaxValue(),
			"%s with %d declared bits", c.pixelType, c.bits)
	}
}
