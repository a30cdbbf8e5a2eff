package ngff

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiraku-ota/czarr/internal/model"
	"github.com/hiraku-ota/czarr/internal/plate"
)

// TestNewPlate verifies the plate document built from an observed layout:
// the B4/B5 example from the acquisition in the test corpus.
func TestNewPlate(t *testing.T) {
	layout := plate.ExtractWellCoordinates(map[string]int{"B4": 4, "B5": 4})
	p := NewPlate("WP96", layout, 4)

	assert.Equal(t, "WP96", p.Name)
	assert.Equal(t, "0.4", p.Version)
	assert.Equal(t, 4, p.FieldCount)
	require.Len(t, p.Rows, 1)
	assert.Equal(t, "B", p.Rows[0].Name)
	require.Len(t, p.Columns, 2)
	assert.Equal(t, "4", p.Columns[0].Name)
	assert.Equal(t, "5", p.Columns[1].Name)

	require.Len(t, p.Wells, 2)
	assert.Equal(t, PlateWell{Path: "B/4", RowIndex: 0, ColumnIndex: 0}, p.Wells[0])
	assert.Equal(t, PlateWell{Path: "B/5", RowIndex: 0, ColumnIndex: 1}, p.Wells[1])

	require.Len(t, p.Acquisitions, 1)
	assert.Equal(t, 0, p.Acquisitions[0].ID)
}

// TestPlateFromGeometry verifies the 96-well plate document: 8 rows ×
// 12 columns, 96 enumerated wells.
func TestPlateFromGeometry(t *testing.T) {
	g, err := plate.GeometryByWellCount(96)
	require.NoError(t, err)

	p := PlateFromGeometry(g, 2)
	assert.Equal(t, "96-Well Plate", p.Name)
	assert.Len(t, p.Rows, 8)
	assert.Len(t, p.Columns, 12)
	require.Len(t, p.Wells, 96)
	assert.Equal(t, 2, p.FieldCount)

	// First and last wells of the cartesian product, rows outer.
	assert.Equal(t, PlateWell{Path: "A/1", RowIndex: 0, ColumnIndex: 0}, p.Wells[0])
	assert.Equal(t, PlateWell{Path: "H/12", RowIndex: 7, ColumnIndex: 11}, p.Wells[95])
}

// TestPlate_JSONShape pins the on-disk JSON field names, which are part
// of the NGFF wire format and must not drift with struct renames.
func TestPlate_JSONShape(t *testing.T) {
	layout := plate.ExtractWellCoordinates(map[string]int{"B4": 1})
	data, err := json.Marshal(plateAttrs{Plate: NewPlate("p", layout, 1)})
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))

	pl, ok := doc["plate"].(map[string]interface{})
	require.True(t, ok, "top-level key must be \"plate\"")
	for _, key := range []string{"rows", "columns", "wells", "version", "field_count", "acquisitions"} {
		assert.Contains(t, pl, key)
	}

	wells := pl["wells"].([]interface{})
	well := wells[0].(map[string]interface{})
	assert.Contains(t, well, "rowIndex")
	assert.Contains(t, well, "columnIndex")
}

// TestScaleForAxes verifies zero scaling falls back to the identity.
func TestScaleForAxes(t *testing.T) {
	assert.Equal(t, []float64{1, 1, 0.5, 0.1, 0.1}, ScaleForAxes(0.5, 0.1, 0.1))
	assert.Equal(t, []float64{1, 1, 1, 1, 1}, ScaleForAxes(0, 0, 0))
}

// TestChannelsToOmero verifies the omero document carries the derived
// window and color settings.
func TestChannelsToOmero(t *testing.T) {
	om := ChannelsToOmero("sample.czi", []model.ChannelDisplay{
		{Label: "DAPI", Color: "0050FF", Active: true, Min: 164, Start: 164, End: 8192, Max: 16383},
	})

	assert.Equal(t, "sample.czi", om.Name)
	require.Len(t, om.Channels, 1)
	ch := om.Channels[0]
	assert.Equal(t, "DAPI", ch.Label)
	assert.Equal(t, "0050FF", ch.Color)
	assert.True(t, ch.Active)
	require.NotNil(t, ch.Window)
	assert.Equal(t, float64(164), ch.Window.Min)
	assert.Equal(t, float64(164), ch.Window.Start)
	assert.Equal(t, float64(8192), ch.Window.End)
	assert.Equal(t, float64(16383), ch.Window.Max)
}

// TestChannelsToOmero_Empty verifies zero channels marshal as an empty
// array, which the image schema requires.
func TestChannelsToOmero_Empty(t *testing.T) {
	om := ChannelsToOmero("empty.czi", nil)
	raw, err := json.Marshal(om)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"channels":[]`)
}

// TestPlaneChunks verifies the (1, ..., 1, Y, X) chunk policy.
func TestPlaneChunks(t *testing.T) {
	assert.Equal(t, []int{1, 1, 1, 512, 640}, PlaneChunks([]int{5, 2, 10, 512, 640}))
	assert.Equal(t, []int{256, 256}, PlaneChunks([]int{256, 256}))
}
