// geometry.go enumerates the standard microplate formats.
//
// The six industry-standard geometries are fixed: 6-well (2×3) through
// 1536-well (32×48). Row labels are consecutive letters starting at "A";
// column labels are consecutive integers starting at "1".
package plate

import (
	"fmt"
	"sort"
	"strconv"
)

// Geometry describes a microplate: the number of rows and columns and a
// display name. Values are immutable after construction.
type Geometry struct {
	// Rows is the number of plate rows.
	Rows int `json:"rows" yaml:"rows"`

	// Columns is the number of plate columns.
	Columns int `json:"columns" yaml:"columns"`

	// Name is the human-readable plate name (e.g., "96-Well Plate").
	Name string `json:"name" yaml:"name"`
}

// Well is one enumerated well of a Geometry: its "{row}/{column}" path and
// the zero-based indices into the geometry's row and column label lists.
type Well struct {
	// Path is the "{row}/{column}" well path (e.g., "B/4").
	Path string

	// RowIndex is the zero-based index into RowLabels().
	RowIndex int

	// ColumnIndex is the zero-based index into ColumnLabels().
	ColumnIndex int
}

// standardGeometries holds the six standard microplate formats keyed by
// total well count.
var standardGeometries = map[int]Geometry{
	6:    {Rows: 2, Columns: 3, Name: "6-Well Plate"},
	24:   {Rows: 4, Columns: 6, Name: "24-Well Plate"},
	48:   {Rows: 6, Columns: 8, Name: "48-Well Plate"},
	96:   {Rows: 8, Columns: 12, Name: "96-Well Plate"},
	384:  {Rows: 16, Columns: 24, Name: "384-Well Plate"},
	1536: {Rows: 32, Columns: 48, Name: "1536-Well Plate"},
}

// StandardWellCounts returns the supported well counts in ascending order.
func StandardWellCounts() []int {
	counts := make([]int, 0, len(standardGeometries))
	for n := range standardGeometries {
		counts = append(counts, n)
	}
	sort.Ints(counts)
	return counts
}

// GeometryByWellCount looks up the standard geometry for the given total
// well count. Counts outside the standard set {6, 24, 48, 96, 384, 1536}
// produce an error that enumerates the supported values.
func GeometryByWellCount(wellCount int) (Geometry, error) {
	g, ok := standardGeometries[wellCount]
	if !ok {
		return Geometry{}, fmt.Errorf(
			"unsupported well count %d: available formats are %v",
			wellCount, StandardWellCounts())
	}
	return g, nil
}

// TotalWells returns rows × columns.
func (g Geometry) TotalWells() int {
	return g.Rows * g.Columns
}

// RowLabels generates the row labels for the geometry: "A", "B", ... .
// Geometries with more than 26 rows continue with double letters
// ("AA", "AB", ...), though no standard format needs them beyond the
// 32-row 1536-well plate, which stays within "AF".
func (g Geometry) RowLabels() []string {
	labels := make([]string, g.Rows)
	for i := 0; i < g.Rows; i++ {
		labels[i] = rowLabel(i)
	}
	return labels
}

// ColumnLabels generates the column labels for the geometry: "1", "2", ... .
func (g Geometry) ColumnLabels() []string {
	labels := make([]string, g.Columns)
	for i := 0; i < g.Columns; i++ {
		labels[i] = strconv.Itoa(i + 1)
	}
	return labels
}

// Wells enumerates every well of the geometry as the cartesian product of
// rows × columns, rows outer, with zero-based row/column indices.
func (g Geometry) Wells() []Well {
	rows := g.RowLabels()
	cols := g.ColumnLabels()

	wells := make([]Well, 0, len(rows)*len(cols))
	for ri, row := range rows {
		for ci, col := range cols {
			wells = append(wells, Well{
				Path:        row + "/" + col,
				RowIndex:    ri,
				ColumnIndex: ci,
			})
		}
	}
	return wells
}

// rowLabel converts a zero-based row index into a letter label:
// 0 → "A", 25 → "Z", 26 → "AA", 27 → "AB", ... (bijective base 26).
func rowLabel(index int) string {
	label := ""
	n := index + 1
	for n > 0 {
		n--
		label = string(rune('A'+n%26)) + label
		n /= 26
	}
	return label
}
