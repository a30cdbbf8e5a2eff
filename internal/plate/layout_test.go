package plate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestExtractWellCoordinates_TwoWells verifies the canonical example:
// two wells in the same row produce one row label, two column labels,
// and a two-entry cartesian product.
func TestExtractWellCoordinates_TwoWells(t *testing.T) {
	layout := ExtractWellCoordinates(map[string]int{"B4": 4, "B5": 4})

	assert.Equal(t, []string{"B"}, layout.Rows)
	assert.Equal(t, []string{"4", "5"}, layout.Columns)
	assert.Equal(t, []string{"B/4", "B/5"}, layout.WellPaths)
}

// TestExtractWellCoordinates_CartesianProduct verifies that well paths
// cover the full rows × columns product even when some combinations were
// never acquired.
func TestExtractWellCoordinates_CartesianProduct(t *testing.T) {
	// B4 and C5 acquired — B5 and C4 were not, but still appear as paths.
	layout := ExtractWellCoordinates(map[string]int{"B4": 1, "C5": 1})

	assert.Equal(t, []string{"B", "C"}, layout.Rows)
	assert.Equal(t, []string{"4", "5"}, layout.Columns)
	assert.Equal(t, []string{"B/4", "B/5", "C/4", "C/5"}, layout.WellPaths)
}

// TestExtractWellCoordinates_LexicographicColumns pins down the string
// ordering of column labels: "10" sorts before "2". Downstream consumers
// depend on this ordering, so a change here is a breaking change.
func TestExtractWellCoordinates_LexicographicColumns(t *testing.T) {
	layout := ExtractWellCoordinates(map[string]int{"B2": 1, "B10": 1})

	assert.Equal(t, []string{"10", "2"}, layout.Columns)
	assert.Equal(t, []string{"B/10", "B/2"}, layout.WellPaths)
}

// TestExtractWellCoordinates_Empty verifies an empty counter yields an
// empty layout with no well paths.
func TestExtractWellCoordinates_Empty(t *testing.T) {
	layout := ExtractWellCoordinates(nil)

	assert.Empty(t, layout.Rows)
	assert.Empty(t, layout.Columns)
	assert.Empty(t, layout.WellPaths)
}

// TestSplitWellToken verifies character-class extraction, including
// multi-letter rows, interleaved characters, and degenerate tokens.
func TestSplitWellToken(t *testing.T) {
	tests := []struct {
		token string
		row   string
		col   string
	}{
		{"B4", "B", "4"},
		{"AB12", "AB", "12"},
		{"H10", "H", "10"},
		// Extraction is character-class based, not positional.
		{"4B", "B", "4"},
		{"A1B2", "AB", "12"},
		// Separators are ignored.
		{"B-4", "B", "4"},
		// Degenerate tokens silently produce empty labels.
		{"42", "", "42"},
		{"BC", "BC", ""},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			row, col := SplitWellToken(tt.token)
			assert.Equal(t, tt.row, row)
			assert.Equal(t, tt.col, col)
		})
	}
}
