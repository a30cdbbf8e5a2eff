// layout.go derives a plate layout from observed well-position tokens.
//
// A well-position token is a short string such as "B4": a row label made of
// letters and a column label made of digits. The extraction is purely
// character-class based — the position of letters and digits within the
// token does not matter, only their values.
package plate

import (
	"sort"
	"strings"
	"unicode"
)

// Layout is the plate layout derived from a set of well-position tokens.
// Row and column labels are each sorted independently; WellPaths covers the
// full cartesian product of rows × columns regardless of whether every
// combination was actually acquired. Conversion requires every listed well
// to carry the full field count and rejects incomplete layouts.
type Layout struct {
	// Rows holds the distinct row labels, sorted lexicographically.
	Rows []string

	// Columns holds the distinct column labels, sorted lexicographically.
	// Labels are digit strings, and the ordering is string ordering:
	// "10" sorts before "2". See the package comment.
	Columns []string

	// WellPaths holds "{row}/{column}" paths for the full cartesian
	// product, rows outer, columns inner.
	WellPaths []string
}

// ExtractWellCoordinates derives a Layout from a well counter — a mapping
// from well-position token to acquisition (field) count. Only the keys are
// consulted; the counts matter to callers enumerating fields, not to the
// layout itself.
//
// The row label of a token is the concatenation of its letter runes and
// the column label is the concatenation of its digit runes. There is no
// error path: a token with no letters or no digits contributes an empty
// row or column label.
func ExtractWellCoordinates(wellCounter map[string]int) Layout {
	rowSet := make(map[string]bool)
	colSet := make(map[string]bool)

	for token := range wellCounter {
		row, col := SplitWellToken(token)
		rowSet[row] = true
		colSet[col] = true
	}

	layout := Layout{
		Rows:    sortedKeys(rowSet),
		Columns: sortedKeys(colSet),
	}

	// Well paths cover the full rows × columns product, rows outer.
	layout.WellPaths = make([]string, 0, len(layout.Rows)*len(layout.Columns))
	for _, row := range layout.Rows {
		for _, col := range layout.Columns {
			layout.WellPaths = append(layout.WellPaths, row+"/"+col)
		}
	}

	return layout
}

// SplitWellToken splits a well-position token into its row (letters) and
// column (digits) labels. Characters that are neither letters nor digits
// are ignored.
func SplitWellToken(token string) (row, col string) {
	var rowB, colB strings.Builder
	for _, r := range token {
		switch {
		case unicode.IsLetter(r):
			rowB.WriteRune(r)
		case unicode.IsDigit(r):
			colB.WriteRune(r)
		}
	}
	return rowB.String(), colB.String()
}

// sortedKeys returns the keys of the set in sorted order.
func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
