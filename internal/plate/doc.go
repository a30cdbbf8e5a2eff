// Package plate implements multi-well plate layout derivation for the
// czarr CLI.
//
// Two concerns live here:
//
//   - Deriving a plate layout from the well-position tokens recorded in an
//     acquisition (e.g., "B4", "B5"): the row label is the alphabetic run
//     of the token and the column label is the numeric run, collected
//     independently across all tokens and sorted.
//
//   - Enumerating the six industry-standard microplate geometries
//     (6/24/48/96/384/1536 wells) with generated row letters (A, B, ...)
//     and column numbers (1, 2, ...).
//
// Column labels remain strings throughout and sort lexicographically, so
// column "10" orders before column "2". This mirrors how acquisition
// software emits well paths and is relied upon by downstream consumers of
// the plate metadata; do not switch to numeric ordering.
package plate
