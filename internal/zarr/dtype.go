// dtype.go maps between Go element types and Zarr v2 dtype strings.
//
// Zarr v2 encodes dtypes with numpy's type strings: a byte-order prefix
// ("<" little-endian, ">" big-endian, "|" not applicable) followed by a
// kind character and an item size. All arrays written by this package are
// little-endian.
package zarr

import "fmt"

// DType identifies the element type of an Array.
type DType string

// Supported element types. Microscopy containers use unsigned integer and
// 32-bit float pixel types; signed and 64-bit variants exist only for
// completeness of the parser.
const (
	Uint8   DType = "uint8"
	Uint16  DType = "uint16"
	Uint32  DType = "uint32"
	Float32 DType = "float32"
	Float64 DType = "float64"
)

// numpyStrings maps each DType to its Zarr v2 (numpy) encoding.
var numpyStrings = map[DType]string{
	Uint8:   "|u1",
	Uint16:  "<u2",
	Uint32:  "<u4",
	Float32: "<f4",
	Float64: "<f8",
}

// itemSizes maps each DType to its size in bytes.
var itemSizes = map[DType]int{
	Uint8:   1,
	Uint16:  2,
	Uint32:  4,
	Float32: 4,
	Float64: 8,
}

// NumpyString returns the Zarr v2 dtype encoding (e.g., "<u2" for Uint16).
func (d DType) NumpyString() string {
	return numpyStrings[d]
}

// ItemSize returns the element size in bytes.
func (d DType) ItemSize() int {
	return itemSizes[d]
}

// IsValid reports whether the DType is one of the supported element types.
func (d DType) IsValid() bool {
	_, ok := itemSizes[d]
	return ok
}

// ParseDType parses a Zarr v2 dtype string (e.g., "<u2", "|u1") into a
// DType. Big-endian variants are rejected: this package only writes and
// reads little-endian data.
func ParseDType(s string) (DType, error) {
	switch s {
	case "|u1":
		return Uint8, nil
	case "<u2":
		return Uint16, nil
	case "<u4":
		return Uint32, nil
	case "<f4":
		return Float32, nil
	case "<f8":
		return Float64, nil
	}
	return "", fmt.Errorf("unsupported dtype: %q", s)
}
