// array.go defines the in-memory n-dimensional array passed between the
// container reader and the store writer.
package zarr

import (
	"fmt"
)

// Array is an n-dimensional, C-order (row-major), little-endian buffer.
// The trailing two dimensions are conventionally Y and X for image data,
// but the type itself is dimension-agnostic.
type Array struct {
	// DType is the element type.
	DType DType

	// Shape holds the dimension sizes, slowest-varying first.
	Shape []int

	// Data holds the raw element bytes in C order. Its length is always
	// NumElements() × DType.ItemSize().
	Data []byte
}

// NewArray allocates a zero-filled array with the given dtype and shape.
func NewArray(dtype DType, shape []int) (*Array, error) {
	if !dtype.IsValid() {
		return nil, fmt.Errorf("invalid dtype %q", dtype)
	}
	n := 1
	for _, s := range shape {
		if s <= 0 {
			return nil, fmt.Errorf("invalid shape %v: dimension sizes must be positive", shape)
		}
		n *= s
	}
	return &Array{
		DType: dtype,
		Shape: append([]int(nil), shape...),
		Data:  make([]byte, n*dtype.ItemSize()),
	}, nil
}

// NumElements returns the product of all dimension sizes.
func (a *Array) NumElements() int {
	n := 1
	for _, s := range a.Shape {
		n *= s
	}
	return n
}

// NDim returns the number of dimensions.
func (a *Array) NDim() int {
	return len(a.Shape)
}

// Subarray returns a view of the array with the leading dimension fixed at
// the given index: a (d0, d1, ..., dn) array yields a (d1, ..., dn) array.
// The returned array shares the underlying buffer.
func (a *Array) Subarray(index int) (*Array, error) {
	if len(a.Shape) == 0 {
		return nil, fmt.Errorf("cannot index a 0-dimensional array")
	}
	if index < 0 || index >= a.Shape[0] {
		return nil, fmt.Errorf("index %d out of range for dimension of size %d", index, a.Shape[0])
	}

	sub := a.NumElements() / a.Shape[0] * a.DType.ItemSize()
	return &Array{
		DType: a.DType,
		Shape: append([]int(nil), a.Shape[1:]...),
		Data:  a.Data[index*sub : (index+1)*sub],
	}, nil
}

// SetRegion copies src into the array at the given per-dimension offsets.
// src must have the same dtype and dimensionality, and the region
// offset+src.Shape must lie within the array bounds. This is how subblock
// planes are assembled into a scene array.
func (a *Array) SetRegion(offset []int, src *Array) error {
	if src.DType != a.DType {
		return fmt.Errorf("dtype mismatch: %s vs %s", src.DType, a.DType)
	}
	if len(offset) != len(a.Shape) || len(src.Shape) != len(a.Shape) {
		return fmt.Errorf("rank mismatch: offset %v, src %v, dst %v", offset, src.Shape, a.Shape)
	}
	for i := range offset {
		if offset[i] < 0 || offset[i]+src.Shape[i] > a.Shape[i] {
			return fmt.Errorf("region %v+%v exceeds shape %v", offset, src.Shape, a.Shape)
		}
	}

	copyRegion(a.Data, a.Shape, offset, src.Data, src.Shape, a.DType.ItemSize())
	return nil
}

// copyRegion copies a src hyperrectangle into dst at the given offset.
// Both buffers are C order. The innermost dimension is copied as one
// contiguous run; outer dimensions recurse.
func copyRegion(dst []byte, dstShape, offset []int, src []byte, srcShape []int, itemSize int) {
	if len(srcShape) == 1 {
		dstStart := offset[0] * itemSize
		copy(dst[dstStart:dstStart+srcShape[0]*itemSize], src[:srcShape[0]*itemSize])
		return
	}

	dstStride := itemSize
	for _, s := range dstShape[1:] {
		dstStride *= s
	}
	srcStride := itemSize
	for _, s := range srcShape[1:] {
		srcStride *= s
	}

	for i := 0; i < srcShape[0]; i++ {
		copyRegion(
			dst[(offset[0]+i)*dstStride:],
			dstShape[1:], offset[1:],
			src[i*srcStride:],
			srcShape[1:], itemSize)
	}
}

// extractRegion copies the hyperrectangle at offset with the given shape
// out of src into a freshly allocated buffer, padding with zero bytes
// (the fill value) where the region extends past the array bounds. This is
// used to materialize edge chunks, which Zarr stores at full chunk size.
func extractRegion(src []byte, srcShape, offset, regionShape []int, itemSize int) []byte {
	n := itemSize
	for _, s := range regionShape {
		n *= s
	}
	dst := make([]byte, n)
	extractInto(dst, regionShape, src, srcShape, offset, itemSize)
	return dst
}

func extractInto(dst []byte, regionShape []int, src []byte, srcShape, offset []int, itemSize int) {
	if len(regionShape) == 1 {
		// Clip the run to the source bounds; the remainder stays zero.
		avail := srcShape[0] - offset[0]
		if avail <= 0 {
			return
		}
		run := regionShape[0]
		if run > avail {
			run = avail
		}
		copy(dst[:run*itemSize], src[offset[0]*itemSize:(offset[0]+run)*itemSize])
		return
	}

	dstStride := itemSize
	for _, s := range regionShape[1:] {
		dstStride *= s
	}
	srcStride := itemSize
	for _, s := range srcShape[1:] {
		srcStride *= s
	}

	for i := 0; i < regionShape[0]; i++ {
		if offset[0]+i >= srcShape[0] {
			break
		}
		extractInto(
			dst[i*dstStride:(i+1)*dstStride],
			regionShape[1:],
			src[(offset[0]+i)*srcStride:],
			srcShape[1:], offset[1:], itemSize)
	}
}
