package zarr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseDType covers the supported dtype strings and rejects the rest.
func TestParseDType(t *testing.T) {
	tests := []struct {
		in   string
		want DType
	}{
		{"|u1", Uint8},
		{"<u2", Uint16},
		{"<u4", Uint32},
		{"<f4", Float32},
		{"<f8", Float64},
	}
	for _, tt := range tests {
		got, err := ParseDType(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.in, got.NumpyString(), "parse/encode must round-trip")
	}

	for _, bad := range []string{">u2", "|b1", "<i4", "", "u2"} {
		_, err := ParseDType(bad)
		assert.Error(t, err, bad)
	}
}

// TestNewArray verifies allocation sizing and shape validation.
func TestNewArray(t *testing.T) {
	a, err := NewArray(Uint16, []int{2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, 24, a.NumElements())
	assert.Len(t, a.Data, 48)
	assert.Equal(t, 3, a.NDim())

	_, err = NewArray(Uint16, []int{2, 0})
	assert.Error(t, err, "zero-size dimension must be rejected")

	_, err = NewArray(DType("int13"), []int{2})
	assert.Error(t, err, "unknown dtype must be rejected")
}

// TestArray_Subarray verifies leading-dimension indexing shares the buffer.
func TestArray_Subarray(t *testing.T) {
	a, err := NewArray(Uint8, []int{3, 2, 2})
	require.NoError(t, err)
	for i := range a.Data {
		a.Data[i] = byte(i)
	}

	sub, err := a.Subarray(1)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, sub.Shape)
	assert.Equal(t, []byte{4, 5, 6, 7}, sub.Data)

	// The view writes through to the parent buffer.
	sub.Data[0] = 0xFF
	assert.Equal(t, byte(0xFF), a.Data[4])

	_, err = a.Subarray(3)
	assert.Error(t, err)
}

// TestArray_SetRegion verifies region placement, which is how subblock
// planes are assembled into scene arrays.
func TestArray_SetRegion(t *testing.T) {
	dst, err := NewArray(Uint8, []int{4, 4})
	require.NoError(t, err)

	src, err := NewArray(Uint8, []int{2, 2})
	require.NoError(t, err)
	copy(src.Data, []byte{1, 2, 3, 4})

	require.NoError(t, dst.SetRegion([]int{1, 2}, src))

	// Row 1 columns 2-3, row 2 columns 2-3.
	assert.Equal(t, []byte{
		0, 0, 0, 0,
		0, 0, 1, 2,
		0, 0, 3, 4,
		0, 0, 0, 0,
	}, dst.Data)

	// Out-of-bounds regions are rejected outright.
	assert.Error(t, dst.SetRegion([]int{3, 3}, src))
}
