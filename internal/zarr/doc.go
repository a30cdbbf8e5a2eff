// Package zarr implements a minimal Zarr v2 directory store: nested groups
// with .zgroup/.zattrs JSON documents and chunked n-dimensional arrays with
// .zarray metadata.
//
// Only what the OME-ZARR output convention needs is implemented:
//
//   - C-order arrays of unsigned integer and float dtypes, little-endian,
//     encoded with numpy-style dtype strings ("|u1", "<u2", "<f4").
//   - Chunk files named by "/"-joined chunk indices (dimension_separator
//     "/"), so chunks land in nested directories.
//   - zlib (deflate) chunk compression via github.com/klauspost/compress,
//     matching the numcodecs "zlib" codec; level 0 writes raw chunks with
//     a null compressor.
//
// The package also provides the read-back helpers the validate command and
// the tests use: opening a store, reading group attributes, and reading a
// chunk back into memory.
package zarr
