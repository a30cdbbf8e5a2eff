// Package convert implements the CZI → OME-ZARR conversion pipeline.
//
// Two conversion modes exist:
//   - HCS: a plate acquisition becomes an OME-NGFF v0.4 HCS store.
//     Every scene is one field of view, scenes sharing a name belong to
//     the same well, and the store is laid out plate → row → column →
//     field with a single resolution level per field.
//   - Image: a single scene becomes a plain OME-ZARR image store with
//     multiscales and omero metadata on the root group.
//
// The pipeline reports progress and warnings through optional callbacks
// so the CLI layer controls all terminal output.
package convert
