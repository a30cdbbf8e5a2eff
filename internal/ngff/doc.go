// Package ngff implements the OME-NGFF v0.4 metadata convention on top of
// the zarr store: plate, well, multiscales, and omero documents, plus
// schema validation of written stores.
//
// The package covers the HCS (High Content Screening) layout: a plate root
// group with row/column child groups, well groups listing their fields,
// and per-field image groups holding a single-resolution multiscale array.
// Multiscale pyramid generation is deliberately not implemented — every
// image has exactly one dataset, "0".
//
// Validation uses github.com/santhosh-tekuri/jsonschema/v5 over embedded
// schemas derived from the published NGFF 0.4 metadata rules.
package ngff
