// Package czi provides a pure Go reader for Zeiss CZI (ZISRAW) containers,
// covering the subset a plate conversion needs.
//
// A CZI file is a sequence of segments, each with a 32-byte header:
// a 16-byte ASCII segment id, an allocated size, and a used size. The
// segments of interest are:
//
//   - ZISRAWFILE: the file header, holding the positions of the metadata
//     segment and the subblock directory.
//   - ZISRAWMETADATA: an embedded XML document with image dimensions,
//     channel and display settings, physical scaling, and the scene table.
//   - ZISRAWDIRECTORY: the subblock directory, one "DV" entry per stored
//     image tile with its dimension extents and file position.
//   - ZISRAWSUBBLOCK: the pixel payload for one tile.
//
// Pixel types Gray8, Gray16, and Gray32Float are supported; subblock
// payloads may be stored raw or zstd-compressed. Everything else the
// format allows (JPEG/JPEG-XR tiles, BGR pixel types, attachments,
// pyramid subblocks) is out of scope and reported as unsupported.
package czi
