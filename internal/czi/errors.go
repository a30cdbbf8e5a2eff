package czi

import "errors"

// Common errors
var (
	ErrNotCZI                 = errors.New("not a CZI file")
	ErrTruncated              = errors.New("truncated segment")
	ErrUnsupportedPixelType   = errors.New("unsupported pixel type")
	ErrUnsupportedCompression = errors.New("unsupported subblock compression")
	ErrSceneNotFound          = errors.New("scene not found")
	ErrClosed                 = errors.New("file is closed")
)
