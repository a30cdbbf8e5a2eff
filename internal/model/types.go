// Package model defines the domain types for the czarr CLI.
//
// All types here are small value objects that cross package boundaries:
// conversion results for CLI output, channel display settings destined for
// the omero metadata block, and the CLIError/ExitCode pair used by the CLI
// layer to translate domain failures into process exit codes.
package model

import (
	"fmt"
)

// ChannelDisplay holds the per-channel display settings written to the
// "omero" metadata block of an OME-ZARR image. The values are derived from
// display limits embedded in the source container: start/end are the
// channel's contrast window and min/max bound the representable range for
// the channel's pixel type.
type ChannelDisplay struct {
	// Label is the channel name (e.g., "DAPI", "EGFP").
	Label string `json:"label"`

	// Color is the channel display color as a 6-digit RGB hex string
	// without a leading "#" (e.g., "00FF00"). The alpha component of the
	// source's #AARRGGBB color is dropped.
	Color string `json:"color"`

	// Active reports whether the channel should be rendered by default.
	Active bool `json:"active"`

	// Start and End are the lower and upper contrast window bounds.
	Start float64 `json:"start"`

	// End is the upper contrast window bound.
	End float64 `json:"end"`

	// Min and Max bound the representable intensity range, derived from
	// the channel's component bit depth (0 .. 2^bits-1).
	Min float64 `json:"min"`

	// Max is the maximum representable intensity.
	Max float64 `json:"max"`
}

// ConversionResult summarizes a completed conversion run. It is the value
// printed by the convert/image commands, either as a human-readable block
// or as JSON when --json is set.
type ConversionResult struct {
	// Input is the path to the source CZI container.
	Input string `json:"input"`

	// Output is the path to the written OME-ZARR store.
	Output string `json:"output"`

	// Skipped is true when the output already existed and overwrite was
	// not requested; no data was written in that case.
	Skipped bool `json:"skipped,omitempty"`

	// Wells is the number of well paths written (0 for single-image runs).
	Wells int `json:"wells,omitempty"`

	// Fields is the number of fields per well (0 for single-image runs).
	Fields int `json:"fields,omitempty"`

	// Channels is the number of image channels.
	Channels int `json:"channels,omitempty"`

	// BytesWritten is the total compressed chunk payload written to disk.
	BytesWritten int64 `json:"bytesWritten"`

	// Validated is true when the store was schema-validated after writing.
	Validated bool `json:"validated,omitempty"`
}

// ExitCode defines standard CLI exit codes. These codes allow scripts and
// CI systems to programmatically determine the outcome of a command.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitInputNotFound indicates the input file does not exist.
	ExitInputNotFound ExitCode = 2

	// ExitInvalidInput indicates the input file exists but could not be
	// read as a CZI container.
	ExitInvalidInput ExitCode = 3

	// ExitOutputExists indicates the output store already exists and
	// --overwrite was not given.
	ExitOutputExists ExitCode = 4

	// ExitUnsupportedPlate indicates a requested plate geometry is not one
	// of the standard microplate formats.
	ExitUnsupportedPlate ExitCode = 5

	// ExitValidationFailed indicates a written or existing store did not
	// conform to the OME-NGFF metadata schemas.
	ExitValidationFailed ExitCode = 6
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
