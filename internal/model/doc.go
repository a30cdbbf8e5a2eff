// Package model defines the domain types and value objects for the
// czarr CLI.
//
// This package contains pure data structures with no external dependencies.
// All entities (ConversionResult, ChannelDisplay, etc.) are transient
// representations derived from a single conversion run — there is no
// persistent state beyond the output store itself.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
