// Package config loads converter settings.
//
// Two file formats are supported:
//   - .czarr.jsonc: optional converter defaults in JSONC (JSON with
//     Comments), stripped with github.com/tidwall/jsonc before parsing
//     with the standard encoding/json library.
//   - plate-map YAML files: explicit plate geometry definitions consumed
//     by the plate command, parsed with gopkg.in/yaml.v3.
//
// The settings file is discovered next to the input file first, then in
// the current working directory; conversions work without one.
package config
