package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

// FileName is the name of the optional converter settings file.
const FileName = ".czarr.jsonc"

// DefaultCompressionLevel is the zlib level used for chunk payloads when
// no settings file or flag overrides it.
const DefaultCompressionLevel = 5

// Settings holds converter defaults loaded from a .czarr.jsonc file.
// Flag values take precedence over file values; file values take
// precedence over the built-in defaults.
type Settings struct {
	// CompressionLevel is the zlib level (0-9) for zarr chunk payloads.
	// 0 stores chunks uncompressed.
	CompressionLevel *int `json:"compressionLevel,omitempty"`

	// Overwrite removes an existing output store instead of skipping the
	// conversion.
	Overwrite *bool `json:"overwrite,omitempty"`

	// PlateName overrides the plate display name. Defaults to the input
	// file name.
	PlateName string `json:"plateName,omitempty"`

	// Validate runs schema validation on the written store after a
	// conversion.
	Validate *bool `json:"validate,omitempty"`
}

// Defaults returns the built-in converter settings: zlib level 5, no
// overwrite, no post-write validation.
func Defaults() Settings {
	level := DefaultCompressionLevel
	off := false
	return Settings{
		CompressionLevel: &level,
		Overwrite:        &off,
		Validate:         &off,
	}
}

// Load reads a .czarr.jsonc settings file, strips JSONC comments, and
// parses it. Fields absent from the file keep their built-in defaults.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("reading settings file %s: %w", path, err)
	}

	// Strip // and /* */ comments and trailing commas before parsing.
	cleanJSON := jsonc.ToJSON(data)

	s := Defaults()
	if err := json.Unmarshal(cleanJSON, &s); err != nil {
		return Settings{}, fmt.Errorf("parsing settings file %s: %w", path, err)
	}
	return s, nil
}

// Discover locates and loads the settings file for an input path: first
// the input's directory, then the current working directory. When neither
// holds a .czarr.jsonc, the built-in defaults are returned with an empty
// source path.
func Discover(inputPath string) (Settings, string, error) {
	candidates := []string{
		filepath.Join(filepath.Dir(inputPath), FileName),
		FileName,
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err != nil {
			continue
		}
		s, err := Load(c)
		if err != nil {
			return Settings{}, c, err
		}
		return s, c, nil
	}
	return Defaults(), "", nil
}
