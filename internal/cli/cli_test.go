// Package cli — cli_test.go contains unit tests for command wiring and
// the pure resolution helpers used by the subcommands.
//
// These tests exercise flag parsing and settings layering without running
// a full conversion; the pipeline itself is covered in internal/convert.
package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiraku-ota/czarr/internal/model"
)

// TestNewRootCommand verifies that all subcommands are registered.
func TestNewRootCommand(t *testing.T) {
	root := NewRootCommand()

	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"convert", "image", "plate", "info", "validate"} {
		assert.True(t, names[want], "subcommand %q not registered", want)
	}
}

// TestResolveConvertOptions_FlagsOverrideSettingsFile verifies the three
// settings layers: built-in defaults, then the settings file, then flags —
// but only flags that were explicitly set.
func TestResolveConvertOptions_FlagsOverrideSettingsFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "settings.jsonc")
	content := `{
    "compressionLevel": 9,
    "overwrite": true, // always replace
    "plateName": "from-file",
}`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cmd := NewConvertCommand()
	flags := &convertFlags{configPath: configPath}
	require.NoError(t, cmd.Flags().Set("config", configPath))
	require.NoError(t, cmd.Flags().Set("plate-name", "from-flag"))
	flags.plateName = "from-flag"

	opts, err := resolveConvertOptions(cmd, flags, filepath.Join(dir, "in.czi"))
	require.NoError(t, err)

	// File values apply where no flag was set.
	assert.Equal(t, 9, opts.CompressionLevel)
	assert.True(t, opts.Overwrite)
	// The explicitly set flag wins over the file.
	assert.Equal(t, "from-flag", opts.PlateName)
	// Untouched settings keep their defaults.
	assert.False(t, opts.Validate)
}

// TestResolveConvertOptions_NoSettingsFile verifies the built-in defaults
// when neither a settings file nor flags are present.
func TestResolveConvertOptions_NoSettingsFile(t *testing.T) {
	dir := t.TempDir()

	cmd := NewConvertCommand()
	opts, err := resolveConvertOptions(cmd, &convertFlags{}, filepath.Join(dir, "in.czi"))
	require.NoError(t, err)

	assert.Equal(t, 5, opts.CompressionLevel)
	assert.False(t, opts.Overwrite)
	assert.False(t, opts.Validate)
	assert.Empty(t, opts.PlateName)
}

// TestResolveGeometry verifies geometry selection and the unsupported
// well-count exit code.
func TestResolveGeometry(t *testing.T) {
	g, fields, err := resolveGeometry(&plateFlags{wells: 384, fields: 9})
	require.NoError(t, err)
	assert.Equal(t, 16, g.Rows)
	assert.Equal(t, 24, g.Columns)
	assert.Equal(t, 9, fields)

	_, _, err = resolveGeometry(&plateFlags{wells: 100})
	require.Error(t, err)
	cliErr, ok := err.(*model.CLIError)
	require.True(t, ok)
	assert.Equal(t, model.ExitUnsupportedPlate, cliErr.Code)
}

// TestResolveGeometry_FromMap verifies plate-map loading through the
// command-facing helper.
func TestResolveGeometry_FromMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plate.yaml")
	require.NoError(t, os.WriteFile(path, []byte("wells: 24\nfields: 2\n"), 0644))

	g, fields, err := resolveGeometry(&plateFlags{mapPath: path})
	require.NoError(t, err)
	assert.Equal(t, "24-Well Plate", g.Name)
	assert.Equal(t, 2, fields)
}
