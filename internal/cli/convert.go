// Package cli — convert.go implements the "czarr convert" command.
//
// The convert command turns a plate acquisition into an OME-NGFF v0.4 HCS
// store. Settings resolve in three layers: built-in defaults, then an
// optional .czarr.jsonc settings file, then command-line flags.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hiraku-ota/czarr/internal/config"
	"github.com/hiraku-ota/czarr/internal/convert"
)

// convertFlags holds the flag values for the convert command.
// These are bound to cobra flags in NewConvertCommand.
type convertFlags struct {
	// output is the destination store path. Empty selects the default
	// ("<input>_ngff_plate.zarr").
	output string

	// overwrite replaces an existing output store.
	overwrite bool

	// plateName overrides the plate display name.
	plateName string

	// compression is the zlib level for chunk payloads (0-9).
	compression int

	// validate schema-validates the written store.
	validate bool

	// configPath points at an explicit settings file, bypassing discovery.
	configPath string
}

// NewConvertCommand creates the "convert" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewConvertCommand() *cobra.Command {
	flags := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert <file.czi>",
		Short: "Convert a plate acquisition to an OME-NGFF HCS store",
		Long: `Convert a CZI plate acquisition into an OME-NGFF v0.4 HCS store.

The well layout is derived from the container's scene table: each scene is
one field of view, and scenes sharing a name belong to the same well. The
output store is laid out plate → row → column → field with one resolution
level per field.

Examples:
  czarr convert screen.czi
  czarr convert screen.czi --output /data/screen.zarr --overwrite
  czarr convert screen.czi --plate-name "Screen 42" --validate`,

		// Exactly one positional argument: the input container.
		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.Context(), cmd, flags, args[0])
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"Output store path (default: <input>_ngff_plate.zarr)")
	cmd.Flags().BoolVar(&flags.overwrite, "overwrite", false,
		"Replace an existing output store")
	cmd.Flags().StringVar(&flags.plateName, "plate-name", "",
		"Plate display name (default: input file name)")
	cmd.Flags().IntVar(&flags.compression, "compression", config.DefaultCompressionLevel,
		"zlib compression level for chunks, 0-9 (0 disables)")
	cmd.Flags().BoolVar(&flags.validate, "validate", false,
		"Validate the written store against the NGFF schemas")
	cmd.Flags().StringVar(&flags.configPath, "config", "",
		"Settings file path (default: discover .czarr.jsonc)")

	return cmd
}

// runConvert is the main logic function for the convert command.
// It resolves settings, runs the HCS pipeline, and prints the summary.
func runConvert(ctx context.Context, cmd *cobra.Command, flags *convertFlags, input string) error {
	opts, err := resolveConvertOptions(cmd, flags, input)
	if err != nil {
		return err
	}

	result, err := convert.HCS(ctx, opts)
	if err != nil {
		return err
	}
	if result.Skipped {
		return skippedError(result.Output)
	}
	return printResult(result)
}

// resolveConvertOptions layers the settings sources: defaults, then the
// settings file, then explicitly set flags.
func resolveConvertOptions(cmd *cobra.Command, flags *convertFlags, input string) (convert.Options, error) {
	settings, source, err := loadSettings(flags.configPath, input)
	if err != nil {
		return convert.Options{}, err
	}
	if source != "" {
		VerboseLog("Using settings from %s", source)
	}

	opts := convert.Options{
		Input:            input,
		Output:           flags.output,
		Overwrite:        *settings.Overwrite,
		PlateName:        settings.PlateName,
		CompressionLevel: *settings.CompressionLevel,
		Validate:         *settings.Validate,
		Logf:             VerboseLog,
		Warnf:            Warn,
	}

	// Flags only override file settings when explicitly set, so a settings
	// file's overwrite=true is not reset by the flag's false default.
	if cmd.Flags().Changed("overwrite") {
		opts.Overwrite = flags.overwrite
	}
	if cmd.Flags().Changed("plate-name") {
		opts.PlateName = flags.plateName
	}
	if cmd.Flags().Changed("compression") {
		opts.CompressionLevel = flags.compression
	}
	if cmd.Flags().Changed("validate") {
		opts.Validate = flags.validate
	}
	return opts, nil
}

// loadSettings loads an explicit settings file, or discovers one next to
// the input when no path was given.
func loadSettings(configPath, input string) (config.Settings, string, error) {
	if configPath != "" {
		s, err := config.Load(configPath)
		return s, configPath, err
	}
	return config.Discover(input)
}
