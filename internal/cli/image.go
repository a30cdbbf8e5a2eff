// Package cli — image.go implements the "czarr image" command.
//
// The image command converts a single scene into a plain OME-ZARR image
// store (multiscales + omero on the root group), for containers that are
// not plate acquisitions.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hiraku-ota/czarr/internal/config"
	"github.com/hiraku-ota/czarr/internal/convert"
)

// imageFlags holds the flag values for the image command.
type imageFlags struct {
	// output is the destination store path. Empty selects the default
	// ("<input>.ome.zarr").
	output string

	// overwrite replaces an existing output store.
	overwrite bool

	// scene selects the scene index to convert.
	scene int

	// compression is the zlib level for chunk payloads (0-9).
	compression int

	// validate schema-validates the written store.
	validate bool
}

// NewImageCommand creates the "image" cobra command.
func NewImageCommand() *cobra.Command {
	flags := &imageFlags{}

	cmd := &cobra.Command{
		Use:   "image <file.czi>",
		Short: "Convert a single scene to a plain OME-ZARR image",
		Long: `Convert one scene of a CZI container into a plain OME-ZARR image store.

The scene's pixel data becomes a single 5D (t, c, z, y, x) array with
multiscales and omero metadata on the root group. Containers without a
scene table expose their full image as scene 0.

Examples:
  czarr image sample.czi
  czarr image sample.czi --scene 2 --output /data/sample.ome.zarr`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runImage(cmd.Context(), flags, args[0])
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"Output store path (default: <input>.ome.zarr)")
	cmd.Flags().BoolVar(&flags.overwrite, "overwrite", false,
		"Replace an existing output store")
	cmd.Flags().IntVar(&flags.scene, "scene", 0,
		"Scene index to convert")
	cmd.Flags().IntVar(&flags.compression, "compression", config.DefaultCompressionLevel,
		"zlib compression level for chunks, 0-9 (0 disables)")
	cmd.Flags().BoolVar(&flags.validate, "validate", false,
		"Validate the written store against the NGFF schemas")

	return cmd
}

// runImage runs the single-image pipeline and prints the summary.
func runImage(ctx context.Context, flags *imageFlags, input string) error {
	result, err := convert.Image(ctx, convert.Options{
		Input:            input,
		Output:           flags.output,
		Overwrite:        flags.overwrite,
		Scene:            flags.scene,
		CompressionLevel: flags.compression,
		Validate:         flags.validate,
		Logf:             VerboseLog,
		Warnf:            Warn,
	})
	if err != nil {
		return err
	}
	if result.Skipped {
		return skippedError(result.Output)
	}
	return printResult(result)
}
