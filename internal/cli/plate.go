// Package cli — plate.go implements the "czarr plate" command.
//
// The plate command emits an OME-NGFF plate document for a standard
// microplate geometry, either selected by well count or loaded from a
// YAML plate-map file. It is a dry-run companion to convert: the printed
// document is exactly what convert would store on the plate root group.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hiraku-ota/czarr/internal/config"
	"github.com/hiraku-ota/czarr/internal/model"
	"github.com/hiraku-ota/czarr/internal/ngff"
	"github.com/hiraku-ota/czarr/internal/plate"
)

// plateFlags holds the flag values for the plate command.
type plateFlags struct {
	// wells selects a standard geometry by total well count.
	wells int

	// fields is the number of fields of view per well.
	fields int

	// mapPath points at a YAML plate-map file; it overrides --wells and
	// --fields.
	mapPath string
}

// NewPlateCommand creates the "plate" cobra command.
func NewPlateCommand() *cobra.Command {
	flags := &plateFlags{}

	cmd := &cobra.Command{
		Use:   "plate",
		Short: "Emit an NGFF plate document for a standard geometry",
		Long: `Emit the OME-NGFF plate document for a standard microplate geometry.

The geometry is selected by total well count (6, 24, 48, 96, 384, or 1536)
or loaded from a YAML plate-map file with explicit rows/columns.

Examples:
  czarr plate --wells 96 --fields 4
  czarr plate --map plate.yaml`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlate(flags)
		},
	}

	cmd.Flags().IntVar(&flags.wells, "wells", 96,
		"Total well count of a standard geometry")
	cmd.Flags().IntVar(&flags.fields, "fields", 1,
		"Fields of view per well")
	cmd.Flags().StringVar(&flags.mapPath, "map", "",
		"YAML plate-map file (overrides --wells/--fields)")

	return cmd
}

// runPlate resolves the geometry and prints the NGFF plate document.
func runPlate(flags *plateFlags) error {
	geometry, fieldCount, err := resolveGeometry(flags)
	if err != nil {
		return err
	}
	VerboseLog("Geometry: %s (%d×%d), %d fields per well",
		geometry.Name, geometry.Rows, geometry.Columns, fieldCount)

	doc := map[string]interface{}{
		"plate": ngff.PlateFromGeometry(geometry, fieldCount),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding plate document: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// resolveGeometry picks the geometry from the plate map or the --wells
// flag. Non-standard well counts exit with ExitUnsupportedPlate.
func resolveGeometry(flags *plateFlags) (plate.Geometry, int, error) {
	if flags.mapPath != "" {
		pm, err := config.LoadPlateMap(flags.mapPath)
		if err != nil {
			return plate.Geometry{}, 0, model.WrapCLIError(model.ExitGeneralError,
				"cannot load plate map", err)
		}
		g, err := pm.Geometry()
		if err != nil {
			return plate.Geometry{}, 0, model.WrapCLIError(model.ExitUnsupportedPlate,
				"unsupported plate geometry", err)
		}
		return g, pm.FieldCount(), nil
	}

	g, err := plate.GeometryByWellCount(flags.wells)
	if err != nil {
		return plate.Geometry{}, 0, model.WrapCLIError(model.ExitUnsupportedPlate,
			"unsupported plate geometry", err)
	}
	fields := flags.fields
	if fields <= 0 {
		fields = 1
	}
	return g, fields, nil
}
