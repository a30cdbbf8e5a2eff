// Package cli — validate.go implements the "czarr validate" command.
//
// The validate command checks an existing store against the OME-NGFF v0.4
// metadata schemas without writing anything.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hiraku-ota/czarr/internal/model"
	"github.com/hiraku-ota/czarr/internal/ngff"
)

// validateFlags holds the flag values for the validate command.
type validateFlags struct {
	// image validates a plain image store instead of an HCS plate store.
	image bool
}

// NewValidateCommand creates the "validate" cobra command.
func NewValidateCommand() *cobra.Command {
	flags := &validateFlags{}

	cmd := &cobra.Command{
		Use:   "validate <store.zarr>",
		Short: "Validate a store against the NGFF schemas",
		Long: `Validate an existing OME-ZARR store against the OME-NGFF v0.4 metadata
schemas. By default the store is treated as an HCS plate store and the
full plate → well → image hierarchy is checked; --image validates a plain
image store instead.

Examples:
  czarr validate screen_ngff_plate.zarr
  czarr validate sample.ome.zarr --image`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(flags, args[0])
		},
	}

	cmd.Flags().BoolVar(&flags.image, "image", false,
		"Validate a plain image store instead of an HCS plate store")

	return cmd
}

// runValidate checks the store and reports the outcome.
func runValidate(flags *validateFlags, store string) error {
	if _, err := os.Stat(store); os.IsNotExist(err) {
		return model.WrapCLIError(model.ExitInputNotFound,
			fmt.Sprintf("store not found: %s", store), err)
	}

	var err error
	if flags.image {
		err = ngff.ValidateImageStore(store)
	} else {
		err = ngff.ValidateStore(store)
	}
	if err != nil {
		return model.WrapCLIError(model.ExitValidationFailed,
			fmt.Sprintf("%s failed validation", store), err)
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(map[string]interface{}{
			"store": store,
			"valid": true,
		}, "", "  ")
		fmt.Println(string(data))
		return nil
	}
	fmt.Printf("%s: valid\n", store)
	return nil
}
