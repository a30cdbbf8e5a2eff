// Package cli — info.go implements the "czarr info" command.
//
// The info command prints a container summary without converting anything:
// dimensions, pixel type, channels, physical scaling, and the well/scene
// table of plate acquisitions.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hiraku-ota/czarr/internal/czi"
	"github.com/hiraku-ota/czarr/internal/model"
	"github.com/hiraku-ota/czarr/internal/plate"
)

// NewInfoCommand creates the "info" cobra command.
func NewInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file.czi>",
		Short: "Print a CZI container summary",
		Long: `Print a summary of a CZI container: dimensions, pixel type, channels,
physical scaling, and — for plate acquisitions — the wells and their
field counts.

Examples:
  czarr info screen.czi
  czarr info screen.czi --json`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args[0])
		},
	}
}

// containerInfo is the JSON shape of the info command output.
type containerInfo struct {
	Path              string             `json:"path"`
	PixelType         string             `json:"pixelType"`
	ComponentBitCount int                `json:"componentBitCount,omitempty"`
	Dimensions        map[string]int     `json:"dimensions"`
	ScalingUM         map[string]float64 `json:"scalingMicrometers,omitempty"`
	Channels          []string           `json:"channels"`
	Wells             map[string]int     `json:"wells,omitempty"`
	Scenes            int                `json:"scenes,omitempty"`
}

// runInfo opens the container and prints its summary.
func runInfo(input string) error {
	if _, err := os.Stat(input); os.IsNotExist(err) {
		return model.WrapCLIError(model.ExitInputNotFound,
			fmt.Sprintf("input file not found: %s", input), err)
	}

	f, err := czi.Open(input)
	if err != nil {
		return model.WrapCLIError(model.ExitInvalidInput,
			fmt.Sprintf("cannot read %s as a CZI container", input), err)
	}
	defer f.Close()

	md := f.Metadata()
	info := containerInfo{
		Path:              input,
		PixelType:         md.PixelType,
		ComponentBitCount: md.ComponentBitCount,
		Dimensions: map[string]int{
			"s": md.SizeS, "t": md.SizeT, "c": md.SizeC,
			"z": md.SizeZ, "y": md.SizeY, "x": md.SizeX,
		},
		Scenes: len(md.Scenes),
		Wells:  md.WellCounter(),
	}
	for _, ch := range md.Channels {
		info.Channels = append(info.Channels, ch.Name)
	}
	if md.Scaling != (czi.Scaling{}) {
		info.ScalingUM = map[string]float64{
			"x": md.Scaling.X, "y": md.Scaling.Y, "z": md.Scaling.Z,
		}
	}

	if IsJSONOutput() {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding summary: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	printInfoText(md, input)
	return nil
}

// printInfoText renders the human-readable summary block.
func printInfoText(md *czi.Metadata, input string) {
	fmt.Printf("%s\n", input)
	fmt.Printf("  Pixel type: %s", md.PixelType)
	if md.ComponentBitCount > 0 {
		fmt.Printf(" (%d significant bits)", md.ComponentBitCount)
	}
	fmt.Println()
	fmt.Printf("  Dimensions: S=%d T=%d C=%d Z=%d Y=%d X=%d\n",
		md.SizeS, md.SizeT, md.SizeC, md.SizeZ, md.SizeY, md.SizeX)

	if md.Scaling != (czi.Scaling{}) {
		fmt.Printf("  Scaling:    x=%gµm y=%gµm z=%gµm\n",
			md.Scaling.X, md.Scaling.Y, md.Scaling.Z)
	}

	fmt.Printf("  Channels:   %d\n", len(md.Channels))
	for _, ch := range md.Channels {
		fmt.Printf("    %s", ch.Name)
		if ch.HasDisplayLimits {
			fmt.Printf(" (display %g..%g)", ch.Low, ch.High)
		}
		fmt.Println()
	}

	counter := md.WellCounter()
	if len(counter) > 0 {
		fmt.Printf("  Wells:      %d (%d scenes)\n", len(counter), len(md.Scenes))
		for _, token := range md.WellArrayNames() {
			row, col := plate.SplitWellToken(token)
			fmt.Printf("    %s/%s: %d fields\n", row, col, counter[token])
		}
	}
}
