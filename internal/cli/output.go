// Package cli — output.go holds the result printing shared by the convert
// and image commands.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/hiraku-ota/czarr/internal/model"
)

// printResult outputs a conversion summary in text or JSON form based on
// the --json global flag.
func printResult(result *model.ConversionResult) error {
	if IsJSONOutput() {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Converted %s → %s\n", result.Input, result.Output)
	if result.Wells > 0 {
		fmt.Printf("  Wells:    %d (%d fields per well)\n", result.Wells, result.Fields)
	}
	fmt.Printf("  Channels: %d\n", result.Channels)
	fmt.Printf("  Written:  %s\n", humanize.Bytes(uint64(result.BytesWritten)))
	if result.Validated {
		fmt.Println("  Validation: OK")
	}
	return nil
}

// skippedError turns a skipped conversion into the output-exists exit
// code so scripts can distinguish "nothing was written" from success.
func skippedError(output string) error {
	return model.NewCLIError(model.ExitOutputExists,
		fmt.Sprintf("%s already exists; use --overwrite to replace it", output))
}
