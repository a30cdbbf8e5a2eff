package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hiraku-ota/czarr/internal/czi"
	"github.com/hiraku-ota/czarr/internal/model"
	"github.com/hiraku-ota/czarr/internal/ngff"
	"github.com/hiraku-ota/czarr/internal/plate"
	"github.com/hiraku-ota/czarr/internal/zarr"
)

// Options control a conversion run. Input is required; everything else has
// a usable zero value.
type Options struct {
	// Input is the path to the source CZI container.
	Input string

	// Output is the destination store path. Empty selects the default:
	// the input path with its ".czi" suffix replaced by "_ngff_plate.zarr"
	// (HCS) or ".ome.zarr" (Image).
	Output string

	// Overwrite removes an existing output store before writing. When
	// false an existing output skips the conversion.
	Overwrite bool

	// PlateName overrides the plate display name (HCS only). Defaults to
	// the input file name.
	PlateName string

	// CompressionLevel is the zlib level for chunk payloads (0 disables).
	CompressionLevel int

	// Validate schema-validates the written store after conversion.
	Validate bool

	// Scene selects the scene index for single-image conversion.
	Scene int

	// Logf receives progress messages. Nil discards them.
	Logf func(format string, args ...interface{})

	// Warnf receives warnings that should reach the user regardless of
	// verbosity. Nil discards them.
	Warnf func(format string, args ...interface{})
}

func (o *Options) logf(format string, args ...interface{}) {
	if o.Logf != nil {
		o.Logf(format, args...)
	}
}

// DefaultPlateOutput returns the default HCS store path for an input file:
// the ".czi" suffix replaced by "_ngff_plate.zarr".
func DefaultPlateOutput(input string) string {
	return trimCZI(input) + "_ngff_plate.zarr"
}

// DefaultImageOutput returns the default single-image store path for an
// input file: the ".czi" suffix replaced by ".ome.zarr".
func DefaultImageOutput(input string) string {
	return trimCZI(input) + ".ome.zarr"
}

func trimCZI(input string) string {
	if strings.EqualFold(filepath.Ext(input), ".czi") {
		return input[:len(input)-len(".czi")]
	}
	return input
}

// openInput opens the container, translating failures into CLI errors:
// a missing file and an unreadable container carry distinct exit codes.
func openInput(path string) (*czi.File, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, model.WrapCLIError(model.ExitInputNotFound,
				fmt.Sprintf("input file not found: %s", path), err)
		}
		return nil, fmt.Errorf("checking input %s: %w", path, err)
	}

	f, err := czi.Open(path)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitInvalidInput,
			fmt.Sprintf("cannot read %s as a CZI container", path), err)
	}
	return f, nil
}

// prepareOutput applies the overwrite-or-skip policy. It returns
// skipped=true when the output exists and overwrite was not requested.
func prepareOutput(output string, overwrite bool, o *Options) (skipped bool, err error) {
	if _, statErr := os.Stat(output); statErr != nil {
		return false, nil
	}
	if !overwrite {
		o.logf("%s already exists, skipping", output)
		return true, nil
	}
	o.logf("removing existing store %s", output)
	if err := os.RemoveAll(output); err != nil {
		return false, fmt.Errorf("removing existing store %s: %w", output, err)
	}
	return false, nil
}

// HCS converts a plate acquisition into an OME-NGFF v0.4 HCS store. The
// well layout is derived from the scene names; each well's scenes become
// its fields of view in scene order.
func HCS(ctx context.Context, opts Options) (*model.ConversionResult, error) {
	f, err := openInput(opts.Input)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	md := f.Metadata()
	output := opts.Output
	if output == "" {
		output = DefaultPlateOutput(opts.Input)
	}

	result := &model.ConversionResult{
		Input:    opts.Input,
		Output:   output,
		Channels: len(md.Channels),
	}

	skipped, err := prepareOutput(output, opts.Overwrite, &opts)
	if err != nil {
		return nil, err
	}
	if skipped {
		result.Skipped = true
		return result, nil
	}

	counter := md.WellCounter()
	if len(counter) == 0 {
		return nil, model.NewCLIError(model.ExitInvalidInput,
			fmt.Sprintf("%s has no scene table; use the image command for single-scene containers", opts.Input))
	}

	// All wells share the field count of the first acquired well; ragged
	// acquisitions are rejected below when a well comes up short.
	layout := plate.ExtractWellCoordinates(counter)
	wellNames := md.WellArrayNames()
	fieldCount := counter[wellNames[0]]

	plateName := opts.PlateName
	if plateName == "" {
		plateName = md.Filename
	}

	opts.logf("plate layout: %d rows × %d columns, %d fields per well",
		len(layout.Rows), len(layout.Columns), fieldCount)

	root, err := zarr.Create(output)
	if err != nil {
		return nil, err
	}
	if err := ngff.WritePlateMetadata(root, ngff.NewPlate(plateName, layout, fieldCount)); err != nil {
		return nil, err
	}

	displays := ChannelDisplays(md, opts.Warnf)
	omero := ngff.ChannelsToOmero(md.Filename, displays)
	axes := ngff.DefaultAxes()
	scale := ngff.ScaleForAxes(md.Scaling.Z, md.Scaling.Y, md.Scaling.X)
	wellScenes := md.WellSceneIndices()

	fieldPaths := make([]string, fieldCount)
	for i := range fieldPaths {
		fieldPaths[i] = strconv.Itoa(i)
	}

	// Every well of the layout's cartesian product gets a group; the
	// well token ("B4") keys the scene table.
	for _, wellPath := range layout.WellPaths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		token := strings.Replace(wellPath, "/", "", 1)
		sceneIndices := wellScenes[token]
		if len(sceneIndices) < fieldCount {
			return nil, model.NewCLIError(model.ExitInvalidInput,
				fmt.Sprintf("well %s has %d acquired fields, expected %d",
					token, len(sceneIndices), fieldCount))
		}

		wellGroup, err := root.RequireGroup(wellPath)
		if err != nil {
			return nil, err
		}
		if err := ngff.WriteWellMetadata(wellGroup, fieldPaths); err != nil {
			return nil, err
		}

		for fi := 0; fi < fieldCount; fi++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			sceneIndex := sceneIndices[fi]
			opts.logf("well %s field %d: reading scene %d", token, fi, sceneIndex)

			scene, err := f.ReadScene(sceneIndex)
			if err != nil {
				return nil, model.WrapCLIError(model.ExitInvalidInput,
					fmt.Sprintf("reading well %s field %d", token, fi), err)
			}

			imageGroup, err := wellGroup.RequireGroup(fieldPaths[fi])
			if err != nil {
				return nil, err
			}
			written, err := ngff.WriteImage(imageGroup, scene, axes, ngff.ImageOptions{
				Name:             fmt.Sprintf("%s %s/%d", md.Filename, wellPath, fi),
				Scale:            scale,
				CompressionLevel: opts.CompressionLevel,
				Omero:            omero,
			})
			if err != nil {
				return nil, err
			}
			result.BytesWritten += written
		}
		result.Wells++
	}
	result.Fields = fieldCount

	if opts.Validate {
		opts.logf("validating %s", output)
		if err := ngff.ValidateStore(output); err != nil {
			return result, model.WrapCLIError(model.ExitValidationFailed,
				fmt.Sprintf("written store %s failed validation", output), err)
		}
		result.Validated = true
	}
	return result, nil
}

// Image converts a single scene into a plain OME-ZARR image store with
// multiscales and omero metadata on the root group. Arrays with more than
// five dimensions are rejected.
func Image(ctx context.Context, opts Options) (*model.ConversionResult, error) {
	f, err := openInput(opts.Input)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	md := f.Metadata()
	output := opts.Output
	if output == "" {
		output = DefaultImageOutput(opts.Input)
	}

	result := &model.ConversionResult{
		Input:    opts.Input,
		Output:   output,
		Channels: len(md.Channels),
	}

	skipped, err := prepareOutput(output, opts.Overwrite, &opts)
	if err != nil {
		return nil, err
	}
	if skipped {
		result.Skipped = true
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts.logf("reading scene %d", opts.Scene)
	scene, err := f.ReadScene(opts.Scene)
	if err != nil {
		if errors.Is(err, czi.ErrSceneNotFound) {
			return nil, model.WrapCLIError(model.ExitInvalidInput,
				fmt.Sprintf("scene %d not present in %s", opts.Scene, opts.Input), err)
		}
		return nil, model.WrapCLIError(model.ExitInvalidInput,
			fmt.Sprintf("reading scene %d", opts.Scene), err)
	}
	if scene.NDim() > 5 {
		return nil, model.NewCLIError(model.ExitInvalidInput,
			fmt.Sprintf("cannot write %d-dimensional data: at most 5 dimensions (t, c, z, y, x) are supported", scene.NDim()))
	}

	root, err := zarr.Create(output)
	if err != nil {
		return nil, err
	}

	displays := ChannelDisplays(md, opts.Warnf)
	written, err := ngff.WriteImage(root, scene, ngff.DefaultAxes(), ngff.ImageOptions{
		Name:             md.Filename,
		Scale:            ngff.ScaleForAxes(md.Scaling.Z, md.Scaling.Y, md.Scaling.X),
		CompressionLevel: opts.CompressionLevel,
		Omero:            ngff.ChannelsToOmero(md.Filename, displays),
	})
	if err != nil {
		return nil, err
	}
	result.BytesWritten = written

	if opts.Validate {
		opts.logf("validating %s", output)
		if err := ngff.ValidateImageStore(output); err != nil {
			return result, model.WrapCLIError(model.ExitValidationFailed,
				fmt.Sprintf("written store %s failed validation", output), err)
		}
		result.Validated = true
	}
	return result, nil
}
