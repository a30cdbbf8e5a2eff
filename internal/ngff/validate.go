// validate.go checks written stores against the NGFF metadata schemas.
//
// This mirrors the post-write validation step of HCS tooling: after a
// conversion, the plate document, every well document, and every field's
// multiscales document must conform to the published metadata rules.
package ngff

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/hiraku-ota/czarr/internal/zarr"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// schemaNames maps document kinds to embedded schema files.
const (
	schemaPlate = "plate.schema.json"
	schemaWell  = "well.schema.json"
	schemaImage = "image.schema.json"
)

// Validator validates NGFF metadata documents against the embedded
// schemas. The zero value is not usable; construct with NewValidator.
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// NewValidator compiles the embedded schemas.
func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	names := []string{schemaPlate, schemaWell, schemaImage}

	for _, name := range names {
		data, err := schemaFS.ReadFile("schemas/" + name)
		if err != nil {
			return nil, fmt.Errorf("loading embedded schema %s: %w", name, err)
		}
		if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("registering schema %s: %w", name, err)
		}
	}

	v := &Validator{schemas: make(map[string]*jsonschema.Schema, len(names))}
	for _, name := range names {
		schema, err := compiler.Compile(name)
		if err != nil {
			return nil, fmt.Errorf("compiling schema %s: %w", name, err)
		}
		v.schemas[name] = schema
	}
	return v, nil
}

// validateAttrs validates a group's raw .zattrs document against the
// named schema.
func (v *Validator) validateAttrs(g *zarr.Group, schemaName string) error {
	raw, err := g.RawAttrs()
	if err != nil {
		return err
	}

	// jsonschema validates decoded values, not raw bytes.
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parsing attrs of %q: %w", g.Path(), err)
	}
	if err := v.schemas[schemaName].Validate(doc); err != nil {
		return fmt.Errorf("group %q: %w", g.Path(), err)
	}
	return nil
}

// ValidateStore opens the store at path and validates the full HCS
// hierarchy: the plate document, each listed well's document, each well
// image's multiscales document, and the presence of each image's "0"
// array.
func ValidateStore(path string) error {
	root, err := zarr.Open(path)
	if err != nil {
		return err
	}

	v, err := NewValidator()
	if err != nil {
		return err
	}

	if err := v.validateAttrs(root, schemaPlate); err != nil {
		return err
	}

	var pa plateAttrs
	if err := root.Attrs(&pa); err != nil {
		return err
	}

	for _, well := range pa.Plate.Wells {
		wellGroup, err := root.Child(well.Path)
		if err != nil {
			return err
		}
		if err := v.validateAttrs(wellGroup, schemaWell); err != nil {
			return err
		}

		var wa wellAttrs
		if err := wellGroup.Attrs(&wa); err != nil {
			return err
		}
		for _, img := range wa.Well.Images {
			imageGroup, err := wellGroup.Child(img.Path)
			if err != nil {
				return err
			}
			if err := v.validateAttrs(imageGroup, schemaImage); err != nil {
				return err
			}
			if _, err := imageGroup.ArrayMeta("0"); err != nil {
				return fmt.Errorf("well %s field %s: %w", well.Path, img.Path, err)
			}
		}
	}
	return nil
}

// ValidateImageStore validates a single-image (non-plate) store: the root
// group's multiscales document and its "0" array.
func ValidateImageStore(path string) error {
	root, err := zarr.Open(path)
	if err != nil {
		return err
	}
	v, err := NewValidator()
	if err != nil {
		return err
	}
	if err := v.validateAttrs(root, schemaImage); err != nil {
		return err
	}
	if _, err := root.ArrayMeta("0"); err != nil {
		return err
	}
	return nil
}
