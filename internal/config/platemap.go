package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hiraku-ota/czarr/internal/plate"
)

// PlateMap is a YAML plate definition consumed by the plate command. A map
// selects its geometry either by standard well count or by explicit
// rows/columns; explicit dimensions win when both are given.
type PlateMap struct {
	// Name is the plate display name. Defaults to the geometry's name.
	Name string `yaml:"name,omitempty"`

	// Wells selects a standard geometry by total well count
	// (6, 24, 48, 96, 384, or 1536).
	Wells int `yaml:"wells,omitempty"`

	// Rows and Columns define an explicit geometry.
	Rows    int `yaml:"rows,omitempty"`
	Columns int `yaml:"columns,omitempty"`

	// Fields is the number of fields of view per well. Defaults to 1.
	Fields int `yaml:"fields,omitempty"`
}

// LoadPlateMap reads and parses a plate-map YAML file.
func LoadPlateMap(path string) (*PlateMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plate map %s: %w", path, err)
	}
	var pm PlateMap
	if err := yaml.Unmarshal(data, &pm); err != nil {
		return nil, fmt.Errorf("parsing plate map %s: %w", path, err)
	}
	return &pm, nil
}

// Geometry resolves the plate map into a concrete geometry. Explicit
// rows/columns take precedence; otherwise the well count must match one of
// the standard formats.
func (pm *PlateMap) Geometry() (plate.Geometry, error) {
	if pm.Rows > 0 && pm.Columns > 0 {
		g := plate.Geometry{Rows: pm.Rows, Columns: pm.Columns, Name: pm.Name}
		if g.Name == "" {
			g.Name = fmt.Sprintf("%d-Well Plate", g.TotalWells())
		}
		return g, nil
	}
	if pm.Wells == 0 {
		return plate.Geometry{}, fmt.Errorf("plate map defines neither wells nor rows/columns")
	}
	g, err := plate.GeometryByWellCount(pm.Wells)
	if err != nil {
		return plate.Geometry{}, err
	}
	if pm.Name != "" {
		g.Name = pm.Name
	}
	return g, nil
}

// FieldCount returns the configured fields per well, defaulting to 1.
func (pm *PlateMap) FieldCount() int {
	if pm.Fields <= 0 {
		return 1
	}
	return pm.Fields
}
