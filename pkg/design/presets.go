package design

import (
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/floorstack/floorstack/pkg/floorplan"
)

// DefaultPreset is the tech preset used when a design names none.
const DefaultPreset = "n16"

// Built-in technology presets. Per-unit areas are in square micrometers.
// The numbers are representative planning values, not foundry data.
var presets = map[string]floorplan.TechConfig{
	"n7": {
		DFFArea:        0.9,
		GateArea:       0.12,
		SRAMAreaPerBit: 0.027,
		Utilization:    0.6,
	},
	"n16": {
		DFFArea:        2.1,
		GateArea:       0.25,
		SRAMAreaPerBit: 0.07,
		Utilization:    0.65,
	},
	"n28": {
		DFFArea:        4.5,
		GateArea:       0.5,
		SRAMAreaPerBit: 0.12,
		Utilization:    0.7,
	},
}

// Preset returns the built-in tech config with the given name.
func Preset(name string) (floorplan.TechConfig, bool) {
	cfg, ok := presets[name]
	return cfg, ok
}

// PresetNames returns the names of all built-in presets, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// techFile is the TOML shape of a tech config file:
//
//	[tech]
//	dff_area = 2.1
//	gate_area = 0.25
//	sram_area_per_bit = 0.07
//	utilization = 0.65
type techFile struct {
	Tech floorplan.TechConfig `toml:"tech"`
}

// LoadTechTOML reads a tech config from a TOML file at path and
// validates it.
func LoadTechTOML(path string) (floorplan.TechConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return floorplan.TechConfig{}, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseTechTOML(data)
}

// ParseTechTOML decodes a tech config from TOML data and validates it.
func ParseTechTOML(data []byte) (floorplan.TechConfig, error) {
	var file techFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return floorplan.TechConfig{}, fmt.Errorf("parse tech config: %w", err)
	}
	if err := file.Tech.Validate(); err != nil {
		return floorplan.TechConfig{}, err
	}
	return file.Tech, nil
}
