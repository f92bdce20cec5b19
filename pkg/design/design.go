package design

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/floorstack/floorstack/pkg/floorplan"
)

// Design is a complete floorplan document: a module tree plus the
// technology it is sized against. This is the on-disk and over-the-wire
// unit of exchange.
type Design struct {
	// Name identifies the design in the catalog. Optional for file-based
	// workflows.
	Name string `json:"name,omitempty" bson:"name,omitempty"`

	// Tech names a built-in technology preset (see [Preset]). Ignored
	// when TechConfig is set explicitly.
	Tech string `json:"tech,omitempty" bson:"tech,omitempty"`

	// TechConfig overrides the named preset with explicit process
	// parameters.
	TechConfig *floorplan.TechConfig `json:"techConfig,omitempty" bson:"tech_config,omitempty"`

	// Top is the root of the module tree.
	Top *floorplan.Node `json:"top" bson:"top"`
}

// Config resolves the effective tech config for the design: the explicit
// TechConfig if present, then the named preset, then [DefaultPreset].
func (d *Design) Config() (floorplan.TechConfig, error) {
	if d.TechConfig != nil {
		return *d.TechConfig, d.TechConfig.Validate()
	}
	name := d.Tech
	if name == "" {
		name = DefaultPreset
	}
	cfg, ok := Preset(name)
	if !ok {
		return floorplan.TechConfig{}, fmt.Errorf("unknown tech preset %q", name)
	}
	return cfg, nil
}

// nodeDoc is the wire shape of a tree node. Unlike [floorplan.Node] it
// keeps the linked-ratio flag as a pointer so a missing field can be
// told apart from an explicit false and defaulted per position in the
// tree.
type nodeDoc struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Registers           int64      `json:"registers"`
	MemoryBits          int64      `json:"memoryBits"`
	LogicGates          int64      `json:"logicGates"`
	X                   float64    `json:"x"`
	Y                   float64    `json:"y"`
	InternalX           float64    `json:"internalX"`
	InternalY           float64    `json:"internalY"`
	AspectRatio         float64    `json:"aspectRatio"`
	InternalAspectRatio float64    `json:"internalAspectRatio"`
	RatioLinked         *bool      `json:"isRatioLinked"`
	Children            []*nodeDoc `json:"children"`
}

type designDoc struct {
	Name       string                `json:"name"`
	Tech       string                `json:"tech"`
	TechConfig *floorplan.TechConfig `json:"techConfig"`
	Top        *nodeDoc              `json:"top"`
}

// build converts a wire node into a tree node, applying the ingest
// defaults that depend on document shape: a missing isRatioLinked
// defaults to true for leaves and false for parents, and a missing ID
// is replaced with a generated one.
func (d *nodeDoc) build() *floorplan.Node {
	n := &floorplan.Node{
		ID:                  d.ID,
		Name:                d.Name,
		Registers:           d.Registers,
		MemoryBits:          d.MemoryBits,
		LogicGates:          d.LogicGates,
		X:                   d.X,
		Y:                   d.Y,
		InternalX:           d.InternalX,
		InternalY:           d.InternalY,
		AspectRatio:         d.AspectRatio,
		InternalAspectRatio: d.InternalAspectRatio,
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if d.RatioLinked != nil {
		n.RatioLinked = *d.RatioLinked
	} else {
		n.RatioLinked = len(d.Children) == 0
	}
	for _, c := range d.Children {
		n.Children = append(n.Children, c.build())
	}
	return n
}

// ReadJSON decodes a design document from r.
//
// The input must be a JSON object with a "top" tree. Each node carries
// an "id", a display "name", resource counts, placement, and shape
// fields. Missing values receive the ingest defaults:
//   - a non-positive aspectRatio becomes 1.0
//   - a missing internalAspectRatio falls back to aspectRatio
//   - a missing isRatioLinked defaults to true for leaves, false for
//     parents
//   - negative resource counts are clamped to zero
//   - a missing id is replaced with a generated UUID
//
// ReadJSON returns an error if the JSON is malformed, the tree is
// missing, or two nodes share an ID. The returned design is independent
// of r and can be modified safely. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Design, error) {
	var doc designDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if doc.Top == nil {
		return nil, fmt.Errorf("design has no top module")
	}

	top := floorplan.Normalize(doc.Top.build())
	if err := floorplan.Validate(top); err != nil {
		return nil, fmt.Errorf("design tree: %w", err)
	}

	return &Design{
		Name:       doc.Name,
		Tech:       doc.Tech,
		TechConfig: doc.TechConfig,
		Top:        top,
	}, nil
}

// ImportJSON reads a JSON design file at path.
//
// ImportJSON opens the file, decodes it using [ReadJSON], and closes
// the file. Errors wrap the underlying cause with the file path for
// context.
func ImportJSON(path string) (*Design, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// WriteJSON encodes a design as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON] for round-trip
// processing; every ingest default is written explicitly, so a
// round-tripped design decodes to an identical tree.
func WriteJSON(d *Design, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a design to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(d *Design, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(d, f)
}
