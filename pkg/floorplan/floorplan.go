package floorplan

import (
	"errors"
	"fmt"
)

// Physical layout constants, in the same units as all node coordinates
// (typically micrometers). These are part of the on-disk format contract
// and must not be tuned per call.
const (
	// Margin is the border padding reserved inside every container on all
	// four sides, between the container edge and its content origin.
	Margin = 24.0

	// Header is the title-bar strip reserved at the top of every container,
	// in addition to the margin.
	Header = 36.0

	// Gap is the minimum spacing inserted between sibling blocks during
	// compaction.
	Gap = 16.0
)

// DefaultAspectRatio is substituted for missing or non-positive aspect
// ratios at ingest time.
const DefaultAspectRatio = 1.0

var (
	// ErrInvalidNodeID is returned by tree constructors when a node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Validate] when two nodes in the
	// same tree share an ID. IDs address nodes in all rewrite operations
	// and must be unique across the whole tree.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrInvalidUtilization is returned when a tech config carries a
	// utilization outside (0, 1]. Utilization divides raw area and must
	// never be zero or negative.
	ErrInvalidUtilization = errors.New("utilization must be in (0, 1]")

	// ErrNegativeUnitArea is returned when a tech config carries a
	// negative per-register, per-gate, or per-bit area.
	ErrNegativeUnitArea = errors.New("per-unit areas must be non-negative")
)

// TechConfig holds the process parameters that translate resource counts
// into silicon area. A config is immutable and shared by reference across
// a whole computation; the solver never mutates it.
type TechConfig struct {
	// DFFArea is the area of one register (D flip-flop).
	DFFArea float64 `json:"dffArea" bson:"dff_area" toml:"dff_area"`
	// GateArea is the area of one logic gate.
	GateArea float64 `json:"gateArea" bson:"gate_area" toml:"gate_area"`
	// SRAMAreaPerBit is the area of one memory bit.
	SRAMAreaPerBit float64 `json:"sramAreaPerBit" bson:"sram_area_per_bit" toml:"sram_area_per_bit"`
	// Utilization is the fraction of footprint usable for raw logic,
	// memory, and register area, in (0, 1]. Footprints grow to compensate
	// for utilization below 1.
	Utilization float64 `json:"utilization" bson:"utilization" toml:"utilization"`
}

// Validate checks the config preconditions from the sizing model.
// It returns ErrInvalidUtilization or ErrNegativeUnitArea wrapped with
// the offending value, or nil for a usable config.
func (c TechConfig) Validate() error {
	if c.Utilization <= 0 || c.Utilization > 1 {
		return fmt.Errorf("%w: got %g", ErrInvalidUtilization, c.Utilization)
	}
	if c.DFFArea < 0 || c.GateArea < 0 || c.SRAMAreaPerBit < 0 {
		return fmt.Errorf("%w: dff=%g gate=%g sram=%g", ErrNegativeUnitArea,
			c.DFFArea, c.GateArea, c.SRAMAreaPerBit)
	}
	return nil
}

// Node is one module in the floorplan tree: a physical block carrying
// resource counts, a target shape, and the placement of its own logic and
// children inside its container.
//
// The surrounding application owns the root; the solver only reads trees
// and produces new ones. All rewrite helpers in this package return fresh
// nodes and never mutate their input.
type Node struct {
	// ID uniquely identifies the node across the whole tree.
	ID string `json:"id" bson:"id"`
	// Name is the display label. No uniqueness constraint.
	Name string `json:"name" bson:"name"`

	// Resource counts driving local area. Always non-negative.
	Registers  int64 `json:"registers" bson:"registers"`
	MemoryBits int64 `json:"memoryBits" bson:"memory_bits"`
	LogicGates int64 `json:"logicGates" bson:"logic_gates"`

	// X, Y position this module relative to its parent's content origin.
	// The root's X/Y are ignored and treated as 0.
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`

	// InternalX, InternalY position this module's own local-logic block
	// relative to its own content origin.
	InternalX float64 `json:"internalX" bson:"internal_x"`
	InternalY float64 `json:"internalY" bson:"internal_y"`

	// AspectRatio is the target width/height ratio (> 0) for the
	// container envelope.
	AspectRatio float64 `json:"aspectRatio" bson:"aspect_ratio"`
	// InternalAspectRatio is the target ratio for the local-logic block.
	// When RatioLinked is set the stored value may be stale; use
	// [Node.EffectiveInternalRatio] instead of reading it directly.
	InternalAspectRatio float64 `json:"internalAspectRatio" bson:"internal_aspect_ratio"`
	// RatioLinked forces the internal ratio to track AspectRatio.
	RatioLinked bool `json:"isRatioLinked" bson:"is_ratio_linked"`

	// Children in presentational order. Order carries no semantics.
	Children []*Node `json:"children,omitempty" bson:"children,omitempty"`
}

// EffectiveInternalRatio returns the ratio that actually shapes the
// local-logic block: AspectRatio when the ratios are linked, otherwise
// InternalAspectRatio with a fallback to [DefaultAspectRatio] when the
// stored value is unset or non-positive.
//
// The linked flag plus a possibly-stale stored value is deliberately
// modeled as this computed accessor rather than two independently
// consistent fields.
func (n *Node) EffectiveInternalRatio() float64 {
	if n.RatioLinked {
		return n.AspectRatio
	}
	if n.InternalAspectRatio > 0 {
		return n.InternalAspectRatio
	}
	return DefaultAspectRatio
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Clone returns a deep copy of the subtree rooted at n.
// The copy shares nothing with the original.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := *n
	if len(n.Children) > 0 {
		out.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = c.Clone()
		}
	}
	return &out
}

// Walk visits every node of the subtree in depth-first pre-order,
// stopping early when fn returns false.
func Walk(root *Node, fn func(*Node) bool) {
	if root == nil {
		return
	}
	if !fn(root) {
		return
	}
	for _, c := range root.Children {
		Walk(c, fn)
	}
}

// Find returns the node with the given ID anywhere in the subtree, or
// nil when no node carries it.
func Find(root *Node, id string) *Node {
	var found *Node
	Walk(root, func(n *Node) bool {
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Count returns the number of nodes in the subtree.
func Count(root *Node) int {
	total := 0
	Walk(root, func(*Node) bool { total++; return true })
	return total
}

// Validate checks tree integrity: every node has a non-empty ID and IDs
// are unique across the tree. Returns ErrInvalidNodeID or
// ErrDuplicateNodeID wrapped with the offending ID, or nil for a valid
// tree. Acyclicity is structural (children are owned subtrees), so it is
// not rechecked here.
func Validate(root *Node) error {
	seen := make(map[string]struct{}, Count(root))
	var err error
	Walk(root, func(n *Node) bool {
		if n.ID == "" {
			err = ErrInvalidNodeID
			return false
		}
		if _, dup := seen[n.ID]; dup {
			err = fmt.Errorf("%w: %q", ErrDuplicateNodeID, n.ID)
			return false
		}
		seen[n.ID] = struct{}{}
		return true
	})
	return err
}

// Normalize returns a copy of the tree with the ingest defaulting rules
// applied: non-positive aspect ratios become [DefaultAspectRatio], a
// missing internal ratio falls back to the container ratio, and negative
// resource counts are clamped to zero. This is applied once when
// ingesting external data, not on every computation.
func Normalize(root *Node) *Node {
	out := root.Clone()
	Walk(out, func(n *Node) bool {
		if n.AspectRatio <= 0 {
			n.AspectRatio = DefaultAspectRatio
		}
		if n.InternalAspectRatio <= 0 {
			n.InternalAspectRatio = n.AspectRatio
		}
		if n.Registers < 0 {
			n.Registers = 0
		}
		if n.MemoryBits < 0 {
			n.MemoryBits = 0
		}
		if n.LogicGates < 0 {
			n.LogicGates = 0
		}
		return true
	})
	return out
}
