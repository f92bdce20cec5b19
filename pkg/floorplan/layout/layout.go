package layout

import (
	"github.com/floorstack/floorstack/pkg/floorplan"
	"github.com/floorstack/floorstack/pkg/floorplan/area"
)

// InternalID is the sentinel identifier suffix used for the synthetic
// local-logic rectangle of a module.
const InternalID = "internal"

// Rect is one flattened, absolute-positioned rectangle. Lifetime: built
// fresh on every [Flatten] call and never mutated afterwards.
type Rect struct {
	// ID is the originating module's ID; for local-logic rectangles it is
	// the module ID suffixed with "/internal".
	ID       string  `json:"id"`
	ParentID string  `json:"parentId,omitempty"`
	Name     string  `json:"name"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	W        float64 `json:"w"`
	H        float64 `json:"h"`
	// Internal marks the synthetic local-logic block of a module.
	Internal bool `json:"isInternal,omitempty"`
	// Depth is the tree depth of the originating module (root = 0),
	// useful for tinting nested containers.
	Depth int `json:"depth"`

	// Node references the originating module. Excluded from
	// serialization; renderers use it for metadata lookups.
	Node *floorplan.Node `json:"-"`
}

// Layout is the flattened form of a sized tree, ready for a renderer.
// Rectangle order is container-then-internal-then-children, depth-first;
// it matters only for draw z-order (later entries draw on top).
type Layout struct {
	Rects  []Rect  `json:"rects"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Flatten walks the sized tree and produces absolute-coordinate
// rectangles: one container and one local-logic rectangle per module.
// The root container sits at (0, 0); a child at local (x, y) lands at
// its parent's absolute origin plus (Margin + x, Header + y), since the
// margin and header offsets accumulate level by level. Input coordinates
// and output share the same physical units.
//
// Flatten validates cfg once and returns the validation error with an
// empty layout if it fails.
func Flatten(root *floorplan.Node, cfg floorplan.TechConfig) (Layout, error) {
	if err := cfg.Validate(); err != nil {
		return Layout{}, err
	}
	var l Layout
	l.Width, l.Height = area.Size(root, cfg)
	l.Rects = flattenInto(l.Rects, root, cfg, "", 0, 0, 0)
	return l, nil
}

func flattenInto(out []Rect, n *floorplan.Node, cfg floorplan.TechConfig, parentID string, absX, absY float64, depth int) []Rect {
	w, h := area.Size(n, cfg)
	out = append(out, Rect{
		ID:       n.ID,
		ParentID: parentID,
		Name:     n.Name,
		X:        absX,
		Y:        absY,
		W:        w,
		H:        h,
		Depth:    depth,
		Node:     n,
	})

	// Content origin: margin in from the left, header down from the top.
	originX := absX + floorplan.Margin
	originY := absY + floorplan.Header

	iw, ih := area.InternalSize(n, cfg)
	out = append(out, Rect{
		ID:       n.ID + "/" + InternalID,
		ParentID: n.ID,
		Name:     n.Name,
		X:        originX + n.InternalX,
		Y:        originY + n.InternalY,
		W:        iw,
		H:        ih,
		Internal: true,
		Depth:    depth,
		Node:     n,
	})

	for _, c := range n.Children {
		out = flattenInto(out, c, cfg, n.ID, originX+c.X, originY+c.Y, depth+1)
	}
	return out
}
