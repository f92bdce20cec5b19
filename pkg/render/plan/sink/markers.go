package sink

import (
	"github.com/floorstack/floorstack/pkg/floorplan"
	"github.com/floorstack/floorstack/pkg/floorplan/compact"
)

// Marker is an overlap region in absolute drawing coordinates, ready to
// overlay on a rendered layout.
type Marker struct {
	X, Y, W, H float64
	// IDs are the two colliding entities, ordered as in
	// [compact.Overlap].
	IDs [2]string
	// NodeID is the parent whose children collide.
	NodeID string
}

// CollectMarkers runs overlap detection on every node of the tree and
// translates the markers into absolute drawing coordinates matching
// [layout.Flatten] output.
func CollectMarkers(root *floorplan.Node, cfg floorplan.TechConfig) ([]Marker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var out []Marker
	if err := collect(root, cfg, 0, 0, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// collect appends the markers for n and recurses. x, y are the absolute
// position of n's container.
func collect(n *floorplan.Node, cfg floorplan.TechConfig, x, y float64, out *[]Marker) error {
	overlaps, err := compact.Detect(n, cfg)
	if err != nil {
		return err
	}

	// Detection coordinates are relative to the content origin.
	cx := x + floorplan.Margin
	cy := y + floorplan.Header
	for _, o := range overlaps {
		*out = append(*out, Marker{
			X: cx + o.X, Y: cy + o.Y, W: o.W, H: o.H,
			IDs:    o.IDs,
			NodeID: n.ID,
		})
	}

	for _, c := range n.Children {
		if err := collect(c, cfg, cx+c.X, cy+c.Y, out); err != nil {
			return err
		}
	}
	return nil
}
