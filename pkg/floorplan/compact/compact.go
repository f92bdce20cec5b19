package compact

import (
	"math"
	"sort"

	"github.com/floorstack/floorstack/pkg/floorplan"
)

// Compact removes overlaps among a module's local-logic block and direct
// children by translation only, then rewrites the module's aspect ratio
// to match the tightened bounding envelope. It returns a new node; the
// input tree is untouched. No entity's own width or height changes, and
// grandchildren keep their subtree layouts verbatim.
//
// The algorithm is a two-pass mosaic sweep: entities are first pushed up
// against their supporting predecessors along the y axis (processed in
// (y, x) order), then left against their supporting predecessors along
// the x axis (re-sorted to (x, y) order), with [floorplan.Gap] spacing.
// Two independent single-axis sweeps are deliberately cheap and
// deterministic: they are not a minimum-area packing, but they guarantee
// zero remaining overlaps while preserving every block's shape.
//
// Correctness requires overlap-free input among the stored coordinates;
// run [Detect] first and refuse the call when it reports markers.
func Compact(n *floorplan.Node, cfg floorplan.TechConfig) (*floorplan.Node, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return compact(n, cfg), nil
}

func compact(n *floorplan.Node, cfg floorplan.TechConfig) *floorplan.Node {
	out := n.Clone()

	// A single local-logic block cannot overlap itself; just pin it to
	// the content origin.
	if out.IsLeaf() {
		out.InternalX, out.InternalY = 0, 0
		return out
	}

	ents := entities(out, cfg)
	sweep(ents, vertical)
	sweep(ents, horizontal)

	byID := make(map[string]entity, len(ents))
	for _, e := range ents {
		byID[e.id] = e
	}
	if e, ok := byID[InternalID]; ok {
		out.InternalX, out.InternalY = e.x, e.y
	}
	for _, c := range out.Children {
		if e, ok := byID[c.ID]; ok {
			c.X, c.Y = e.x, e.y
		}
	}

	// Re-derive the container ratio from the tightened content box, the
	// same envelope formula the sizing pass uses.
	maxX, maxY := 0.0, 0.0
	for _, e := range ents {
		maxX = math.Max(maxX, e.x+e.w)
		maxY = math.Max(maxY, e.y+e.h)
	}
	w := maxX + 2*floorplan.Margin
	h := maxY + 2*floorplan.Margin + floorplan.Header
	if h > 0 {
		ratio := math.Round(w/h*100) / 100
		out.AspectRatio = ratio
		if out.RatioLinked {
			out.InternalAspectRatio = ratio
		}
	}
	return out
}

// axis selects which coordinate a sweep compacts and which span decides
// whether an earlier entity supports a later one.
type axis int

const (
	vertical   axis = iota // compacts y, supported via x-span overlap
	horizontal             // compacts x, supported via y-span overlap
)

// sweep is one single-axis compaction pass. Entities are processed in
// ascending (primary, secondary) order; each one drops to rest against
// the farthest-reaching earlier entity whose cross-axis span it
// overlaps, plus the inter-module gap, or to 0 when nothing supports it.
// Processing order is stable, so equal primary coordinates tie-break on
// the secondary axis.
func sweep(ents []entity, a axis) {
	order := make([]*entity, len(ents))
	for i := range ents {
		order[i] = &ents[i]
	}
	sort.SliceStable(order, func(i, j int) bool {
		if a == vertical {
			if order[i].y != order[j].y {
				return order[i].y < order[j].y
			}
			return order[i].x < order[j].x
		}
		if order[i].x != order[j].x {
			return order[i].x < order[j].x
		}
		return order[i].y < order[j].y
	})

	for i, e := range order {
		rest := 0.0
		for _, prev := range order[:i] {
			if a == vertical {
				if spansOverlap(e.x, e.w, prev.x, prev.w) {
					rest = math.Max(rest, prev.y+prev.h+floorplan.Gap)
				}
			} else {
				if spansOverlap(e.y, e.h, prev.y, prev.h) {
					rest = math.Max(rest, prev.x+prev.w+floorplan.Gap)
				}
			}
		}
		if a == vertical {
			e.y = rest
		} else {
			e.x = rest
		}
	}
}

// Tree applies Compact bottom-up across the whole tree: every child
// subtree is optimized first, so the parent's sweep sees footprints that
// already reflect compacted descendants. Tree always succeeds for a
// valid config; the overlap precondition applies only at the top-level
// entry (recursive levels operate on freshly compacted, hence
// overlap-free, subtrees by construction), so callers run [Detect] on
// the root before invoking it.
func Tree(n *floorplan.Node, cfg floorplan.TechConfig) (*floorplan.Node, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return tree(n, cfg), nil
}

func tree(n *floorplan.Node, cfg floorplan.TechConfig) *floorplan.Node {
	out := n.Clone()
	for i, c := range out.Children {
		out.Children[i] = tree(c, cfg)
	}
	return compact(out, cfg)
}
