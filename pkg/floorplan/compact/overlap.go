package compact

import (
	"math"

	"github.com/floorstack/floorstack/pkg/floorplan"
	"github.com/floorstack/floorstack/pkg/floorplan/area"
)

// InternalID is the sentinel entity ID naming a module's local-logic
// block in overlap markers and during compaction.
const InternalID = "internal"

// Overlap marks one axis-aligned collision between two sibling entities:
// the intersection rectangle plus the IDs of the colliding pair. Markers
// are transient; callers consume them immediately (typically to refuse an
// optimize action and show the collision).
type Overlap struct {
	X   float64   `json:"x"`
	Y   float64   `json:"y"`
	W   float64   `json:"w"`
	H   float64   `json:"h"`
	IDs [2]string `json:"ids"`
}

// entity is one placed block during overlap checks and compaction: the
// local-logic block or a direct child, with its current position and its
// solver-derived size.
type entity struct {
	id       string
	x, y     float64
	w, h     float64
	internal bool
}

// entities builds the per-level entity set: the node's local-logic block
// (tagged [InternalID]) followed by each direct child sized via the area
// solver. One level only; grandchildren are their parents' problem.
func entities(n *floorplan.Node, cfg floorplan.TechConfig) []entity {
	out := make([]entity, 0, len(n.Children)+1)

	iw, ih := area.InternalSize(n, cfg)
	out = append(out, entity{
		id: InternalID, x: n.InternalX, y: n.InternalY, w: iw, h: ih, internal: true,
	})

	for _, c := range n.Children {
		cw, ch := area.Size(c, cfg)
		out = append(out, entity{id: c.ID, x: c.X, y: c.Y, w: cw, h: ch})
	}
	return out
}

// Detect reports every pairwise axis-aligned overlap among a module's
// local-logic block and its direct children. A marker is emitted only
// when the intersection is strictly positive in both axes; mere edge
// contact does not collide.
//
// Detect must run before [Compact] on a module with children: the sweep
// assumes no pre-existing overlaps among stored coordinates, and the
// caller refuses the compaction when Detect returns markers.
func Detect(n *floorplan.Node, cfg floorplan.TechConfig) ([]Overlap, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return detect(entities(n, cfg)), nil
}

func detect(ents []entity) []Overlap {
	var out []Overlap
	for i := 0; i < len(ents); i++ {
		for j := i + 1; j < len(ents); j++ {
			a, b := ents[i], ents[j]
			ox := math.Min(a.x+a.w, b.x+b.w) - math.Max(a.x, b.x)
			oy := math.Min(a.y+a.h, b.y+b.h) - math.Max(a.y, b.y)
			if ox > 0 && oy > 0 {
				out = append(out, Overlap{
					X:   math.Max(a.x, b.x),
					Y:   math.Max(a.y, b.y),
					W:   ox,
					H:   oy,
					IDs: [2]string{a.id, b.id},
				})
			}
		}
	}
	return out
}

// spansOverlap reports whether [aLo, aLo+aLen) and [bLo, bLo+bLen)
// overlap with strictly positive length.
func spansOverlap(aLo, aLen, bLo, bLen float64) bool {
	return math.Min(aLo+aLen, bLo+bLen)-math.Max(aLo, bLo) > 0
}
