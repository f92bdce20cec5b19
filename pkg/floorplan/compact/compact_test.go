package compact

import (
	"math"
	"testing"

	"github.com/floorstack/floorstack/pkg/floorplan"
)

func TestSweep_VerticalStacksWithGap(t *testing.T) {
	ents := []entity{
		{id: "a", x: 0, y: 0, w: 100, h: 100},
		{id: "b", x: 50, y: 50, w: 100, h: 100},
	}

	sweep(ents, vertical)

	if ents[0].y != 0 {
		t.Errorf("first entity y = %g, want 0", ents[0].y)
	}
	want := ents[0].h + floorplan.Gap // 116
	if ents[1].y != want {
		t.Errorf("second entity y = %g, want %g", ents[1].y, want)
	}
	if len(detect(ents)) != 0 {
		t.Error("vertical sweep left overlaps")
	}
}

func TestSweep_HorizontalUsesYSpans(t *testing.T) {
	// Disjoint y spans: nothing supports anything, both slide to x=0.
	ents := []entity{
		{id: "a", x: 40, y: 0, w: 100, h: 100},
		{id: "b", x: 90, y: 200, w: 100, h: 100},
	}

	sweep(ents, horizontal)

	if ents[0].x != 0 || ents[1].x != 0 {
		t.Errorf("x = %g, %g, want both 0 (no vertical overlap, no support)", ents[0].x, ents[1].x)
	}
}

func TestSweep_RestsAgainstFarthestSupporter(t *testing.T) {
	// c overlaps both a (ends at 100) and b (ends at 250): it must rest
	// against b, the farther one.
	ents := []entity{
		{id: "a", x: 0, y: 0, w: 100, h: 100},
		{id: "b", x: 0, y: 150, w: 100, h: 100},
		{id: "c", x: 50, y: 400, w: 100, h: 100},
	}

	sweep(ents, vertical)

	b := ents[1]
	c := ents[2]
	if want := b.y + b.h + floorplan.Gap; c.y != want {
		t.Errorf("c.y = %g, want %g (resting on b)", c.y, want)
	}
}

func TestCompact_LeafStability(t *testing.T) {
	n := &floorplan.Node{ID: "leaf", Registers: 500, AspectRatio: 1.7, InternalX: 33, InternalY: 44}

	out, err := Compact(n, testCfg)
	if err != nil {
		t.Fatalf("Compact() error = %v", err)
	}

	if out.InternalX != 0 || out.InternalY != 0 {
		t.Errorf("internal block at (%g,%g), want reset to origin", out.InternalX, out.InternalY)
	}
	if out.AspectRatio != 1.7 {
		t.Errorf("leaf AspectRatio changed to %g, want untouched 1.7", out.AspectRatio)
	}
	if n.InternalX != 33 {
		t.Error("Compact mutated its input")
	}
}

func overlappingParent() *floorplan.Node {
	return &floorplan.Node{
		ID: "top", AspectRatio: 1,
		Children: []*floorplan.Node{
			{ID: "a", Registers: 2000, AspectRatio: 1, RatioLinked: true, X: 0, Y: 0},
			{ID: "b", Registers: 2000, AspectRatio: 1, RatioLinked: true, X: 30, Y: 30},
			{ID: "c", LogicGates: 9000, AspectRatio: 1.5, RatioLinked: true, X: 10, Y: 60},
		},
	}
}

func TestCompact_RemovesAllOverlaps(t *testing.T) {
	n := overlappingParent()

	out, err := Compact(n, testCfg)
	if err != nil {
		t.Fatalf("Compact() error = %v", err)
	}

	markers, err := Detect(out, testCfg)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(markers) != 0 {
		t.Errorf("after compaction Detect returned %d markers, want 0: %+v", len(markers), markers)
	}
}

func TestCompact_ShapePreserving(t *testing.T) {
	n := overlappingParent()

	out, err := Compact(n, testCfg)
	if err != nil {
		t.Fatalf("Compact() error = %v", err)
	}

	for i, c := range n.Children {
		oc := out.Children[i]
		if oc.ID != c.ID || oc.Registers != c.Registers || oc.LogicGates != c.LogicGates {
			t.Errorf("child %s size-determining fields changed", c.ID)
		}
	}
}

func TestCompact_GapRespected(t *testing.T) {
	n := &floorplan.Node{
		ID: "top", AspectRatio: 1,
		Children: []*floorplan.Node{
			{ID: "a", Registers: 2000, AspectRatio: 1, RatioLinked: true, X: 0, Y: 0},
			{ID: "b", Registers: 2000, AspectRatio: 1, RatioLinked: true, X: 50, Y: 50},
		},
	}

	out, err := Compact(n, testCfg)
	if err != nil {
		t.Fatalf("Compact() error = %v", err)
	}

	a, b := out.Children[0], out.Children[1]
	// One of the two axes must separate them by at least the gap.
	dy := b.Y - a.Y
	dx := b.X - a.X
	if dy < floorplan.Gap && dx < floorplan.Gap {
		t.Errorf("children separated by (%g,%g), want at least one axis >= gap", dx, dy)
	}
}

func TestCompact_Idempotent(t *testing.T) {
	// Unlinked ratios keep entity shapes fixed across runs.
	n := &floorplan.Node{
		ID: "top", AspectRatio: 1, InternalAspectRatio: 1,
		Children: []*floorplan.Node{
			{ID: "a", Registers: 2000, AspectRatio: 1, InternalAspectRatio: 1, X: 0, Y: 0},
			{ID: "b", Registers: 2000, AspectRatio: 1, InternalAspectRatio: 1, X: 40, Y: 40},
		},
	}

	once, err := Compact(n, testCfg)
	if err != nil {
		t.Fatalf("Compact() error = %v", err)
	}
	twice, err := Compact(once, testCfg)
	if err != nil {
		t.Fatalf("second Compact() error = %v", err)
	}

	const eps = 1e-9
	if math.Abs(once.InternalX-twice.InternalX) > eps || math.Abs(once.InternalY-twice.InternalY) > eps {
		t.Errorf("internal block moved on second pass: (%g,%g) -> (%g,%g)",
			once.InternalX, once.InternalY, twice.InternalX, twice.InternalY)
	}
	for i := range once.Children {
		a, b := once.Children[i], twice.Children[i]
		if math.Abs(a.X-b.X) > eps || math.Abs(a.Y-b.Y) > eps {
			t.Errorf("child %s moved on second pass: (%g,%g) -> (%g,%g)", a.ID, a.X, a.Y, b.X, b.Y)
		}
	}
	if once.AspectRatio != twice.AspectRatio {
		t.Errorf("AspectRatio drifted: %g -> %g", once.AspectRatio, twice.AspectRatio)
	}
}

func TestCompact_RatioRoundedAndLinked(t *testing.T) {
	n := &floorplan.Node{
		ID: "top", AspectRatio: 3, RatioLinked: true,
		Children: []*floorplan.Node{
			{ID: "a", Registers: 2000, AspectRatio: 1, RatioLinked: true},
		},
	}

	out, err := Compact(n, testCfg)
	if err != nil {
		t.Fatalf("Compact() error = %v", err)
	}

	if r := out.AspectRatio; math.Round(r*100)/100 != r {
		t.Errorf("AspectRatio %g not rounded to 2 decimals", r)
	}
	if out.InternalAspectRatio != out.AspectRatio {
		t.Errorf("linked internal ratio = %g, want %g", out.InternalAspectRatio, out.AspectRatio)
	}
}

func TestTree_CompactsEveryLevel(t *testing.T) {
	inner := &floorplan.Node{
		ID: "mid", AspectRatio: 1,
		Children: []*floorplan.Node{
			{ID: "g1", Registers: 1000, AspectRatio: 1, RatioLinked: true, X: 0, Y: 0},
			{ID: "g2", Registers: 1000, AspectRatio: 1, RatioLinked: true, X: 20, Y: 20},
		},
	}
	root := &floorplan.Node{
		ID: "top", AspectRatio: 1,
		Children: []*floorplan.Node{inner,
			{ID: "side", Registers: 500, AspectRatio: 1, RatioLinked: true, X: 5, Y: 5},
		},
	}

	out, err := Tree(root, testCfg)
	if err != nil {
		t.Fatalf("Tree() error = %v", err)
	}

	for _, id := range []string{"top", "mid"} {
		node := floorplan.Find(out, id)
		markers, err := Detect(node, testCfg)
		if err != nil {
			t.Fatalf("Detect(%s) error = %v", id, err)
		}
		if len(markers) != 0 {
			t.Errorf("node %s still has %d overlaps after Tree()", id, len(markers))
		}
	}
	if floorplan.Find(root, "g2").X != 20 {
		t.Error("Tree mutated its input")
	}
}
