package compact_test

import (
	"fmt"

	"github.com/floorstack/floorstack/pkg/floorplan"
	"github.com/floorstack/floorstack/pkg/floorplan/compact"
)

func ExampleDetect() {
	cfg := floorplan.TechConfig{DFFArea: 1, Utilization: 1}

	// Both children sit at the content origin, so they collide
	soc := &floorplan.Node{ID: "soc", AspectRatio: 1, Children: []*floorplan.Node{
		{ID: "cpu", Registers: 100, AspectRatio: 1},
		{ID: "l2", Registers: 100, AspectRatio: 1},
	}}

	overlaps, err := compact.Detect(soc, cfg)
	if err != nil {
		panic(err)
	}
	for _, o := range overlaps {
		fmt.Printf("%s overlaps %s (%.0f x %.0f)\n", o.IDs[0], o.IDs[1], o.W, o.H)
	}
	// Output:
	// cpu overlaps l2 (58 x 94)
}

func ExampleCompact() {
	cfg := floorplan.TechConfig{DFFArea: 1, Utilization: 1}

	// Overlap-free but loosely placed: l2 sits far to the right of cpu
	soc := &floorplan.Node{ID: "soc", AspectRatio: 1, Children: []*floorplan.Node{
		{ID: "cpu", Registers: 100, AspectRatio: 1, X: 0, Y: 0},
		{ID: "l2", Registers: 100, AspectRatio: 1, X: 200, Y: 0},
	}}

	opt, err := compact.Compact(soc, cfg)
	if err != nil {
		panic(err)
	}

	// l2 slides left until only the inter-module gap separates it from
	// cpu; the container ratio is rewritten to fit the tightened box.
	for _, c := range opt.Children {
		fmt.Printf("%s: (%.0f, %.0f)\n", c.ID, c.X, c.Y)
	}
	fmt.Println("Aspect ratio:", opt.AspectRatio)

	// The input tree keeps its loose placement
	fmt.Printf("Input l2 x: %.0f\n", soc.Children[1].X)
	// Output:
	// cpu: (0, 0)
	// l2: (74, 0)
	// Aspect ratio: 1.01
	// Input l2 x: 200
}
