package area_test

import (
	"fmt"

	"github.com/floorstack/floorstack/pkg/floorplan"
	"github.com/floorstack/floorstack/pkg/floorplan/area"
)

func ExampleCompute() {
	// Unit-area process: one register costs exactly 1.0, full utilization
	cfg := floorplan.TechConfig{DFFArea: 1, Utilization: 1}

	// A leaf holding 100 registers targets a square footprint
	alu := &floorplan.Node{ID: "alu", Registers: 100, AspectRatio: 1}

	w, h, bd, err := area.Compute(alu, cfg)
	if err != nil {
		panic(err)
	}

	// The 10x10 logic block plus margins and the header strip set the
	// minimum envelope, which here dominates the ratio-driven ideal.
	fmt.Printf("Footprint: %.0f x %.0f\n", w, h)
	fmt.Printf("Local area: %.0f\n", bd.LocalArea)
	fmt.Printf("Total area: %.0f\n", bd.TotalArea)
	// Output:
	// Footprint: 58 x 94
	// Local area: 100
	// Total area: 5452
}

func ExampleCompute_siblings() {
	cfg := floorplan.TechConfig{DFFArea: 1, Utilization: 1}

	// Two placed children; the parent envelope grows around them
	soc := &floorplan.Node{ID: "soc", AspectRatio: 1, Children: []*floorplan.Node{
		{ID: "cpu", Registers: 100, AspectRatio: 1, X: 0, Y: 0},
		{ID: "l2", Registers: 100, AspectRatio: 1, X: 74, Y: 0},
	}}

	w, h, _, err := area.Compute(soc, cfg)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Parent footprint: %.0f x %.0f\n", w, h)
	// Output:
	// Parent footprint: 180 x 178
}

func ExampleBreakdown_InDeadZone() {
	cfg := floorplan.TechConfig{DFFArea: 1, Utilization: 1}
	alu := &floorplan.Node{ID: "alu", Registers: 100, AspectRatio: 1}

	_, _, bd, err := area.Compute(alu, cfg)
	if err != nil {
		panic(err)
	}

	// Ratios inside the feasible interval keep the ideal footprint;
	// ratios outside it force an envelope-shaped block instead.
	fmt.Println("Ratio 1 in dead zone:", bd.InDeadZone(1))
	fmt.Println("Ratio 50 in dead zone:", bd.InDeadZone(50))
	// Output:
	// Ratio 1 in dead zone: false
	// Ratio 50 in dead zone: true
}
