package floorplan_test

import (
	"errors"
	"fmt"

	"github.com/floorstack/floorstack/pkg/floorplan"
)

func ExampleWalk() {
	// A small SoC: top-level chip with a CPU and an L2 cache
	soc := &floorplan.Node{ID: "soc", Name: "SoC", Children: []*floorplan.Node{
		{ID: "cpu", Name: "CPU", Registers: 42000, LogicGates: 310000},
		{ID: "l2", Name: "L2 Cache", MemoryBits: 2097152},
	}}

	// Depth-first pre-order visit
	floorplan.Walk(soc, func(n *floorplan.Node) bool {
		fmt.Println(n.ID)
		return true
	})
	// Output:
	// soc
	// cpu
	// l2
}

func ExampleFind() {
	soc := &floorplan.Node{ID: "soc", Children: []*floorplan.Node{
		{ID: "cpu", Name: "CPU"},
		{ID: "l2", Name: "L2 Cache"},
	}}

	fmt.Println("Modules:", floorplan.Count(soc))
	fmt.Println("Found:", floorplan.Find(soc, "cpu").Name)
	fmt.Println("Missing is nil:", floorplan.Find(soc, "gpu") == nil)
	// Output:
	// Modules: 3
	// Found: CPU
	// Missing is nil: true
}

func ExampleNormalize() {
	// Raw external data with out-of-range values
	raw := &floorplan.Node{ID: "cpu", AspectRatio: -2, Registers: -5}

	n := floorplan.Normalize(raw)
	fmt.Println("Aspect ratio:", n.AspectRatio)
	fmt.Println("Registers:", n.Registers)

	// Normalize copies; the input keeps its raw values
	fmt.Println("Input aspect ratio:", raw.AspectRatio)
	// Output:
	// Aspect ratio: 1
	// Registers: 0
	// Input aspect ratio: -2
}

func ExampleValidate() {
	// Two nodes sharing an ID make the tree unaddressable
	dup := &floorplan.Node{ID: "soc", Children: []*floorplan.Node{
		{ID: "cpu"},
		{ID: "cpu"},
	}}

	err := floorplan.Validate(dup)
	fmt.Println("Duplicate detected:", errors.Is(err, floorplan.ErrDuplicateNodeID))
	// Output:
	// Duplicate detected: true
}

func ExampleUpdateNode() {
	soc := &floorplan.Node{ID: "soc", Children: []*floorplan.Node{
		{ID: "cpu", Registers: 42000},
	}}

	// Patch a single field; the original tree is untouched
	regs := int64(5000)
	next := floorplan.UpdateNode(soc, "cpu", floorplan.Patch{Registers: &regs})

	fmt.Println("Updated:", floorplan.Find(next, "cpu").Registers)
	fmt.Println("Original:", floorplan.Find(soc, "cpu").Registers)
	// Output:
	// Updated: 5000
	// Original: 42000
}

func ExampleRemoveNode() {
	soc := &floorplan.Node{ID: "soc", Children: []*floorplan.Node{
		{ID: "cpu"},
		{ID: "l2"},
	}}

	next := floorplan.RemoveNode(soc, "l2")
	fmt.Println("Before:", floorplan.Count(soc))
	fmt.Println("After:", floorplan.Count(next))

	// Unknown IDs are no-ops returning the input tree itself
	same := floorplan.RemoveNode(soc, "gpu")
	fmt.Println("No-op returns input:", same == soc)
	// Output:
	// Before: 3
	// After: 2
	// No-op returns input: true
}
