// Package floorplan defines the hierarchical floorplan model: a tree of
// modules carrying resource counts (registers, memory bits, logic gates),
// target aspect ratios, and relative placements, together with the
// process parameters ([TechConfig]) that translate resources into area.
//
// The package is the foundation for the solver packages underneath it:
//
//   - floorplan/area computes physical footprints and feasible-ratio
//     intervals bottom-up
//   - floorplan/layout flattens a sized tree into absolute-coordinate
//     rectangles for rendering
//   - floorplan/compact removes sibling overlaps with a shape-preserving
//     two-pass sweep
//
// # Ownership and purity
//
// The surrounding application owns the canonical tree. Everything here is
// a pure function: computations read the tree and return fresh values,
// and the rewrite helpers ([UpdateNode], [ReplaceNode], [AddChild],
// [RemoveNode]) return new trees built by structural sharing. Nothing is
// cached between calls, so concurrent callers only need to serialize
// against their one canonical tree.
//
// # Units
//
// All coordinates and the [Margin], [Header], and [Gap] constants share
// one physical unit system (typically micrometers). Screen-space
// transforms are entirely the renderer's concern.
package floorplan
