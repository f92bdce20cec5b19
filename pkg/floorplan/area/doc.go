// Package area computes physical footprints for floorplan trees.
//
// Sizing follows one model: a module's content area is its own resource
// area (raw area divided by tech utilization) plus the summed footprint
// areas of its children. The target aspect ratio shapes an "ideal"
// footprint from that content area; the placed content (local-logic
// block plus children at their declared positions, padded by the margin
// and header constants) defines a minimum envelope; the actual footprint
// is the componentwise maximum of the two.
//
// The feasible-ratio interval reported per node is the range of target
// ratios for which the ideal footprint alone already satisfies the
// minimum envelope in both dimensions. Outside it the module is in a
// dead zone: the requested ratio cannot be honored without clipping.
//
// Everything is recomputed on demand; there is no cache. Cost is linear
// in subtree size per call.
package area
