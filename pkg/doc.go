// Package pkg provides the core libraries for FloorStack floorplan visualization.
//
// # Overview
//
// FloorStack turns hierarchical module trees with resource counts into
// sized, placed, and rendered chip floorplans. The pkg directory is
// organized into five main areas:
//
//  1. [floorplan] - Domain logic (sizing model, layout, compaction, rewrites)
//  2. [design] - Design documents, tech presets, serialization
//  3. [render] - SVG/PNG/PDF/JSON sinks and the hierarchy tree view
//  4. [pipeline] - Orchestration (load → solve → layout → render) with caching
//  5. [server] / [store] - HTTP editing API and the named-design catalog
//
// # Architecture
//
// The typical data flow through FloorStack:
//
//	Design JSON / Catalog
//	         ↓
//	floorplan.Normalize + Validate
//	         ↓
//	area.Compute (post-order sizing)
//	         ↓
//	compact.Tree (optional placement compaction)
//	         ↓
//	layout.Flatten (absolute rectangles)
//	         ↓
//	render sinks (svg, png, pdf, json) / treeview
//
// Supporting packages: [cache] for layout and artifact caching, [errors]
// for structured error codes, [observability] for instrumentation hooks,
// and [buildinfo] for version stamping.
package pkg
