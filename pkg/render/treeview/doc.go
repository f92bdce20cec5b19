// Package treeview renders floorplan trees as node-link hierarchy diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz,
// where modules appear as boxes connected by containment arrows. It's an
// alternative to the floorplan drawing for cases where the logical
// hierarchy matters more than the geometry.
//
// # Usage
//
// Convert a tree to DOT format, then render to SVG:
//
//	dot := treeview.ToDOT(top, treeview.Options{Detailed: false})
//	svg, err := treeview.RenderSVG(dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := treeview.RenderPDF(dot)
//	png, err := treeview.RenderPNG(dot, 2.0)  // 2x scale
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, node labels include resource counts and the
//     aspect ratio
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// The generated DOT uses top-to-bottom layout (rankdir=TB) with rounded
// box nodes, so parents sit above the modules they contain.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package treeview
