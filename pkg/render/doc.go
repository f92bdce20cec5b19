// Package render provides visualization rendering for floorplan trees.
//
// # Overview
//
// This package contains the rendering pipeline that transforms sized
// floorplans into visual outputs. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Floorplan drawings (in [plan] subpackage)
//   - Hierarchy diagrams (in [treeview] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). These are used by both
// plan and treeview renderers.
//
//	svg := sink.RenderSVG(l, opts...)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// # Floorplan Drawings
//
// The [plan/sink] subpackage renders a flattened layout as nested
// containers: each module is a rectangle with a header strip carrying its
// name, its local-logic block is drawn inside the content area, and
// children nest recursively. Overlap markers can be overlaid to highlight
// colliding siblings.
//
// # Hierarchy Diagrams
//
// The [treeview] subpackage renders the module tree as a traditional
// node-link diagram using Graphviz. Modules appear as boxes connected by
// containment edges.
//
//	dot := treeview.ToDOT(top, treeview.Options{})
//	svg, err := treeview.RenderSVG(dot)
//	pdf, err := render.ToPDF(svg)
//
// [plan/sink]: github.com/floorstack/floorstack/pkg/render/plan/sink
// [treeview]: github.com/floorstack/floorstack/pkg/render/treeview
package render
