// Package sink renders flattened floorplan layouts to output formats.
//
// The SVG renderer draws the layout as nested containers: every module
// is a rectangle with a tinted body, a header strip carrying its name,
// and a dashed local-logic block inside its content area. Fill colors
// cycle by nesting depth. Overlap markers from [CollectMarkers] can be
// overlaid to highlight colliding siblings:
//
//	l, _ := layout.Flatten(top, cfg)
//	ms, _ := sink.CollectMarkers(top, cfg)
//	svg := sink.RenderSVG(l, sink.WithMarkers(ms))
//
// The JSON renderer exports the same geometry as structured data for
// external viewers. PNG and PDF wrap the SVG renderer via rsvg-convert.
package sink
