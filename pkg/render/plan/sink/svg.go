package sink

import (
	"bytes"
	"fmt"

	"github.com/floorstack/floorstack/pkg/floorplan"
	"github.com/floorstack/floorstack/pkg/floorplan/layout"
)

// Depth-cycled container fills, light to dark. The header strip uses the
// matching border color at full opacity.
var defaultPalette = []fill{
	{body: "#eff6ff", border: "#3b82f6"},
	{body: "#f0fdf4", border: "#22c55e"},
	{body: "#fefce8", border: "#eab308"},
	{body: "#faf5ff", border: "#a855f7"},
	{body: "#fff7ed", border: "#f97316"},
}

type fill struct {
	body   string
	border string
}

const internalFill = "#e2e8f0"
const internalBorder = "#94a3b8"
const markerFill = "#ef4444"

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	labels  bool
	markers []Marker
	scale   float64
}

// WithoutLabels disables the module name text in header strips.
func WithoutLabels() SVGOption { return func(r *svgRenderer) { r.labels = false } }

// WithMarkers overlays overlap markers on the drawing. Marker coordinates
// must be absolute, as produced by [CollectMarkers].
func WithMarkers(ms []Marker) SVGOption { return func(r *svgRenderer) { r.markers = ms } }

// WithSVGScale multiplies the nominal pixel size of the output viewport.
// The coordinate system is unchanged.
func WithSVGScale(s float64) SVGOption { return func(r *svgRenderer) { r.scale = s } }

// RenderSVG renders a flattened layout as an SVG drawing of nested
// containers. Rects are drawn in layout order, which already encodes the
// z-order: container, then its local-logic block, then its children.
func RenderSVG(l layout.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{labels: true, scale: 1.0}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.Width, l.Height, l.Width*r.scale, l.Height*r.scale)

	for _, rect := range l.Rects {
		if rect.Internal {
			renderInternal(&buf, rect)
		} else {
			renderContainer(&buf, rect, r.labels)
		}
	}

	for _, m := range r.markers {
		renderMarker(&buf, m)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderContainer(buf *bytes.Buffer, rect layout.Rect, labels bool) {
	f := defaultPalette[rect.Depth%len(defaultPalette)]

	fmt.Fprintf(buf, `  <rect id="block-%s" class="block" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
		rect.ID, rect.X, rect.Y, rect.W, rect.H, f.body, f.border)

	headerH := floorplan.Header
	if rect.H < headerH {
		headerH = rect.H
	}
	fmt.Fprintf(buf, `  <rect class="header" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" fill-opacity="0.25"/>`+"\n",
		rect.X, rect.Y, rect.W, headerH, f.border)

	if labels {
		label := rect.Name
		if label == "" {
			label = rect.ID
		}
		fmt.Fprintf(buf, `  <text class="block-text" x="%.1f" y="%.1f" font-family="sans-serif" font-size="14" fill="#1e293b">%s</text>`+"\n",
			rect.X+8, rect.Y+headerH/2+5, escapeText(label))
	}
}

func renderInternal(buf *bytes.Buffer, rect layout.Rect) {
	if rect.W <= 0 || rect.H <= 0 {
		return
	}
	fmt.Fprintf(buf, `  <rect id="block-%s" class="internal" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s" stroke-width="1" stroke-dasharray="4 2"/>`+"\n",
		rect.ID, rect.X, rect.Y, rect.W, rect.H, internalFill, internalBorder)
}

func renderMarker(buf *bytes.Buffer, m Marker) {
	fmt.Fprintf(buf, `  <rect class="marker" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" fill-opacity="0.35" stroke="%s" stroke-width="1"/>`+"\n",
		m.X, m.Y, m.W, m.H, markerFill, markerFill)
}

// escapeText escapes the characters with special meaning in SVG text
// content.
func escapeText(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
