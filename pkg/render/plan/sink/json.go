package sink

import (
	"encoding/json"

	"github.com/floorstack/floorstack/pkg/floorplan/layout"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	markers []Marker
	tech    string
}

// WithJSONMarkers includes overlap markers in the JSON output. Markers
// should come from [CollectMarkers].
func WithJSONMarkers(ms []Marker) JSONOption {
	return func(r *jsonRenderer) { r.markers = ms }
}

// WithJSONTech records the tech preset name in the JSON output for
// documentation or round-trip rendering.
func WithJSONTech(name string) JSONOption {
	return func(r *jsonRenderer) { r.tech = name }
}

type jsonOutput struct {
	Width   float64      `json:"width"`
	Height  float64      `json:"height"`
	Tech    string       `json:"tech,omitempty"`
	Blocks  []jsonBlock  `json:"blocks"`
	Markers []jsonMarker `json:"markers,omitempty"`
}

type jsonBlock struct {
	ID       string  `json:"id"`
	Parent   string  `json:"parent,omitempty"`
	Label    string  `json:"label,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Internal bool    `json:"internal,omitempty"`
	Depth    int     `json:"depth"`
}

type jsonMarker struct {
	Node   string  `json:"node"`
	A      string  `json:"a"`
	B      string  `json:"b"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RenderJSON exports the flattened layout as a pretty-printed JSON
// document: absolute block positions and dimensions in z-order, plus
// optional overlap markers. This is the data interchange format for
// external viewers and for caching computed layouts.
//
// RenderJSON returns an error only if JSON marshaling fails. It does not
// modify l and is safe to call concurrently.
func RenderJSON(l layout.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:  l.Width,
		Height: l.Height,
		Tech:   r.tech,
		Blocks: make([]jsonBlock, len(l.Rects)),
	}
	for i, rect := range l.Rects {
		out.Blocks[i] = jsonBlock{
			ID:       rect.ID,
			Parent:   rect.ParentID,
			Label:    rect.Name,
			X:        rect.X,
			Y:        rect.Y,
			Width:    rect.W,
			Height:   rect.H,
			Internal: rect.Internal,
			Depth:    rect.Depth,
		}
	}
	for _, m := range r.markers {
		out.Markers = append(out.Markers, jsonMarker{
			Node: m.NodeID, A: m.IDs[0], B: m.IDs[1],
			X: m.X, Y: m.Y, Width: m.W, Height: m.H,
		})
	}

	return json.MarshalIndent(out, "", "  ")
}
