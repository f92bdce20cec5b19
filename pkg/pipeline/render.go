package pipeline

import (
	"fmt"

	"github.com/floorstack/floorstack/pkg/floorplan"
	"github.com/floorstack/floorstack/pkg/floorplan/layout"
	"github.com/floorstack/floorstack/pkg/render/plan/sink"
	"github.com/floorstack/floorstack/pkg/render/treeview"
)

// RenderFromLayout renders all requested formats from a flattened layout
// (or, for hierarchy diagrams, from the tree itself).
func RenderFromLayout(l layout.Layout, tree *floorplan.Node, cfg floorplan.TechConfig, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	if opts.IsTree() {
		return renderTree(tree, opts)
	}
	return renderPlan(l, tree, cfg, opts)
}

func renderPlan(l layout.Layout, tree *floorplan.Node, cfg floorplan.TechConfig, opts Options) (map[string][]byte, error) {
	var svgOpts []sink.SVGOption
	var markers []sink.Marker
	if opts.NoLabels {
		svgOpts = append(svgOpts, sink.WithoutLabels())
	}
	if opts.Markers {
		ms, err := sink.CollectMarkers(tree, cfg)
		if err != nil {
			return nil, fmt.Errorf("collect markers: %w", err)
		}
		markers = ms
		svgOpts = append(svgOpts, sink.WithMarkers(ms))
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		switch format {
		case FormatSVG:
			artifacts[format] = sink.RenderSVG(l, svgOpts...)
		case FormatPNG:
			data, err := sink.RenderPNG(l,
				sink.WithPNGSVGOptions(svgOpts...),
				sink.WithScale(opts.Scale))
			if err != nil {
				return nil, fmt.Errorf("render png: %w", err)
			}
			artifacts[format] = data
		case FormatPDF:
			data, err := sink.RenderPDF(l, sink.WithPDFSVGOptions(svgOpts...))
			if err != nil {
				return nil, fmt.Errorf("render pdf: %w", err)
			}
			artifacts[format] = data
		case FormatJSON:
			jsonOpts := []sink.JSONOption{sink.WithJSONTech(opts.Tech)}
			if opts.Markers {
				jsonOpts = append(jsonOpts, sink.WithJSONMarkers(markers))
			}
			data, err := sink.RenderJSON(l, jsonOpts...)
			if err != nil {
				return nil, fmt.Errorf("render json: %w", err)
			}
			artifacts[format] = data
		default:
			return nil, fmt.Errorf("invalid format: %q", format)
		}
	}
	return artifacts, nil
}

func renderTree(tree *floorplan.Node, opts Options) (map[string][]byte, error) {
	dot := treeview.ToDOT(tree, treeview.Options{Detailed: opts.Detailed})

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		switch format {
		case FormatSVG:
			data, err := treeview.RenderSVG(dot)
			if err != nil {
				return nil, fmt.Errorf("render svg: %w", err)
			}
			artifacts[format] = data
		case FormatPNG:
			data, err := treeview.RenderPNG(dot, opts.Scale)
			if err != nil {
				return nil, fmt.Errorf("render png: %w", err)
			}
			artifacts[format] = data
		case FormatPDF:
			data, err := treeview.RenderPDF(dot)
			if err != nil {
				return nil, fmt.Errorf("render pdf: %w", err)
			}
			artifacts[format] = data
		case FormatJSON:
			return nil, fmt.Errorf("format json is not supported for tree diagrams")
		default:
			return nil, fmt.Errorf("invalid format: %q", format)
		}
	}
	return artifacts, nil
}
