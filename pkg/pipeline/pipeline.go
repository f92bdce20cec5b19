// Package pipeline provides the core floorplan pipeline for FloorStack.
//
// This package implements the complete load → solve → layout → render
// pipeline that can be used by CLI, API, and worker components. By
// centralizing this logic, we ensure consistent behavior across all entry
// points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: Read a design document from a file or the catalog
//  2. Solve: Size every module bottom-up, optionally compacting placements
//  3. Layout: Flatten the sized tree into absolute drawing coordinates
//  4. Render: Generate output in various formats (SVG, PNG, PDF, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    DesignPath: "soc.json",
//	    Optimize:   true,
//	    Formats:    []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Load and solve only
//	d, err := runner.Load(ctx, opts)
//	tree, err := runner.Solve(ctx, d, opts)
//
//	// Layout with a solved tree
//	l, err := runner.ComputeLayout(ctx, tree, cfg, opts)
//
//	// Render with an existing layout
//	artifacts, err := runner.Render(ctx, l, tree, cfg, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/floorstack/floorstack/pkg/cache"
	"github.com/floorstack/floorstack/pkg/design"
	"github.com/floorstack/floorstack/pkg/floorplan"
	"github.com/floorstack/floorstack/pkg/floorplan/area"
	"github.com/floorstack/floorstack/pkg/floorplan/compact"
	"github.com/floorstack/floorstack/pkg/floorplan/layout"
	"github.com/floorstack/floorstack/pkg/store"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Worker
// =============================================================================

const (
	// DefaultScale is the default raster scale factor for PNG output.
	DefaultScale = 2.0

	// DefaultVizType is the default visualization type.
	DefaultVizType = VizTypePlan
)

// Visualization type constants.
const (
	VizTypePlan = "plan"
	VizTypeTree = "tree"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	VizTypePlan: true,
	VizTypeTree: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the floorplan pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	DesignPath string `json:"design_path,omitempty"` // JSON design file
	DesignName string `json:"design_name,omitempty"` // Catalog entry (requires Store)
	Tech       string `json:"tech,omitempty"`        // Tech preset override
	TechFile   string `json:"tech_file,omitempty"`   // TOML tech config file

	// Solve options
	Compact  bool `json:"compact,omitempty"`  // Compact each node once, top only
	Optimize bool `json:"optimize,omitempty"` // Recursive bottom-up compaction
	Refresh  bool `json:"refresh,omitempty"`  // Bypass the layout/artifact cache

	// Render options
	VizType  string   `json:"viz_type,omitempty"` // "plan" or "tree"
	Formats  []string `json:"formats,omitempty"`
	Scale    float64  `json:"scale,omitempty"`    // PNG scale factor
	NoLabels bool     `json:"no_labels,omitempty"`
	Markers  bool     `json:"markers,omitempty"`  // Overlay overlap markers
	Detailed bool     `json:"detailed,omitempty"` // Tree labels with resource counts

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
	Store  store.Store `json:"-"` // Catalog backend for DesignName loads

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Design is the loaded design document.
	Design *design.Design

	// Tree is the solved (normalized and optionally compacted) tree.
	Tree *floorplan.Node

	// TreeHash is the content hash of the solved tree plus tech config.
	TreeHash string

	// Config is the resolved tech config.
	Config floorplan.TechConfig

	// Breakdown is the root area breakdown.
	Breakdown area.Breakdown

	// Layout contains the flattened geometry.
	Layout layout.Layout

	// Overlaps counts the colliding sibling pairs across the tree.
	Overlaps int

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	SolveTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether layout result came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return fmt.Errorf("invalid viz_type: %q (must be one of: plan, tree)", vizType)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for loading a design.
func (o *Options) ValidateForLoad() error {
	if o.DesignPath == "" && o.DesignName == "" {
		return fmt.Errorf("design_path or design_name is required")
	}
	if o.DesignName != "" && o.Store == nil {
		return fmt.Errorf("design_name requires a catalog store")
	}
	if o.Tech != "" && o.TechFile != "" {
		return fmt.Errorf("tech and tech_file are mutually exclusive")
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

// IsPlan returns true if this is a floorplan drawing.
func (o *Options) IsPlan() bool {
	return o.VizType == "" || o.VizType == VizTypePlan
}

// IsTree returns true if this is a hierarchy diagram.
func (o *Options) IsTree() bool {
	return o.VizType == VizTypeTree
}

// ShouldCompact returns whether any compaction pass runs during solve.
func (o *Options) ShouldCompact() bool {
	return o.Compact || o.Optimize
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Tech:      o.Tech,
		Compacted: o.Compact,
		Optimized: o.Optimize,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:  format,
		Scale:   o.Scale,
		Labels:  !o.NoLabels,
		Markers: o.Markers,
	}
}

// countOverlaps runs detection on every node and sums the markers.
func countOverlaps(root *floorplan.Node, cfg floorplan.TechConfig) (int, error) {
	total := 0
	var firstErr error
	floorplan.Walk(root, func(n *floorplan.Node) bool {
		overlaps, err := compact.Detect(n, cfg)
		if err != nil {
			firstErr = err
			return false
		}
		total += len(overlaps)
		return true
	})
	return total, firstErr
}
