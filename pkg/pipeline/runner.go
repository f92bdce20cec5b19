package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/floorstack/floorstack/pkg/cache"
	"github.com/floorstack/floorstack/pkg/design"
	"github.com/floorstack/floorstack/pkg/floorplan"
	"github.com/floorstack/floorstack/pkg/floorplan/area"
	"github.com/floorstack/floorstack/pkg/floorplan/layout"
	"github.com/floorstack/floorstack/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → solve → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	d, err := Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Design = d

	cfg, err := ResolveConfig(d, opts)
	if err != nil {
		return nil, fmt.Errorf("resolve tech: %w", err)
	}
	result.Config = cfg

	// Stage 2: Solve
	solveStart := time.Now()
	nodeCount := floorplan.Count(d.Top)
	observability.Pipeline().OnSolveStart(ctx, d.Name, nodeCount)
	tree, err := Solve(d, cfg, opts)
	if err != nil {
		observability.Pipeline().OnSolveComplete(ctx, d.Name, nodeCount, time.Since(solveStart), err)
		return nil, fmt.Errorf("solve: %w", err)
	}
	result.Tree = tree
	result.Stats.SolveTime = time.Since(solveStart)
	result.Stats.NodeCount = floorplan.Count(tree)
	observability.Pipeline().OnSolveComplete(ctx, d.Name, result.Stats.NodeCount, result.Stats.SolveTime, nil)

	if _, _, bd, err := area.Compute(tree, cfg); err == nil {
		result.Breakdown = bd
	}
	if n, err := countOverlaps(tree, cfg); err == nil {
		result.Overlaps = n
	}
	result.TreeHash = r.treeHash(tree, cfg)

	r.Logger.Info("solved floorplan",
		"modules", result.Stats.NodeCount,
		"area", result.Breakdown.TotalArea,
		"overlaps", result.Overlaps,
		"duration", result.Stats.SolveTime)

	// Stage 3: Layout
	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, d.Name, result.Stats.NodeCount)
	l, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, tree, cfg, opts)
	observability.Pipeline().OnLayoutComplete(ctx, d.Name, time.Since(layoutStart), err)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"blocks", len(l.Rects),
		"frame", fmt.Sprintf("%.0fx%.0f", l.Width, l.Height),
		"duration", result.Stats.LayoutTime)

	// Stage 4: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, tree, cfg, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads the design named by the options. See [Load].
func (r *Runner) Load(ctx context.Context, opts Options) (*design.Design, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	return Load(ctx, opts)
}

// Solve normalizes and optionally compacts the design tree. See [Solve].
func (r *Runner) Solve(ctx context.Context, d *design.Design, opts Options) (*floorplan.Node, error) {
	cfg, err := ResolveConfig(d, opts)
	if err != nil {
		return nil, err
	}
	return Solve(d, cfg, opts)
}

// ComputeLayoutWithCacheInfo flattens the tree with caching and returns cache hit info.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, tree *floorplan.Node, cfg floorplan.TechConfig, opts Options) (layout.Layout, bool, error) {
	cacheKey := r.Keyer.LayoutKey(r.treeHash(tree, cfg), opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached layout.Layout
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	l, err := layout.Flatten(tree, cfg)
	if err != nil {
		return layout.Layout{}, false, err
	}

	// Cache the result
	if data, err := json.Marshal(l); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}

	return l, false, nil // Cache miss
}

// ComputeLayout is a convenience wrapper that discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, tree *floorplan.Node, cfg floorplan.TechConfig, opts Options) (layout.Layout, error) {
	l, _, err := r.ComputeLayoutWithCacheInfo(ctx, tree, cfg, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l layout.Layout, tree *floorplan.Node, cfg floorplan.TechConfig, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutData, err := json.Marshal(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	cacheKeyHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	allCached := !opts.Refresh
	artifacts := make(map[string][]byte)

	if allCached {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(cacheKeyHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
			} else {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				allCached = false
				break
			}
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil // All artifacts from cache
	}

	// Render all formats
	rendered, err := RenderFromLayout(l, tree, cfg, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(cacheKeyHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l layout.Layout, tree *floorplan.Node, cfg floorplan.TechConfig, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, tree, cfg, opts)
	return artifacts, err
}

// treeHash computes a content hash over the solved tree and tech config,
// the identity for all downstream cache keys.
func (r *Runner) treeHash(tree *floorplan.Node, cfg floorplan.TechConfig) string {
	data, _ := json.Marshal(struct {
		Tree *floorplan.Node      `json:"tree"`
		Cfg  floorplan.TechConfig `json:"cfg"`
	}{tree, cfg})
	return cache.Hash(data)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
