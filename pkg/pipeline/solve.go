package pipeline

import (
	"context"
	"fmt"

	"github.com/floorstack/floorstack/pkg/design"
	"github.com/floorstack/floorstack/pkg/floorplan"
	"github.com/floorstack/floorstack/pkg/floorplan/compact"
)

// Load reads the design document named by the options: a JSON file when
// DesignPath is set, otherwise a catalog entry via the configured store.
func Load(ctx context.Context, opts Options) (*design.Design, error) {
	if opts.DesignPath != "" {
		return design.ImportJSON(opts.DesignPath)
	}
	return opts.Store.Get(ctx, opts.DesignName)
}

// ResolveConfig determines the effective tech config: an explicit TOML
// file wins, then a preset named in the options, then whatever the
// design itself declares.
func ResolveConfig(d *design.Design, opts Options) (floorplan.TechConfig, error) {
	if opts.TechFile != "" {
		return design.LoadTechTOML(opts.TechFile)
	}
	if opts.Tech != "" {
		cfg, ok := design.Preset(opts.Tech)
		if !ok {
			return floorplan.TechConfig{}, fmt.Errorf("unknown tech preset %q", opts.Tech)
		}
		return cfg, nil
	}
	return d.Config()
}

// Solve normalizes the design tree and applies the requested compaction
// passes. The input design is never mutated.
func Solve(d *design.Design, cfg floorplan.TechConfig, opts Options) (*floorplan.Node, error) {
	tree := floorplan.Normalize(d.Top)
	if err := floorplan.Validate(tree); err != nil {
		return nil, fmt.Errorf("design tree: %w", err)
	}

	var err error
	switch {
	case opts.Optimize:
		tree, err = compact.Tree(tree, cfg)
	case opts.Compact:
		tree, err = compact.Compact(tree, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("compact: %w", err)
	}
	return tree, nil
}
