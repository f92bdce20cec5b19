package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/floorstack/floorstack/pkg/design"
	"github.com/floorstack/floorstack/pkg/floorplan"
	"github.com/floorstack/floorstack/pkg/floorplan/area"
	"github.com/floorstack/floorstack/pkg/pipeline"
)

// statsOpts holds the command-line flags for the stats command.
type statsOpts struct {
	tech     string // tech preset override
	techFile string // TOML tech config file
	depth    int    // maximum tree depth to print (0 = all)
}

// statsCommand creates the stats command showing per-module area breakdowns.
func (c *CLI) statsCommand() *cobra.Command {
	var opts statsOpts

	cmd := &cobra.Command{
		Use:   "stats [design.json]",
		Short: "Show per-module area breakdowns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStats(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.tech, "tech", "", "tech preset override (e.g. n7, n16, n28)")
	cmd.Flags().StringVar(&opts.techFile, "tech-file", "", "TOML tech config file")
	cmd.Flags().IntVar(&opts.depth, "depth", 0, "maximum tree depth to show (0 = all)")

	return cmd
}

func (c *CLI) runStats(cmd *cobra.Command, path string, opts statsOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	pipeOpts := pipeline.Options{
		DesignPath: path,
		Tech:       opts.tech,
		TechFile:   opts.techFile,
		Logger:     logger,
	}

	d, err := pipeline.Load(ctx, pipeOpts)
	if err != nil {
		return err
	}
	cfg, err := pipeline.ResolveConfig(d, pipeOpts)
	if err != nil {
		return err
	}
	tree, err := pipeline.Solve(d, cfg, pipeOpts)
	if err != nil {
		return err
	}

	name := d.Name
	if name == "" {
		name = tree.Name
	}
	fmt.Println(StyleTitle.Render(name))
	printDetail("tech: dff=%g gate=%g sram/bit=%g util=%.0f%%",
		cfg.DFFArea, cfg.GateArea, cfg.SRAMAreaPerBit, cfg.Utilization*100)
	printNewline()

	fmt.Println(StyleDim.Render(fmt.Sprintf("%-32s %14s %12s %12s  %s",
		"module", "total", "local", "children", "ratio (feasible)")))

	warnings := 0
	if err := printModuleStats(tree, cfg, 0, opts.depth, &warnings); err != nil {
		return err
	}

	printNewline()
	printDetail("%d modules", floorplan.Count(tree))
	if warnings > 0 {
		printWarning("%d module(s) request a ratio outside the feasible range", warnings)
	}
	return nil
}

// printModuleStats prints one row per module, depth-first, indenting by
// tree depth. Dead-zone ratios are flagged inline.
func printModuleStats(n *floorplan.Node, cfg floorplan.TechConfig, depth, maxDepth int, warnings *int) error {
	if maxDepth > 0 && depth >= maxDepth {
		return nil
	}

	_, _, bd, err := area.Compute(n, cfg)
	if err != nil {
		return err
	}

	label := strings.Repeat("  ", depth) + displayName(n)
	if len(label) > 32 {
		label = label[:29] + "..."
	}

	ratio := fmt.Sprintf("%.2f (%.2f..%.2f)", n.AspectRatio, bd.MinFeasibleRatio, bd.MaxFeasibleRatio)
	row := fmt.Sprintf("%-32s %14.0f %12.0f %12.0f  %s",
		label, bd.TotalArea, bd.LocalArea, bd.ChildrenArea, ratio)

	if bd.InDeadZone(n.AspectRatio) {
		*warnings++
		fmt.Println(StyleWarning.Render(row) + " " + styleIconWarning.Render(iconWarning))
	} else {
		fmt.Println(StyleValue.Render(row))
	}

	for _, child := range n.Children {
		if err := printModuleStats(child, cfg, depth+1, maxDepth, warnings); err != nil {
			return err
		}
	}
	return nil
}

// displayName returns the node's name, falling back to its ID.
func displayName(n *floorplan.Node) string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// loadSolved is the shared load-and-solve path for inspection commands.
func loadSolved(cmd *cobra.Command, path, tech, techFile string) (*design.Design, floorplan.TechConfig, *floorplan.Node, error) {
	ctx := cmd.Context()
	opts := pipeline.Options{
		DesignPath: path,
		Tech:       tech,
		TechFile:   techFile,
		Logger:     loggerFromContext(ctx),
	}

	d, err := pipeline.Load(ctx, opts)
	if err != nil {
		return nil, floorplan.TechConfig{}, nil, err
	}
	cfg, err := pipeline.ResolveConfig(d, opts)
	if err != nil {
		return nil, floorplan.TechConfig{}, nil, err
	}
	tree, err := pipeline.Solve(d, cfg, opts)
	if err != nil {
		return nil, floorplan.TechConfig{}, nil, err
	}
	return d, cfg, tree, nil
}
