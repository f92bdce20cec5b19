package cli

import (
	"github.com/spf13/cobra"

	"github.com/floorstack/floorstack/pkg/design"
	"github.com/floorstack/floorstack/pkg/errors"
	"github.com/floorstack/floorstack/pkg/floorplan"
	"github.com/floorstack/floorstack/pkg/floorplan/compact"
)

// optimizeOpts holds the command-line flags for the optimize command.
type optimizeOpts struct {
	output   string // output file; defaults to overwriting the input
	tech     string
	techFile string
	top      bool // compact only the top level instead of recursing
	force    bool // skip the overlap precondition check
}

// optimizeCommand creates the optimize command running the placement
// compactor over a design and writing the tightened tree back out.
func (c *CLI) optimizeCommand() *cobra.Command {
	var opts optimizeOpts

	cmd := &cobra.Command{
		Use:   "optimize [design.json]",
		Short: "Compact module placements bottom-up",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runOptimize(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (defaults to input)")
	cmd.Flags().StringVar(&opts.tech, "tech", "", "tech preset override")
	cmd.Flags().StringVar(&opts.techFile, "tech-file", "", "TOML tech config file")
	cmd.Flags().BoolVar(&opts.top, "top", false, "compact the top level only")
	cmd.Flags().BoolVar(&opts.force, "force", false, "compact even when placements already overlap")

	return cmd
}

func (c *CLI) runOptimize(cmd *cobra.Command, path string, opts optimizeOpts) error {
	logger := loggerFromContext(cmd.Context())
	prog := newProgress(logger)

	d, cfg, tree, err := loadSolved(cmd, path, opts.tech, opts.techFile)
	if err != nil {
		return err
	}

	if !opts.force {
		if err := checkNoOverlaps(tree, cfg); err != nil {
			printError("Design has overlapping placements; resolve them first or pass --force")
			return err
		}
	}

	var compacted *floorplan.Node
	if opts.top {
		compacted, err = compact.Compact(tree, cfg)
	} else {
		compacted, err = compact.Tree(tree, cfg)
	}
	if err != nil {
		return err
	}

	out := *d
	out.Top = compacted

	target := opts.output
	if target == "" {
		target = path
	}
	if err := design.ExportJSON(&out, target); err != nil {
		return err
	}

	prog.done("Compacted placements")
	printSuccess("Optimized %d modules", floorplan.Count(compacted))
	printFile(target)
	return nil
}

// checkNoOverlaps walks the tree and returns an [errors.OverlapError] for
// the first module whose stored placements collide.
func checkNoOverlaps(tree *floorplan.Node, cfg floorplan.TechConfig) error {
	var found error
	floorplan.Walk(tree, func(n *floorplan.Node) bool {
		overlaps, err := compact.Detect(n, cfg)
		if err != nil {
			found = err
			return false
		}
		if len(overlaps) > 0 {
			pairs := make([][2]string, len(overlaps))
			for i, o := range overlaps {
				pairs[i] = o.IDs
			}
			found = &errors.OverlapError{NodeID: n.ID, Pairs: pairs}
			return false
		}
		return true
	})
	return found
}
