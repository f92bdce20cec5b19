package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/floorstack/floorstack/pkg/floorplan"
	"github.com/floorstack/floorstack/pkg/floorplan/compact"
)

// checkOpts holds the command-line flags for the check command.
type checkOpts struct {
	tech     string
	techFile string
}

// checkCommand creates the check command reporting placement overlaps.
// The command exits non-zero when any module has colliding placements,
// making it usable as a CI gate for hand-edited designs.
func (c *CLI) checkCommand() *cobra.Command {
	var opts checkOpts

	cmd := &cobra.Command{
		Use:   "check [design.json]",
		Short: "Report overlapping placements in a design",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.tech, "tech", "", "tech preset override")
	cmd.Flags().StringVar(&opts.techFile, "tech-file", "", "TOML tech config file")

	return cmd
}

func (c *CLI) runCheck(cmd *cobra.Command, path string, opts checkOpts) error {
	_, cfg, tree, err := loadSolved(cmd, path, opts.tech, opts.techFile)
	if err != nil {
		return err
	}

	total := 0
	var walkErr error
	floorplan.Walk(tree, func(n *floorplan.Node) bool {
		overlaps, err := compact.Detect(n, cfg)
		if err != nil {
			walkErr = err
			return false
		}
		if len(overlaps) == 0 {
			return true
		}

		total += len(overlaps)
		printWarning("%s: %d collision(s)", displayName(n), len(overlaps))
		for _, o := range overlaps {
			printDetail("%s ↔ %s at (%.0f, %.0f) size %.0fx%.0f",
				o.IDs[0], o.IDs[1], o.X, o.Y, o.W, o.H)
		}
		return true
	})
	if walkErr != nil {
		return walkErr
	}

	if total > 0 {
		printStats(floorplan.Count(tree), total, false)
		return fmt.Errorf("%d overlapping pair(s) found", total)
	}

	printSuccess("No overlaps in %d modules", floorplan.Count(tree))
	return nil
}
