package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/floorstack/floorstack/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
// These options control visualization type, solver passes, and output formats.
type renderOpts struct {
	output   string // output file path (or base path for multiple outputs)
	vizTypes []string
	formats  []string
	tech     string
	techFile string
	compact  bool    // compact the top level before rendering
	optimize bool    // recursive bottom-up compaction before rendering
	scale    float64 // raster scale factor for PNG
	noLabels bool    // omit module labels
	markers  bool    // overlay overlap markers
	detailed bool    // tree labels with resource counts
	noCache  bool    // bypass the artifact cache
	refresh  bool    // recompute even on a cache hit
}

// renderCommand creates the render command for generating visualizations.
// It supports the plan and tree visualization types and the SVG, PNG, PDF,
// and JSON output formats.
func (c *CLI) renderCommand() *cobra.Command {
	var vizTypesStr, formatsStr string
	opts := renderOpts{scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "render [design.json]",
		Short: "Render a floorplan design to SVG(s)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.vizTypes = parseVizTypes(vizTypesStr)
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			for _, v := range opts.vizTypes {
				if err := pipeline.ValidateVizType(v); err != nil {
					return err
				}
			}
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single type/format) or base path (multiple)")
	cmd.Flags().StringVarP(&vizTypesStr, "type", "t", "", "visualization type(s): plan (default), tree (comma-separated)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, pdf, png (comma-separated)")
	cmd.Flags().StringVar(&opts.tech, "tech", "", "tech preset override (e.g. n7, n16, n28)")
	cmd.Flags().StringVar(&opts.techFile, "tech-file", "", "TOML tech config file")
	cmd.Flags().BoolVar(&opts.compact, "compact", false, "compact the top level before rendering")
	cmd.Flags().BoolVar(&opts.optimize, "optimize", false, "recursively compact placements before rendering")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "raster scale factor for PNG output")
	cmd.Flags().BoolVar(&opts.noLabels, "no-labels", false, "omit module labels")
	cmd.Flags().BoolVar(&opts.markers, "markers", false, "overlay overlap markers")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show resource counts in tree labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")

	return cmd
}

// runRender executes the pipeline once per visualization type and writes
// every requested format to disk.
func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	for _, vizType := range opts.vizTypes {
		pipeOpts := pipeline.Options{
			DesignPath: input,
			Tech:       opts.tech,
			TechFile:   opts.techFile,
			Compact:    opts.compact,
			Optimize:   opts.optimize,
			Refresh:    opts.refresh,
			VizType:    vizType,
			Formats:    opts.formats,
			Scale:      opts.scale,
			NoLabels:   opts.noLabels,
			Markers:    opts.markers,
			Detailed:   opts.detailed,
			Logger:     logger,
		}

		result, err := runner.Execute(ctx, pipeOpts)
		if err != nil {
			return fmt.Errorf("%s: %w", vizType, err)
		}

		printStats(result.Stats.NodeCount, result.Overlaps, result.CacheInfo.RenderHit)

		for _, format := range opts.formats {
			path := outputPath(opts, vizType, format, input)
			if err := writeArtifact(path, result.Artifacts[format]); err != nil {
				return err
			}
			logger.Infof("Generated %s", path)
			printFile(path)
		}
	}
	return nil
}

// outputPath builds the file name for one type/format combination:
// base.format for a single type, base_type.format for multiple.
func outputPath(opts *renderOpts, vizType, format, input string) string {
	base := basePath(opts.output, input)
	if len(opts.vizTypes) == 1 && len(opts.formats) == 1 && opts.output != "" {
		return opts.output
	}
	if len(opts.vizTypes) == 1 {
		return fmt.Sprintf("%s.%s", base, format)
	}
	return fmt.Sprintf("%s_%s.%s", base, vizType, format)
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func writeArtifact(path string, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("no artifact generated for %s", path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
