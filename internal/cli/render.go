package cli

import (
	"context"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/infinityflow/pkg/mindmap"
	"github.com/matzehuels/infinityflow/pkg/pipeline"
	"github.com/matzehuels/infinityflow/pkg/render/dot"
)

type renderFlags struct {
	pipelineFlags
	output     string
	formats    string
	scale      float64
	background string
	title      string
	selected   string
	graphviz   bool
}

// renderCommand creates the "render" command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a mind map to svg, png, json or dot",
		Long: `Render a mind map snapshot.

Formats (comma-separated):
  svg   vector drawing of boxes and curved connectors (default)
  png   raster drawing, scaled by --scale
  json  the positioned scene
  dot   Graphviz source

With --graphviz the svg is produced by Graphviz from the dot source
instead of the built-in renderer.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): svg (default), png, json, dot")
	cmd.Flags().Float64Var(&flags.scale, "scale", pipeline.DefaultScale, "png scale factor")
	cmd.Flags().StringVar(&flags.background, "background", "", "svg background color (#rrggbb)")
	cmd.Flags().StringVar(&flags.title, "title", "", "svg title")
	cmd.Flags().StringVar(&flags.selected, "select", "", "highlight a node id")
	cmd.Flags().BoolVar(&flags.graphviz, "graphviz", false, "render svg through Graphviz")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, flags renderFlags) error {
	prog := newProgress(c.Logger)

	t, err := loadTree(input)
	if err != nil {
		return err
	}
	opts := c.pipelineOptions(flags.pipelineFlags)
	opts.Formats = parseFormats(flags.formats)
	opts.Scale = flags.scale
	opts.Background = flags.background
	opts.Title = flags.title
	opts.Selected = flags.selected
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spin := newSpinnerWithContext(ctx, "Rendering "+input)
	spin.Start()
	res, err := runner.ExecuteTree(ctx, t, opts)
	if err == nil && flags.graphviz && slices.Contains(opts.Formats, pipeline.FormatSVG) {
		res.Artifacts[pipeline.FormatSVG], err = renderGraphviz(ctx, t, opts)
	}
	spin.Stop()
	if err != nil {
		return err
	}

	paths := outputPaths(flags.output, input, opts.Formats)
	for _, format := range slices.Sorted(maps.Keys(paths)) {
		if err := writeOutput(paths[format], res.Artifacts[format]); err != nil {
			return err
		}
	}
	if flags.output == stdio {
		return nil
	}

	prog.done("Rendered " + res.Layout.Strategy + " layout")
	printStats(res.Stats.NodeCount, res.Stats.VisibleCount, res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit)
	for _, format := range slices.Sorted(maps.Keys(paths)) {
		printFile(paths[format])
	}
	return nil
}

// renderGraphviz renders the tree's DOT source with Graphviz.
func renderGraphviz(ctx context.Context, t *mindmap.Tree, opts pipeline.Options) ([]byte, error) {
	lo := opts.Layout
	return dot.RenderSVG(ctx, dot.ToDOT(t, dot.Options{Layout: &lo}))
}
