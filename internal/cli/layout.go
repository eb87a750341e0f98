package cli

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/matzehuels/infinityflow/pkg/pipeline"
)

// pipelineFlags are shared by layout and render.
type pipelineFlags struct {
	strategy string
	noCache  bool
	refresh  bool
}

func (f *pipelineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.strategy, "strategy", "s", "", "layout strategy: tree, classic, radial, layered, dot (default from config)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even if cached")
}

// options builds pipeline options from the flags on top of the config.
func (c *CLI) pipelineOptions(f pipelineFlags) pipeline.Options {
	strategy := f.strategy
	if strategy == "" {
		strategy = c.Config.Layout.Strategy
	}
	return pipeline.Options{
		Strategy: strategy,
		Layout:   c.Config.LayoutOptions(),
		Refresh:  f.refresh,
		Logger:   c.Logger,
	}
}

// layoutCommand creates the "layout" command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  pipelineFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout <file>",
		Short: "Compute a layout and write it as JSON",
		Long: `Compute node positions for a mind map snapshot.

The output lists every visible node with its box, depth, color and kind,
the parent→child edges, and the vertical band of every subtree. Use "-"
to read from stdin or write to stdout. Results are cached.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input, output string, flags pipelineFlags) error {
	prog := newProgress(c.Logger)

	t, err := loadTree(input)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, hit, err := runner.LayoutWithCacheInfo(ctx, t, c.pipelineOptions(flags))
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}

	if output == "" {
		output = basePath("", input) + ".layout.json"
	}
	if err := writeOutput(output, data); err != nil {
		return err
	}
	if output == stdio {
		return nil
	}
	prog.done("Computed " + res.Strategy + " layout")
	printStats(t.Len(), len(res.Nodes), hit)
	printFile(output)
	return nil
}
