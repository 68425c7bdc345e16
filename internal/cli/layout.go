package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/exprtree/pkg/graph"
	"github.com/matzehuels/exprtree/pkg/pipeline"
)

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		frame   frameFlags
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout <expression>",
		Short: "Compute node positions for an expression tree",
		Long: `Compute node positions for an expression tree.

Each node is placed at ((id+1) * cellWidth, (depth+1) * cellHeight) where the
cell size divides the frame by the number of nodes and the tree depth. The
output is a layout file (JSON, or YAML for .yaml/.yml paths) that can be drawn
with the 'visualize' command.

Results are cached locally for faster subsequent runs.`,
		Example: `  exprtree layout "2 + 3 * 4" -o tree.layout.json
  exprtree layout "(1+2)*3" --width 400 --height 300 -o tree.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Expression = args[0]
			opts.Width, opts.Height = frame.width, frame.height
			return c.runLayout(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: expr.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail on any parse error instead of recovering")
	frame.register(cmd)

	return cmd
}

// runLayout compiles the expression, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	c.setCLIDefaults(&opts)

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	p := newProgress(c.Logger)
	t, err := runner.Compile(ctx, opts)
	if err != nil {
		return err
	}
	logDiagnostics(c.Logger, t.Diagnostics)

	l, cacheHit, err := runner.LayoutWithCacheInfo(ctx, t, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	p.done(fmt.Sprintf("Placed %d nodes", len(l.Nodes)))

	outputPath := output
	if outputPath == "" {
		outputPath = defaultBase + ".layout.json"
	}
	if err := graph.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	if pl, err := l.Parse(); err == nil {
		printDetail("%s", spanLine(pl))
	}
	printStats(t, cacheHit)
	printNewline()
	printNextStep("Render", appName+" visualize "+outputPath)

	return nil
}
