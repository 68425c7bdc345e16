package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/exprtree/pkg/pipeline"
	"github.com/matzehuels/exprtree/pkg/render/styles"
)

// renderCommand creates the render command: compile, lay out and render in
// one step.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		frame      frameFlags
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render <expression>",
		Short: "Render an expression tree to SVG, PNG, PDF, DOT, JSON, YAML or text",
		Long: `Render an expression tree to one or more output formats.

The expression is compiled, laid out on a grid and drawn. The canvas
visualization (-t canvas, default) draws the grid layout; nodelink (-t nodelink)
lets Graphviz place the nodes.

With one format, --output names the file ("-" for stdout). With several it is
the base path and each format gets its own extension.

Results are cached locally for faster subsequent runs.`,
		Example: `  exprtree render "2 + 3 * 4"
  exprtree render "(1+2)*(3-4)" -f svg,png --style blueprint --result
  exprtree render "1/3" -f txt -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Expression = args[0]
			opts.Formats = parseFormats(formatsStr)
			opts.Width, opts.Height = frame.width, frame.height
			return c.runRender(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail on any parse error instead of recovering")
	frame.register(cmd)

	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): "+strings.Join(pipeline.Formats, ", ")+" (comma-separated)")
	cmd.Flags().StringVarP(&opts.VizType, "type", "t", "", "visualization type: canvas (default), nodelink")
	cmd.Flags().StringVar(&opts.Style, "style", "", "visual style: "+strings.Join(styles.Names(), ", "))
	cmd.Flags().BoolVar(&opts.Result, "result", false, "caption the drawing with the result")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show node ids and depths (nodelink, dot)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "PNG scale factor (default 2)")
	cmd.Flags().IntVar(&opts.TextCols, "cols", 0, "text canvas columns (default derived from the tree)")
	cmd.Flags().IntVar(&opts.TextRows, "rows", 0, "text canvas rows (default derived from the tree)")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	c.setCLIDefaults(&opts)

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	quiet := output == "-"
	var spinner *Spinner
	if !quiet {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
		spinner.Start()
	}

	result, err := runner.Execute(ctx, opts)
	if spinner != nil {
		if err != nil {
			spinner.StopWithError("Render failed")
		} else {
			spinner.Stop()
		}
	}
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	logDiagnostics(c.Logger, result.Tree.Diagnostics)

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		output:    output,
	})
	if err != nil {
		return err
	}
	if quiet {
		return nil
	}

	printSuccess("%s = %s", result.Tree.Source, StyleResult.Render(result.Tree.ResultString()))
	if err := result.Tree.Diagnostics.Err(); err != nil {
		printWarning("Recovered from %s (first at %v); use --strict to reject", diagnosticSummary(result.Tree.Diagnostics), err)
	}
	reportArtifacts(paths)
	printStats(result.Tree, result.CacheInfo.RenderHit)
	c.Logger.Debug("render stats",
		"compile", result.Stats.CompileTime,
		"layout", result.Stats.LayoutTime,
		"render", result.Stats.RenderTime,
		"layout_hit", result.CacheInfo.LayoutHit)
	return nil
}
