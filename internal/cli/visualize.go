package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/exprtree/pkg/graph"
	"github.com/matzehuels/exprtree/pkg/pipeline"
	"github.com/matzehuels/exprtree/pkg/render/styles"
)

// visualizeCommand creates the visualize command for rendering from a layout.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "visualize <layout.json>",
		Short: "Render a computed layout",
		Long: `Render a computed layout.

The visualize command takes a layout file (produced by 'layout' or
'render -f json') and draws it. The layout contains all positioning
information, so this step is purely about rendering. Nodelink output and DOT
recompile the expression stored in the layout.

Use 'render' as a shortcut to go directly from an expression to output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			return c.runVisualize(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): "+strings.Join(pipeline.Formats, ", ")+" (comma-separated)")
	cmd.Flags().StringVarP(&opts.VizType, "type", "t", "", "visualization type: canvas (default), nodelink")
	cmd.Flags().StringVar(&opts.Style, "style", "", "visual style: "+strings.Join(styles.Names(), ", "))
	cmd.Flags().BoolVar(&opts.Result, "result", false, "caption the drawing with the result")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show node ids and depths (nodelink, dot)")

	return cmd
}

// runVisualize loads the layout and renders it.
func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	l, err := graph.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	c.setCLIDefaults(&opts)
	opts.Expression = l.Expression
	opts.Width, opts.Height = l.Width, l.Height

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	quiet := output == "-"
	spinner := newSpinnerWithContext(ctx, "Rendering "+input+"...")
	if !quiet {
		spinner.Start()
	}

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, nil, l, opts)
	if !quiet {
		spinner.Stop()
	}
	if err != nil {
		if !quiet {
			printError("Visualization failed")
		}
		return fmt.Errorf("visualize: %w", err)
	}

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
	})
	if err != nil || quiet {
		return err
	}

	printSuccess("Rendered %s", input)
	reportArtifacts(paths)
	if cacheHit {
		printDetail("%s", iconCached)
	}
	return nil
}
