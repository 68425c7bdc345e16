package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/exprtree/pkg/graph"
	"github.com/matzehuels/exprtree/pkg/pipeline"
)

// Compile output formats.
const (
	compileTable = "table"
	compileJSON  = "json"
	compileYAML  = "yaml"
)

// compileCommand creates the compile command, which evaluates an
// expression and prints its tree.
func (c *CLI) compileCommand() *cobra.Command {
	var (
		format  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "compile <expression>",
		Short: "Compile and evaluate an expression",
		Long: `Compile and evaluate an expression.

Prints the result, a table of the tree's nodes in in-order id order and any
problems the parser recovered from. With --strict every parse error fails the
command. -f json and -f yaml print the serialized tree instead.`,
		Example: `  exprtree compile "2 + 3 * 4"
  exprtree compile "-(1+2)*3" -f json
  exprtree compile "1 + 2)" --strict`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Expression = args[0]
			return c.runCompile(cmd.Context(), opts, format, noCache)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail on any parse error instead of recovering")
	cmd.Flags().StringVarP(&format, "format", "f", compileTable, "output format: table, json, yaml")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runCompile(ctx context.Context, opts pipeline.Options, format string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	switch format {
	case compileJSON, compileYAML:
		data, hit, err := runner.GraphWithCacheInfo(ctx, opts)
		if err != nil {
			return err
		}
		c.Logger.Debug("compiled", "cached", hit, "bytes", len(data))
		if format == compileYAML {
			var g graph.Graph
			if g, err = graph.UnmarshalGraph(data); err != nil {
				return err
			}
			return yaml.NewEncoder(os.Stdout).Encode(g)
		}
		_, err = os.Stdout.Write(data)
		return err
	case compileTable:
	default:
		return fmt.Errorf("invalid format %q (available: table, json, yaml)", format)
	}

	t, err := runner.Compile(ctx, opts)
	if err != nil {
		return err
	}

	fmt.Println(StyleTitle.Render(t.String()))
	printKeyValue("result", StyleResult.Render(t.ResultString()))
	printKeyValue("nodes", strconv.Itoa(t.Count()))
	printKeyValue("operands", strconv.Itoa(t.Leaves()))
	printKeyValue("depth", strconv.Itoa(t.MaxDepth()))
	if len(t.Diagnostics) > 0 {
		printKeyValue("diagnostics", diagnosticSummary(t.Diagnostics))
	}
	printNewline()
	fmt.Println(nodeTable(t))

	if len(t.Diagnostics) > 0 {
		printNewline()
		printDiagnostics(t.Source, t.Diagnostics)
	}
	printNewline()
	printNextStep("Render", fmt.Sprintf("%s render %q", appName, t.Source))
	return nil
}
