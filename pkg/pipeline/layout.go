package pipeline

import (
	"github.com/matzehuels/exprtree/pkg/expr"
	"github.com/matzehuels/exprtree/pkg/graph"
	"github.com/matzehuels/exprtree/pkg/layout"
)

// GenerateLayout places t in the opts.Width × opts.Height frame and exports
// the result together with the expression, its value and its diagnostics.
func GenerateLayout(t *expr.Tree, opts Options) graph.Layout {
	opts.SetLayoutDefaults()
	return graph.ExportLayout(t, layout.Compute(t, opts.Width, opts.Height))
}
