package pipeline

import (
	"context"
	"fmt"

	errs "github.com/matzehuels/exprtree/pkg/errors"
	"github.com/matzehuels/exprtree/pkg/expr"
	"github.com/matzehuels/exprtree/pkg/graph"
	"github.com/matzehuels/exprtree/pkg/layout"
	"github.com/matzehuels/exprtree/pkg/render/nodelink"
	"github.com/matzehuels/exprtree/pkg/render/sink"
	"github.com/matzehuels/exprtree/pkg/render/styles"
)

// Render generates output artifacts in the requested formats.
//
// t may be nil, for example when l was read from a layout file. Formats that
// need the tree (dot, and every nodelink format) then recompile
// l.Expression.
func Render(ctx context.Context, t *expr.Tree, l graph.Layout, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()

	pos, err := l.Parse()
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid layout")
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		switch format {
		case FormatJSON:
			data, err = graph.MarshalLayout(l)
		case FormatYAML:
			data, err = graph.MarshalLayoutYAML(l)
		case FormatText:
			data, err = renderText(t, l, pos, opts)
		case FormatDOT:
			if t, err = treeFor(t, l); err == nil {
				data = []byte(nodelink.ToDOT(t, dotOptions(opts)))
			}
		default:
			if opts.IsNodelink() {
				data, err = renderNodelink(ctx, t, l, format, opts)
			} else {
				data, err = renderCanvas(ctx, pos, l.Result, format, opts)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// renderCanvas draws the layout at its computed coordinates.
func renderCanvas(ctx context.Context, l layout.Layout, result, format string, opts Options) ([]byte, error) {
	svgOpts, err := buildSVGOptions(result, opts)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatSVG:
		return sink.RenderSVG(l, svgOpts...), nil
	case FormatPNG:
		return sink.RenderPNG(ctx, l, sink.WithScale(opts.Scale), sink.WithPNGSVGOptions(svgOpts...))
	case FormatPDF:
		return sink.RenderPDF(ctx, l, svgOpts...)
	}
	return nil, errs.New(errs.ErrCodeUnsupported, "unsupported canvas format: %s", format)
}

// renderNodelink lets Graphviz place the tree.
func renderNodelink(ctx context.Context, t *expr.Tree, l graph.Layout, format string, opts Options) ([]byte, error) {
	t, err := treeFor(t, l)
	if err != nil {
		return nil, err
	}
	dot := nodelink.ToDOT(t, dotOptions(opts))
	switch format {
	case FormatSVG:
		return nodelink.RenderSVG(ctx, dot)
	case FormatPNG:
		return nodelink.RenderPNG(ctx, dot, opts.Scale)
	case FormatPDF:
		return nodelink.RenderPDF(ctx, dot)
	}
	return nil, errs.New(errs.ErrCodeUnsupported, "unsupported nodelink format: %s", format)
}

func renderText(t *expr.Tree, gl graph.Layout, l layout.Layout, opts Options) ([]byte, error) {
	cols, rows := opts.TextCols, opts.TextRows
	if t != nil {
		cols, rows = opts.textSize(t)
	} else if cols <= 0 || rows <= 0 {
		var depth int
		for _, n := range gl.Nodes {
			depth = max(depth, n.Depth)
		}
		if cols <= 0 {
			cols = (len(gl.Nodes) + 1) * 4
		}
		if rows <= 0 {
			rows = (depth + 2) * 2
		}
	}
	out := sink.RenderText(l, cols, rows)
	if opts.Result && gl.Result != "" {
		out += "\n= " + gl.Result
	}
	return []byte(out + "\n"), nil
}

func buildSVGOptions(result string, opts Options) ([]sink.SVGOption, error) {
	style, err := styles.ByName(opts.Style)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidStyle, err, "style %q", opts.Style)
	}
	svgOpts := []sink.SVGOption{sink.WithStyle(style)}
	if opts.Result && result != "" {
		svgOpts = append(svgOpts, sink.WithResult(result))
	}
	return svgOpts, nil
}

func dotOptions(opts Options) nodelink.Options {
	return nodelink.Options{Detailed: opts.Detailed, ShowResult: opts.Result}
}

// treeFor returns t, or the tree recompiled from the layout's expression.
func treeFor(t *expr.Tree, l graph.Layout) (*expr.Tree, error) {
	if t != nil {
		return t, nil
	}
	if l.Expression == "" {
		return nil, errs.New(errs.ErrCodeUnsupported, "layout carries no expression to rebuild the tree from")
	}
	t, err := expr.Compile(l.Expression)
	if err != nil {
		return nil, errs.FromParse(err)
	}
	return t, nil
}
