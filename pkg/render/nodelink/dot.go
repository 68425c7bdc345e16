package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/exprtree/pkg/expr"
	"github.com/matzehuels/exprtree/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes the in-order id and depth in node labels.
	// When false, only the operand value or operator is shown.
	Detailed bool
	// ShowResult adds the evaluated result as the graph label.
	ShowResult bool
}

// ToDOT converts a compiled tree to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
func ToDOT(t *expr.Tree, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  ordering=out;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	if opts.ShowResult && t != nil {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=b;\n", "= "+t.ResultString())
	}
	buf.WriteString("\n")

	if t == nil {
		buf.WriteString("}\n")
		return buf.String()
	}

	for _, n := range t.Nodes() {
		attrs := fmtAttrs(n, fmtLabel(n, opts.Detailed))
		fmt.Fprintf(&buf, "  %s [%s];\n", nodeName(n), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	expr.Walk(t.Root, func(n expr.Node) bool {
		left, right := expr.Children(n)
		if left != nil {
			fmt.Fprintf(&buf, "  %s -> %s;\n", nodeName(n), nodeName(left))
			fmt.Fprintf(&buf, "  %s -> %s;\n", nodeName(n), nodeName(right))
		}
		return true
	})

	buf.WriteString("}\n")
	return buf.String()
}

func nodeName(n expr.Node) string { return "n" + strconv.Itoa(n.ID()) }

func fmtLabel(n expr.Node, detailed bool) string {
	if !detailed {
		return n.Label()
	}
	return fmt.Sprintf("%s\nid: %d\ndepth: %d", n.Label(), n.ID(), n.Depth())
}

func fmtAttrs(n expr.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if !expr.IsLeaf(n) {
		attrs = append(attrs, "shape=circle", "fillcolor=\"#eeeeee\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-based svg tag with a plain one
// whose viewBox starts at the origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
