// Package nodelink renders expression trees as Graphviz node-link diagrams.
//
// # Overview
//
// Where the canvas renderers in sink place nodes at the coordinates computed
// by the layout engine, this package hands the tree to Graphviz and lets its
// "dot" engine choose positions. Operators are drawn as circles and operands
// as rounded boxes, connected by arrows from parent to child.
//
// # Usage
//
// Convert a compiled tree to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(t, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Options
//
//   - Detailed: node labels also show the in-order id and depth
//   - ShowResult: the graph gets a "= result" label
//
// # DOT Format
//
// The generated DOT uses top-to-bottom layout with ordering=out, so the left
// operand of every operator is always drawn left of the right operand.
// Node names are "n<id>" and edges are listed in pre-order, left child first,
// matching the layout engine's edge list.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
