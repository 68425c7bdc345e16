// Package render provides visualization rendering for expression trees.
//
// # Overview
//
// This package contains the rendering pipeline that turns a computed
// [layout.Layout] or a compiled tree into visual output. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Canvas renderers driven by the layout engine (in [sink])
//   - Graphviz node-link diagrams (in [nodelink])
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both canvas and node-link
// renderers use them.
//
//	svg := sink.RenderSVG(l, sink.WithResult(t.ResultString()))
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// # Canvas Rendering
//
// The [sink] subpackage draws nodes exactly where [layout.Compute] placed
// them: a circle per node, a line per parent→child edge. [sink.RenderText]
// draws the same picture as characters for terminals. Visual appearance is
// controlled by a [styles.Style].
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage hands the tree to Graphviz instead and lets it
// compute positions.
//
//	dot := nodelink.ToDOT(t, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [layout.Layout]: github.com/matzehuels/exprtree/pkg/layout.Layout
// [layout.Compute]: github.com/matzehuels/exprtree/pkg/layout.Compute
// [sink]: github.com/matzehuels/exprtree/pkg/render/sink
// [sink.RenderText]: github.com/matzehuels/exprtree/pkg/render/sink.RenderText
// [styles.Style]: github.com/matzehuels/exprtree/pkg/render/styles.Style
// [nodelink]: github.com/matzehuels/exprtree/pkg/render/nodelink
package render
