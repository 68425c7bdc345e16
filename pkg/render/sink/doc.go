// Package sink writes a computed layout to output formats.
//
// [RenderSVG] draws every node as a circle at its layout coordinates and
// every edge as a straight line between centers. [RenderPNG] and [RenderPDF]
// convert that SVG with rsvg-convert. [RenderText] draws the same picture as
// a fixed-size grid of characters for terminals.
//
// No renderer recomputes positions: the output is a direct projection of
// [layout.Layout], so a layout read back from JSON renders identically.
//
// [layout.Layout]: github.com/matzehuels/exprtree/pkg/layout.Layout
package sink
