package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/exprtree/pkg/layout"
	"github.com/matzehuels/exprtree/pkg/render/styles"
)

const (
	radiusRatio   = 0.35
	radiusMin     = 6.0
	radiusMax     = 40.0
	captionHeight = 40.0
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style  styles.Style
	result string
	radius float64
}

func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithResult adds a caption line "= result" below the tree.
func WithResult(result string) SVGOption { return func(r *svgRenderer) { r.result = result } }

// WithRadius fixes the node radius instead of deriving it from the cell size.
func WithRadius(radius float64) SVGOption { return func(r *svgRenderer) { r.radius = radius } }

// RenderSVG draws l as an SVG document of l.Width × l.Height, plus a caption
// band when a result is given.
func RenderSVG(l layout.Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	radius := r.radius
	if radius <= 0 {
		radius = NodeRadius(l)
	}

	width, height := float64(max(l.Width, 1)), float64(max(l.Height, 1))
	total := height
	if r.result != "" {
		total += captionHeight
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, total, width, total)

	r.style.RenderDefs(&buf, width, total)
	for _, e := range buildEdges(l) {
		r.style.RenderEdge(&buf, e)
	}
	nodes := buildNodes(l, radius)
	for _, n := range nodes {
		r.style.RenderNode(&buf, n)
	}
	for _, n := range nodes {
		r.style.RenderText(&buf, n)
	}
	if r.result != "" {
		r.style.RenderCaption(&buf, "= "+r.result, width/2, height+captionHeight/2)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{style: styles.Simple{}}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// NodeRadius derives the circle radius from the smaller grid spacing, so
// neighbouring nodes never overlap.
func NodeRadius(l layout.Layout) float64 {
	cell := float64(min(l.CellWidth, l.CellHeight))
	return max(radiusMin, min(radiusMax, cell*radiusRatio))
}

func buildNodes(l layout.Layout, radius float64) []styles.Node {
	nodes := make([]styles.Node, 0, len(l.Nodes))
	for _, n := range l.Nodes {
		nodes = append(nodes, styles.Node{
			ID:    n.ID,
			Label: n.Label,
			CX:    float64(n.X), CY: float64(n.Y),
			R:     radius,
			Leaf:  n.Leaf,
			Depth: n.Depth,
		})
	}
	return nodes
}

func buildEdges(l layout.Layout) []styles.Edge {
	edges := make([]styles.Edge, 0, len(l.Edges))
	for _, e := range l.Edges {
		src, okS := l.Node(e.From)
		dst, okD := l.Node(e.To)
		if !okS || !okD {
			continue
		}
		edges = append(edges, styles.Edge{
			FromID: e.From, ToID: e.To,
			X1: float64(src.X), Y1: float64(src.Y),
			X2: float64(dst.X), Y2: float64(dst.Y),
		})
	}
	return edges
}
