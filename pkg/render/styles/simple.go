package styles

import (
	"bytes"
	"fmt"
)

// Simple draws black outlines on a white background. Operators get a light
// grey fill so they stand out from operands.
type Simple struct{}

func (Simple) RenderDefs(buf *bytes.Buffer, width, height float64) {
	fmt.Fprintf(buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="white"/>`+"\n", width, height)
}

func (Simple) RenderEdge(buf *bytes.Buffer, e Edge) {
	fmt.Fprintf(buf, `  <line class="edge" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#333333" stroke-width="2"/>`+"\n",
		e.X1, e.Y1, e.X2, e.Y2)
}

func (Simple) RenderNode(buf *bytes.Buffer, n Node) {
	fill := "white"
	if !n.Leaf {
		fill = "#eeeeee"
	}
	fmt.Fprintf(buf, `  <circle id="node-%d" class="node" cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="#333333" stroke-width="2"/>`+"\n",
		n.ID, n.CX, n.CY, n.R, fill)
}

func (Simple) RenderText(buf *bytes.Buffer, n Node) {
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="central" font-family="Helvetica, Arial, sans-serif" font-size="%.1f" fill="#333333">%s</text>`+"\n",
		n.CX, n.CY, FontSize(n), EscapeXML(n.Label))
}

func (Simple) RenderCaption(buf *bytes.Buffer, text string, x, y float64) {
	fmt.Fprintf(buf, `  <text class="caption" x="%.1f" y="%.1f" text-anchor="middle" font-family="Helvetica, Arial, sans-serif" font-size="18" fill="#333333">%s</text>`+"\n",
		x, y, EscapeXML(text))
}
