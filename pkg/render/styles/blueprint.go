package styles

import (
	"bytes"
	"fmt"
)

const (
	blueprintPaper = "#1d3f72"
	blueprintInk   = "#e8f0ff"
	blueprintGrid  = "#2f5a96"
)

// Blueprint draws white ink on a blue sheet with a faint grid. Deeper nodes
// use thinner strokes.
type Blueprint struct{}

func (Blueprint) RenderDefs(buf *bytes.Buffer, width, height float64) {
	buf.WriteString("  <defs>\n")
	fmt.Fprintf(buf, `    <pattern id="grid" width="20" height="20" patternUnits="userSpaceOnUse"><path d="M 20 0 L 0 0 0 20" fill="none" stroke="%s" stroke-width="1"/></pattern>`+"\n", blueprintGrid)
	buf.WriteString("  </defs>\n")
	fmt.Fprintf(buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n", width, height, blueprintPaper)
	fmt.Fprintf(buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="url(#grid)"/>`+"\n", width, height)
}

func (Blueprint) RenderEdge(buf *bytes.Buffer, e Edge) {
	fmt.Fprintf(buf, `  <line class="edge" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1.5" stroke-dasharray="6 3"/>`+"\n",
		e.X1, e.Y1, e.X2, e.Y2, blueprintInk)
}

func (Blueprint) RenderNode(buf *bytes.Buffer, n Node) {
	stroke := max(1.0, 3.0-0.5*float64(n.Depth))
	fmt.Fprintf(buf, `  <circle id="node-%d" class="node" cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
		n.ID, n.CX, n.CY, n.R, blueprintPaper, blueprintInk, stroke)
}

func (Blueprint) RenderText(buf *bytes.Buffer, n Node) {
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="central" font-family="Courier New, monospace" font-size="%.1f" fill="%s">%s</text>`+"\n",
		n.CX, n.CY, FontSize(n), blueprintInk, EscapeXML(n.Label))
}

func (Blueprint) RenderCaption(buf *bytes.Buffer, text string, x, y float64) {
	fmt.Fprintf(buf, `  <text class="caption" x="%.1f" y="%.1f" text-anchor="middle" font-family="Courier New, monospace" font-size="18" fill="%s">%s</text>`+"\n",
		x, y, blueprintInk, EscapeXML(text))
}
