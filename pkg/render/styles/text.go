package styles

import (
	"bytes"
	"encoding/xml"
)

const (
	fontWidthRatio = 0.85
	fontCharWidth  = 0.55
	fontSizeMin    = 8.0
	fontSizeMax    = 24.0
)

// FontSize returns a font size that fits n's label inside its circle.
func FontSize(n Node) float64 {
	chars := max(1, len(n.Label))
	byHeight := n.R
	byWidth := (2 * n.R * fontWidthRatio) / (float64(chars) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, min(byHeight, byWidth)))
}

func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
