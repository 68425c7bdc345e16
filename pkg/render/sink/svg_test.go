package sink

import (
	"context"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/matzehuels/exprtree/pkg/expr"
	"github.com/matzehuels/exprtree/pkg/layout"
	"github.com/matzehuels/exprtree/pkg/render"
	"github.com/matzehuels/exprtree/pkg/render/styles"
)

func compute(t *testing.T, s string, w, h int) layout.Layout {
	t.Helper()
	tree, err := expr.Compile(s)
	if err != nil {
		t.Fatalf("Compile(%q): %v", s, err)
	}
	return layout.Compute(tree, w, h)
}

func TestRenderSVG(t *testing.T) {
	l := compute(t, "2+3*4", 600, 400)
	svg := string(RenderSVG(l))

	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Fatalf("not an svg document:\n%s", svg)
	}
	if got := strings.Count(svg, "<circle"); got != 5 {
		t.Errorf("circles = %d, want 5", got)
	}
	if got := strings.Count(svg, `class="edge"`); got != 4 {
		t.Errorf("edges = %d, want 4", got)
	}
	// Root "+" has id 1 at (200, 100).
	if !strings.Contains(svg, `id="node-1" class="node" cx="200.0" cy="100.0"`) {
		t.Error("root circle not at layout coordinates")
	}
	if !strings.Contains(svg, `viewBox="0 0 600.0 400.0"`) {
		t.Error("viewBox does not match the layout frame")
	}
	if strings.Contains(svg, `class="caption"`) {
		t.Error("caption rendered without WithResult")
	}

	var doc struct{ XMLName xml.Name }
	if err := xml.Unmarshal([]byte(svg), &doc); err != nil {
		t.Errorf("svg is not well-formed XML: %v", err)
	}
}

func TestRenderSVGOptions(t *testing.T) {
	l := compute(t, "(2+3)*4", 600, 400)

	t.Run("WithResult", func(t *testing.T) {
		svg := string(RenderSVG(l, WithResult("20")))
		if !strings.Contains(svg, "= 20</text>") {
			t.Error("result caption missing")
		}
		if !strings.Contains(svg, `viewBox="0 0 600.0 440.0"`) {
			t.Error("caption band not added to height")
		}
	})

	t.Run("WithRadius", func(t *testing.T) {
		svg := string(RenderSVG(l, WithRadius(12)))
		if !strings.Contains(svg, `r="12.0"`) {
			t.Error("fixed radius not applied")
		}
	})

	t.Run("WithStyle", func(t *testing.T) {
		svg := string(RenderSVG(l, WithStyle(styles.Blueprint{})))
		if !strings.Contains(svg, `url(#grid)`) {
			t.Error("blueprint style not applied")
		}
	})
}

func TestRenderSVGEmptyLayout(t *testing.T) {
	svg := string(RenderSVG(layout.Compute(nil, 0, 0)))
	if !strings.Contains(svg, `viewBox="0 0 1.0 1.0"`) {
		t.Errorf("empty layout should render a 1x1 document:\n%s", svg)
	}
	if strings.Contains(svg, "<circle") {
		t.Error("empty layout rendered nodes")
	}
}

func TestNodeRadius(t *testing.T) {
	tests := []struct {
		cellW, cellH int
		want         float64
	}{
		{100, 100, 35},
		{100, 40, 14},
		{2, 2, radiusMin},
		{1000, 1000, radiusMax},
	}
	for _, tt := range tests {
		l := layout.Layout{CellWidth: tt.cellW, CellHeight: tt.cellH}
		if got := NodeRadius(l); got != tt.want {
			t.Errorf("NodeRadius(%dx%d) = %.1f, want %.1f", tt.cellW, tt.cellH, got, tt.want)
		}
	}
}

func TestRenderPNG(t *testing.T) {
	if !render.ConverterAvailable() {
		t.Skip("rsvg-convert not installed")
	}
	png, err := RenderPNG(context.Background(), compute(t, "1+2", 200, 200), WithScale(1))
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	if !strings.HasPrefix(string(png), "\x89PNG") {
		t.Error("not a PNG")
	}
}
