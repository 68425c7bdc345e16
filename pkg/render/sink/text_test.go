package sink

import (
	"strings"
	"testing"

	"github.com/matzehuels/exprtree/pkg/layout"
)

func TestRenderText(t *testing.T) {
	// 600x400 with 100x100 cells projects onto a 12x8 grid at 2 cells per
	// layout cell.
	out := RenderText(compute(t, "2+3*4", 600, 400), 12, 8)
	lines := strings.Split(out, "\n")
	if len(lines) != 8 {
		t.Fatalf("lines = %d, want 8:\n%s", len(lines), out)
	}

	at := func(x, y int) byte {
		if x >= len(lines[y]) {
			return ' '
		}
		return lines[y][x]
	}
	labels := []struct {
		x, y int
		want byte
	}{
		{4, 2, '+'},
		{2, 4, '2'},
		{8, 4, '*'},
		{6, 6, '3'},
		{10, 6, '4'},
	}
	for _, l := range labels {
		if got := at(l.x, l.y); got != l.want {
			t.Errorf("(%d,%d) = %q, want %q\n%s", l.x, l.y, got, l.want, out)
		}
	}
	// The left edge of the root runs diagonally through (3,3).
	if got := at(3, 3); got != edgeRune {
		t.Errorf("(3,3) = %q, want edge\n%s", got, out)
	}
	for i, line := range lines {
		if strings.HasSuffix(line, " ") {
			t.Errorf("line %d has trailing spaces", i)
		}
	}
}

func TestRenderTextLabelsOverwriteEdges(t *testing.T) {
	out := RenderText(compute(t, "10+20", 300, 200), 30, 10)
	for _, want := range []string{"10", "20", "+"} {
		if !strings.Contains(out, want) {
			t.Errorf("label %q missing:\n%s", want, out)
		}
	}
}

func TestRenderTextDegenerate(t *testing.T) {
	if got := RenderText(compute(t, "1", 100, 100), 0, 5); got != "" {
		t.Errorf("zero columns = %q, want empty", got)
	}
	if got := RenderText(layout.Compute(nil, 100, 100), 4, 2); got != "\n" {
		t.Errorf("empty layout = %q, want two blank lines", got)
	}
	// Frames smaller than the grid clamp every node into range.
	out := RenderText(compute(t, "1+2", 1, 1), 3, 3)
	if len(strings.Split(out, "\n")) != 3 {
		t.Errorf("clamped canvas has wrong shape: %q", out)
	}
}

func TestProject(t *testing.T) {
	tests := []struct{ v, extent, cells, want int }{
		{0, 100, 10, 0},
		{50, 100, 10, 5},
		{100, 100, 10, 9},
		{500, 100, 10, 9},
		{10, 0, 10, 0},
	}
	for _, tt := range tests {
		if got := project(tt.v, tt.extent, tt.cells); got != tt.want {
			t.Errorf("project(%d, %d, %d) = %d, want %d", tt.v, tt.extent, tt.cells, got, tt.want)
		}
	}
}
