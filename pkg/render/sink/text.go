package sink

import (
	"strings"

	"github.com/matzehuels/exprtree/pkg/layout"
)

const edgeRune = '.'

// RenderText draws l on a cols × rows character grid. Layout coordinates are
// scaled from l.Width × l.Height onto the grid, edges are traced with dots
// and labels are written centered over their node. Trailing spaces are
// trimmed from every line; the result always has rows lines.
func RenderText(l layout.Layout, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	c := newCanvas(cols, rows)
	pos := func(n layout.Node) (int, int) {
		return project(n.X, l.Width, cols), project(n.Y, l.Height, rows)
	}

	for _, e := range l.Edges {
		from, okF := l.Node(e.From)
		to, okT := l.Node(e.To)
		if !okF || !okT {
			continue
		}
		x1, y1 := pos(from)
		x2, y2 := pos(to)
		c.line(x1, y1, x2, y2, edgeRune)
	}
	for _, n := range l.Nodes {
		x, y := pos(n)
		label := []rune(n.Label)
		c.text(x-len(label)/2, y, label)
	}
	return c.String()
}

func project(v, extent, cells int) int {
	if extent <= 0 {
		return 0
	}
	p := v * cells / extent
	return max(0, min(cells-1, p))
}

type canvas struct {
	cols, rows int
	cells      [][]rune
}

func newCanvas(cols, rows int) *canvas {
	cells := make([][]rune, rows)
	for i := range cells {
		cells[i] = []rune(strings.Repeat(" ", cols))
	}
	return &canvas{cols: cols, rows: rows, cells: cells}
}

func (c *canvas) set(x, y int, r rune) {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows {
		return
	}
	c.cells[y][x] = r
}

func (c *canvas) text(x, y int, s []rune) {
	for i, r := range s {
		c.set(x+i, y, r)
	}
}

// line traces a Bresenham line, skipping both end points so labels stay
// readable.
func (c *canvas) line(x1, y1, x2, y2 int, r rune) {
	dx, dy := abs(x2-x1), -abs(y2-y1)
	sx, sy := sign(x2-x1), sign(y2-y1)
	e := dx + dy
	x, y := x1, y1
	for x != x2 || y != y2 {
		if (x != x1 || y != y1) && c.cells[y][x] == ' ' {
			c.set(x, y, r)
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

func (c *canvas) String() string {
	lines := make([]string, c.rows)
	for i, row := range c.cells {
		lines[i] = strings.TrimRight(string(row), " ")
	}
	return strings.Join(lines, "\n")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
