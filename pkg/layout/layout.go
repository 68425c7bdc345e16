package layout

import (
	"github.com/matzehuels/exprtree/pkg/expr"
)

// Node is a positioned tree node.
type Node struct {
	ID    int    `json:"id"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Label string `json:"label"`
	// Depth is the distance from the root. It is carried so renderers can
	// style levels without going back to the tree.
	Depth int  `json:"depth"`
	Leaf  bool `json:"leaf"`
}

// Edge connects a parent (From) to one of its children (To).
type Edge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Layout is the result of placing a tree in a frame.
type Layout struct {
	Width  int
	Height int
	// CellWidth and CellHeight are the grid spacing on each axis.
	CellWidth  int
	CellHeight int
	// Nodes are ordered by id.
	Nodes []Node
	Edges []Edge
}

// Compute places t in a width×height frame. A nil tree yields an empty
// layout with the requested dimensions.
func Compute(t *expr.Tree, width, height int) Layout {
	l := Layout{Width: width, Height: height}
	if t == nil || t.Root == nil {
		return l
	}
	l.CellWidth, l.CellHeight = CellSize(t, width, height)
	l.Nodes = place(t, l.CellWidth, l.CellHeight)
	l.Edges = Edges(t)
	return l
}

// Nodes returns the positioned nodes of t, ordered by id.
func Nodes(t *expr.Tree, width, height int) []Node {
	return Compute(t, width, height).Nodes
}

// CellSize returns the horizontal and vertical grid spacing for t.
func CellSize(t *expr.Tree, width, height int) (int, int) {
	return width / (t.Count() + 1), height / (t.MaxDepth() + 1)
}

func place(t *expr.Tree, cellW, cellH int) []Node {
	nodes := make([]Node, 0, t.Count())
	expr.InOrder(t.Root, func(n expr.Node) {
		nodes = append(nodes, Node{
			ID:    n.ID(),
			X:     (n.ID() + 1) * cellW,
			Y:     (n.Depth() + 1) * cellH,
			Label: n.Label(),
			Depth: n.Depth(),
			Leaf:  expr.IsLeaf(n),
		})
	})
	return nodes
}

// Edges returns one edge per parent→child relation of t, in pre-order with
// the left edge of a node before its right edge. Every operator contributes
// exactly two edges and every operand none.
func Edges(t *expr.Tree) []Edge {
	if t == nil || t.Root == nil {
		return nil
	}
	edges := make([]Edge, 0, max(t.Count()-1, 0))
	expr.Walk(t.Root, func(n expr.Node) bool {
		left, right := expr.Children(n)
		if left != nil {
			edges = append(edges, Edge{From: n.ID(), To: left.ID()})
		}
		if right != nil {
			edges = append(edges, Edge{From: n.ID(), To: right.ID()})
		}
		return true
	})
	return edges
}

// Node returns the node with the given id.
func (l Layout) Node(id int) (Node, bool) {
	// Nodes are ordered by id and ids are dense.
	if id < 0 || id >= len(l.Nodes) {
		return Node{}, false
	}
	return l.Nodes[id], true
}

// Bounds returns the smallest rectangle containing every node center.
func (l Layout) Bounds() (minX, minY, maxX, maxY int) {
	for i, n := range l.Nodes {
		if i == 0 {
			minX, minY, maxX, maxY = n.X, n.Y, n.X, n.Y
			continue
		}
		minX, maxX = min(minX, n.X), max(maxX, n.X)
		minY, maxY = min(minY, n.Y), max(maxY, n.Y)
	}
	return minX, minY, maxX, maxY
}
