package graph

import (
	"fmt"

	"github.com/matzehuels/exprtree/pkg/expr"
	"github.com/matzehuels/exprtree/pkg/layout"
)

// =============================================================================
// Layout - Positioned Tree Serialization
// =============================================================================

// Layout is the serialization format for a positioned expression tree.
//
// Width and Height are the frame the coordinates were computed for; CellWidth
// and CellHeight the grid spacing. Nodes are ordered by id.
type Layout struct {
	Expression string `json:"expression" yaml:"expression" bson:"expression"`
	Result     string `json:"result" yaml:"result" bson:"result"`

	Width      int `json:"width" yaml:"width" bson:"width"`
	Height     int `json:"height" yaml:"height" bson:"height"`
	CellWidth  int `json:"cell_width" yaml:"cell_width" bson:"cell_width"`
	CellHeight int `json:"cell_height" yaml:"cell_height" bson:"cell_height"`

	Nodes       []PositionedNode `json:"nodes" yaml:"nodes" bson:"nodes"`
	Edges       []Edge           `json:"edges" yaml:"edges" bson:"edges"`
	Diagnostics []Diagnostic     `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty" bson:"diagnostics,omitempty"`
}

// PositionedNode is a [Node] with canvas coordinates.
type PositionedNode struct {
	ID    int    `json:"id" yaml:"id" bson:"id"`
	Label string `json:"label" yaml:"label" bson:"label"`
	Kind  string `json:"kind" yaml:"kind" bson:"kind"`
	Depth int    `json:"depth" yaml:"depth" bson:"depth"`
	X     int    `json:"x" yaml:"x" bson:"x"`
	Y     int    `json:"y" yaml:"y" bson:"y"`
}

// ExportLayout converts a computed layout of t to its serialization format.
func ExportLayout(t *expr.Tree, l layout.Layout) Layout {
	out := Layout{
		Width:      l.Width,
		Height:     l.Height,
		CellWidth:  l.CellWidth,
		CellHeight: l.CellHeight,
		Nodes:      make([]PositionedNode, len(l.Nodes)),
		Edges:      make([]Edge, len(l.Edges)),
	}
	if t != nil {
		out.Expression = t.Source
		out.Result = t.ResultString()
		out.Diagnostics = FromDiagnostics(t.Diagnostics)
	}
	for i, n := range l.Nodes {
		kind := KindOperator
		if n.Leaf {
			kind = KindOperand
		}
		out.Nodes[i] = PositionedNode{ID: n.ID, Label: n.Label, Kind: kind, Depth: n.Depth, X: n.X, Y: n.Y}
	}
	for i, e := range l.Edges {
		out.Edges[i] = Edge{From: e.From, To: e.To}
	}
	return out
}

// Parse converts a serialized layout back to a renderable [layout.Layout].
func (l Layout) Parse() (layout.Layout, error) {
	if err := l.Validate(); err != nil {
		return layout.Layout{}, err
	}
	out := layout.Layout{
		Width:      l.Width,
		Height:     l.Height,
		CellWidth:  l.CellWidth,
		CellHeight: l.CellHeight,
		Nodes:      make([]layout.Node, len(l.Nodes)),
		Edges:      make([]layout.Edge, len(l.Edges)),
	}
	for i, n := range l.Nodes {
		out.Nodes[i] = layout.Node{ID: n.ID, X: n.X, Y: n.Y, Label: n.Label, Depth: n.Depth, Leaf: n.Kind == KindOperand}
	}
	for i, e := range l.Edges {
		out.Edges[i] = layout.Edge{From: e.From, To: e.To}
	}
	return out, nil
}

// Validate checks that ids are dense and ordered and that every edge refers
// to existing nodes.
func (l Layout) Validate() error {
	if len(l.Nodes) == 0 {
		return fmt.Errorf("layout has no nodes")
	}
	for i, n := range l.Nodes {
		if n.ID != i {
			return fmt.Errorf("node %d has id %d: ids must be dense and ordered", i, n.ID)
		}
		if n.Kind != KindOperand && n.Kind != KindOperator {
			return fmt.Errorf("node %d has unknown kind %q", n.ID, n.Kind)
		}
	}
	for _, e := range l.Edges {
		if e.From < 0 || e.From >= len(l.Nodes) || e.To < 0 || e.To >= len(l.Nodes) {
			return fmt.Errorf("edge %d→%d refers to a missing node", e.From, e.To)
		}
	}
	return nil
}
