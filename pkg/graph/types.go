package graph

import (
	"github.com/matzehuels/exprtree/pkg/expr"
)

// Node kinds.
const (
	KindOperand  = "operand"
	KindOperator = "operator"
)

// =============================================================================
// Graph - Expression Tree Serialization
// =============================================================================

// Graph is the canonical serialization format for a compiled expression tree.
type Graph struct {
	Expression  string       `json:"expression" yaml:"expression" bson:"expression"`
	Result      string       `json:"result" yaml:"result" bson:"result"`
	Nodes       []Node       `json:"nodes" yaml:"nodes" bson:"nodes"`
	Edges       []Edge       `json:"edges" yaml:"edges" bson:"edges"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty" bson:"diagnostics,omitempty"`
}

// Node is a tree node without position.
type Node struct {
	ID    int    `json:"id" yaml:"id" bson:"id"`
	Label string `json:"label" yaml:"label" bson:"label"`
	Kind  string `json:"kind" yaml:"kind" bson:"kind"`
	Depth int    `json:"depth" yaml:"depth" bson:"depth"`
}

// IsLeaf returns true for operand nodes.
func (n *Node) IsLeaf() bool { return n.Kind == KindOperand }

// Edge is a parent→child relation.
type Edge struct {
	From int `json:"from" yaml:"from" bson:"from"`
	To   int `json:"to" yaml:"to" bson:"to"`
}

// Diagnostic is the serialized form of [expr.Diagnostic].
type Diagnostic struct {
	Code     string `json:"code" yaml:"code" bson:"code"`
	Severity string `json:"severity" yaml:"severity" bson:"severity"`
	Pos      int    `json:"pos" yaml:"pos" bson:"pos"`
	Message  string `json:"message" yaml:"message" bson:"message"`
}

// =============================================================================
// Tree → Graph Conversion
// =============================================================================

// FromTree converts a compiled tree to its serialization format. Nodes are
// ordered by id.
func FromTree(t *expr.Tree) Graph {
	out := Graph{
		Expression:  t.Source,
		Result:      t.ResultString(),
		Nodes:       make([]Node, 0, t.Count()),
		Diagnostics: FromDiagnostics(t.Diagnostics),
	}
	for _, n := range t.Nodes() {
		out.Nodes = append(out.Nodes, nodeFromTree(n))
	}
	expr.Walk(t.Root, func(n expr.Node) bool {
		left, right := expr.Children(n)
		if left != nil {
			out.Edges = append(out.Edges, Edge{From: n.ID(), To: left.ID()}, Edge{From: n.ID(), To: right.ID()})
		}
		return true
	})
	return out
}

// FromDiagnostics converts parser diagnostics. It returns nil for an empty
// list so that the field is omitted from output.
func FromDiagnostics(ds expr.Diagnostics) []Diagnostic {
	if len(ds) == 0 {
		return nil
	}
	out := make([]Diagnostic, len(ds))
	for i, d := range ds {
		out[i] = Diagnostic{
			Code:     d.Kind.Code(),
			Severity: d.Severity().String(),
			Pos:      d.Pos,
			Message:  d.Message,
		}
	}
	return out
}

func nodeFromTree(n expr.Node) Node {
	kind := KindOperator
	if expr.IsLeaf(n) {
		kind = KindOperand
	}
	return Node{ID: n.ID(), Label: n.Label(), Kind: kind, Depth: n.Depth()}
}
