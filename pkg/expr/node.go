package expr

import (
	"math"
	"strings"
)

// Unset is the id and depth of a node that has not been annotated.
const Unset = -1

// Symbol is a binary operator.
type Symbol byte

// Supported operators.
const (
	Add Symbol = '+'
	Sub Symbol = '-'
	Mul Symbol = '*'
	Div Symbol = '/'
)

// Precedence returns the binding strength of s. Higher binds tighter.
// Unknown symbols have precedence 0.
func (s Symbol) Precedence() int {
	switch s {
	case Add, Sub:
		return 1
	case Mul, Div:
		return 2
	default:
		return 0
	}
}

// Valid reports whether s is one of the four supported operators.
func (s Symbol) Valid() bool { return s.Precedence() > 0 }

func (s Symbol) String() string { return string(rune(s)) }

// apply combines l and r with s. Unknown symbols yield NaN.
func (s Symbol) apply(l, r float64) float64 {
	switch s {
	case Add:
		return l + r
	case Sub:
		return l - r
	case Mul:
		return l * r
	case Div:
		return l / r
	}
	return math.NaN()
}

// Node is a node of an expression tree. It is either an [*Operand] leaf or an
// [*Operator] with exactly two children.
type Node interface {
	// ID is the in-order position of the node, or Unset.
	ID() int
	// Depth is the distance from the root, or Unset.
	Depth() int
	// Label is the display text: the formatted value or the operator.
	Label() string

	meta() *annotations
}

type annotations struct {
	id    int
	depth int
}

func unset() annotations { return annotations{id: Unset, depth: Unset} }

func (a *annotations) ID() int            { return a.id }
func (a *annotations) Depth() int         { return a.depth }
func (a *annotations) meta() *annotations { return a }

// Operand is a numeric literal.
type Operand struct {
	annotations
	Value float64
}

// NewOperand returns an unannotated leaf holding v.
func NewOperand(v float64) *Operand {
	return &Operand{annotations: unset(), Value: v}
}

// Label returns the formatted value.
func (o *Operand) Label() string { return FormatValue(o.Value) }

// Operator applies Op to the values of Left and Right.
type Operator struct {
	annotations
	Op    Symbol
	Left  Node
	Right Node
}

// NewOperator returns an unannotated operator node owning left and right.
func NewOperator(op Symbol, left, right Node) *Operator {
	return &Operator{annotations: unset(), Op: op, Left: left, Right: right}
}

// Label returns the operator character.
func (o *Operator) Label() string { return o.Op.String() }

// IsLeaf reports whether n is an operand.
func IsLeaf(n Node) bool {
	_, ok := n.(*Operand)
	return ok
}

// Children returns the left and right children of n. Both are nil for leaves.
func Children(n Node) (left, right Node) {
	if op, ok := n.(*Operator); ok {
		return op.Left, op.Right
	}
	return nil, nil
}

// Format renders n as a fully parenthesized infix expression, e.g.
// "(2 + (3 * 4))". Leaves are not parenthesized.
func Format(n Node) string {
	var b strings.Builder
	format(&b, n)
	return b.String()
}

func format(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Operand:
		b.WriteString(n.Label())
	case *Operator:
		b.WriteByte('(')
		format(b, n.Left)
		b.WriteByte(' ')
		b.WriteByte(byte(n.Op))
		b.WriteByte(' ')
		format(b, n.Right)
		b.WriteByte(')')
	}
}
