package expr

// Tree is a compiled expression: the annotated tree together with its cached
// result. A Tree is never modified after Compile returns it.
type Tree struct {
	// Source is the expression text the tree was compiled from.
	Source string
	// Root is the root node. It is never nil.
	Root Node
	// Diagnostics lists the problems the parser recovered from.
	Diagnostics Diagnostics

	count    int
	maxDepth int
	result   float64
}

// Compile parses s, assigns every node its depth and in-order id, and
// evaluates the result.
//
// A non-nil error is a [*ParseError]. Without [Strict], only an expression
// that does not reduce to a single tree fails; recovered problems are kept in
// Tree.Diagnostics.
func Compile(s string, opts ...Option) (*Tree, error) {
	root, diags, err := Parse(s, opts...)
	if err != nil {
		return nil, err
	}
	return newTree(s, root, diags), nil
}

// MustCompile is like Compile but panics if s cannot be compiled.
func MustCompile(s string) *Tree {
	t, err := Compile(s)
	if err != nil {
		panic(err)
	}
	return t
}

func newTree(src string, root Node, diags Diagnostics) *Tree {
	t := &Tree{Source: src, Root: root, Diagnostics: diags}
	assignDepths(root, 0)
	assignIDs(root, &t.count)
	t.maxDepth = MaxDepth(root)
	t.result = Evaluate(root)
	return t
}

// Count returns the number of nodes, which is also one more than the largest
// id.
func (t *Tree) Count() int { return t.count }

// MaxDepth returns the number of levels of the tree.
func (t *Tree) MaxDepth() int { return t.maxDepth }

// Result returns the evaluated value.
func (t *Tree) Result() float64 { return t.result }

// ResultString returns Result formatted with [FormatValue].
func (t *Tree) ResultString() string { return FormatValue(t.result) }

// String returns the fully parenthesized form of the tree.
func (t *Tree) String() string { return Format(t.Root) }

// Nodes returns every node ordered by id.
func (t *Tree) Nodes() []Node {
	nodes := make([]Node, 0, t.count)
	InOrder(t.Root, func(n Node) { nodes = append(nodes, n) })
	return nodes
}

// Leaves returns the number of operand nodes.
func (t *Tree) Leaves() int {
	// A strict binary tree with k internal nodes has k+1 leaves.
	return (t.count + 1) / 2
}
