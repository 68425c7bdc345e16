package expr

// assignDepths sets the depth of n to depth and of every descendant to its
// distance from n plus depth.
func assignDepths(n Node, depth int) {
	if n == nil {
		return
	}
	n.meta().depth = depth
	left, right := Children(n)
	assignDepths(left, depth+1)
	assignDepths(right, depth+1)
}

// assignIDs numbers the nodes of n in order (left subtree, node, right
// subtree), starting at *next, and leaves *next one past the last id.
func assignIDs(n Node, next *int) {
	if n == nil {
		return
	}
	left, right := Children(n)
	assignIDs(left, next)
	n.meta().id = *next
	*next++
	assignIDs(right, next)
}

// MaxDepth returns the number of levels in the tree rooted at n: 0 for nil,
// 1 for a leaf, and 1 + the larger child's MaxDepth otherwise.
func MaxDepth(n Node) int {
	if n == nil {
		return 0
	}
	left, right := Children(n)
	return 1 + max(MaxDepth(left), MaxDepth(right))
}

// Walk calls fn for n and every descendant in pre-order (node, left, right).
// Returning false from fn skips the node's children.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	left, right := Children(n)
	Walk(left, fn)
	Walk(right, fn)
}

// InOrder calls fn for n and every descendant in id order.
func InOrder(n Node, fn func(Node)) {
	if n == nil {
		return
	}
	left, right := Children(n)
	InOrder(left, fn)
	fn(n)
	InOrder(right, fn)
}
