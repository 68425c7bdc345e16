// Package layout computes canvas coordinates for compiled expression trees.
//
// # Overview
//
// Given a [expr.Tree] and a target frame, [Compute] places every node on an
// evenly spaced grid:
//
//   - Columns follow the in-order id, so the tree reads left to right like
//     the expression it came from.
//   - Rows follow the node depth, root at the top.
//   - One empty cell is kept as a margin on each axis.
//
// With n nodes and d levels the cell size is width/(n+1) by height/(d+1)
// (integer division), and node (id, depth) sits at
// ((id+1)*cellWidth, (depth+1)*cellHeight).
//
// # Purity
//
// Layout never touches the tree; calling [Compute] repeatedly with different
// dimensions only changes coordinates. Ids, depths and the edge list are a
// property of the tree alone, which is why [Edges] takes no dimensions.
//
//	l := layout.Compute(tree, 800, 600)
//	for _, n := range l.Nodes {
//	    fmt.Println(n.ID, n.X, n.Y, n.Label)
//	}
package layout
