package expr

import (
	"math"
	"strconv"
)

// Evaluate computes the value of the tree rooted at n. Children are
// evaluated before their parent, left before right.
//
// Division uses IEEE-754 semantics: dividing by zero yields +Inf, -Inf or
// NaN and is not reported as an error. Evaluate returns NaN for a nil node.
func Evaluate(n Node) float64 {
	switch n := n.(type) {
	case *Operand:
		return n.Value
	case *Operator:
		return n.Op.apply(Evaluate(n.Left), Evaluate(n.Right))
	default:
		return math.NaN()
	}
}

// FormatValue formats v the way results and operand labels are shown: the
// shortest decimal that round-trips, switching to exponent form for large
// exponents. It never depends on the locale.
//
//	FormatValue(14)     // "14"
//	FormatValue(3.75)   // "3.75"
//	FormatValue(1e21)   // "1e+21"
//	FormatValue(1.0/0)  // "+Inf"
func FormatValue(v float64) string {
	if v == 0 {
		// Drop the sign of negative zero, e.g. from "-0".
		v = 0
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
