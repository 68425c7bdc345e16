// Package expr compiles infix arithmetic expressions into binary expression
// trees.
//
// # Overview
//
// An expression such as "2 + 3 * (4 - 1)" is parsed in a single pass with an
// operand stack and an operator stack. The resulting tree is annotated with a
// depth for every node (root = 0) and an in-order id (left subtree, self,
// right subtree), then evaluated once. The [Tree] returned by [Compile] is
// immutable and safe to share between goroutines.
//
//	t, err := expr.Compile("(2+3)*4")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(t.ResultString()) // 20
//
// # Grammar
//
// Supported tokens are decimal literals ("12", "1.5", ".5"), the binary
// operators + - * /, parentheses, and any number of leading unary signs
// ("--3", "-(1+2)"). Whitespace is ignored. Multiplication and division bind
// tighter than addition and subtraction; all operators are left-associative.
//
// # Diagnostics
//
// Problems found while parsing are recorded as [Diagnostic] values instead of
// aborting the parse. An input that cannot be reduced to a single tree
// ("", "1+", "()") always fails with [EmptyOrMalformedExpression]. Every other
// problem is recovered from and attached to [Tree.Diagnostics], unless the
// [Strict] option is given, in which case any error-severity diagnostic fails
// the compile.
//
// # Division
//
// Division follows IEEE-754: 1/0 is +Inf, -1/0 is -Inf and 0/0 is NaN. No
// error is reported.
package expr
