package expr

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// negPrecedence is the binding strength of the implicit "0 - (...)" built
// for a negated group. It is above every binary operator so that "2*-(1+2)"
// negates the group before multiplying.
const negPrecedence = 3

// Option configures Parse and Compile.
type Option func(*options)

type options struct {
	strict bool
}

// Strict makes every error-severity diagnostic fatal. Without it the parser
// skips offending tokens and reports them on the returned tree.
func Strict() Option { return func(o *options) { o.strict = true } }

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// pending is an entry of the operator stack: either an open-group marker or
// a binary operator with its effective precedence.
type pending struct {
	op    Symbol
	open  bool
	prec  int
	start int
}

// parser holds the stacks for a single parse. It is never reused.
type parser struct {
	src      string
	operands []Node
	ops      []pending
	diags    Diagnostics
	broken   bool
}

// Parse builds the expression tree for s without annotating or evaluating
// it. Most callers want [Compile].
//
// The returned tree's nodes have Unset ids and depths. A non-nil error is
// always a [*ParseError].
func Parse(s string, opts ...Option) (Node, Diagnostics, error) {
	o := newOptions(opts)
	p := &parser{src: s}
	root := p.run()
	slices.SortStableFunc(p.diags, func(a, b Diagnostic) int { return cmp.Compare(a.Pos, b.Pos) })
	if root == nil || (o.strict && p.diags.HasErrors()) {
		return nil, p.diags, &ParseError{Expression: s, Diagnostics: p.diags}
	}
	return root, p.diags, nil
}

func (p *parser) run() Node {
	expectOperand := true
	sign := 1.0

	for i := 0; i < len(p.src); i++ {
		ch := p.src[i]
		if ch >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(p.src[i:])
			if !unicode.IsSpace(r) {
				p.report(UnexpectedCharacter, i, r, fmt.Sprintf("unexpected character %q", r))
			}
			i += size - 1
			continue
		}
		switch {
		case unicode.IsSpace(rune(ch)):
			continue

		case expectOperand && (ch == '+' || ch == '-'):
			if ch == '-' {
				sign = -sign
			}

		case isDigit(ch) || ch == '.':
			var v float64
			v, i = p.number(i)
			p.operands = append(p.operands, NewOperand(sign*v))
			sign = 1
			expectOperand = false

		case ch == '(':
			if sign < 0 {
				p.operands = append(p.operands, NewOperand(0))
				p.pushOperator(pending{op: Sub, prec: negPrecedence, start: i})
				sign = 1
			}
			p.ops = append(p.ops, pending{open: true, start: i})
			expectOperand = true

		case ch == ')':
			p.closeGroup(i)
			sign = 1
			expectOperand = false

		case Symbol(ch).Valid():
			if expectOperand {
				p.report(OperatorWhereOperandExpected, i, rune(ch),
					fmt.Sprintf("operator %q where an operand was expected", ch))
				continue
			}
			op := Symbol(ch)
			p.pushOperator(pending{op: op, prec: op.Precedence(), start: i})
			expectOperand = true

		default:
			p.report(UnexpectedCharacter, i, rune(ch), fmt.Sprintf("unexpected character %q", ch))
		}
	}

	return p.finish()
}

// number consumes the literal starting at i and returns its value and the
// index of its last byte.
func (p *parser) number(i int) (float64, int) {
	var b strings.Builder
	start := i
	dot, digits := false, false
	for ; i < len(p.src) && (isDigit(p.src[i]) || p.src[i] == '.'); i++ {
		c := p.src[i]
		if c == '.' {
			if dot {
				p.report(InvalidNumberFormat, i, '.', "extra decimal point in number literal ignored")
				continue
			}
			dot = true
		} else {
			digits = true
		}
		b.WriteByte(c)
	}
	if !digits {
		p.report(InvalidNumberFormat, start, '.', "number literal has no digits")
		return 0, i - 1
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		// Only digits and one dot reach here, so this is an out-of-range
		// literal; ParseFloat still returns ±Inf.
		p.report(InvalidNumberFormat, start, 0, fmt.Sprintf("number literal %q out of range", b.String()))
	}
	return v, i - 1
}

// pushOperator reduces every stacked operator that binds at least as tightly
// as next, then pushes next.
func (p *parser) pushOperator(next pending) {
	for len(p.ops) > 0 {
		top := p.ops[len(p.ops)-1]
		if top.open || top.prec < next.prec {
			break
		}
		if !p.reduce() {
			p.broken = true
			p.ops = p.ops[:len(p.ops)-1]
		}
	}
	p.ops = append(p.ops, next)
}

func (p *parser) closeGroup(pos int) {
	for len(p.ops) > 0 && !p.ops[len(p.ops)-1].open {
		if !p.reduce() {
			p.broken = true
			p.ops = p.ops[:len(p.ops)-1]
		}
	}
	if len(p.ops) == 0 {
		p.report(MismatchedParenthesis, pos, ')', "closing parenthesis without matching '('")
		return
	}
	p.ops = p.ops[:len(p.ops)-1]
}

// reduce pops one operator and two operands and pushes the operator node
// built from them. It does nothing and returns false when either stack is
// too short.
func (p *parser) reduce() bool {
	if len(p.ops) == 0 || len(p.operands) < 2 {
		return false
	}
	top := p.ops[len(p.ops)-1]
	if top.open {
		return false
	}
	p.ops = p.ops[:len(p.ops)-1]
	n := len(p.operands)
	left, right := p.operands[n-2], p.operands[n-1]
	p.operands = append(p.operands[:n-2], NewOperator(top.op, left, right))
	return true
}

func (p *parser) finish() Node {
	for len(p.ops) > 0 {
		top := p.ops[len(p.ops)-1]
		if top.open {
			p.report(MismatchedParenthesis, top.start, '(', "opening parenthesis is never closed")
			p.ops = p.ops[:len(p.ops)-1]
			continue
		}
		if !p.reduce() {
			p.broken = true
			p.ops = p.ops[:len(p.ops)-1]
		}
	}

	switch {
	case len(p.operands) == 0:
		p.report(EmptyOrMalformedExpression, len(p.src), 0, "expression is empty")
		return nil
	case p.broken:
		p.report(EmptyOrMalformedExpression, len(p.src), 0, "operator is missing an operand")
		return nil
	case len(p.operands) > 1:
		p.report(EmptyOrMalformedExpression, len(p.src), 0,
			fmt.Sprintf("expression leaves %d values without an operator between them", len(p.operands)))
		return nil
	}
	return p.operands[0]
}

func (p *parser) report(k Kind, pos int, ch rune, msg string) {
	p.diags = append(p.diags, Diagnostic{Kind: k, Pos: pos, Char: ch, Message: msg})
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
