package expr

import (
	"errors"
	"testing"
)

func TestParseShape(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "single literal", in: "42", want: "42"},
		{name: "precedence", in: "2+3*4", want: "(2 + (3 * 4))"},
		{name: "parentheses", in: "(2+3)*4", want: "((2 + 3) * 4)"},
		{name: "left associative sub", in: "10-4-3", want: "((10 - 4) - 3)"},
		{name: "left associative div", in: "8/4/2", want: "((8 / 4) / 2)"},
		{name: "mixed", in: "1*2+3*4", want: "((1 * 2) + (3 * 4))"},
		{name: "whitespace", in: "  1 +\t2 ", want: "(1 + 2)"},
		{name: "decimals", in: "1.5+.25", want: "(1.5 + 0.25)"},
		{name: "trailing dot", in: "3.", want: "3"},
		{name: "unary minus literal", in: "2*-3", want: "(2 * -3)"},
		{name: "double unary", in: "--3", want: "3"},
		{name: "plus minus", in: "+-3", want: "-3"},
		{name: "negated group", in: "-(1+2)", want: "(0 - (1 + 2))"},
		{name: "negated group binds tight", in: "2*-(1+2)", want: "(2 * (0 - (1 + 2)))"},
		{name: "negated group then product", in: "-(2)*3", want: "((0 - 2) * 3)"},
		{name: "nested groups", in: "((1))", want: "1"},
		{name: "double negation of group", in: "--(4)", want: "4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, diags, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.in, err)
			}
			if len(diags) != 0 {
				t.Errorf("Parse(%q) diagnostics = %v, want none", tt.in, diags)
			}
			if got := Format(root); got != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseUnannotated(t *testing.T) {
	root, _, err := Parse("1+2")
	if err != nil {
		t.Fatal(err)
	}
	Walk(root, func(n Node) bool {
		if n.ID() != Unset || n.Depth() != Unset {
			t.Errorf("node %s has id=%d depth=%d before annotation", n.Label(), n.ID(), n.Depth())
		}
		return true
	})
}

func TestParseRecoverable(t *testing.T) {
	tests := []struct {
		name string
		in   string
		kind Kind
		want string
		pos  int
	}{
		{name: "extra dot", in: "1.2.3", kind: InvalidNumberFormat, want: "1.23", pos: 3},
		{name: "lone dot", in: ".+1", kind: InvalidNumberFormat, want: "(0 + 1)", pos: 0},
		{name: "unclosed group", in: "(1+2", kind: MismatchedParenthesis, want: "(1 + 2)", pos: 0},
		{name: "unopened group", in: "1+2)", kind: MismatchedParenthesis, want: "(1 + 2)", pos: 3},
		{name: "operator after operator", in: "1+*2", kind: OperatorWhereOperandExpected, want: "(1 + 2)", pos: 2},
		{name: "operator after open", in: "(/2)", kind: OperatorWhereOperandExpected, want: "2", pos: 1},
		{name: "unexpected ascii", in: "1+2x", kind: UnexpectedCharacter, want: "(1 + 2)", pos: 3},
		{name: "unexpected unicode", in: "2+3×", kind: UnexpectedCharacter, want: "(2 + 3)", pos: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, diags, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.in, err)
			}
			if got := Format(root); got != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.in, got, tt.want)
			}
			if len(diags) != 1 {
				t.Fatalf("Parse(%q) diagnostics = %v, want exactly one", tt.in, diags)
			}
			if diags[0].Kind != tt.kind {
				t.Errorf("kind = %v, want %v", diags[0].Kind, tt.kind)
			}
			if diags[0].Pos != tt.pos {
				t.Errorf("pos = %d, want %d", diags[0].Pos, tt.pos)
			}
		})
	}
}

func TestParseDiagnosticsInInputOrder(t *testing.T) {
	for _, in := range []string{"(((", "..", "((1+2", "1.2.3+4x"} {
		_, diags, _ := Parse(in)
		if len(diags) < 2 {
			t.Fatalf("Parse(%q) diagnostics = %v, want at least two", in, diags)
		}
		for i := 1; i < len(diags); i++ {
			if diags[i].Pos < diags[i-1].Pos {
				t.Errorf("Parse(%q) diagnostics out of order: %v", in, diags)
				break
			}
		}
	}
}

func TestParseUnicodeSpace(t *testing.T) {
	root, diags, err := Parse("1\u00a0+\u20032")
	if err != nil {
		t.Fatal(err)
	}
	if len(diags) != 0 {
		t.Errorf("diagnostics = %v, want none", diags)
	}
	if got := Format(root); got != "(1 + 2)" {
		t.Errorf("got %s, want (1 + 2)", got)
	}
}

func TestParseFatal(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "empty", in: ""},
		{name: "whitespace only", in: "  \t\n"},
		{name: "sign only", in: "-"},
		{name: "dangling operator", in: "1+"},
		{name: "dangling product", in: "3*"},
		{name: "empty group", in: "()"},
		{name: "empty group operand", in: "1+()"},
		{name: "adjacent literals", in: "1 2"},
		{name: "implicit product", in: "2(3)"},
		{name: "only garbage", in: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, diags, err := Parse(tt.in)
			if err == nil {
				t.Fatalf("Parse(%q) = %s, want error", tt.in, Format(root))
			}
			if root != nil {
				t.Errorf("Parse(%q) returned a root alongside an error", tt.in)
			}
			if !errors.Is(err, EmptyOrMalformedExpression) {
				t.Errorf("errors.Is(err, EmptyOrMalformedExpression) = false for %v", err)
			}
			if !diags.Has(EmptyOrMalformedExpression) {
				t.Errorf("diagnostics %v missing EmptyOrMalformedExpression", diags)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %T is not *ParseError", err)
			}
			if pe.Expression != tt.in {
				t.Errorf("ParseError.Expression = %q, want %q", pe.Expression, tt.in)
			}
		})
	}
}

func TestParseStrict(t *testing.T) {
	if _, _, err := Parse("1+2)", Strict()); !errors.Is(err, MismatchedParenthesis) {
		t.Errorf("strict mismatched parenthesis: err = %v", err)
	}
	if _, _, err := Parse("1+2x", Strict()); !errors.Is(err, UnexpectedCharacter) {
		t.Errorf("strict unexpected character: err = %v", err)
	}
	// Warnings never fail, even in strict mode.
	root, diags, err := Parse("1.2.3", Strict())
	if err != nil {
		t.Fatalf("strict extra dot: %v", err)
	}
	if Format(root) != "1.23" || !diags.Has(InvalidNumberFormat) {
		t.Errorf("strict extra dot: root=%s diags=%v", Format(root), diags)
	}
}

func TestReduceGuard(t *testing.T) {
	p := &parser{}
	if p.reduce() {
		t.Error("reduce on empty stacks should be a no-op")
	}
	p.operands = []Node{NewOperand(1)}
	p.ops = []pending{{op: Add, prec: 1}}
	if p.reduce() {
		t.Error("reduce with one operand should be a no-op")
	}
	if len(p.ops) != 1 || len(p.operands) != 1 {
		t.Errorf("guarded reduce changed stacks: ops=%d operands=%d", len(p.ops), len(p.operands))
	}
	p.operands = append(p.operands, NewOperand(2))
	if !p.reduce() {
		t.Fatal("reduce with two operands should succeed")
	}
	if len(p.ops) != 0 || len(p.operands) != 1 {
		t.Fatalf("stacks after reduce: ops=%d operands=%d", len(p.ops), len(p.operands))
	}
	if got := Format(p.operands[0]); got != "(1 + 2)" {
		t.Errorf("reduced node = %s, want (1 + 2)", got)
	}
}

func TestKindOf(t *testing.T) {
	_, _, err := Parse("(1+")
	if got := KindOf(err); got != EmptyOrMalformedExpression {
		t.Errorf("KindOf = %v, want %v", got, EmptyOrMalformedExpression)
	}
	_, _, err = Parse("(1", Strict())
	if got := KindOf(err); got != MismatchedParenthesis {
		t.Errorf("KindOf = %v, want %v", got, MismatchedParenthesis)
	}
	if got := KindOf(errors.New("other")); got != 0 {
		t.Errorf("KindOf(other) = %v, want 0", got)
	}
}
