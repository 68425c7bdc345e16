package expr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a parse diagnostic.
type Kind int

// Diagnostic kinds.
const (
	// InvalidNumberFormat is a literal with a second decimal point or no
	// digits at all. The parser ignores the extra dot.
	InvalidNumberFormat Kind = iota + 1
	// MismatchedParenthesis is a ')' without an open group, or a '(' that is
	// never closed.
	MismatchedParenthesis
	// OperatorWhereOperandExpected is a binary operator directly after
	// another operator or an open parenthesis. The operator is skipped.
	OperatorWhereOperandExpected
	// UnexpectedCharacter is any character outside the grammar. It is
	// skipped.
	UnexpectedCharacter
	// EmptyOrMalformedExpression means the input did not reduce to exactly
	// one tree. It is always fatal.
	EmptyOrMalformedExpression
)

var kindNames = map[Kind]string{
	InvalidNumberFormat:          "invalid number format",
	MismatchedParenthesis:        "mismatched parenthesis",
	OperatorWhereOperandExpected: "operator where operand expected",
	UnexpectedCharacter:          "unexpected character",
	EmptyOrMalformedExpression:   "empty or malformed expression",
}

var kindCodes = map[Kind]string{
	InvalidNumberFormat:          "INVALID_NUMBER_FORMAT",
	MismatchedParenthesis:        "MISMATCHED_PARENTHESIS",
	OperatorWhereOperandExpected: "OPERATOR_WHERE_OPERAND_EXPECTED",
	UnexpectedCharacter:          "UNEXPECTED_CHARACTER",
	EmptyOrMalformedExpression:   "EMPTY_OR_MALFORMED_EXPRESSION",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Code returns the machine-readable name of k, e.g. "MISMATCHED_PARENTHESIS".
func (k Kind) Code() string { return kindCodes[k] }

// Error lets a Kind act as a sentinel for errors.Is.
func (k Kind) Error() string { return k.String() }

// Severity is the weight of a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Severity returns SeverityWarning for InvalidNumberFormat and SeverityError
// for every other kind.
func (k Kind) Severity() Severity {
	if k == InvalidNumberFormat {
		return SeverityWarning
	}
	return SeverityError
}

// Diagnostic is a problem found while parsing.
type Diagnostic struct {
	Kind Kind
	// Pos is the byte offset of the offending character, or the input
	// length for problems detected at the end.
	Pos int
	// Char is the offending character, 0 when there is none.
	Char    rune
	Message string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%d: %s", d.Pos, d.Message)
}

// Is matches a Diagnostic against its Kind.
func (d Diagnostic) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == d.Kind
}

// Severity returns the severity of the diagnostic's kind.
func (d Diagnostic) Severity() Severity { return d.Kind.Severity() }

// Diagnostics is a list of problems ordered by position in the input.
type Diagnostics []Diagnostic

// Errors returns the error-severity diagnostics.
func (ds Diagnostics) Errors() Diagnostics { return ds.filter(SeverityError) }

// Warnings returns the warning-severity diagnostics.
func (ds Diagnostics) Warnings() Diagnostics { return ds.filter(SeverityWarning) }

// HasErrors reports whether any diagnostic is an error.
func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.Severity() == SeverityError {
			return true
		}
	}
	return false
}

// Has reports whether ds contains a diagnostic of kind k.
func (ds Diagnostics) Has(k Kind) bool {
	for _, d := range ds {
		if d.Kind == k {
			return true
		}
	}
	return false
}

func (ds Diagnostics) filter(s Severity) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Severity() == s {
			out = append(out, d)
		}
	}
	return out
}

// ParseError is returned by Parse and Compile when an expression cannot be
// compiled. It carries every diagnostic collected during the scan.
type ParseError struct {
	Expression  string
	Diagnostics Diagnostics
}

func (e *ParseError) Error() string {
	errs := e.Diagnostics.Errors()
	if len(errs) == 0 {
		return fmt.Sprintf("parse %q: %s", e.Expression, EmptyOrMalformedExpression)
	}
	msgs := make([]string, len(errs))
	for i, d := range errs {
		msgs[i] = d.Error()
	}
	return fmt.Sprintf("parse %q: %s", e.Expression, strings.Join(msgs, "; "))
}

// Is reports whether any diagnostic of e has the target Kind.
func (e *ParseError) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && e.Diagnostics.Has(k)
}

// KindOf returns the Kind of the first error-severity diagnostic in err, or
// 0 if err carries none.
func KindOf(err error) Kind {
	var pe *ParseError
	if errors.As(err, &pe) {
		if errs := pe.Diagnostics.Errors(); len(errs) > 0 {
			// A fatal reason wins over recoverable ones.
			for _, d := range errs {
				if d.Kind == EmptyOrMalformedExpression {
					return d.Kind
				}
			}
			return errs[0].Kind
		}
		return EmptyOrMalformedExpression
	}
	var d Diagnostic
	if errors.As(err, &d) {
		return d.Kind
	}
	return 0
}

// Err returns the first error-severity diagnostic, or nil.
func (ds Diagnostics) Err() error {
	for _, d := range ds {
		if d.Severity() == SeverityError {
			return d
		}
	}
	return nil
}
