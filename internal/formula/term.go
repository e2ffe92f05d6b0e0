// Package formula implements the trait formula engine: the expression
// parser, the term model, formula initialization against a
// meta-property table, and trait evaluation against an abundance
// table.
package formula

import (
	"fmt"
	"strconv"

	"github.com/glybio/glytrait/internal/meta"
)

// CompareOp is a comparison operator in a comparison term.
type CompareOp string

const (
	OpEqual        CompareOp = "=="
	OpNotEqual     CompareOp = "!="
	OpGreater      CompareOp = ">"
	OpGreaterEqual CompareOp = ">="
	OpLess         CompareOp = "<"
	OpLessEqual    CompareOp = "<="
)

// ordering reports whether the operator requires numeric operands.
func (op CompareOp) ordering() bool {
	return op == OpGreater || op == OpGreaterEqual || op == OpLess || op == OpLessEqual
}

// LiteralKind identifies the type of a comparison literal.
type LiteralKind int

const (
	LiteralNumber LiteralKind = iota
	LiteralBool
	LiteralString
)

// Literal is a comparison operand: a number, boolean, or string.
type Literal struct {
	Kind   LiteralKind
	Number float64
	Bool   bool
	Str    string
}

// String renders the literal in expression syntax.
func (l Literal) String() string {
	switch l.Kind {
	case LiteralBool:
		return strconv.FormatBool(l.Bool)
	case LiteralString:
		return "'" + l.Str + "'"
	default:
		return strconv.FormatFloat(l.Number, 'g', -1, 64)
	}
}

// Term is a sealed interface over the three term variants: Constant,
// Numerical, and Comparison. Every term is pure: its evaluation
// depends only on the meta-property table it is given.
type Term interface {
	// Evaluate produces one numeric value per glycan-id row of the
	// meta-property table.
	Evaluate(tbl *meta.Table) ([]float64, error)

	// Properties returns the meta-property names the term references.
	Properties() []string

	// String renders the term in expression syntax.
	String() string

	term() // Sealed - only Constant, Numerical, Comparison implement it
}

// Constant wraps a positive numeric literal; it evaluates to a uniform
// vector.
type Constant struct {
	Value float64
}

func (Constant) term() {}

// Properties implements Term; a constant references no properties.
func (c Constant) Properties() []string { return nil }

// String implements Term.
func (c Constant) String() string {
	return strconv.FormatFloat(c.Value, 'g', -1, 64)
}

// Evaluate implements Term.
func (c Constant) Evaluate(tbl *meta.Table) ([]float64, error) {
	out := make([]float64, len(tbl.IDs()))
	for i := range out {
		out[i] = c.Value
	}
	return out, nil
}

// Numerical wraps one meta-property name; it evaluates to the raw
// column values. Boolean columns contribute 0/1; string columns are
// not numeric-like and fail.
type Numerical struct {
	Property string
}

func (Numerical) term() {}

// Properties implements Term.
func (n Numerical) Properties() []string { return []string{n.Property} }

// String implements Term.
func (n Numerical) String() string { return n.Property }

// Evaluate implements Term.
func (n Numerical) Evaluate(tbl *meta.Table) ([]float64, error) {
	col, err := tbl.Column(n.Property)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(col))
	for i, v := range col {
		f, err := meta.Float(v)
		if err != nil {
			return nil, &meta.EvalError{
				Code:     meta.ErrCodeTypeMismatch,
				Property: n.Property,
				Message:  err.Error(),
			}
		}
		out[i] = f
	}
	return out, nil
}

// Comparison compares one meta-property against a literal; it
// evaluates to a 0/1 vector.
type Comparison struct {
	Property string
	Op       CompareOp
	Operand  Literal
}

func (Comparison) term() {}

// Properties implements Term.
func (c Comparison) Properties() []string { return []string{c.Property} }

// String implements Term.
func (c Comparison) String() string {
	return fmt.Sprintf("(%s %s %s)", c.Property, c.Op, c.Operand)
}

// Evaluate implements Term.
func (c Comparison) Evaluate(tbl *meta.Table) ([]float64, error) {
	col, err := tbl.Column(c.Property)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(col))
	for i, v := range col {
		ok, err := c.compare(v)
		if err != nil {
			return nil, err
		}
		if ok {
			out[i] = 1
		}
	}
	return out, nil
}

// compare applies the operator to one cell value.
func (c Comparison) compare(v meta.Value) (bool, error) {
	if c.Op.ordering() {
		if c.Operand.Kind != LiteralNumber {
			return false, c.typeMismatch(v, "ordering comparison needs a numeric literal")
		}
		n, ok := v.(meta.Int)
		if !ok {
			return false, c.typeMismatch(v, "ordering comparison needs a numeric column")
		}
		x := float64(n)
		switch c.Op {
		case OpGreater:
			return x > c.Operand.Number, nil
		case OpGreaterEqual:
			return x >= c.Operand.Number, nil
		case OpLess:
			return x < c.Operand.Number, nil
		default:
			return x <= c.Operand.Number, nil
		}
	}

	eq, err := c.equal(v)
	if err != nil {
		return false, err
	}
	if c.Op == OpNotEqual {
		return !eq, nil
	}
	return eq, nil
}

// equal tests value/literal equality; the literal type must match the
// column type.
func (c Comparison) equal(v meta.Value) (bool, error) {
	switch x := v.(type) {
	case meta.Bool:
		if c.Operand.Kind != LiteralBool {
			return false, c.typeMismatch(v, "boolean column compared against non-boolean literal")
		}
		return bool(x) == c.Operand.Bool, nil
	case meta.Int:
		if c.Operand.Kind != LiteralNumber {
			return false, c.typeMismatch(v, "numeric column compared against non-numeric literal")
		}
		return float64(x) == c.Operand.Number, nil
	case meta.Str:
		if c.Operand.Kind != LiteralString {
			return false, c.typeMismatch(v, "string column compared against non-string literal")
		}
		return string(x) == c.Operand.Str, nil
	default:
		return false, c.typeMismatch(v, "unknown column value type")
	}
}

func (c Comparison) typeMismatch(v meta.Value, msg string) error {
	return &meta.EvalError{
		Code:     meta.ErrCodeTypeMismatch,
		Property: c.Property,
		Message:  fmt.Sprintf("%s (value %s, operator %s)", msg, meta.Render(v), c.Op),
	}
}
