package formula

import (
	"regexp"
	"strconv"
	"strings"
)

// Expression grammar, one line:
//
//	NAME = (TERM_LIST) / (TERM_LIST)
//	NAME = (TERM_LIST) // (TERM_LIST)
//	... optionally followed by: * COEFFICIENT
//
// TERM_LIST is a *-joined sequence of term expressions. The `//` form
// duplicates the denominator's terms into the numerator before parsing
// completes. COEFFICIENT is a decimal or an int/int fraction.

var (
	namePattern       = regexp.MustCompile(`^\w+$`)
	numberPattern     = regexp.MustCompile(`^\d+(\.\d+)?$`)
	comparisonPattern = regexp.MustCompile(`^(\w+)\s*(==|!=|>=|<=|>|<)\s*(.+)$`)
	fractionPattern   = regexp.MustCompile(`^(\d+(\.\d+)?)\s*/\s*(\d+(\.\d+)?)$`)
)

// ParseExpression parses a one-line formula expression into an
// uninitialized Formula.
func ParseExpression(expr string) (*Formula, error) {
	p := &exprParser{expr: expr}
	return p.parse()
}

type exprParser struct {
	expr string
}

func (p *exprParser) fail(offending, message string) error {
	return &ParseError{Expression: p.expr, Offending: offending, Message: message}
}

func (p *exprParser) parse() (*Formula, error) {
	text := strings.TrimSpace(p.expr)

	eq := strings.Index(text, "=")
	if eq < 0 {
		return nil, p.fail("", "missing \"=\"")
	}
	name := strings.TrimSpace(text[:eq])
	if !namePattern.MatchString(name) {
		return nil, p.fail(name, "formula name must be a single alphanumeric/underscore token")
	}
	rhs := strings.TrimSpace(text[eq+1:])

	numText, rest, err := p.takeGroup(rhs)
	if err != nil {
		return nil, err
	}

	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, "/") {
		return nil, p.fail(rest, "expected \"/\" between numerator and denominator")
	}
	rest = rest[1:]
	double := strings.HasPrefix(rest, "/")
	if double {
		rest = rest[1:]
	}

	denText, rest, err := p.takeGroup(strings.TrimSpace(rest))
	if err != nil {
		return nil, err
	}

	coefficient := 1.0
	rest = strings.TrimSpace(rest)
	if rest != "" {
		if !strings.HasPrefix(rest, "*") {
			return nil, p.fail(rest, "unexpected text after denominator")
		}
		coefficient, err = p.parseCoefficient(strings.TrimSpace(rest[1:]))
		if err != nil {
			return nil, err
		}
	}

	numerator, err := p.parseTermList(numText)
	if err != nil {
		return nil, err
	}
	denominator, err := p.parseTermList(denText)
	if err != nil {
		return nil, err
	}
	if double {
		// The // shortcut: denominator terms also gate the numerator.
		numerator = append(numerator, denominator...)
	}

	return New(name, numerator, denominator, coefficient)
}

// takeGroup consumes a leading balanced parenthesis group, returning
// its contents and the remainder.
func (p *exprParser) takeGroup(s string) (string, string, error) {
	if !strings.HasPrefix(s, "(") {
		return "", "", p.fail(s, "expected \"(\"")
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[1:i], s[i+1:], nil
			}
		}
	}
	return "", "", p.fail(s, "unbalanced parentheses")
}

// parseTermList splits on top-level * and parses each term.
func (p *exprParser) parseTermList(s string) ([]Term, error) {
	var terms []Term
	depth := 0
	start := 0
	parts := []string{}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case '*':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, p.fail(s, "unbalanced parentheses")
	}
	parts = append(parts, s[start:])

	for _, part := range parts {
		term, err := p.parseTerm(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	return terms, nil
}

func (p *exprParser) parseTerm(s string) (Term, error) {
	if s == "" {
		return nil, p.fail(s, "empty term")
	}

	if numberPattern.MatchString(s) {
		return p.parseConstant(s)
	}
	if namePattern.MatchString(s) {
		if s[0] >= '0' && s[0] <= '9' {
			return nil, p.fail(s, "meta-property name cannot start with a digit")
		}
		return Numerical{Property: s}, nil
	}

	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		inner := strings.TrimSpace(s[1 : len(s)-1])
		if numberPattern.MatchString(inner) {
			return p.parseConstant(inner)
		}
		if m := comparisonPattern.FindStringSubmatch(inner); m != nil {
			lit, err := p.parseLiteral(strings.TrimSpace(m[3]))
			if err != nil {
				return nil, err
			}
			return Comparison{Property: m[1], Op: CompareOp(m[2]), Operand: lit}, nil
		}
		return nil, p.fail(s, "expected a comparison or a numeric literal inside parentheses")
	}

	return nil, p.fail(s, "unrecognized term")
}

func (p *exprParser) parseConstant(s string) (Term, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return nil, p.fail(s, "constant term must be a positive number")
	}
	return Constant{Value: v}, nil
}

func (p *exprParser) parseLiteral(s string) (Literal, error) {
	switch {
	case s == "true" || s == "True":
		return Literal{Kind: LiteralBool, Bool: true}, nil
	case s == "false" || s == "False":
		return Literal{Kind: LiteralBool}, nil
	case len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0]:
		return Literal{Kind: LiteralString, Str: s[1 : len(s)-1]}, nil
	case numberPattern.MatchString(s):
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Literal{}, p.fail(s, "invalid numeric literal")
		}
		return Literal{Kind: LiteralNumber, Number: v}, nil
	default:
		return Literal{}, p.fail(s, "expected a number, boolean, or quoted string literal")
	}
}

// parseCoefficient accepts a decimal or an int/int fraction.
func (p *exprParser) parseCoefficient(s string) (float64, error) {
	if m := fractionPattern.FindStringSubmatch(s); m != nil {
		num, err := strconv.ParseFloat(m[1], 64)
		if err != nil || num <= 0 {
			return 0, p.fail(s, "invalid coefficient")
		}
		den, err := strconv.ParseFloat(m[3], 64)
		if err != nil || den == 0 {
			return 0, p.fail(s, "invalid coefficient")
		}
		return num / den, nil
	}
	if numberPattern.MatchString(s) {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v <= 0 {
			return 0, p.fail(s, "coefficient must be a positive number")
		}
		return v, nil
	}
	return 0, p.fail(s, "coefficient must be numeric")
}
