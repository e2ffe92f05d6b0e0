package glycan

import (
	"fmt"
	"strings"
)

// ParseStructure decodes the compact bracket encoding of an N-glycan
// structure into a validated Structure.
//
// The grammar, root first:
//
//	residue  := name linkage? child*
//	name     := [A-Za-z0-9]+        (a monosaccharide short name)
//	linkage  := "@" ("3" | "6")     (sialic residues only)
//	child    := "(" residue ")"
//
// Example (bi-antennary, disialylated):
//
//	GlcNAc(GlcNAc(Man(Man(GlcNAc(Gal(Neu5Ac@3)))(Man(GlcNAc(Gal(Neu5Ac@6)))))))
func ParseStructure(text string) (*Structure, error) {
	p := &structureParser{text: text}
	root, err := p.parseResidue()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.text) {
		return nil, p.errorf("unexpected %q after complete structure", p.text[p.pos:])
	}
	return newStructure(root, text)
}

type structureParser struct {
	text string
	pos  int
}

func (p *structureParser) errorf(format string, args ...any) error {
	return &StructureError{
		Text:    p.text,
		Offset:  p.pos,
		Message: fmt.Sprintf(format, args...),
	}
}

func (p *structureParser) parseResidue() (*Residue, error) {
	name := p.takeName()
	if name == "" {
		return nil, p.errorf("expected residue name")
	}
	typ, err := ParseMonosaccharide(name)
	if err != nil {
		return nil, p.errorf("%v", err)
	}

	r := &Residue{typ: typ}

	if p.peek() == '@' {
		p.pos++
		if !typ.IsSialic() {
			return nil, p.errorf("linkage position on non-sialic residue %s", typ)
		}
		switch p.peek() {
		case '3':
			r.linkage = 3
		case '6':
			r.linkage = 6
		default:
			return nil, p.errorf("linkage position must be 3 or 6")
		}
		p.pos++
	}

	for p.peek() == '(' {
		p.pos++
		child, err := p.parseResidue()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, p.errorf("expected %q", ")")
		}
		p.pos++
		child.parent = r
		r.children = append(r.children, child)
	}

	return r, nil
}

// takeName consumes a maximal run of name characters.
func (p *structureParser) takeName() string {
	start := p.pos
	for p.pos < len(p.text) {
		c := p.text[p.pos]
		isNameChar := c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
		if !isNameChar {
			break
		}
		p.pos++
	}
	return p.text[start:p.pos]
}

func (p *structureParser) peek() byte {
	if p.pos >= len(p.text) {
		return 0
	}
	return p.text[p.pos]
}

// RenderStructure is the inverse of ParseStructure; it reproduces the
// bracket encoding of a structure.
func RenderStructure(s *Structure) string {
	var b strings.Builder
	var render func(r *Residue)
	render = func(r *Residue) {
		b.WriteString(r.typ.String())
		if r.linkage != 0 {
			fmt.Fprintf(&b, "@%d", r.linkage)
		}
		for _, c := range r.children {
			b.WriteByte('(')
			render(c)
			b.WriteByte(')')
		}
	}
	render(s.root)
	return b.String()
}
