package filter

import "github.com/glybio/glytrait/internal/formula"

// siaFamilyParents maps sialylation traits computed per antenna class
// to their family parent. These pairs do not satisfy the general
// term-set rule (their denominators differ) but are domain-redundant
// all the same, so they are special-cased by name.
var siaFamilyParents = map[string]string{
	"A1S": "CS",
	"A2S": "CS",
	"A3S": "CS",
	"A4S": "CS",
	"A1L": "CL",
	"A2L": "CL",
	"A3L": "CL",
	"A4L": "CL",
	"A1E": "CE",
	"A2E": "CE",
	"A3E": "CE",
	"A4E": "CE",
}

// IsChildOf reports whether trait a is a refinement of trait b: the
// two share the same denominator term set and a's numerator terms are
// a proper superset of b's, meaning a computes b's ratio restricted by
// extra conditions. The per-antenna sialylation families are
// additionally recognized by name.
//
// IsChildOf is irreflexive and, outside the named families, asymmetric.
func IsChildOf(a, b *formula.Formula) bool {
	if a.Name == b.Name {
		return false
	}
	if siaFamilyParents[a.Name] == b.Name {
		return true
	}
	if !sameTerms(a.Denominator, b.Denominator) {
		return false
	}
	return properSuperset(a.Numerator, b.Numerator)
}

// termCounts keys terms by their rendered expression form; two terms
// are the same term iff they render identically.
func termCounts(terms []formula.Term) map[string]int {
	counts := make(map[string]int, len(terms))
	for _, t := range terms {
		counts[t.String()]++
	}
	return counts
}

func sameTerms(a, b []formula.Term) bool {
	if len(a) != len(b) {
		return false
	}
	ca, cb := termCounts(a), termCounts(b)
	for k, n := range ca {
		if cb[k] != n {
			return false
		}
	}
	return true
}

func properSuperset(a, b []formula.Term) bool {
	if len(a) <= len(b) {
		return false
	}
	ca, cb := termCounts(a), termCounts(b)
	for k, n := range cb {
		if ca[k] < n {
			return false
		}
	}
	return true
}
