package glycan

import (
	"regexp"
	"strconv"
	"strings"
)

// Letter identifies one monosaccharide class in a composition string.
type Letter byte

const (
	// LetterH counts hexoses (mannose + galactose).
	LetterH Letter = 'H'

	// LetterN counts N-acetylglucosamines.
	LetterN Letter = 'N'

	// LetterF counts fucoses.
	LetterF Letter = 'F'

	// LetterS counts sialic acids with unspecified linkage.
	LetterS Letter = 'S'

	// LetterL counts alpha-2,3 linked sialic acids.
	LetterL Letter = 'L'

	// LetterE counts alpha-2,6 linked sialic acids.
	LetterE Letter = 'E'
)

// canonicalLetters fixes the letter order used by String.
var canonicalLetters = []Letter{LetterH, LetterN, LetterF, LetterS, LetterL, LetterE}

// Composition is an immutable mapping from the monosaccharide letter
// alphabet {H, N, F, S, L, E} to non-negative counts.
//
// S must not co-occur with L or E: a composition either leaves sialic
// linkage unspecified (S) or splits it by linkage (L/E), never both.
type Composition struct {
	counts [6]int
}

// letterIndex maps a Letter to its slot in the counts array.
func letterIndex(l Letter) (int, bool) {
	for i, c := range canonicalLetters {
		if c == l {
			return i, true
		}
	}
	return 0, false
}

// compTokenPattern matches one (letter, count) pair.
var compTokenPattern = regexp.MustCompile(`^([A-Z])(\d+)`)

// ParseComposition parses a composition string such as "H5N4F1S1".
//
// The grammar is a strict sequence of (letter, integer) pairs. Unknown
// letters, repeated letters, an empty string, and S co-occurring with
// L or E are all rejected.
func ParseComposition(text string) (Composition, error) {
	if text == "" {
		return Composition{}, &CompositionError{Text: text, Message: "empty composition string"}
	}

	var c Composition
	seen := [6]bool{}
	rest := text
	for len(rest) > 0 {
		m := compTokenPattern.FindStringSubmatch(rest)
		if m == nil {
			return Composition{}, &CompositionError{
				Text:    text,
				Message: "malformed token at " + strconv.Quote(rest),
			}
		}
		idx, ok := letterIndex(Letter(m[1][0]))
		if !ok {
			return Composition{}, &CompositionError{
				Text:    text,
				Message: "unknown monosaccharide letter " + strconv.Quote(m[1]),
			}
		}
		if seen[idx] {
			return Composition{}, &CompositionError{
				Text:    text,
				Message: "duplicate letter " + strconv.Quote(m[1]),
			}
		}
		seen[idx] = true
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return Composition{}, &CompositionError{
				Text:    text,
				Message: "invalid count " + strconv.Quote(m[2]),
			}
		}
		c.counts[idx] = n
		rest = rest[len(m[0]):]
	}

	if c.MustGet(LetterS) > 0 && (c.MustGet(LetterL) > 0 || c.MustGet(LetterE) > 0) {
		return Composition{}, &CompositionError{
			Text:    text,
			Message: "S cannot co-occur with L or E",
		}
	}

	return c, nil
}

// Get returns the count for a letter, 0 if absent. Letters outside the
// fixed alphabet are an error.
func (c Composition) Get(l Letter) (int, error) {
	idx, ok := letterIndex(l)
	if !ok {
		return 0, &CompositionError{
			Text:    c.String(),
			Message: "letter " + strconv.Quote(string(l)) + " outside alphabet",
		}
	}
	return c.counts[idx], nil
}

// MustGet is Get for letters known to be in the alphabet.
// It panics on letters outside the alphabet.
func (c Composition) MustGet(l Letter) int {
	n, err := c.Get(l)
	if err != nil {
		panic(err)
	}
	return n
}

// SiaLinkageSpecified reports whether the composition splits sialic
// acids by linkage (uses L/E rather than S).
func (c Composition) SiaLinkageSpecified() bool {
	return c.MustGet(LetterL) > 0 || c.MustGet(LetterE) > 0
}

// String renders the canonical form: letters in H,N,F,S,L,E order with
// zero-valued letters dropped.
func (c Composition) String() string {
	var b strings.Builder
	for i, l := range canonicalLetters {
		if c.counts[i] == 0 {
			continue
		}
		b.WriteByte(byte(l))
		b.WriteString(strconv.Itoa(c.counts[i]))
	}
	return b.String()
}
