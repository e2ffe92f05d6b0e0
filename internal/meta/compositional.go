package meta

import "github.com/glybio/glytrait/internal/glycan"

// Compositional computations derive the structural counts algebraically
// from the monosaccharide letter counts.

func compositionLetter(l glycan.Letter) compositionCalc {
	return func(c glycan.Composition) (Value, error) {
		return Int(c.MustGet(l)), nil
	}
}

func compositionLetterPresent(l glycan.Letter) compositionCalc {
	return func(c glycan.Composition) (Value, error) {
		return Bool(c.MustGet(l) > 0), nil
	}
}

func compositionSialicCount(c glycan.Composition) (Value, error) {
	// S and L/E are mutually exclusive by the composition invariant,
	// so summing all three is safe.
	return Int(c.MustGet(glycan.LetterS) + c.MustGet(glycan.LetterL) + c.MustGet(glycan.LetterE)), nil
}

func compositionIsSialylated(c glycan.Composition) (Value, error) {
	n, _ := compositionSialicCount(c)
	return Bool(n.(Int) > 0), nil
}

// compositionGalactoses applies the N-glycan-core-subtraction
// heuristic: galactose count is H-3 when H>=4 and N>=H-1, else 0.
//
// Known modeling limitation: this does not classify hybrid-type
// compositions correctly. The behavior is preserved because the
// default trait formulas depend on it.
func compositionGalactoses(c glycan.Composition) (Value, error) {
	h := c.MustGet(glycan.LetterH)
	n := c.MustGet(glycan.LetterN)
	if h >= 4 && n >= h-1 {
		return Int(h - 3), nil
	}
	return Int(0), nil
}

// compositionMannoses is the hexose remainder after the galactose
// heuristic: every hexose not counted as galactose is a mannose.
func compositionMannoses(c glycan.Composition) (Value, error) {
	g, _ := compositionGalactoses(c)
	return Int(c.MustGet(glycan.LetterH) - int(g.(Int))), nil
}
