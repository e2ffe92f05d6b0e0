// Package glycan models N-glycans in their two input variants: a
// Structure (a rooted graph of monosaccharide residues) and a
// Composition (a flat multiset of monosaccharide counts).
//
// Both variants are immutable after construction. Meta-property
// computations dispatch over the sealed Glycan interface, so every
// computation handles exactly the variants it claims to support.
package glycan

// Glycan is a sealed interface over the two glycan variants.
// Only *Structure and Composition implement it.
type Glycan interface {
	glycanVariant() // Sealed - only Structure and Composition implement it
}

func (*Structure) glycanVariant()  {}
func (Composition) glycanVariant() {}
