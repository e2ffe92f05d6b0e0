package glycan

import "fmt"

// Monosaccharide identifies a residue type in an N-glycan.
type Monosaccharide int

const (
	// GlcNAc is N-acetylglucosamine.
	GlcNAc Monosaccharide = iota

	// Man is mannose.
	Man

	// Gal is galactose.
	Gal

	// Fuc is fucose.
	Fuc

	// Neu5Ac is N-acetylneuraminic acid (the common sialic acid).
	Neu5Ac

	// Neu5Gc is N-glycolylneuraminic acid (a sialic acid variant).
	Neu5Gc
)

var monosaccharideNames = map[Monosaccharide]string{
	GlcNAc: "GlcNAc",
	Man:    "Man",
	Gal:    "Gal",
	Fuc:    "Fuc",
	Neu5Ac: "Neu5Ac",
	Neu5Gc: "Neu5Gc",
}

// String returns the conventional short name of the monosaccharide.
func (m Monosaccharide) String() string {
	if name, ok := monosaccharideNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Monosaccharide(%d)", int(m))
}

// IsSialic reports whether the monosaccharide is a sialic acid.
// Sialic residues are the only ones that may carry a linkage position.
func (m Monosaccharide) IsSialic() bool {
	return m == Neu5Ac || m == Neu5Gc
}

// ParseMonosaccharide resolves a short name back to a Monosaccharide.
func ParseMonosaccharide(name string) (Monosaccharide, error) {
	for m, n := range monosaccharideNames {
		if n == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown monosaccharide %q", name)
}
