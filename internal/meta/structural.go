package meta

import "github.com/glybio/glytrait/internal/glycan"

// Structural computations. All of them work from the residue graph,
// sharing the memoized per-structure annotations in the Context.

func structureType(ctx *Context, s *glycan.Structure) (Value, error) {
	return Str(ctx.annotate(s).typ), nil
}

func structureIsType(t GlycanType) structureCalc {
	return func(ctx *Context, s *glycan.Structure) (Value, error) {
		return Bool(ctx.annotate(s).typ == t), nil
	}
}

func structureIsBisecting(ctx *Context, s *glycan.Structure) (Value, error) {
	return Bool(isBisected(ctx.annotate(s))), nil
}

func structureAntennae(ctx *Context, s *glycan.Structure) (Value, error) {
	return Int(antennaCount(ctx.annotate(s))), nil
}

func structureIsAntennary(n int) structureCalc {
	return func(ctx *Context, s *glycan.Structure) (Value, error) {
		return Bool(antennaCount(ctx.annotate(s)) == n), nil
	}
}

func structureCount(m glycan.Monosaccharide) structureCalc {
	return func(_ *Context, s *glycan.Structure) (Value, error) {
		return Int(s.MonosaccharideCount(m)), nil
	}
}

func structureHas(m glycan.Monosaccharide) structureCalc {
	return func(_ *Context, s *glycan.Structure) (Value, error) {
		return Bool(s.MonosaccharideCount(m) > 0), nil
	}
}

// allResidues is the unfiltered breadth-first order. The empty filter
// is valid, so the traversal cannot fail.
func allResidues(s *glycan.Structure) []*glycan.Residue {
	seq, err := s.Traverse(glycan.BreadthFirst, glycan.Filter{})
	if err != nil {
		panic(err)
	}
	return seq
}

// coreFucoseCount counts fucoses attached directly to one of the five
// core residues. Antennary fucose is every other fucose.
func coreFucoseCount(s *glycan.Structure) int {
	n := 0
	for _, r := range allResidues(s) {
		if r.Type() == glycan.Fuc && r.Parent() != nil && s.IsCore(r.Parent()) {
			n++
		}
	}
	return n
}

func structureCoreFucoses(_ *Context, s *glycan.Structure) (Value, error) {
	return Int(coreFucoseCount(s)), nil
}

func structureAntennaryFucoses(_ *Context, s *glycan.Structure) (Value, error) {
	return Int(s.MonosaccharideCount(glycan.Fuc) - coreFucoseCount(s)), nil
}

func structureIsCoreFucosylated(_ *Context, s *glycan.Structure) (Value, error) {
	return Bool(coreFucoseCount(s) > 0), nil
}

func structureIsAntennaryFucosylated(_ *Context, s *glycan.Structure) (Value, error) {
	return Bool(s.MonosaccharideCount(glycan.Fuc)-coreFucoseCount(s) > 0), nil
}

func structureSialicCount(_ *Context, s *glycan.Structure) (Value, error) {
	return Int(sialicResidueCount(s, -1)), nil
}

func structureIsSialylated(_ *Context, s *glycan.Structure) (Value, error) {
	return Bool(sialicResidueCount(s, -1) > 0), nil
}

// structureLinkedSialicCount counts sialic residues with the given
// linkage position. A sialic residue with unspecified linkage makes
// the count undefined, which is an unknown-linkage error.
func structureLinkedSialicCount(linkage int, asBool bool) structureCalc {
	return func(_ *Context, s *glycan.Structure) (Value, error) {
		for _, r := range sialicResidues(s) {
			if r.Linkage() == 0 {
				return nil, &EvalError{
					Code:    ErrCodeUnknownLinkage,
					Message: "sialic acid linkage unspecified in structure",
				}
			}
		}
		n := sialicResidueCount(s, linkage)
		if asBool {
			return Bool(n > 0), nil
		}
		return Int(n), nil
	}
}

// sialicResidues returns all sialic residues in breadth-first order.
func sialicResidues(s *glycan.Structure) []*glycan.Residue {
	var out []*glycan.Residue
	for _, r := range allResidues(s) {
		if r.Type().IsSialic() {
			out = append(out, r)
		}
	}
	return out
}

// sialicResidueCount counts sialic residues; linkage -1 counts all,
// otherwise only residues with the exact linkage position.
func sialicResidueCount(s *glycan.Structure, linkage int) int {
	n := 0
	for _, r := range sialicResidues(s) {
		if linkage < 0 || r.Linkage() == linkage {
			n++
		}
	}
	return n
}

// structureHasPolyLacNAc detects a poly-N-acetyllactosamine extension:
// a GlcNAc attached to a galactose, i.e. a LacNAc unit continuing past
// the first repeat.
func structureHasPolyLacNAc(_ *Context, s *glycan.Structure) (Value, error) {
	for _, r := range allResidues(s) {
		if r.Type() == glycan.GlcNAc && r.Parent() != nil && r.Parent().Type() == glycan.Gal {
			return Bool(true), nil
		}
	}
	return Bool(false), nil
}
