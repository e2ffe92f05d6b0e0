package meta

import "github.com/glybio/glytrait/internal/glycan"

// GlycanType classifies an N-glycan structure.
type GlycanType string

const (
	// TypeComplex is a complex-type N-glycan.
	TypeComplex GlycanType = "complex"

	// TypeHighMannose is a high-mannose-type N-glycan.
	TypeHighMannose GlycanType = "highmannose"

	// TypeHybrid is a hybrid-type N-glycan.
	TypeHybrid GlycanType = "hybrid"
)

// structInfo holds per-structure results shared across meta-properties:
// the fucose-skipped breadth-first scan, the glycan type, and the two
// branch-core mannoses. Computed once per structure per Context.
type structInfo struct {
	// scan is the breadth-first residue order with fucoses skipped.
	scan []*glycan.Residue

	typ GlycanType

	// branchCores are the two mannoses the antennae extend from.
	branchCores [2]*glycan.Residue
}

// Context carries the per-run memoization cache for structure
// annotations. Caching is keyed by structure identity, so results are
// never shared across distinct instances with identical content.
//
// A Context is not safe for concurrent use.
type Context struct {
	info map[*glycan.Structure]*structInfo
}

// NewContext creates an empty annotation cache.
func NewContext() *Context {
	return &Context{info: make(map[*glycan.Structure]*structInfo)}
}

// annotate returns the memoized annotations for s, computing them on
// first access.
func (c *Context) annotate(s *glycan.Structure) *structInfo {
	if info, ok := c.info[s]; ok {
		return info
	}
	info := &structInfo{
		scan: mustScan(s),
	}
	info.branchCores = findBranchCores(info.scan)
	info.typ = classify(s, info)
	c.info[s] = info
	return info
}

// mustScan is the fucose-skipped breadth-first order. The filter is
// valid by construction, so the traversal cannot fail.
func mustScan(s *glycan.Structure) []*glycan.Residue {
	scan, err := s.Traverse(glycan.BreadthFirst, glycan.Filter{
		Skip: []glycan.Monosaccharide{glycan.Fuc},
	})
	if err != nil {
		panic(err)
	}
	return scan
}

// findBranchCores locates the two branch-core mannoses: scanning the
// fucose-skipped breadth-first order from position 3 onward (position
// 2 is the trimannosyl core root), collecting mannoses until two are
// found. A bisecting GlcNAc sitting between them is skipped over.
func findBranchCores(scan []*glycan.Residue) [2]*glycan.Residue {
	var cores [2]*glycan.Residue
	found := 0
	for _, r := range scan[3:] {
		if r.Type() != glycan.Man {
			continue
		}
		cores[found] = r
		found++
		if found == 2 {
			break
		}
	}
	return cores
}

// classify determines the glycan type:
//
//  1. The bare trimannosyl core (2 GlcNAc + 3 Man, nothing else) is
//     complex.
//  2. A bisected structure is complex.
//  3. Exactly 2 GlcNAc total is high-mannose.
//  4. A mono-antennary branch (either branch-core mannose with a
//     single link) is complex.
//  5. Exactly 3 GlcNAc total is hybrid.
//  6. Everything else is complex.
func classify(s *glycan.Structure, info *structInfo) GlycanType {
	if s.MonosaccharideCount(glycan.GlcNAc) == 2 &&
		s.MonosaccharideCount(glycan.Man) == 3 &&
		s.TotalResidues() == 5 {
		return TypeComplex
	}
	if isBisected(info) {
		return TypeComplex
	}
	if s.MonosaccharideCount(glycan.GlcNAc) == 2 {
		return TypeHighMannose
	}
	if info.branchCores[0].Links() == 1 || info.branchCores[1].Links() == 1 {
		return TypeComplex
	}
	if s.MonosaccharideCount(glycan.GlcNAc) == 3 {
		return TypeHybrid
	}
	return TypeComplex
}

// isBisected detects a bisecting GlcNAc: the core mannose (position 2
// in the fucose-skipped breadth-first order) carrying 4 links.
func isBisected(info *structInfo) bool {
	return info.scan[2].Links() == 4
}

// antennaCount is 0 for non-complex glycans; otherwise the total
// number of branches extending from the two branch-core mannoses.
func antennaCount(info *structInfo) int {
	if info.typ != TypeComplex {
		return 0
	}
	return info.branchCores[0].Links() + info.branchCores[1].Links() - 2
}
