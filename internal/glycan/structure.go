package glycan

// Residue is one monosaccharide node in a Structure graph.
// Child order is fixed at parse time, which makes every traversal
// deterministic.
type Residue struct {
	typ      Monosaccharide
	linkage  int // 3, 6 or 0 (unspecified); sialic residues only
	parent   *Residue
	children []*Residue
}

// Type returns the residue's monosaccharide type.
func (r *Residue) Type() Monosaccharide { return r.typ }

// Linkage returns the sialic linkage position (3 or 6), or 0 when the
// linkage is unspecified. Non-sialic residues always return 0.
func (r *Residue) Linkage() int { return r.linkage }

// Parent returns the residue's parent, or nil for the root.
func (r *Residue) Parent() *Residue { return r.parent }

// Children returns the residue's children in fixed order.
// The returned slice must not be mutated.
func (r *Residue) Children() []*Residue { return r.children }

// Links returns the number of edges incident to the residue,
// counting the parent link if present.
func (r *Residue) Links() int {
	n := len(r.children)
	if r.parent != nil {
		n++
	}
	return n
}

// Structure is a rooted, immutable graph of monosaccharide residues.
//
// Every Structure is a validated N-glycan: construction locates the
// conserved 2xGlcNAc + 3xMan core and rejects graphs that lack it.
type Structure struct {
	root   *Residue
	counts map[Monosaccharide]int
	// core holds the five core residues (2 GlcNAc + 3 Man) located at
	// construction time, in scan order.
	core [5]*Residue
}

// Root returns the root residue (the reducing-end GlcNAc).
func (s *Structure) Root() *Residue { return s.root }

// MonosaccharideCount returns the number of residues of the given type.
func (s *Structure) MonosaccharideCount(m Monosaccharide) int {
	return s.counts[m]
}

// TotalResidues returns the total residue count.
func (s *Structure) TotalResidues() int {
	total := 0
	for _, n := range s.counts {
		total += n
	}
	return total
}

// CoreResidues returns the five conserved core residues
// (2 GlcNAc + 3 Man) in breadth-first scan order.
func (s *Structure) CoreResidues() [5]*Residue { return s.core }

// IsCore reports whether r is one of the five core residues.
func (s *Structure) IsCore(r *Residue) bool {
	for _, c := range s.core {
		if c == r {
			return true
		}
	}
	return false
}

// coreSequence is the expected residue types of the N-glycan core in
// fucose-skipped breadth-first order.
var coreSequence = [5]Monosaccharide{GlcNAc, GlcNAc, Man, Man, Man}

// newStructure validates a parsed residue graph and freezes it.
//
// The core check scans residues in breadth-first order skipping
// fucoses, matching the expected core type sequence and skipping
// mismatches (this tolerates a bisecting GlcNAc sitting between the
// branch mannoses in breadth-first order).
func newStructure(root *Residue, text string) (*Structure, error) {
	s := &Structure{
		root:   root,
		counts: make(map[Monosaccharide]int),
	}
	for _, r := range s.mustTraverse(BreadthFirst, Filter{}) {
		s.counts[r.typ]++
	}

	scan, err := s.Traverse(BreadthFirst, Filter{Skip: []Monosaccharide{Fuc}})
	if err != nil {
		return nil, err
	}
	found := 0
	for _, r := range scan {
		if found == len(coreSequence) {
			break
		}
		if r.typ == coreSequence[found] {
			s.core[found] = r
			found++
		}
	}
	if found != len(coreSequence) {
		return nil, &StructureError{
			Text:    text,
			Offset:  -1,
			Message: "not an N-glycan: 2xGlcNAc + 3xMan core not found",
		}
	}

	return s, nil
}
