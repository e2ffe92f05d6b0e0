package glycan

// Order selects the traversal strategy.
type Order int

const (
	// BreadthFirst visits residues level by level from the root.
	BreadthFirst Order = iota

	// DepthFirst visits residues in pre-order from the root.
	DepthFirst
)

// Filter restricts a traversal to a subset of residue types.
// At most one of Skip and Only may be set.
type Filter struct {
	// Skip drops residues of the listed types from the sequence.
	Skip []Monosaccharide

	// Only keeps residues of the listed types exclusively.
	Only []Monosaccharide
}

func (f Filter) admits(m Monosaccharide) bool {
	for _, t := range f.Skip {
		if t == m {
			return false
		}
	}
	if len(f.Only) == 0 {
		return true
	}
	for _, t := range f.Only {
		if t == m {
			return true
		}
	}
	return false
}

// Traverse returns the residues of the structure in the requested
// order. The sequence is finite and deterministic: child order is
// fixed at parse time. Setting both Skip and Only is an error.
func (s *Structure) Traverse(order Order, filter Filter) ([]*Residue, error) {
	if len(filter.Skip) > 0 && len(filter.Only) > 0 {
		return nil, &StructureError{
			Offset:  -1,
			Message: "traverse: skip and only are mutually exclusive",
		}
	}
	return s.mustTraverse(order, filter), nil
}

// mustTraverse is Traverse without the filter sanity check, for
// internal callers that pass a valid filter by construction.
func (s *Structure) mustTraverse(order Order, filter Filter) []*Residue {
	var out []*Residue
	switch order {
	case DepthFirst:
		var walk func(r *Residue)
		walk = func(r *Residue) {
			if filter.admits(r.typ) {
				out = append(out, r)
			}
			for _, c := range r.children {
				walk(c)
			}
		}
		walk(s.root)
	default:
		queue := []*Residue{s.root}
		for len(queue) > 0 {
			r := queue[0]
			queue = queue[1:]
			if filter.admits(r.typ) {
				out = append(out, r)
			}
			queue = append(queue, r.children...)
		}
	}
	return out
}
