package meta

import (
	"fmt"

	"github.com/glybio/glytrait/internal/glycan"
)

// Table is a read-only meta-property table: glycan-id rows by
// meta-property columns. Row order is the order the glycans were given
// in, and is the order trait formulas and abundance tables must share.
type Table struct {
	ids    []string
	cols   []string
	colIdx map[string]int
	// values is indexed [row][col].
	values [][]Value
}

// NewTable builds a table from explicit data. This is the supported
// path for meta-property tables supplied by an external loader,
// bypassing structural computation entirely.
func NewTable(ids, cols []string, values [][]Value) (*Table, error) {
	if len(values) != len(ids) {
		return nil, fmt.Errorf("meta table: %d rows of values for %d ids", len(values), len(ids))
	}
	colIdx := make(map[string]int, len(cols))
	for i, c := range cols {
		if _, dup := colIdx[c]; dup {
			return nil, fmt.Errorf("meta table: duplicate column %q", c)
		}
		colIdx[c] = i
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, fmt.Errorf("meta table: duplicate glycan id %q", id)
		}
		seen[id] = true
	}
	for i, row := range values {
		if len(row) != len(cols) {
			return nil, fmt.Errorf("meta table: row %q has %d values for %d columns", ids[i], len(row), len(cols))
		}
	}
	return &Table{ids: ids, cols: cols, colIdx: colIdx, values: values}, nil
}

// IDs returns the glycan ids in row order.
// The returned slice must not be mutated.
func (t *Table) IDs() []string { return t.ids }

// Columns returns the meta-property names in column order.
// The returned slice must not be mutated.
func (t *Table) Columns() []string { return t.cols }

// HasColumn reports whether the table has the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.colIdx[name]
	return ok
}

// Column returns the named column in row order.
func (t *Table) Column(name string) ([]Value, error) {
	idx, ok := t.colIdx[name]
	if !ok {
		return nil, &EvalError{
			Code:     ErrCodeMissingProperty,
			Property: name,
			Message:  "meta-property column not found",
		}
	}
	out := make([]Value, len(t.ids))
	for i, row := range t.values {
		out[i] = row[idx]
	}
	return out, nil
}

// Entry pairs a glycan id with its parsed glycan.
type Entry struct {
	ID     string
	Glycan glycan.Glycan
}

// BuildTable computes the full meta-property table for a fixed glycan
// set: one column per registered property applicable to the mode (and
// to the siaLinkage flag), one row per glycan in the given order.
//
// Every entry must carry the glycan variant matching the mode.
func BuildTable(entries []Entry, mode Mode, siaLinkage bool) (*Table, error) {
	props := Properties(mode, siaLinkage)
	ctx := NewContext()

	ids := make([]string, len(entries))
	values := make([][]Value, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
		if err := checkVariant(e, mode); err != nil {
			return nil, err
		}
		row := make([]Value, len(props))
		for j, p := range props {
			v, err := p.Calculate(ctx, e.Glycan)
			if err != nil {
				return nil, fmt.Errorf("glycan %q: %w", e.ID, err)
			}
			row[j] = v
		}
		values[i] = row
	}

	cols := make([]string, len(props))
	for j, p := range props {
		cols[j] = p.Name
	}
	return NewTable(ids, cols, values)
}

func checkVariant(e Entry, mode Mode) error {
	switch e.Glycan.(type) {
	case *glycan.Structure:
		if mode != ModeStructure {
			return fmt.Errorf("glycan %q: structure given in composition mode", e.ID)
		}
	case glycan.Composition:
		if mode != ModeComposition {
			return fmt.Errorf("glycan %q: composition given in structure mode", e.ID)
		}
	default:
		return fmt.Errorf("glycan %q: unknown glycan variant %T", e.ID, e.Glycan)
	}
	return nil
}
