// Package table provides the float tables the trait pipeline flows
// through: the abundance table (sample rows by glycan columns) and the
// derived trait table (sample rows by trait columns).
//
// A FloatTable is an ordered row/column index over a dense matrix.
// Tables are never mutated in place; every transformation produces a
// new table.
package table

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// FloatTable is an immutable labeled matrix of float64 values.
type FloatTable struct {
	rows   []string
	cols   []string
	rowIdx map[string]int
	colIdx map[string]int
	data   *mat.Dense
}

// New builds a table from row labels, column labels, and row-major
// data of length len(rows)*len(cols).
func New(rows, cols []string, data []float64) (*FloatTable, error) {
	if len(data) != len(rows)*len(cols) {
		return nil, fmt.Errorf("table: %d values for %d rows x %d columns", len(data), len(rows), len(cols))
	}
	rowIdx, err := index("row", rows)
	if err != nil {
		return nil, err
	}
	colIdx, err := index("column", cols)
	if err != nil {
		return nil, err
	}
	t := &FloatTable{
		rows:   rows,
		cols:   cols,
		rowIdx: rowIdx,
		colIdx: colIdx,
	}
	// mat.Dense cannot hold a zero-sized matrix; a table with an empty
	// dimension keeps data nil and the accessors account for it.
	if len(rows) > 0 && len(cols) > 0 {
		t.data = mat.NewDense(len(rows), len(cols), data)
	}
	return t, nil
}

func index(kind string, labels []string) (map[string]int, error) {
	idx := make(map[string]int, len(labels))
	for i, l := range labels {
		if _, dup := idx[l]; dup {
			return nil, fmt.Errorf("table: duplicate %s label %q", kind, l)
		}
		idx[l] = i
	}
	return idx, nil
}

// Rows returns the row labels in order.
// The returned slice must not be mutated.
func (t *FloatTable) Rows() []string { return t.rows }

// Columns returns the column labels in order.
// The returned slice must not be mutated.
func (t *FloatTable) Columns() []string { return t.cols }

// At returns the value at row label r and column label c.
func (t *FloatTable) At(r, c string) (float64, error) {
	i, ok := t.rowIdx[r]
	if !ok {
		return 0, fmt.Errorf("table: no row %q", r)
	}
	j, ok := t.colIdx[c]
	if !ok {
		return 0, fmt.Errorf("table: no column %q", c)
	}
	return t.data.At(i, j), nil
}

// Row returns the i-th row as a vector view. The returned slice must
// not be mutated.
func (t *FloatTable) Row(i int) []float64 {
	if t.data == nil {
		return nil
	}
	return t.data.RawRowView(i)
}

// Column returns the named column as a fresh slice.
func (t *FloatTable) Column(name string) ([]float64, error) {
	j, ok := t.colIdx[name]
	if !ok {
		return nil, fmt.Errorf("table: no column %q", name)
	}
	out := make([]float64, len(t.rows))
	if t.data != nil {
		mat.Col(out, j, t.data)
	}
	return out, nil
}

// SelectColumns returns a new table restricted to the named columns,
// in the given order.
func (t *FloatTable) SelectColumns(names []string) (*FloatTable, error) {
	data := make([]float64, 0, len(t.rows)*len(names))
	idx := make([]int, len(names))
	for k, name := range names {
		j, ok := t.colIdx[name]
		if !ok {
			return nil, fmt.Errorf("table: no column %q", name)
		}
		idx[k] = j
	}
	for i := range t.rows {
		row := t.Row(i)
		for _, j := range idx {
			data = append(data, row[j])
		}
	}
	return New(t.rows, names, data)
}

// Dims returns the (rows, columns) shape.
func (t *FloatTable) Dims() (int, int) {
	return len(t.rows), len(t.cols)
}
