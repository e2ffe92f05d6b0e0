package cli

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/glybio/glytrait/internal/glycan"
	"github.com/glybio/glytrait/internal/meta"
	"github.com/glybio/glytrait/internal/table"
)

// LoadAbundanceCSV reads the preprocessed abundance table: a header of
// glycan ids (first cell is the sample-id column name and is ignored)
// followed by one row per sample.
func LoadAbundanceCSV(path string) (*table.FloatTable, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("abundance file %s: need a header and at least one sample row", path)
	}
	ids := records[0][1:]
	if len(ids) == 0 {
		return nil, fmt.Errorf("abundance file %s: no glycan columns", path)
	}

	samples := make([]string, 0, len(records)-1)
	data := make([]float64, 0, (len(records)-1)*len(ids))
	for i, rec := range records[1:] {
		if len(rec) != len(ids)+1 {
			return nil, fmt.Errorf("abundance file %s: row %d has %d cells, want %d", path, i+2, len(rec), len(ids)+1)
		}
		samples = append(samples, rec[0])
		for j, cell := range rec[1:] {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("abundance file %s: row %d, column %q: %w", path, i+2, ids[j], err)
			}
			data = append(data, v)
		}
	}
	return table.New(samples, ids, data)
}

// LoadGlycanCSV reads the glycan file: a header row (ignored) followed
// by id,text rows, where text is a structure encoding or a composition
// string per the mode.
func LoadGlycanCSV(path string, mode meta.Mode) ([]meta.Entry, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("glycan file %s: need a header and at least one glycan row", path)
	}

	entries := make([]meta.Entry, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != 2 {
			return nil, fmt.Errorf("glycan file %s: row %d has %d cells, want 2", path, i+2, len(rec))
		}
		id, text := rec[0], rec[1]
		var g glycan.Glycan
		if mode == meta.ModeComposition {
			g, err = glycan.ParseComposition(text)
		} else {
			g, err = glycan.ParseStructure(text)
		}
		if err != nil {
			return nil, fmt.Errorf("glycan file %s: glycan %q: %w", path, id, err)
		}
		entries = append(entries, meta.Entry{ID: id, Glycan: g})
	}
	return entries, nil
}

// LoadMetaTableCSV reads a prebuilt meta-property table: a header of
// property names (first cell ignored) followed by one row per glycan.
// Cells parse as booleans, then integers, then string categories.
func LoadMetaTableCSV(path string) (*meta.Table, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("meta table file %s: need a header and at least one glycan row", path)
	}
	cols := records[0][1:]

	ids := make([]string, 0, len(records)-1)
	values := make([][]meta.Value, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != len(cols)+1 {
			return nil, fmt.Errorf("meta table file %s: row %d has %d cells, want %d", path, i+2, len(rec), len(cols)+1)
		}
		ids = append(ids, rec[0])
		row := make([]meta.Value, len(cols))
		for j, cell := range rec[1:] {
			row[j] = parseMetaValue(cell)
		}
		values = append(values, row)
	}
	return meta.NewTable(ids, cols, values)
}

func parseMetaValue(cell string) meta.Value {
	switch cell {
	case "true":
		return meta.Bool(true)
	case "false":
		return meta.Bool(false)
	}
	if n, err := strconv.Atoi(cell); err == nil {
		return meta.Int(n)
	}
	return meta.Str(cell)
}

// WriteTraitCSV writes the derived trait table: one header row, one
// row per sample. NaN cells are written literally as "NaN".
func WriteTraitCSV(w io.Writer, traits *table.FloatTable) error {
	cw := csv.NewWriter(w)
	header := append([]string{"sample"}, traits.Columns()...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, sample := range traits.Rows() {
		row := make([]string, 0, len(header))
		row = append(row, sample)
		for _, v := range traits.Row(i) {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}
