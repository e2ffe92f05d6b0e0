// Package filter prunes redundant derived traits after evaluation:
// degenerate traits (constant or entirely NaN across samples) are
// dropped first, then traits that are both a structural child of a
// surviving trait and numerically collinear with it.
package filter

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/glybio/glytrait/internal/formula"
	"github.com/glybio/glytrait/internal/table"
)

// DisableCorrelation is the threshold value that turns collinearity
// pruning off entirely; only degenerate traits are removed.
const DisableCorrelation = -1

// Prune removes redundant traits from the (formulas, trait table)
// pair. The formula order must match the trait table's column order.
//
// threshold is the minimum Pearson correlation at which a child trait
// is considered collinear with its parent; it must be in [0, 1], or
// DisableCorrelation.
func Prune(formulas []*formula.Formula, traits *table.FloatTable, threshold float64) ([]*formula.Formula, *table.FloatTable, error) {
	if threshold != DisableCorrelation && (threshold < 0 || threshold > 1) {
		return nil, nil, fmt.Errorf("filter: correlation threshold %v outside [0, 1]", threshold)
	}
	cols := traits.Columns()
	if len(cols) != len(formulas) {
		return nil, nil, fmt.Errorf("filter: %d formulas for %d trait columns", len(formulas), len(cols))
	}
	for i, f := range formulas {
		if cols[i] != f.Name {
			return nil, nil, fmt.Errorf("filter: trait column %q does not match formula %q", cols[i], f.Name)
		}
	}

	kept, err := dropDegenerate(formulas, traits)
	if err != nil {
		return nil, nil, err
	}
	if threshold != DisableCorrelation {
		kept, err = dropCollinear(kept, traits, threshold)
		if err != nil {
			return nil, nil, err
		}
	}

	names := make([]string, len(kept))
	for i, f := range kept {
		names[i] = f.Name
	}
	filtered, err := traits.SelectColumns(names)
	if err != nil {
		return nil, nil, err
	}
	return kept, filtered, nil
}

// dropDegenerate removes traits whose column carries no information:
// every value NaN, or every finite value identical.
func dropDegenerate(formulas []*formula.Formula, traits *table.FloatTable) ([]*formula.Formula, error) {
	var kept []*formula.Formula
	for _, f := range formulas {
		col, err := traits.Column(f.Name)
		if err != nil {
			return nil, err
		}
		if !degenerate(col) {
			kept = append(kept, f)
		}
	}
	return kept, nil
}

func degenerate(col []float64) bool {
	first := math.NaN()
	for _, v := range col {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(first) {
			first = v
			continue
		}
		if v != first {
			return false
		}
	}
	return true
}

// dropCollinear removes every trait that is a child of another
// surviving trait and correlates with it at or above the threshold.
// The parent is always the one retained.
func dropCollinear(formulas []*formula.Formula, traits *table.FloatTable, threshold float64) ([]*formula.Formula, error) {
	columns := make([][]float64, len(formulas))
	for i, f := range formulas {
		col, err := traits.Column(f.Name)
		if err != nil {
			return nil, err
		}
		columns[i] = col
	}

	drop := make([]bool, len(formulas))
	for i, child := range formulas {
		for j, parent := range formulas {
			if i == j || drop[j] {
				continue
			}
			if !IsChildOf(child, parent) {
				continue
			}
			if correlation(columns[i], columns[j]) >= threshold {
				drop[i] = true
				break
			}
		}
	}

	var kept []*formula.Formula
	for i, f := range formulas {
		if !drop[i] {
			kept = append(kept, f)
		}
	}
	return kept, nil
}

// correlation is the Pearson correlation over the samples where both
// traits are finite. Fewer than two shared finite samples yields 0
// (never collinear).
func correlation(a, b []float64) float64 {
	var xs, ys []float64
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		xs = append(xs, a[i])
		ys = append(ys, b[i])
	}
	if len(xs) < 2 {
		return 0
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		return 0
	}
	return r
}
