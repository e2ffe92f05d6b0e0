package formula

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/glybio/glytrait/internal/meta"
	"github.com/glybio/glytrait/internal/table"
)

// Formula is one named derived trait: a ratio of two term lists.
//
// A Formula is constructed uninitialized. Initialize reduces the term
// lists against a meta-property table into two fixed per-glycan
// vectors; only then can traits be calculated.
type Formula struct {
	// Name is the trait name (a single alphanumeric/underscore token).
	Name string

	// Description is the human-readable description from the formula
	// file, if any.
	Description string

	// Numerator and Denominator are the ordered term lists.
	Numerator   []Term
	Denominator []Term

	// Coefficient scales the final ratio. 1 when absent.
	Coefficient float64

	// ids, numVec and denVec are fixed by Initialize.
	ids         []string
	numVec      []float64
	denVec      []float64
	initialized bool
}

// New constructs an uninitialized formula, validating its shape.
func New(name string, numerator, denominator []Term, coefficient float64) (*Formula, error) {
	if !namePattern.MatchString(name) {
		return nil, fmt.Errorf("formula name %q must be a single alphanumeric/underscore token", name)
	}
	if len(numerator) == 0 {
		return nil, fmt.Errorf("formula %s: empty numerator", name)
	}
	if len(denominator) == 0 {
		return nil, fmt.Errorf("formula %s: empty denominator", name)
	}
	if coefficient <= 0 {
		return nil, fmt.Errorf("formula %s: coefficient must be positive", name)
	}
	return &Formula{
		Name:        name,
		Numerator:   numerator,
		Denominator: denominator,
		Coefficient: coefficient,
	}, nil
}

// Clone returns an uninitialized copy sharing the (immutable) terms.
func (f *Formula) Clone() *Formula {
	return &Formula{
		Name:        f.Name,
		Description: f.Description,
		Numerator:   f.Numerator,
		Denominator: f.Denominator,
		Coefficient: f.Coefficient,
	}
}

// SiaLinkage reports whether any term references a linkage-specific
// meta-property. Such formulas are excluded when linkage analysis is
// disabled.
func (f *Formula) SiaLinkage() bool {
	for _, t := range append(append([]Term{}, f.Numerator...), f.Denominator...) {
		for _, p := range t.Properties() {
			if meta.IsSiaLinkageProperty(p) {
				return true
			}
		}
	}
	return false
}

// Initialized reports whether Initialize has run.
func (f *Formula) Initialized() bool { return f.initialized }

// GlycanIDs returns the glycan-id order the formula was initialized
// against. Nil before Initialize.
func (f *Formula) GlycanIDs() []string { return f.ids }

// Initialize evaluates every term against the meta-property table and
// reduces each term list to a fixed per-glycan vector by element-wise
// product. Comparison terms act as 0/1 masks, so a numerical term
// multiplied by comparison terms yields a conditional count.
func (f *Formula) Initialize(tbl *meta.Table) error {
	numVec, err := reduceTerms(f.Numerator, tbl)
	if err != nil {
		return fmt.Errorf("formula %s: numerator: %w", f.Name, err)
	}
	denVec, err := reduceTerms(f.Denominator, tbl)
	if err != nil {
		return fmt.Errorf("formula %s: denominator: %w", f.Name, err)
	}
	f.ids = tbl.IDs()
	f.numVec = numVec
	f.denVec = denVec
	f.initialized = true
	return nil
}

// reduceTerms is the element-wise product of the term vectors.
func reduceTerms(terms []Term, tbl *meta.Table) ([]float64, error) {
	var product []float64
	for _, t := range terms {
		vec, err := t.Evaluate(tbl)
		if err != nil {
			return nil, err
		}
		if product == nil {
			product = vec
			continue
		}
		floats.Mul(product, vec)
	}
	return product, nil
}

// CalcTrait computes the trait value for every sample row of the
// abundance table: the ratio of the row's dot products with the
// numerator and denominator vectors, scaled by the coefficient.
//
// A zero denominator yields NaN for that sample - an expected
// biological edge case (e.g. no sialylated glycans detected), not an
// error.
func (f *Formula) CalcTrait(abundance *table.FloatTable) ([]float64, error) {
	if !f.initialized {
		return nil, &EvalError{
			Code:    ErrCodeNotInitialized,
			Formula: f.Name,
			Message: "CalcTrait called before Initialize",
		}
	}
	cols := abundance.Columns()
	if len(cols) != len(f.ids) {
		return nil, f.shapeError(len(cols))
	}
	for i, id := range f.ids {
		if cols[i] != id {
			return nil, f.shapeError(len(cols))
		}
	}

	nSamples, _ := abundance.Dims()
	out := make([]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		row := abundance.Row(i)
		num := floats.Dot(row, f.numVec)
		den := floats.Dot(row, f.denVec)
		if den == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = num / den * f.Coefficient
	}
	return out, nil
}

func (f *Formula) shapeError(got int) error {
	return &EvalError{
		Code:    ErrCodeShapeMismatch,
		Formula: f.Name,
		Message: fmt.Sprintf("abundance columns do not match the initialized glycan-id order (%d columns vs %d ids)", got, len(f.ids)),
	}
}

// Expression renders the formula back to expression syntax. The //
// shortcut is rendered expanded, since duplication happens at parse
// time.
func (f *Formula) Expression() string {
	var b strings.Builder
	b.WriteString(f.Name)
	b.WriteString(" = (")
	b.WriteString(renderTerms(f.Numerator))
	b.WriteString(") / (")
	b.WriteString(renderTerms(f.Denominator))
	b.WriteString(")")
	if f.Coefficient != 1 {
		fmt.Fprintf(&b, " * %g", f.Coefficient)
	}
	return b.String()
}

func renderTerms(terms []Term) string {
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, " * ")
}

// EvaluateAll initializes nothing; it calculates every (already
// initialized) formula against the abundance table and assembles the
// derived trait table: sample rows by trait columns.
func EvaluateAll(formulas []*Formula, abundance *table.FloatTable) (*table.FloatTable, error) {
	samples := abundance.Rows()
	names := make([]string, len(formulas))
	columns := make([][]float64, len(formulas))
	for j, f := range formulas {
		values, err := f.CalcTrait(abundance)
		if err != nil {
			return nil, err
		}
		names[j] = f.Name
		columns[j] = values
	}

	data := make([]float64, 0, len(samples)*len(formulas))
	for i := range samples {
		for j := range formulas {
			data = append(data, columns[j][i])
		}
	}
	return table.New(samples, names, data)
}
