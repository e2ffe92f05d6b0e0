package filter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glybio/glytrait/internal/formula"
	"github.com/glybio/glytrait/internal/table"
)

func mustParse(t *testing.T, expr string) *formula.Formula {
	t.Helper()
	f, err := formula.ParseExpression(expr)
	require.NoError(t, err)
	return f
}

func TestIsChildOf_GeneralRule(t *testing.T) {
	parent := mustParse(t, "CS = (nS) // (isComplex)")
	child := mustParse(t, "CSF = (nS * isFucosylated) // (isComplex)")

	assert.True(t, IsChildOf(child, parent))
	assert.False(t, IsChildOf(parent, child), "proper-superset rule is asymmetric")
}

func TestIsChildOf_Irreflexive(t *testing.T) {
	f := mustParse(t, "CS = (nS) // (isComplex)")
	assert.False(t, IsChildOf(f, f))
}

func TestIsChildOf_DifferentDenominators(t *testing.T) {
	a := mustParse(t, "X = (nS * isComplex) / (isComplex)")
	b := mustParse(t, "Y = (nS) / (1)")
	assert.False(t, IsChildOf(a, b))
	assert.False(t, IsChildOf(b, a))
}

func TestIsChildOf_EqualTermSets(t *testing.T) {
	a := mustParse(t, "X = (nS) // (isComplex)")
	b := mustParse(t, "Y = (nS) // (isComplex)")
	// Same terms, different name: neither is a refinement.
	assert.False(t, IsChildOf(a, b))
	assert.False(t, IsChildOf(b, a))
}

func TestIsChildOf_SiaFamilyOverrides(t *testing.T) {
	cs := mustParse(t, "CS = (nS) // (isComplex)")
	cl := mustParse(t, "CL = (nL) // (isComplex)")
	ce := mustParse(t, "CE = (nE) // (isComplex)")
	a1s := mustParse(t, "A1S = (nS) // (is1Antennary)")
	a2s := mustParse(t, "A2S = (nS) // (is2Antennary)")
	a1l := mustParse(t, "A1L = (nL) // (is1Antennary)")
	a1e := mustParse(t, "A1E = (nE) // (is1Antennary)")

	// The denominators differ, so only the name override applies.
	assert.True(t, IsChildOf(a1s, cs))
	assert.True(t, IsChildOf(a2s, cs))
	assert.True(t, IsChildOf(a1l, cl))
	assert.True(t, IsChildOf(a1e, ce))

	// One-directional, and never across families.
	assert.False(t, IsChildOf(cs, a1s))
	assert.False(t, IsChildOf(a1s, cl))
}

func pruneFixture(t *testing.T, exprs []string, names []string, data []float64) ([]*formula.Formula, *table.FloatTable) {
	t.Helper()
	formulas := make([]*formula.Formula, len(exprs))
	for i, e := range exprs {
		formulas[i] = mustParse(t, e)
	}
	samples := make([]string, len(data)/len(names))
	for i := range samples {
		samples[i] = "s" + string(rune('1'+i))
	}
	traits, err := table.New(samples, names, data)
	require.NoError(t, err)
	return formulas, traits
}

func keptNames(formulas []*formula.Formula) []string {
	names := make([]string, len(formulas))
	for i, f := range formulas {
		names[i] = f.Name
	}
	return names
}

func TestPrune_Degenerate(t *testing.T) {
	nan := math.NaN()
	formulas, traits := pruneFixture(t,
		[]string{
			"T1 = (nS) / (1)",
			"T2 = (nG) / (1)",
			"T3 = (nF) / (1)",
		},
		[]string{"T1", "T2", "T3"},
		[]float64{
			1, nan, 0.5,
			2, nan, 0.5,
			3, nan, 0.5,
		},
	)

	kept, filtered, err := Prune(formulas, traits, DisableCorrelation)
	require.NoError(t, err)

	// T2 is all NaN, T3 is constant; only T1 varies.
	assert.Equal(t, []string{"T1"}, keptNames(kept))
	assert.Equal(t, []string{"T1"}, filtered.Columns())
	assert.Equal(t, []string{"s1", "s2", "s3"}, filtered.Rows())
}

func TestPrune_CollinearChildRemoved(t *testing.T) {
	formulas, traits := pruneFixture(t,
		[]string{
			"A1S = (nS) // (is1Antennary)",
			"CS = (nS) // (isComplex)",
		},
		[]string{"A1S", "CS"},
		[]float64{
			1, 2,
			2, 4,
			3, 6,
			4, 8,
		},
	)

	kept, filtered, err := Prune(formulas, traits, 0.9)
	require.NoError(t, err)

	// Perfectly proportional: the child goes, the parent stays.
	assert.Equal(t, []string{"CS"}, keptNames(kept))
	assert.Equal(t, []string{"CS"}, filtered.Columns())
}

func TestPrune_BelowThresholdKeepsBoth(t *testing.T) {
	formulas, traits := pruneFixture(t,
		[]string{
			"A1S = (nS) // (is1Antennary)",
			"CS = (nS) // (isComplex)",
		},
		[]string{"A1S", "CS"},
		[]float64{
			1, 4,
			2, 1,
			3, 3,
			4, 2,
		},
	)

	kept, _, err := Prune(formulas, traits, 0.9)
	require.NoError(t, err)
	assert.Equal(t, []string{"A1S", "CS"}, keptNames(kept))
}

func TestPrune_CorrelationIgnoresNaNSamples(t *testing.T) {
	nan := math.NaN()
	formulas, traits := pruneFixture(t,
		[]string{
			"A1S = (nS) // (is1Antennary)",
			"CS = (nS) // (isComplex)",
		},
		[]string{"A1S", "CS"},
		[]float64{
			1, 2,
			2, 4,
			nan, 6,
			4, 8,
		},
	)

	kept, _, err := Prune(formulas, traits, 0.9)
	require.NoError(t, err)
	assert.Equal(t, []string{"CS"}, keptNames(kept))
}

func TestPrune_DisabledThresholdKeepsCollinearChild(t *testing.T) {
	formulas, traits := pruneFixture(t,
		[]string{
			"A1S = (nS) // (is1Antennary)",
			"CS = (nS) // (isComplex)",
		},
		[]string{"A1S", "CS"},
		[]float64{
			1, 2,
			2, 4,
			3, 6,
		},
	)

	kept, _, err := Prune(formulas, traits, DisableCorrelation)
	require.NoError(t, err)
	assert.Equal(t, []string{"A1S", "CS"}, keptNames(kept))
}

func TestPrune_Errors(t *testing.T) {
	formulas, traits := pruneFixture(t,
		[]string{"T1 = (nS) / (1)"},
		[]string{"T1"},
		[]float64{1, 2},
	)

	_, _, err := Prune(formulas, traits, 1.5)
	assert.ErrorContains(t, err, "threshold")

	_, _, err = Prune(nil, traits, DisableCorrelation)
	assert.ErrorContains(t, err, "formulas")

	other := mustParse(t, "T2 = (nG) / (1)")
	_, _, err = Prune([]*formula.Formula{other}, traits, DisableCorrelation)
	assert.ErrorContains(t, err, "does not match")
}

func TestPrune_SingleSampleDropsEverything(t *testing.T) {
	// With one sample every trait is trivially constant, so the
	// degenerate pass removes the whole set. The result is an empty
	// formula list and a trait table with the sample row but no
	// columns, not a panic.
	formulas, traits := pruneFixture(t,
		[]string{"T1 = (nS) / (1)", "T2 = (nG) / (1)"},
		[]string{"T1", "T2"},
		[]float64{1, 2},
	)

	kept, filtered, err := Prune(formulas, traits, DisableCorrelation)
	require.NoError(t, err)
	assert.Empty(t, kept)
	assert.Equal(t, []string{"s1"}, filtered.Rows())
	assert.Empty(t, filtered.Columns())
}
