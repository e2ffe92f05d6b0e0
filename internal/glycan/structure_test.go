package glycan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Bi-antennary, digalactosylated, disialylated complex glycan.
const biantennaryText = "GlcNAc(GlcNAc(Man(Man(GlcNAc(Gal(Neu5Ac@3)))(Man(GlcNAc(Gal(Neu5Ac@6)))))))"

// Man5 high-mannose glycan.
const man5Text = "GlcNAc(GlcNAc(Man(Man(Man))(Man(Man))))"

func TestParseStructure_Counts(t *testing.T) {
	s, err := ParseStructure(biantennaryText)
	require.NoError(t, err)

	assert.Equal(t, 4, s.MonosaccharideCount(GlcNAc))
	assert.Equal(t, 3, s.MonosaccharideCount(Man))
	assert.Equal(t, 2, s.MonosaccharideCount(Gal))
	assert.Equal(t, 2, s.MonosaccharideCount(Neu5Ac))
	assert.Equal(t, 0, s.MonosaccharideCount(Fuc))
	assert.Equal(t, 11, s.TotalResidues())
}

func TestParseStructure_RenderRoundTrip(t *testing.T) {
	s, err := ParseStructure(biantennaryText)
	require.NoError(t, err)
	assert.Equal(t, biantennaryText, RenderStructure(s))
}

func TestParseStructure_CoreResidues(t *testing.T) {
	s, err := ParseStructure(man5Text)
	require.NoError(t, err)

	core := s.CoreResidues()
	assert.Equal(t, GlcNAc, core[0].Type())
	assert.Equal(t, GlcNAc, core[1].Type())
	assert.Equal(t, Man, core[2].Type())
	assert.Equal(t, Man, core[3].Type())
	assert.Equal(t, Man, core[4].Type())
	assert.True(t, s.IsCore(core[4]))
	assert.False(t, s.IsCore(s.Root().Children()[0].Children()[0].Children()[0].Children()[0]))
}

func TestParseStructure_CoreToleratesCoreFucose(t *testing.T) {
	// Core fucose on the reducing-end GlcNAc must not break the core
	// scan: the scan runs breadth-first skipping fucoses.
	s, err := ParseStructure("GlcNAc(Fuc)(GlcNAc(Man(Man)(Man)))")
	require.NoError(t, err)
	assert.Equal(t, 1, s.MonosaccharideCount(Fuc))
}

func TestParseStructure_Errors(t *testing.T) {
	testCases := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"unknown residue", "GlcNAc(GlcNAc(Xyl(Man)(Man)))"},
		{"unbalanced paren", "GlcNAc(GlcNAc(Man(Man)(Man)"},
		{"trailing garbage", "GlcNAc(GlcNAc(Man(Man)(Man)))x)"},
		{"linkage on non-sialic", "GlcNAc@3(GlcNAc(Man(Man)(Man)))"},
		{"bad linkage position", "GlcNAc(GlcNAc(Man(Man(GlcNAc(Gal(Neu5Ac@4))))(Man)))"},
		{"not an n-glycan core", "Man(Man)(Man)"},
		{"single residue", "GlcNAc"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseStructure(tc.text)
			require.Error(t, err)
			assert.True(t, IsStructureError(err), "want StructureError, got %T", err)
		})
	}
}

func TestTraverse_BreadthFirstOrder(t *testing.T) {
	s, err := ParseStructure(man5Text)
	require.NoError(t, err)

	seq, err := s.Traverse(BreadthFirst, Filter{})
	require.NoError(t, err)

	types := make([]Monosaccharide, len(seq))
	for i, r := range seq {
		types[i] = r.Type()
	}
	assert.Equal(t, []Monosaccharide{GlcNAc, GlcNAc, Man, Man, Man, Man, Man}, types)
}

func TestTraverse_DepthFirstOrder(t *testing.T) {
	s, err := ParseStructure("GlcNAc(Fuc)(GlcNAc(Man(Man)(Man)))")
	require.NoError(t, err)

	seq, err := s.Traverse(DepthFirst, Filter{})
	require.NoError(t, err)

	types := make([]Monosaccharide, len(seq))
	for i, r := range seq {
		types[i] = r.Type()
	}
	assert.Equal(t, []Monosaccharide{GlcNAc, Fuc, GlcNAc, Man, Man, Man}, types)
}

func TestTraverse_SkipFilter(t *testing.T) {
	s, err := ParseStructure("GlcNAc(Fuc)(GlcNAc(Man(Man)(Man)))")
	require.NoError(t, err)

	seq, err := s.Traverse(BreadthFirst, Filter{Skip: []Monosaccharide{Fuc}})
	require.NoError(t, err)
	for _, r := range seq {
		assert.NotEqual(t, Fuc, r.Type())
	}
	assert.Len(t, seq, 5)
}

func TestTraverse_OnlyFilter(t *testing.T) {
	s, err := ParseStructure(biantennaryText)
	require.NoError(t, err)

	seq, err := s.Traverse(BreadthFirst, Filter{Only: []Monosaccharide{Neu5Ac}})
	require.NoError(t, err)
	assert.Len(t, seq, 2)
}

func TestTraverse_SkipAndOnlyRejected(t *testing.T) {
	s, err := ParseStructure(man5Text)
	require.NoError(t, err)

	_, err = s.Traverse(BreadthFirst, Filter{
		Skip: []Monosaccharide{Fuc},
		Only: []Monosaccharide{Man},
	})
	assert.Error(t, err)
}

func TestTraverse_Restartable(t *testing.T) {
	s, err := ParseStructure(man5Text)
	require.NoError(t, err)

	first, err := s.Traverse(BreadthFirst, Filter{})
	require.NoError(t, err)
	second, err := s.Traverse(BreadthFirst, Filter{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
