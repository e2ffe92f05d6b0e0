package cli

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGlycansCSV = `id,structure
G1,GlcNAc(GlcNAc(Man(Man(GlcNAc(Gal(Neu5Ac@3)))(Man(GlcNAc(Gal(Neu5Ac@6)))))))
G2,GlcNAc(Fuc)(GlcNAc(Man(GlcNAc)(Man(GlcNAc(Gal(Neu5Ac@3))))(Man(GlcNAc(Gal(Neu5Ac@6))))))
G3,GlcNAc(GlcNAc(Man(Man(Man))(Man(Man))))
G4,GlcNAc(GlcNAc(Man(Man(GlcNAc(Gal(Neu5Ac@3)))(GlcNAc(Gal)))(Man(GlcNAc(Fuc)(Gal(Neu5Ac@6)))(GlcNAc(Gal)))))
G5,GlcNAc(Fuc)(GlcNAc(Man(Man(GlcNAc(Fuc)(Gal(Fuc)(Neu5Ac@3))))(Man)))
`

const testAbundanceCSV = `sample,G1,G2,G3,G4,G5
s1,1,1,1,1,1
s2,2,0,1,0.5,1
s3,0,0,5,0,0
s4,1,0,0,0,0
s5,0,2,0,1,3
`

// writeRunFixture lays out a full run working directory and returns
// the config path.
func writeRunFixture(t *testing.T, extraConfig string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "glycans.csv"), []byte(testGlycansCSV), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "abundance.csv"), []byte(testAbundanceCSV), 0o644))

	cfg := `
mode: structure
sia_linkage: true
abundance_file: abundance.csv
glycan_file: glycans.csv
correlation_threshold: -1
output_file: traits.csv
` + extraConfig
	cfgPath := filepath.Join(dir, "glytrait.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	return cfgPath, dir
}

func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRun_EndToEnd(t *testing.T) {
	cfgPath, dir := writeRunFixture(t, "")

	stdout, _, err := executeCommand(t, "run", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "traits kept")

	traits, err := LoadAbundanceCSV(filepath.Join(dir, "traits.csv"))
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2", "s3", "s4", "s5"}, traits.Rows())

	// CS = nS-weighted abundance over complex-type abundance. Sample
	// s4 carries only the bi-antennary disialylated glycan: 2.
	v, err := traits.At("s4", "CS")
	require.NoError(t, err)
	assert.InDelta(t, 2.0, v, 1e-12)

	v, err = traits.At("s1", "CS")
	require.NoError(t, err)
	assert.InDelta(t, 1.75, v, 1e-12)

	// Sample s3 carries only the high-mannose glycan; complex-type
	// denominators are zero there.
	v, err = traits.At("s3", "CS")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v))

	// MHy divides by hybrid abundance; no fixture glycan is hybrid, so
	// the column is all NaN and pruned as degenerate.
	assert.NotContains(t, traits.Columns(), "MHy")
	assert.Contains(t, traits.Columns(), "TM")
}

func TestRun_ArchiveAndHistory(t *testing.T) {
	cfgPath, dir := writeRunFixture(t, "archive: runs.db\n")

	_, _, err := executeCommand(t, "run", "--config", cfgPath)
	require.NoError(t, err)

	stdout, _, err := executeCommand(t, "history", "--archive", filepath.Join(dir, "runs.db"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "mode=structure")
}

func TestRun_MetaTableFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "abundance.csv"), []byte(`sample,G1,G2,G3
s1,1,1,1
s2,3,1,0
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "meta.csv"), []byte(`id,isComplex,nS
G1,true,2
G2,true,0
G3,false,1
`), 0o644))
	cfgPath := filepath.Join(dir, "glytrait.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
mode: structure
abundance_file: abundance.csv
meta_table_file: meta.csv
correlation_threshold: -1
output_file: traits.csv
`), 0o644))

	stdout, _, err := executeCommand(t, "run", "--config", cfgPath, "--format", "json", "--verbose")
	require.NoError(t, err)

	// Only CS and TC reference nothing beyond isComplex and nS; every
	// other default formula is skipped against this sparse table.
	assert.Contains(t, stdout, `"status":"ok"`)
	assert.Contains(t, stdout, `"formulas_skipped"`)

	traits, err := LoadAbundanceCSV(filepath.Join(dir, "traits.csv"))
	require.NoError(t, err)
	assert.Contains(t, traits.Columns(), "CS")

	// CS for s1: nS-weighted complex abundance 2 over complex
	// abundance 2.
	v, err := traits.At("s1", "CS")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v, 1e-12)
}

func TestRun_MissingConfigFlag(t *testing.T) {
	_, _, err := executeCommand(t, "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config")
}

func TestRun_AbundanceGlycanMismatch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "glycans.csv"), []byte(testGlycansCSV), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "abundance.csv"), []byte(`sample,G1,G2
s1,1,1
`), 0o644))
	cfgPath := filepath.Join(dir, "glytrait.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
abundance_file: abundance.csv
glycan_file: glycans.csv
output_file: traits.csv
`), 0o644))

	_, _, err := executeCommand(t, "run", "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not cover")
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestRoot_InvalidFormat(t *testing.T) {
	_, _, err := executeCommand(t, "--format", "xml", "formulas")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRun_NoApplicableFormulas(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "abundance.csv"), []byte(`sample,G1,G2
s1,1,1
s2,3,1
`), 0o644))
	// No default formula references this property, so every formula is
	// skipped as missing.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "meta.csv"), []byte(`id,unusedProperty
G1,1
G2,2
`), 0o644))
	cfgPath := filepath.Join(dir, "glytrait.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
mode: structure
abundance_file: abundance.csv
meta_table_file: meta.csv
correlation_threshold: -1
output_file: traits.csv
`), 0o644))

	_, _, err := executeCommand(t, "run", "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no formulas apply")
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
