package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "glytrait.yaml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
mode: composition
sia_linkage: false
abundance_file: abundance.csv
glycan_file: glycans.csv
correlation_threshold: 0.9
output_file: out/traits.csv
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	dir := filepath.Dir(path)
	assert.Equal(t, "composition", cfg.Mode)
	assert.False(t, cfg.SiaLinkage)
	assert.Equal(t, filepath.Join(dir, "abundance.csv"), cfg.AbundanceFile)
	assert.Equal(t, filepath.Join(dir, "glycans.csv"), cfg.GlycanFile)
	assert.Equal(t, filepath.Join(dir, "out/traits.csv"), cfg.OutputFile)
	assert.Equal(t, 0.9, cfg.CorrelationThreshold)
	assert.Empty(t, cfg.Archive)
}

func TestLoad_DefaultsKeptForAbsentFields(t *testing.T) {
	path := writeConfig(t, `
abundance_file: abundance.csv
glycan_file: glycans.csv
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "structure", cfg.Mode)
	assert.True(t, cfg.SiaLinkage)
	assert.Equal(t, 1.0, cfg.CorrelationThreshold)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "traits.csv"), cfg.OutputFile)
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, `
abundance_file: abundance.csv
glycan_file: glycans.csv
formula_fiel: typo.txt
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "formula_fiel")
}

func TestValidate(t *testing.T) {
	valid := Default()
	valid.AbundanceFile = "a.csv"
	valid.GlycanFile = "g.csv"
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			name:   "bad mode",
			mutate: func(c *Config) { c.Mode = "graph" },
			want:   "mode",
		},
		{
			name:   "missing abundance",
			mutate: func(c *Config) { c.AbundanceFile = "" },
			want:   "abundance_file",
		},
		{
			name:   "neither glycan source",
			mutate: func(c *Config) { c.GlycanFile = "" },
			want:   "exactly one",
		},
		{
			name: "both glycan sources",
			mutate: func(c *Config) {
				c.MetaTableFile = "m.csv"
			},
			want: "exactly one",
		},
		{
			name:   "threshold out of range",
			mutate: func(c *Config) { c.CorrelationThreshold = 1.5 },
			want:   "correlation_threshold",
		},
		{
			name:   "negative threshold other than -1",
			mutate: func(c *Config) { c.CorrelationThreshold = -0.5 },
			want:   "correlation_threshold",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_DisabledThreshold(t *testing.T) {
	cfg := Default()
	cfg.AbundanceFile = "a.csv"
	cfg.GlycanFile = "g.csv"
	cfg.CorrelationThreshold = -1
	assert.NoError(t, cfg.Validate())
}
