// Package config loads and validates the YAML run configuration for
// the trait pipeline.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/glybio/glytrait/internal/filter"
	"github.com/glybio/glytrait/internal/meta"
)

// Config describes one analysis run.
type Config struct {
	// Mode selects the glycan variant: "structure" or "composition".
	Mode string `yaml:"mode"`

	// SiaLinkage includes linkage-specific meta-properties and
	// formulas when true.
	SiaLinkage bool `yaml:"sia_linkage"`

	// AbundanceFile is the preprocessed abundance CSV: sample rows by
	// glycan columns. Required.
	AbundanceFile string `yaml:"abundance_file"`

	// GlycanFile is the glycan CSV: one id,text row per glycan, where
	// text is a structure encoding or a composition string per Mode.
	// Exactly one of GlycanFile and MetaTableFile must be set.
	GlycanFile string `yaml:"glycan_file,omitempty"`

	// MetaTableFile supplies a prebuilt meta-property CSV directly,
	// bypassing glycan parsing and structural computation.
	MetaTableFile string `yaml:"meta_table_file,omitempty"`

	// FormulaFile is an optional user formula file merged after the
	// built-in defaults.
	FormulaFile string `yaml:"formula_file,omitempty"`

	// CorrelationThreshold is the collinearity pruning threshold in
	// [0, 1], or -1 to disable pruning.
	CorrelationThreshold float64 `yaml:"correlation_threshold"`

	// OutputFile is where the derived trait CSV is written.
	OutputFile string `yaml:"output_file"`

	// Archive is an optional SQLite database path; when set, each run
	// is recorded for the history command.
	Archive string `yaml:"archive,omitempty"`
}

// Default returns the configuration used when a field is absent from
// the file.
func Default() Config {
	return Config{
		Mode:                 "structure",
		SiaLinkage:           true,
		CorrelationThreshold: 1.0,
		OutputFile:           "traits.csv",
	}
}

// Load reads and validates a configuration file. Unknown fields are
// rejected to catch typos; absent fields keep their defaults. Relative
// file paths are resolved against the configuration file's directory.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	base := filepath.Dir(path)
	for _, p := range []*string{
		&cfg.AbundanceFile, &cfg.GlycanFile, &cfg.MetaTableFile,
		&cfg.FormulaFile, &cfg.OutputFile, &cfg.Archive,
	} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values and cross-field constraints.
func (c Config) Validate() error {
	if _, err := meta.ParseMode(c.Mode); err != nil {
		return err
	}
	if c.AbundanceFile == "" {
		return fmt.Errorf("abundance_file is required")
	}
	if (c.GlycanFile == "") == (c.MetaTableFile == "") {
		return fmt.Errorf("exactly one of glycan_file and meta_table_file must be set")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("output_file is required")
	}
	if t := c.CorrelationThreshold; t != filter.DisableCorrelation && (t < 0 || t > 1) {
		return fmt.Errorf("correlation_threshold %v must be in [0, 1] or -1 to disable", t)
	}
	return nil
}
