package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/glybio/glytrait/internal/config"
	"github.com/glybio/glytrait/internal/filter"
	"github.com/glybio/glytrait/internal/formula"
	"github.com/glybio/glytrait/internal/meta"
	"github.com/glybio/glytrait/internal/store"
	"github.com/glybio/glytrait/internal/table"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Config string
}

// RunSummary is the run command's result payload.
type RunSummary struct {
	Samples         int    `json:"samples"`
	Glycans         int    `json:"glycans"`
	FormulasLoaded  int    `json:"formulas_loaded"`
	FormulasSkipped int    `json:"formulas_skipped"`
	TraitsKept      int    `json:"traits_kept"`
	OutputFile      string `json:"output_file"`
	RunID           string `json:"run_id,omitempty"`
}

func (s RunSummary) String() string {
	out := fmt.Sprintf("%d samples x %d glycans: %d formulas evaluated (%d skipped), %d traits kept -> %s",
		s.Samples, s.Glycans, s.FormulasLoaded, s.FormulasSkipped, s.TraitsKept, s.OutputFile)
	if s.RunID != "" {
		out += fmt.Sprintf(" (archived as %s)", s.RunID)
	}
	return out
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compute derived traits from abundance data",
		Long: `Run the trait pipeline: load the abundance and glycan files named by
the config, build the meta-property table, initialize and evaluate the
formula set, prune redundant traits, and write the derived trait CSV.

Example:
  glytrait run --config ./glytrait.yaml
  glytrait run --config ./glytrait.yaml --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "path to run configuration YAML (required)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runPipeline(opts *RunOptions, cmd *cobra.Command) error {
	logLevel := slog.LevelInfo
	if !opts.Verbose {
		logLevel = slog.LevelWarn
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	}))

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	mode, err := meta.ParseMode(cfg.Mode)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	logger.Info("loading abundance table", "path", cfg.AbundanceFile)
	abundance, err := LoadAbundanceCSV(cfg.AbundanceFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load abundance table", err)
	}

	metaTable, err := loadMetaTable(cfg, mode, logger)
	if err != nil {
		return err
	}

	// Align the abundance columns to the meta-table row order once,
	// up front; the evaluation core requires exact order and will not
	// reindex.
	abundance, err = abundance.SelectColumns(metaTable.IDs())
	if err != nil {
		return WrapExitError(ExitFailure, "abundance table does not cover the glycan set", err)
	}

	formulas, err := formula.Load(cfg.FormulaFile, cfg.SiaLinkage)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to load formulas", err)
	}

	// A formula referencing a property absent from the current mode's
	// table is skipped with a warning; every other initialization
	// failure aborts the run.
	initialized := make([]*formula.Formula, 0, len(formulas))
	skipped := 0
	for _, f := range formulas {
		if err := f.Initialize(metaTable); err != nil {
			if meta.IsMissingProperty(err) {
				logger.Warn("skipping formula", "name", f.Name, "reason", err)
				skipped++
				continue
			}
			return WrapExitError(ExitFailure, fmt.Sprintf("failed to initialize formula %s", f.Name), err)
		}
		initialized = append(initialized, f)
	}
	if len(initialized) == 0 {
		return WrapExitError(ExitFailure, "no formulas apply to the meta-property table",
			fmt.Errorf("all %d formulas were skipped", skipped))
	}

	logger.Info("evaluating formulas", "count", len(initialized))
	traits, err := formula.EvaluateAll(initialized, abundance)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to evaluate formulas", err)
	}

	kept, traits, err := filter.Prune(initialized, traits, cfg.CorrelationThreshold)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to prune traits", err)
	}
	logger.Info("pruned traits", "kept", len(kept), "dropped", len(initialized)-len(kept))

	if err := writeOutput(cfg.OutputFile, traits); err != nil {
		return WrapExitError(ExitCommandError, "failed to write trait table", err)
	}

	summary := RunSummary{
		Samples:         len(traits.Rows()),
		Glycans:         len(metaTable.IDs()),
		FormulasLoaded:  len(initialized),
		FormulasSkipped: skipped,
		TraitsKept:      len(kept),
		OutputFile:      cfg.OutputFile,
	}

	if cfg.Archive != "" {
		runID, err := archiveRun(cfg, kept, traits)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to archive run", err)
		}
		logger.Info("archived run", "id", runID, "path", cfg.Archive)
		summary.RunID = runID
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	return formatter.Success(summary)
}

func loadMetaTable(cfg config.Config, mode meta.Mode, logger *slog.Logger) (*meta.Table, error) {
	if cfg.MetaTableFile != "" {
		logger.Info("loading meta-property table", "path", cfg.MetaTableFile)
		tbl, err := LoadMetaTableCSV(cfg.MetaTableFile)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load meta-property table", err)
		}
		return tbl, nil
	}

	logger.Info("loading glycans", "path", cfg.GlycanFile, "mode", mode)
	entries, err := LoadGlycanCSV(cfg.GlycanFile, mode)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "failed to load glycans", err)
	}
	tbl, err := meta.BuildTable(entries, mode, cfg.SiaLinkage)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "failed to build meta-property table", err)
	}
	return tbl, nil
}

func writeOutput(path string, traits *table.FloatTable) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteTraitCSV(f, traits); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func archiveRun(cfg config.Config, kept []*formula.Formula, traits *table.FloatTable) (string, error) {
	st, err := store.Open(cfg.Archive)
	if err != nil {
		return "", err
	}
	defer st.Close()

	return st.SaveRun(context.Background(), store.Meta{
		Mode:                 cfg.Mode,
		SiaLinkage:           cfg.SiaLinkage,
		CorrelationThreshold: cfg.CorrelationThreshold,
	}, kept, traits)
}
