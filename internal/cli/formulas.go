package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/glybio/glytrait/internal/formula"
)

// FormulasOptions holds flags for the formulas command.
type FormulasOptions struct {
	*RootOptions
	File       string
	SiaLinkage bool
}

// FormulaInfo is one listed formula.
type FormulaInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Expression  string `json:"expression"`
	SiaLinkage  bool   `json:"sia_linkage"`
}

// FormulaListing is the formulas command's result payload.
type FormulaListing struct {
	Formulas []FormulaInfo `json:"formulas"`
}

func (l FormulaListing) String() string {
	var b strings.Builder
	for _, f := range l.Formulas {
		linkage := ""
		if f.SiaLinkage {
			linkage = " [sia-linkage]"
		}
		fmt.Fprintf(&b, "%s%s: %s\n    %s\n", f.Name, linkage, f.Description, f.Expression)
	}
	return strings.TrimRight(b.String(), "\n")
}

// NewFormulasCommand creates the formulas command.
func NewFormulasCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FormulasOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "formulas",
		Short: "List and validate trait formulas",
		Long: `List the built-in formula library, optionally merged with a user
formula file. Parsing the user file validates it without running any
analysis.

Example:
  glytrait formulas
  glytrait formulas --file ./my-formulas.txt --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listFormulas(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.File, "file", "", "user formula file merged after the defaults")
	cmd.Flags().BoolVar(&opts.SiaLinkage, "sia-linkage", true, "include linkage-specific formulas")

	return cmd
}

func listFormulas(opts *FormulasOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	formulas, err := formula.Load(opts.File, opts.SiaLinkage)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to load formulas", err)
	}
	if opts.File != "" {
		formatter.VerboseLog("merged user formula file %s", opts.File)
	}
	formatter.VerboseLog("loaded %d formulas", len(formulas))

	listing := FormulaListing{Formulas: make([]FormulaInfo, len(formulas))}
	for i, f := range formulas {
		listing.Formulas[i] = FormulaInfo{
			Name:        f.Name,
			Description: f.Description,
			Expression:  f.Expression(),
			SiaLinkage:  f.SiaLinkage(),
		}
	}
	return formatter.Success(listing)
}
