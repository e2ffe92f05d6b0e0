package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/glybio/glytrait/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Archive string
}

// RunInfo is one listed archive run.
type RunInfo struct {
	ID                   string    `json:"id"`
	CreatedAt            time.Time `json:"created_at"`
	Mode                 string    `json:"mode"`
	SiaLinkage           bool      `json:"sia_linkage"`
	CorrelationThreshold float64   `json:"correlation_threshold"`
	Samples              int       `json:"samples"`
	Traits               int       `json:"traits"`
}

// RunListing is the history command's result payload.
type RunListing struct {
	Runs []RunInfo `json:"runs"`
}

func (l RunListing) String() string {
	if len(l.Runs) == 0 {
		return "no archived runs"
	}
	var b strings.Builder
	for _, r := range l.Runs {
		fmt.Fprintf(&b, "%s  %s  mode=%s  samples=%d  traits=%d\n",
			r.ID, r.CreatedAt.Format(time.RFC3339), r.Mode, r.Samples, r.Traits)
	}
	return strings.TrimRight(b.String(), "\n")
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived analysis runs",
		Long: `List the runs recorded in a run archive, newest first.

Example:
  glytrait history --archive ./glytrait.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Archive, "archive", "", "path to the run archive database (required)")
	_ = cmd.MarkFlagRequired("archive")

	return cmd
}

func listHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(opts.Archive)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open archive", err)
	}
	defer st.Close()

	runs, err := st.ListRuns(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}
	formatter.VerboseLog("archive %s holds %d runs", opts.Archive, len(runs))

	listing := RunListing{Runs: make([]RunInfo, len(runs))}
	for i, r := range runs {
		listing.Runs[i] = RunInfo{
			ID:                   r.ID,
			CreatedAt:            r.CreatedAt,
			Mode:                 r.Mode,
			SiaLinkage:           r.SiaLinkage,
			CorrelationThreshold: r.CorrelationThreshold,
			Samples:              r.SampleCount,
			Traits:               r.TraitCount,
		}
	}
	return formatter.Success(listing)
}
