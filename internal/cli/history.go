package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aldhelm/cantus/internal/store"
)

// HistoryEntry is one snapshot row for JSON output.
type HistoryEntry struct {
	Seq       int64  `json:"seq"`
	ID        string `json:"id"`
	ParentID  string `json:"parent_id,omitempty"`
	Flags     string `json:"flags,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	var lineageOf string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the snapshot log",
		Long: `List the snapshot log in append order, or with --lineage the parent
chain of one snapshot from the initial state forward.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(rootOpts, lineageOf, cmd)
		},
	}

	cmd.Flags().StringVar(&lineageOf, "lineage", "", "show the ancestry of the given snapshot id")

	return cmd
}

func runHistory(opts *RootOptions, lineageOf string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	if _, err := os.Stat(opts.DBPath); os.IsNotExist(err) {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("store not found: %s", opts.DBPath), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("store not found: %s", opts.DBPath))
	}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening store", err)
	}
	defer st.Close()

	ctx := cmd.Context()

	var snaps []store.Snapshot
	if lineageOf != "" {
		snaps, err = st.Lineage(ctx, lineageOf)
	} else {
		snaps, err = st.List(ctx)
	}
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "reading store", err)
	}

	formatter.VerboseLog("%d snapshot(s)", len(snaps))

	if opts.Format == "json" {
		entries := make([]HistoryEntry, len(snaps))
		for i, s := range snaps {
			entries[i] = HistoryEntry{
				Seq:       s.Seq,
				ID:        s.ID,
				ParentID:  s.ParentID,
				Flags:     s.Flags,
				RequestID: s.RequestID,
			}
		}
		return formatter.Success(entries)
	}

	if len(snaps) == 0 {
		fmt.Fprintln(formatter.Writer, "No snapshots.")
		return nil
	}
	for _, s := range snaps {
		line := fmt.Sprintf("%4d  %s", s.Seq, s.ID)
		if s.Flags != "" {
			line += fmt.Sprintf("  [%s]", s.Flags)
		}
		fmt.Fprintln(formatter.Writer, line)
	}
	return nil
}
