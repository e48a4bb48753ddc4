package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aldhelm/cantus/internal/diff"
)

// DiffResult holds diff results for JSON output.
type DiffResult struct {
	Entries  []diff.Entry `json:"entries"`
	Rendered string       `json:"rendered"`
}

// NewDiffCommand creates the diff command.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	var timeSig, style string

	cmd := &cobra.Command{
		Use:   "diff <before.tlr> <after.tlr>",
		Short: "Describe the musical changes between two scores",
		Long: `Analyze two same-shaped scores and describe the changes musically:
transpositions grouped by interval, rhythm changes by duration name,
harmony and lyric edits by position.

Both scores must share part/voice/measure structure; diff presumes a
pair that already passed validation.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(rootOpts, args[0], args[1], timeSig, style, cmd)
		},
	}

	cmd.Flags().StringVar(&timeSig, "time", "4/4", "time signature of both scores")
	cmd.Flags().StringVar(&style, "style", "", "style tag of the before score")

	return cmd
}

func runDiff(opts *RootOptions, beforePath, afterPath, timeSig, style string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	before, err := loadScore(beforePath, timeSig, style)
	if err != nil {
		_ = formatter.Error(ErrCodeParse, err.Error(), nil)
		return err
	}

	after, err := loadScore(afterPath, timeSig, style)
	if err != nil {
		_ = formatter.Error(ErrCodeParse, err.Error(), nil)
		return err
	}
	after = after.WithAttrs(before.Attrs)

	entries, err := diff.Analyze(before, after)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "diff", err)
	}

	formatter.VerboseLog("Found %d change(s)", len(entries))

	if opts.Format == "json" {
		return formatter.Success(DiffResult{Entries: entries, Rendered: diff.Render(entries)})
	}
	fmt.Fprintln(formatter.Writer, diff.Render(entries))
	return nil
}
