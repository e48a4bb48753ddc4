package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aldhelm/cantus/internal/diff"
	"github.com/aldhelm/cantus/internal/ikr"
	"github.com/aldhelm/cantus/internal/pipeline"
	"github.com/aldhelm/cantus/internal/profile"
	"github.com/aldhelm/cantus/internal/store"
	"github.com/aldhelm/cantus/internal/tlr"
	"github.com/aldhelm/cantus/internal/validate"
)

// ApplyResult holds apply results for JSON output.
type ApplyResult struct {
	RequestID   string               `json:"request_id"`
	Accepted    bool                 `json:"accepted"`
	ScoreID     string               `json:"score_id,omitempty"`
	ParseErrors tlr.ParseErrors      `json:"parse_errors,omitempty"`
	Violations  []validate.Violation `json:"violations,omitempty"`
	Diff        []diff.Entry         `json:"diff,omitempty"`
	Rendered    string               `json:"rendered,omitempty"`
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	var flagsArg, timeSig, style string
	var profileName, profilesDir string
	var noStore bool

	cmd := &cobra.Command{
		Use:   "apply <original.tlr> <response.tlr>",
		Short: "Run a model response through the pipeline",
		Long: `Run a pre-produced model response through decode, validation, and
diff against the original score.

Permissions come from --flags, or from a named profile in a CUE
profiles directory via --profile/--profiles. On acceptance the new
snapshot is appended to the store behind the original; on rejection
nothing is written and exit code 1 is returned with the reasons.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(rootOpts, applyArgs{
				originalPath: args[0],
				responsePath: args[1],
				flagsArg:     flagsArg,
				timeSig:      timeSig,
				style:        style,
				profileName:  profileName,
				profilesDir:  profilesDir,
				noStore:      noStore,
			}, cmd)
		},
	}

	cmd.Flags().StringVar(&flagsArg, "flags", "", "comma-separated permission flags")
	cmd.Flags().StringVar(&timeSig, "time", "4/4", "time signature of the original score")
	cmd.Flags().StringVar(&style, "style", "", "style tag of the original score")
	cmd.Flags().StringVar(&profileName, "profile", "", "transformation profile name")
	cmd.Flags().StringVar(&profilesDir, "profiles", "", "directory of CUE profile definitions")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "skip appending accepted snapshots to the store")

	return cmd
}

type applyArgs struct {
	originalPath string
	responsePath string
	flagsArg     string
	timeSig      string
	style        string
	profileName  string
	profilesDir  string
	noStore      bool
}

func runApply(opts *RootOptions, args applyArgs, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	flags, err := resolveFlags(args, formatter)
	if err != nil {
		return err
	}

	original, err := loadScore(args.originalPath, args.timeSig, args.style)
	if err != nil {
		_ = formatter.Error(ErrCodeParse, err.Error(), nil)
		return err
	}

	response, err := readInput(args.responsePath)
	if err != nil {
		_ = formatter.Error(ErrCodeReadFailed, err.Error(), nil)
		return err
	}

	formatter.VerboseLog("Applying with flags [%s]", flags.String())

	outcome, err := pipeline.Apply(original, response, flags)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "apply", err)
	}

	if outcome.Accepted && !args.noStore {
		if err := persistOutcome(cmd.Context(), opts.DBPath, original, outcome, flags); err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "persisting snapshot", err)
		}
		formatter.VerboseLog("Appended snapshot %s to %s", ikr.ScoreID(outcome.Score), opts.DBPath)
	}

	return outputOutcome(formatter, outcome)
}

// resolveFlags picks the flag set from --flags or a profile.
// A profile's prompt preamble and retry budget only matter when a
// live model is invoked; apply consumes a pre-produced response, so
// only the profile's flags apply here.
func resolveFlags(args applyArgs, formatter *OutputFormatter) (validate.FlagSet, error) {
	if args.profileName == "" {
		return parseFlagsArg(args.flagsArg)
	}

	if args.flagsArg != "" {
		err := NewExitError(ExitCommandError, "--flags and --profile are mutually exclusive")
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return nil, err
	}
	if args.profilesDir == "" {
		err := NewExitError(ExitCommandError, "--profile requires --profiles")
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return nil, err
	}

	profiles, err := profile.LoadDir(args.profilesDir)
	if err != nil {
		_ = formatter.Error(ErrCodeProfile, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "loading profiles", err)
	}

	p, err := profile.Find(profiles, args.profileName)
	if err != nil {
		_ = formatter.Error(ErrCodeProfile, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "resolving profile", err)
	}

	formatter.VerboseLog("Using profile %q", p.Name)
	return p.Flags, nil
}

// persistOutcome appends the original and the accepted candidate to
// the snapshot log. Appends are idempotent, so re-applying the same
// transformation does not duplicate rows.
func persistOutcome(ctx context.Context, dbPath string, original *ikr.Score, outcome *pipeline.Outcome, flags validate.FlagSet) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	originalID := ikr.ScoreID(original)
	if _, _, err := st.Append(ctx, store.Snapshot{
		ID:  originalID,
		TLR: tlr.Encode(original),
	}); err != nil {
		return err
	}

	_, _, err = st.Append(ctx, store.Snapshot{
		ID:        ikr.ScoreID(outcome.Score),
		TLR:       tlr.Encode(outcome.Score),
		ParentID:  originalID,
		Flags:     flags.String(),
		RequestID: outcome.RequestID,
	})
	return err
}

// outputOutcome reports the pipeline outcome in the configured format.
func outputOutcome(formatter *OutputFormatter, outcome *pipeline.Outcome) error {
	result := ApplyResult{
		RequestID:   outcome.RequestID,
		Accepted:    outcome.Accepted,
		ParseErrors: outcome.ParseErrors,
		Violations:  outcome.Violations,
		Diff:        outcome.Diff,
	}
	if outcome.Accepted {
		result.ScoreID = ikr.ScoreID(outcome.Score)
		result.Rendered = diff.Render(outcome.Diff)
	}

	if formatter.Format == "json" {
		if outcome.Accepted {
			return formatter.Success(result)
		}
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error:  rejectionError(outcome),
		}
		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "candidate rejected")
	}

	if outcome.Accepted {
		fmt.Fprintln(formatter.Writer, "✓ Candidate accepted")
		fmt.Fprintln(formatter.Writer)
		fmt.Fprintln(formatter.Writer, diff.Render(outcome.Diff))
		return nil
	}

	fmt.Fprintln(formatter.Writer, "✗ Candidate rejected")
	fmt.Fprintln(formatter.Writer)
	for _, pe := range outcome.ParseErrors {
		fmt.Fprintf(formatter.Writer, "  %s\n", pe.Error())
	}
	for _, v := range outcome.Violations {
		fmt.Fprintf(formatter.Writer, "  %s\n", v.Error())
	}
	return NewExitError(ExitFailure, "candidate rejected")
}

func rejectionError(outcome *pipeline.Outcome) *CLIError {
	if len(outcome.ParseErrors) > 0 {
		return &CLIError{Code: ErrCodeParse, Message: outcome.ParseErrors.First().Error()}
	}
	if len(outcome.Violations) > 0 {
		return &CLIError{Code: ErrCodeRejected, Message: outcome.Violations[0].Error()}
	}
	return &CLIError{Code: ErrCodeGeneric, Message: "rejected"}
}
