package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aldhelm/cantus/internal/validate"
)

// ValidationResult holds validation results for JSON output.
type ValidationResult struct {
	Pass       bool                 `json:"pass"`
	Violations []validate.Violation `json:"violations,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var flagsArg, timeSig, style string

	cmd := &cobra.Command{
		Use:   "validate <original.tlr> <candidate.tlr>",
		Short: "Validate a candidate against an original under flags",
		Long: `Validate a transformed score against the original snapshot.

Checks run in order: structural preservation, event integrity, then
flag compliance for the permissions granted with --flags. Violations
are collected exhaustively and reported with V-codes and locations.
Exit code 1 means the candidate would be rejected.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidateCmd(rootOpts, args[0], args[1], flagsArg, timeSig, style, cmd)
		},
	}

	cmd.Flags().StringVar(&flagsArg, "flags", "", "comma-separated permission flags (e.g. transpose,rhythm_simplify)")
	cmd.Flags().StringVar(&timeSig, "time", "4/4", "time signature of the original score")
	cmd.Flags().StringVar(&style, "style", "", "style tag of the original score")

	return cmd
}

func runValidateCmd(opts *RootOptions, originalPath, candidatePath, flagsArg, timeSig, style string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	flags, err := parseFlagsArg(flagsArg)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return err
	}

	original, err := loadScore(originalPath, timeSig, style)
	if err != nil {
		_ = formatter.Error(ErrCodeParse, err.Error(), nil)
		return err
	}

	candidate, err := loadScore(candidatePath, timeSig, style)
	if err != nil {
		_ = formatter.Error(ErrCodeParse, err.Error(), nil)
		return err
	}

	// The candidate inherits the original's attributes wholesale; a
	// legitimate style change arrives through apply, not here.
	candidate = candidate.WithAttrs(original.Attrs)

	formatter.VerboseLog("Validating with flags [%s]", flags.String())
	result := validate.Check(original, candidate, flags)

	if result.Pass {
		if opts.Format == "json" {
			return formatter.Success(ValidationResult{Pass: true})
		}
		fmt.Fprintln(formatter.Writer, "✓ Candidate valid")
		return nil
	}

	return outputViolations(formatter, result.Violations)
}

// outputViolations reports a failing validation result.
func outputViolations(formatter *OutputFormatter, violations []validate.Violation) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Pass: false, Violations: violations},
			Error: &CLIError{
				Code:    violations[0].Code,
				Message: violations[0].Message,
			},
		}
		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d violation(s)", len(violations)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, v := range violations {
		fmt.Fprintf(formatter.Writer, "  %s\n", v.Error())
	}
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d violation(s)", len(violations)))
}
