package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aldhelm/cantus/internal/ikr"
	"github.com/aldhelm/cantus/internal/tlr"
)

// DecodeResult holds decode results for JSON output.
type DecodeResult struct {
	Valid  bool            `json:"valid"`
	Score  *ikr.Score      `json:"score,omitempty"`
	Errors tlr.ParseErrors `json:"errors,omitempty"`
}

// NewDecodeCommand creates the decode command.
func NewDecodeCommand(rootOpts *RootOptions) *cobra.Command {
	var timeSig, style string

	cmd := &cobra.Command{
		Use:   "decode <score.tlr>",
		Short: "Decode TLR text to a JSON score",
		Long: `Decode TLR text into the JSON score representation.

All parse errors are collected and reported together with line numbers
and T-codes, not just the first. Exit code 1 signals a malformed input.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(rootOpts, args[0], timeSig, style, cmd)
		},
	}

	cmd.Flags().StringVar(&timeSig, "time", "4/4", "time signature to attach to the decoded score")
	cmd.Flags().StringVar(&style, "style", "", "style tag to attach to the decoded score")

	return cmd
}

func runDecode(opts *RootOptions, path, timeSig, style string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	text, err := readInput(path)
	if err != nil {
		_ = formatter.Error(ErrCodeReadFailed, err.Error(), nil)
		return err
	}

	score, parseErrs := tlr.Decode(text)
	if len(parseErrs) > 0 {
		if opts.Format == "json" {
			response := CLIResponse{
				Status: "error",
				Data:   DecodeResult{Valid: false, Errors: parseErrs},
				Error: &CLIError{
					Code:    ErrCodeParse,
					Message: parseErrs.First().Error(),
				},
			}
			encoder := json.NewEncoder(formatter.Writer)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(response); err != nil {
				return err
			}
		} else {
			fmt.Fprintln(formatter.Writer, "✗ Decode failed")
			fmt.Fprintln(formatter.Writer)
			for _, pe := range parseErrs {
				fmt.Fprintf(formatter.Writer, "  %s\n", pe.Error())
			}
		}
		return NewExitError(ExitFailure, fmt.Sprintf("decode failed with %d error(s)", len(parseErrs)))
	}

	score = score.WithAttrs(ikr.Attrs{Time: timeSig, Style: style})
	formatter.VerboseLog("Decoded %d part(s), score id %s", len(score.Parts), ikr.ScoreID(score))

	if opts.Format == "json" {
		return formatter.Success(DecodeResult{Valid: true, Score: score})
	}

	out, err := json.MarshalIndent(score, "", "  ")
	if err != nil {
		return WrapExitError(ExitCommandError, "marshaling score", err)
	}
	fmt.Fprintln(formatter.Writer, string(out))
	return nil
}
