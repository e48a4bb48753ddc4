package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aldhelm/cantus/internal/ikr"
	"github.com/aldhelm/cantus/internal/tlr"
)

// NewEncodeCommand creates the encode command.
func NewEncodeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode <score.json>",
		Short: "Encode a JSON score to TLR",
		Long: `Encode a score from its JSON representation to TLR text.

Encoding is pure and deterministic: the same score always yields
byte-identical TLR, so the output is safe to hash or diff.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runEncode(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	data, err := readInput(path)
	if err != nil {
		_ = formatter.Error(ErrCodeReadFailed, err.Error(), nil)
		return err
	}

	var score ikr.Score
	if err := json.Unmarshal([]byte(data), &score); err != nil {
		_ = formatter.Error(ErrCodeParse, fmt.Sprintf("parsing %s", path), err.Error())
		return WrapExitError(ExitCommandError, fmt.Sprintf("parsing %s", path), err)
	}

	text := tlr.Encode(&score)
	formatter.VerboseLog("Encoded %d part(s), score id %s", len(score.Parts), ikr.ScoreID(&score))

	if opts.Format == "json" {
		return formatter.Success(map[string]string{"tlr": text, "score_id": ikr.ScoreID(&score)})
	}
	fmt.Fprintln(formatter.Writer, text)
	return nil
}
