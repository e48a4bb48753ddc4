package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aldhelm/cantus/internal/ikr"
	"github.com/aldhelm/cantus/internal/tlr"
	"github.com/aldhelm/cantus/internal/validate"
)

// newFormatter builds the output formatter for a command invocation.
// Verbose logs go to stderr to avoid corrupting JSON output.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// readInput reads a file argument.
func readInput(path string) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", NewExitError(ExitCommandError, fmt.Sprintf("file not found: %s", path))
	}
	if err != nil {
		return "", WrapExitError(ExitCommandError, fmt.Sprintf("reading %s", path), err)
	}
	return string(data), nil
}

// loadScore reads and decodes a TLR file, attaching the given global
// attributes (TLR itself carries no score header). A score that fails
// to decode is a command error: the inputs to validate/diff/apply are
// expected to be well-formed on the original side.
func loadScore(path, time, style string) (*ikr.Score, error) {
	text, err := readInput(path)
	if err != nil {
		return nil, err
	}

	score, parseErrs := tlr.Decode(text)
	if len(parseErrs) > 0 {
		return nil, WrapExitError(ExitCommandError,
			fmt.Sprintf("%s does not decode (%d errors)", path, len(parseErrs)),
			parseErrs.First())
	}

	return score.WithAttrs(ikr.Attrs{Time: time, Style: style}), nil
}

// parseFlagsArg parses the --flags value into a FlagSet.
// An empty value grants nothing.
func parseFlagsArg(raw string) (validate.FlagSet, error) {
	if raw == "" {
		return validate.NewFlagSet(), nil
	}
	flags, err := validate.ParseFlags([]string{raw})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid --flags", err)
	}
	return flags, nil
}
