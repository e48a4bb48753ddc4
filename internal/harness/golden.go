package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/aldhelm/cantus/internal/diff"
)

// RunWithGolden executes a scenario and compares the rendered outcome
// against a golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Golden files serve as the source of truth for expected pipeline
// behavior: acceptance, error codes, and the human-readable diff.
//
// Returns an error if scenario execution fails. Test failure (via
// goldie) occurs if the outcome doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, []byte(renderOutcome(result)))

	return nil
}

// renderOutcome produces the deterministic text captured in golden
// files. Request IDs are random and deliberately excluded.
func renderOutcome(result *Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "scenario: %s\n", result.ScenarioName)
	fmt.Fprintf(&b, "accepted: %v\n", result.Outcome.Accepted)

	if len(result.Outcome.ParseErrors) > 0 {
		b.WriteString("parse errors:\n")
		for _, pe := range result.Outcome.ParseErrors {
			fmt.Fprintf(&b, "  %s\n", pe.Error())
		}
	}

	if len(result.Outcome.Violations) > 0 {
		b.WriteString("violations:\n")
		for _, v := range result.Outcome.Violations {
			fmt.Fprintf(&b, "  %s\n", v.Error())
		}
	}

	if result.Outcome.Accepted {
		b.WriteString("diff:\n")
		b.WriteString(diff.Render(result.Outcome.Diff))
		b.WriteString("\n")
	}

	if len(result.Failures) > 0 {
		b.WriteString("expectation failures:\n")
		for _, f := range result.Failures {
			fmt.Fprintf(&b, "  %s\n", f)
		}
	}

	return b.String()
}
