package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aldhelm/cantus/internal/diff"
	"github.com/aldhelm/cantus/internal/ikr"
	"github.com/aldhelm/cantus/internal/pipeline"
	"github.com/aldhelm/cantus/internal/store"
	"github.com/aldhelm/cantus/internal/tlr"
)

// Result holds the outcome of running one scenario.
type Result struct {
	ScenarioName string
	Outcome      *pipeline.Outcome
	Failures     []string
}

// Passed reports whether every expectation held.
func (r *Result) Passed() bool {
	return len(r.Failures) == 0
}

// AddFailure records an unmet expectation.
func (r *Result) AddFailure(format string, args ...any) {
	r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory snapshot store for
// isolation. The pre-recorded response goes through the real pipeline;
// an accepted candidate is then appended to the store behind the
// original and the head is checked, covering the persistence path.
//
// Run returns an error only for scenario authoring problems (an
// original that doesn't decode) or infrastructure failures; unmet
// expectations land in Result.Failures.
func Run(scenario *Scenario) (*Result, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests

	original, parseErrs := tlr.Decode(scenario.Original)
	if len(parseErrs) > 0 {
		return nil, fmt.Errorf("scenario %q: original does not decode: %w", scenario.Name, parseErrs.First())
	}

	// TLR carries no score header; the scenario supplies the
	// attributes the original should hold.
	time := scenario.Time
	if time == "" {
		time = "4/4"
	}
	original = original.WithAttrs(ikr.Attrs{Time: time, Style: scenario.Style})

	outcome, err := pipeline.Apply(original, scenario.Response, scenario.FlagSet())
	if err != nil {
		return nil, fmt.Errorf("scenario %q: pipeline: %w", scenario.Name, err)
	}

	result := &Result{ScenarioName: scenario.Name, Outcome: outcome}
	evaluateExpectations(scenario, outcome, result)

	if outcome.Accepted {
		if err := verifyPersistence(original, outcome, scenario, result); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
		}
	}

	logger.Info("scenario completed",
		"scenario", scenario.Name,
		"accepted", outcome.Accepted,
		"failures", len(result.Failures),
	)

	return result, nil
}

// evaluateExpectations checks the outcome against the expect clause.
func evaluateExpectations(scenario *Scenario, outcome *pipeline.Outcome, result *Result) {
	expect := scenario.Expect

	if outcome.Accepted != expect.Accepted {
		result.AddFailure("accepted = %v, expected %v", outcome.Accepted, expect.Accepted)
	}

	for _, code := range expect.ParseErrors {
		if !hasParseError(outcome, code) {
			result.AddFailure("expected parse error %s, got %v", code, outcome.ParseErrors)
		}
	}

	for _, code := range expect.Violations {
		if !hasViolation(outcome, code) {
			result.AddFailure("expected violation %s, got %v", code, outcome.Violations)
		}
	}

	if len(expect.DiffContains) > 0 {
		rendered := diff.Render(outcome.Diff)
		for _, want := range expect.DiffContains {
			if !strings.Contains(rendered, want) {
				result.AddFailure("diff missing %q in:\n%s", want, rendered)
			}
		}
	}
}

// verifyPersistence appends the original and the accepted candidate to
// a fresh in-memory store and checks the head comes back as the
// candidate with the parent link intact.
func verifyPersistence(original *ikr.Score, outcome *pipeline.Outcome, scenario *Scenario, result *Result) error {
	st, err := store.Open(":memory:")
	if err != nil {
		return fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()

	originalID := ikr.ScoreID(original)
	if _, _, err := st.Append(ctx, store.Snapshot{
		ID:  originalID,
		TLR: scenario.Original,
	}); err != nil {
		return fmt.Errorf("append original: %w", err)
	}

	candidateID := ikr.ScoreID(outcome.Score)
	if _, _, err := st.Append(ctx, store.Snapshot{
		ID:        candidateID,
		TLR:       tlr.Encode(outcome.Score),
		ParentID:  originalID,
		Flags:     scenario.FlagSet().String(),
		RequestID: outcome.RequestID,
	}); err != nil {
		return fmt.Errorf("append candidate: %w", err)
	}

	head, err := st.Head(ctx)
	if err != nil {
		return fmt.Errorf("read head: %w", err)
	}
	if head.ID != candidateID {
		result.AddFailure("store head = %s, expected candidate %s", head.ID, candidateID)
	}
	// An identity acceptance dedupes onto the original row, which has
	// no parent; the link check only applies to a distinct candidate.
	if candidateID != originalID && head.ParentID != originalID {
		result.AddFailure("store head parent = %s, expected original %s", head.ParentID, originalID)
	}

	return nil
}

func hasParseError(outcome *pipeline.Outcome, code string) bool {
	for _, pe := range outcome.ParseErrors {
		if pe.Code == code {
			return true
		}
	}
	return false
}

func hasViolation(outcome *pipeline.Outcome, code string) bool {
	for _, v := range outcome.Violations {
		if v.Code == code {
			return true
		}
	}
	return false
}
