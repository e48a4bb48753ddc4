package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quartersTLR = `PART Soprano
VOICE 0
MEASURE 1
NOTE t=0 dur=1/4 pitch=C4
NOTE t=1/4 dur=1/4 pitch=D4
NOTE t=1/2 dur=1/4 pitch=E4
NOTE t=3/4 dur=1/4 pitch=F4`

// TestScenarios runs every YAML scenario under testdata against its
// golden file.
func TestScenarios(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		scenario, err := LoadScenario(path)
		require.NoError(t, err, path)

		t.Run(scenario.Name, func(t *testing.T) {
			require.NoError(t, RunWithGolden(t, scenario))
		})
	}
}

func TestRunReportsExpectationFailure(t *testing.T) {
	scenario := &Scenario{
		Name:        "wrong-expectation",
		Description: "identity response expected to be rejected",
		Original:    quartersTLR,
		Response:    quartersTLR,
		Expect:      ExpectClause{Accepted: false},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Passed())
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "accepted = true, expected false")
}

func TestRunMissingViolationIsFailure(t *testing.T) {
	scenario := &Scenario{
		Name:        "wrong-code",
		Description: "parse failure expected as a flag violation",
		Original:    quartersTLR,
		Response:    "nonsense",
		Expect:      ExpectClause{Accepted: false, Violations: []string{"V300"}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Passed())
	assert.Contains(t, result.Failures[0], "expected violation V300")
}

func TestRunBrokenOriginalIsError(t *testing.T) {
	scenario := &Scenario{
		Name:        "broken-original",
		Description: "original fails to decode",
		Original:    "not TLR at all",
		Response:    quartersTLR,
		Expect:      ExpectClause{Accepted: true},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "original does not decode")
}

func TestRunAppliesScenarioTime(t *testing.T) {
	threeFour := `PART Soprano
VOICE 0
MEASURE 1
NOTE t=0 dur=1/4 pitch=C4
NOTE t=1/4 dur=1/4 pitch=D4
NOTE t=1/2 dur=1/4 pitch=E4`

	scenario := &Scenario{
		Name:        "three-four",
		Description: "identity in 3/4 time",
		Original:    threeFour,
		Response:    threeFour,
		Time:        "3/4",
		Expect:      ExpectClause{Accepted: true},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Passed(), "failures: %v", result.Failures)
	assert.Equal(t, "3/4", result.Outcome.Score.Attrs.Time)
}

func TestRenderOutcomeSections(t *testing.T) {
	scenario := &Scenario{
		Name:        "render-check",
		Description: "rejected response renders its violations",
		Original:    quartersTLR,
		Response: `PART Soprano
VOICE 0
MEASURE 1
NOTE t=0 dur=1/4 pitch=C#4
NOTE t=1/4 dur=1/4 pitch=D4
NOTE t=1/2 dur=1/4 pitch=E4
NOTE t=3/4 dur=1/4 pitch=F4`,
		Expect: ExpectClause{Accepted: false, Violations: []string{"V300"}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	require.True(t, result.Passed(), "failures: %v", result.Failures)

	rendered := renderOutcome(result)
	assert.Contains(t, rendered, "scenario: render-check\n")
	assert.Contains(t, rendered, "accepted: false\n")
	assert.Contains(t, rendered, "violations:\n  [V300]")
	assert.NotContains(t, rendered, result.Outcome.RequestID)
}
