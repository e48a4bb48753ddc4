package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aldhelm/cantus/internal/validate"
)

// Scenario defines a conformance test scenario.
// Scenarios feed a pre-recorded model response through the pipeline
// and assert on the outcome.
type Scenario struct {
	// Name uniquely identifies this scenario. It is also the golden
	// file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Original is the TLR encoding of the score before transformation.
	// It must decode cleanly; a scenario with a broken original is a
	// scenario authoring error, not a test outcome.
	Original string `yaml:"original"`

	// Response is the model response text to run through the pipeline.
	// Usually TLR; deliberately malformed text is valid here when the
	// scenario targets decoder rejection.
	Response string `yaml:"response"`

	// Time is the governing time signature for the original score.
	// Defaults to "4/4". TLR carries no score header, so the scenario
	// supplies it.
	Time string `yaml:"time,omitempty"`

	// Style is the original score's style tag, if any.
	Style string `yaml:"style,omitempty"`

	// Flags lists the permission flags for the request, by name.
	Flags []string `yaml:"flags,omitempty"`

	// Expect specifies the expected outcome.
	Expect ExpectClause `yaml:"expect"`
}

// ExpectClause specifies expected pipeline outcome.
type ExpectClause struct {
	// Accepted is whether the candidate should be accepted.
	Accepted bool `yaml:"accepted"`

	// Violations lists violation codes that must appear when rejected,
	// e.g. ["V300"]. Subset match - extra violations are not an error.
	Violations []string `yaml:"violations,omitempty"`

	// ParseErrors lists parse error codes that must appear when the
	// response fails to decode, e.g. ["T105"]. Subset match.
	ParseErrors []string `yaml:"parse_errors,omitempty"`

	// DiffContains lists substrings that must appear in the rendered
	// diff of an accepted outcome.
	DiffContains []string `yaml:"diff_contains,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "expects:" vs "expect:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Original == "" {
		return fmt.Errorf("original is required")
	}

	if s.Response == "" {
		return fmt.Errorf("response is required")
	}

	if _, err := validate.ParseFlags(s.Flags); err != nil {
		return fmt.Errorf("flags: %w", err)
	}

	if s.Expect.Accepted {
		if len(s.Expect.Violations) > 0 {
			return fmt.Errorf("expect: violations make no sense on an accepted outcome")
		}
		if len(s.Expect.ParseErrors) > 0 {
			return fmt.Errorf("expect: parse_errors make no sense on an accepted outcome")
		}
	} else if len(s.Expect.DiffContains) > 0 {
		return fmt.Errorf("expect: diff_contains makes no sense on a rejected outcome")
	}

	return nil
}

// FlagSet parses the scenario's flag names into a validate.FlagSet.
// Call after LoadScenario; names are already validated.
func (s *Scenario) FlagSet() validate.FlagSet {
	flags, err := validate.ParseFlags(s.Flags)
	if err != nil {
		// validateScenario already checked these.
		panic(fmt.Sprintf("harness: invalid flags escaped validation: %v", err))
	}
	return flags
}
