package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/aldhelm/cantus/internal/diff"
	"github.com/aldhelm/cantus/internal/ikr"
	"github.com/aldhelm/cantus/internal/tlr"
	"github.com/aldhelm/cantus/internal/validate"
)

// ModelFunc is the external model invocation: prompt in, raw text
// out. Supplied by the caller; this core only ever consumes its
// output through the TLR decoder.
type ModelFunc func(ctx context.Context, prompt string) (string, error)

// Pipeline runs transformation requests against one model function.
type Pipeline struct {
	model ModelFunc
}

// New creates a pipeline around the given model function.
func New(model ModelFunc) *Pipeline {
	return &Pipeline{model: model}
}

// Outcome is the result of one transformation request. On rejection
// Score is the caller's original snapshot, untouched; on acceptance
// it is a fresh tree that shares no state with the original.
type Outcome struct {
	RequestID   string                `json:"request_id"`
	Accepted    bool                  `json:"accepted"`
	Score       *ikr.Score            `json:"-"`
	Response    string                `json:"response,omitempty"`
	ParseErrors tlr.ParseErrors       `json:"parse_errors,omitempty"`
	Violations  []validate.Violation  `json:"violations,omitempty"`
	Diff        []diff.Entry          `json:"diff,omitempty"`
}

// Transform encodes the original, invokes the model, and runs the
// response through Apply. Returns an error only for model invocation
// failure (including context cancellation); every malformed or
// non-compliant response comes back as a rejecting Outcome instead.
func (p *Pipeline) Transform(ctx context.Context, original *ikr.Score, instruction string, flags validate.FlagSet) (*Outcome, error) {
	prompt := BuildPrompt(original, instruction, flags)

	response, err := p.model(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("model invocation: %w", err)
	}

	outcome, err := Apply(original, response, flags)
	if err != nil {
		return nil, err
	}
	outcome.Response = response
	return outcome, nil
}

// Apply runs a pre-produced model response through decode → validate
// → diff against the original snapshot. The decoded candidate adopts
// the original's score-global attributes before validation - the TLR
// grammar carries no score header.
//
// A diff.ErrShapeMismatch here is a defect (the validator accepted a
// differently-shaped tree) and is returned as a real error.
func Apply(original *ikr.Score, response string, flags validate.FlagSet) (*Outcome, error) {
	outcome := &Outcome{
		RequestID: uuid.NewString(),
		Score:     original,
	}

	decoded, parseErrs := tlr.Decode(response)
	if len(parseErrs) > 0 {
		outcome.ParseErrors = parseErrs
		return outcome, nil
	}

	candidate := decoded.WithAttrs(original.Attrs)

	result := validate.Check(original, candidate, flags)
	if !result.Pass {
		outcome.Violations = result.Violations
		return outcome, nil
	}

	entries, err := diff.Analyze(original, candidate)
	if err != nil {
		return nil, fmt.Errorf("diff after successful validation: %w", err)
	}

	outcome.Accepted = true
	outcome.Score = candidate
	outcome.Diff = entries
	return outcome, nil
}
