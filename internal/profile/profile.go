package profile

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/token"

	"github.com/aldhelm/cantus/internal/validate"
)

// Profile is one named transformation policy.
type Profile struct {
	Name           string
	Flags          validate.FlagSet
	Style          string
	PromptPreamble string
	MaxRetries     int
}

// CompileError describes a single problem in a profile declaration.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Compile parses a CUE value into a Profile.
//
// The CUE value should be the profile struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`profile: jazz: { flags: ["transpose"] }`)
//	p, err := profile.Compile(v.LookupPath(cue.ParsePath("profile.jazz")))
func Compile(v cue.Value) (*Profile, error) {
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("profile value: %w", err)
	}

	p := &Profile{Flags: validate.NewFlagSet()}

	// Profile name comes from the struct label (the path selector).
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		p.Name = labels[len(labels)-1].String()
	}

	// flags (optional, defaults to none granted)
	flagsVal := v.LookupPath(cue.ParsePath("flags"))
	if flagsVal.Exists() {
		iter, err := flagsVal.List()
		if err != nil {
			return nil, &CompileError{Field: "flags", Message: "flags must be a list of strings", Pos: flagsVal.Pos()}
		}
		for iter.Next() {
			name, err := iter.Value().String()
			if err != nil {
				return nil, &CompileError{Field: "flags", Message: "flags must be a list of strings", Pos: iter.Value().Pos()}
			}
			parsed, err := validate.ParseFlags([]string{name})
			if err != nil {
				return nil, &CompileError{Field: "flags", Message: err.Error(), Pos: iter.Value().Pos()}
			}
			for f := range parsed {
				p.Flags[f] = true
			}
		}
	}

	// style (optional)
	styleVal := v.LookupPath(cue.ParsePath("style"))
	if styleVal.Exists() {
		style, err := styleVal.String()
		if err != nil {
			return nil, &CompileError{Field: "style", Message: "style must be a string", Pos: styleVal.Pos()}
		}
		p.Style = style
	}

	// Declaring a style without permission to change it is almost
	// certainly a mistake in the profile.
	if p.Style != "" && !p.Flags.Has(validate.FlagStyleChange) {
		return nil, &CompileError{
			Field:   "style",
			Message: fmt.Sprintf("style %q requires the style_change flag", p.Style),
			Pos:     styleVal.Pos(),
		}
	}

	// prompt_preamble (optional)
	preambleVal := v.LookupPath(cue.ParsePath("prompt_preamble"))
	if preambleVal.Exists() {
		preamble, err := preambleVal.String()
		if err != nil {
			return nil, &CompileError{Field: "prompt_preamble", Message: "prompt_preamble must be a string", Pos: preambleVal.Pos()}
		}
		p.PromptPreamble = preamble
	}

	// max_retries (optional, defaults to 0: one attempt, no retry)
	retriesVal := v.LookupPath(cue.ParsePath("max_retries"))
	if retriesVal.Exists() {
		retries, err := retriesVal.Int64()
		if err != nil {
			return nil, &CompileError{Field: "max_retries", Message: "max_retries must be an integer", Pos: retriesVal.Pos()}
		}
		if retries < 0 {
			return nil, &CompileError{Field: "max_retries", Message: "max_retries must not be negative", Pos: retriesVal.Pos()}
		}
		p.MaxRetries = int(retries)
	}

	return p, nil
}
