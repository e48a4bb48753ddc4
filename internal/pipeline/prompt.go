package pipeline

import (
	"fmt"
	"strings"

	"github.com/aldhelm/cantus/internal/ikr"
	"github.com/aldhelm/cantus/internal/tlr"
	"github.com/aldhelm/cantus/internal/validate"
)

// flagConstraint describes one transformation permission to the
// model: what it allows and what stays frozen.
type flagConstraint struct {
	description string
	allowed     string
	forbidden   string
}

var flagConstraints = map[validate.Flag]flagConstraint{
	validate.FlagTranspose: {
		description: "shift every pitch by the same number of semitones",
		allowed:     "pitch letters, accidentals, octaves (one global interval)",
		forbidden:   "onsets, durations, event counts, harmony symbols",
	},
	validate.FlagRhythmSimplify: {
		description: "simplify rhythmic patterns while keeping each measure's total duration",
		allowed:     "onsets and durations within a measure",
		forbidden:   "pitches, harmony symbols, measure totals",
	},
	validate.FlagStyleChange: {
		description: "adapt style while preserving the structural skeleton",
		allowed:     "event additions, lyric text",
		forbidden:   "part, voice, and measure structure",
	},
	validate.FlagHarmonicReharm: {
		description: "reharmonize; every harmonic change must appear as a HARMONY event",
		allowed:     "HARMONY symbols and accompanying voicing changes",
		forbidden:   "melody rhythm, implicit harmonic changes without a HARMONY event",
	},
}

// BuildPrompt assembles the model prompt: the TLR snapshot, the
// constraint block derived from the active flags, and the caller's
// instruction. The model is told to answer with a full TLR block and
// nothing else; anything less dies in the decoder.
func BuildPrompt(original *ikr.Score, instruction string, flags validate.FlagSet) string {
	var b strings.Builder

	b.WriteString("You are editing a choral score in TLR, a strict line format.\n")
	b.WriteString("Grammar: PART <name> / VOICE <index> / MEASURE <number> headers, then\n")
	b.WriteString("NOTE t=<onset> dur=<duration> pitch=<SPN>, REST t= dur=,\n")
	b.WriteString("HARMONY t= symbol= [key=], LYRIC t= text= lines.\n")
	b.WriteString("Onsets and durations are rational literals like 1/4. Never use decimals.\n\n")

	b.WriteString("ALLOWED TRANSFORMATIONS:\n")
	active := flags.Slice()
	if len(active) == 0 {
		b.WriteString("- none: reproduce the score exactly\n")
	}
	for _, f := range active {
		c := flagConstraints[f]
		fmt.Fprintf(&b, "- %s: %s\n", strings.ToUpper(string(f)), c.description)
		fmt.Fprintf(&b, "  may change: %s\n", c.allowed)
		fmt.Fprintf(&b, "  must not change: %s\n", c.forbidden)
	}
	b.WriteString("Only perform the transformations listed above. Changes outside the\n")
	b.WriteString("allowed categories will be rejected wholesale.\n\n")

	fmt.Fprintf(&b, "INSTRUCTION: %s\n\n", instruction)

	b.WriteString("SCORE:\n")
	b.WriteString(tlr.Encode(original))
	b.WriteString("\n\nRespond with the complete transformed score as a single TLR block, no commentary.\n")

	return b.String()
}
