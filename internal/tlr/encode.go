package tlr

import (
	"fmt"
	"strings"

	"github.com/aldhelm/cantus/internal/ikr"
)

// Encode serializes a score into TLR text. Pure and deterministic:
// identical trees always yield identical text. Traversal follows the
// stored order - parts, then voices, then measures, then events -
// with one header line per scope and one line per event. No blank
// lines, no commentary.
func Encode(s *ikr.Score) string {
	return EncodeParts(s.Parts)
}

// EncodeParts serializes a restricted sub-scope: one or more parts.
// Used when only a slice of the score is handed to the model.
func EncodeParts(parts []ikr.Part) string {
	var b strings.Builder
	for _, part := range parts {
		fmt.Fprintf(&b, "PART %s\n", part.Name)
		for _, voice := range part.Voices {
			fmt.Fprintf(&b, "VOICE %d\n", voice.Index)
			for _, measure := range voice.Measures {
				fmt.Fprintf(&b, "MEASURE %d\n", measure.Number)
				for _, e := range measure.Events {
					b.WriteString(encodeEvent(e))
					b.WriteByte('\n')
				}
			}
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func encodeEvent(e ikr.Event) string {
	switch ev := e.(type) {
	case ikr.NoteEvent:
		line := fmt.Sprintf("NOTE t=%s dur=%s pitch=%s", ev.T, ev.Dur, ev.Pitch)
		if ev.Tie != "" {
			line += " tie=" + ev.Tie
		}
		return line
	case ikr.RestEvent:
		return fmt.Sprintf("REST t=%s dur=%s", ev.T, ev.Dur)
	case ikr.HarmonyEvent:
		line := fmt.Sprintf("HARMONY t=%s symbol=%s", ev.T, ev.Symbol)
		if ev.Key != "" {
			line += " key=" + ev.Key
		}
		return line
	case ikr.LyricEvent:
		return fmt.Sprintf("LYRIC t=%s text=%s", ev.T, ev.Text)
	default:
		// Sealed variant - unreachable.
		panic(fmt.Sprintf("tlr: unknown event type %T", e))
	}
}
