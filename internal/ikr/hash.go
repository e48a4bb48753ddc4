package ikr

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// DomainScore is the domain prefix for content-addressed score
// identity. Version suffix enables future algorithm migration.
const DomainScore = "cantus/score/v1"

// ScoreID computes a content-addressed identifier for a score:
// SHA256(domain + 0x00 + canonical bytes). The null separator
// prevents domain/data boundary ambiguity. Identical trees always
// hash to the same ID, so the ID doubles as a cheap equality probe
// and as the snapshot key in the store.
func ScoreID(s *Score) string {
	h := sha256.New()
	h.Write([]byte(DomainScore))
	h.Write([]byte{0x00})
	h.Write(canonicalBytes(s))
	return hex.EncodeToString(h.Sum(nil))
}

// canonicalBytes renders the tree in a fixed line form. This is a
// hashing serialization only; the LLM-facing serialization lives in
// the tlr package.
func canonicalBytes(s *Score) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "attrs key=%s time=%s tempo=%d style=%s\n",
		s.Attrs.Key, s.Attrs.Time, s.Attrs.Tempo, s.Attrs.Style)
	for _, part := range s.Parts {
		fmt.Fprintf(&b, "part %s\n", part.Name)
		for _, voice := range part.Voices {
			fmt.Fprintf(&b, "voice %d\n", voice.Index)
			for _, measure := range voice.Measures {
				fmt.Fprintf(&b, "measure %d\n", measure.Number)
				for _, e := range measure.Events {
					writeCanonicalEvent(&b, e)
				}
			}
		}
	}
	return []byte(b.String())
}

func writeCanonicalEvent(b *strings.Builder, e Event) {
	switch ev := e.(type) {
	case NoteEvent:
		fmt.Fprintf(b, "note %s %s %s %s\n", ev.T, ev.Dur, ev.Pitch, ev.Tie)
	case RestEvent:
		fmt.Fprintf(b, "rest %s %s\n", ev.T, ev.Dur)
	case HarmonyEvent:
		fmt.Fprintf(b, "harmony %s %s %s\n", ev.T, ev.Symbol, ev.Key)
	case LyricEvent:
		fmt.Fprintf(b, "lyric %s %s\n", ev.T, ev.Text)
	}
}
