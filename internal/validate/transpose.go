package validate

import (
	"github.com/aldhelm/cantus/internal/ikr"
	"github.com/aldhelm/cantus/internal/indexer"
)

// checkTranspose enforces the pitch rules.
//
// With transpose unset, every candidate note must match the
// corresponding original note exactly, addressed by note order within
// its measure. With transpose set, the semitone delta must be the
// same across every note in the score - partial or voice-specific
// transposition is a violation.
//
// A pitch change that harmonic_reharm excuses (covered by a new or
// altered Harmony event, see harmony.go) is skipped here: flag-scoped
// checks are mutually exclusive and no automatic disambiguation is
// attempted.
func (c *checker) checkTranspose() {
	transposing := c.flags.Has(FlagTranspose)

	type delta struct {
		semitones int
		loc       indexer.Ref
	}
	var deltas []delta

	c.eachMeasurePair(func(pi, vi int, om, nm ikr.Measure) {
		origNotes := notesOf(om)
		candNotes := notesOf(nm)
		n := len(origNotes)
		if len(candNotes) < n {
			n = len(candNotes)
		}
		for i := 0; i < n; i++ {
			orig, cand := origNotes[i].note, candNotes[i].note
			loc := indexer.Ref{Part: pi, Voice: vi, Measure: nm.Number, Event: candNotes[i].index}
			d := cand.Pitch.SemitonesFrom(orig.Pitch)

			if !transposing {
				if d == 0 && cand.Pitch == orig.Pitch {
					continue
				}
				if c.flags.Has(FlagHarmonicReharm) {
					// Reharmonization owns this change category;
					// checkHarmony reports uncovered pitch edits.
					continue
				}
				c.add(flagViolation(ErrPitchChanged, FlagTranspose, loc,
					"pitch changed %s -> %s with transpose unset", orig.Pitch, cand.Pitch))
				continue
			}
			deltas = append(deltas, delta{semitones: d, loc: loc})
		}
	})

	if !transposing || len(deltas) == 0 {
		return
	}
	first := deltas[0].semitones
	for _, d := range deltas[1:] {
		if d.semitones != first {
			c.add(flagViolation(ErrIntervalMismatch, FlagTranspose, d.loc,
				"transposition must be a single global interval: found %+d semitones, expected %+d",
				d.semitones, first))
		}
	}
}
