package validate

import (
	"github.com/aldhelm/cantus/internal/ikr"
	"github.com/aldhelm/cantus/internal/indexer"
)

// harmonyChange records one added, removed, or altered Harmony event.
type harmonyChange struct {
	part    int
	voice   int
	measure int
	event   int // event index in the candidate measure (-1 for removals)
	onset   ikr.Rational
	before  string // "" for additions
	after   string // "" for removals
}

// collectHarmonyChanges pairs Harmony events between the two trees by
// (part, voice, measure, onset) and records every difference. Both
// trees have the same shape by the time this runs.
func collectHarmonyChanges(original, candidate *ikr.Score) []harmonyChange {
	type key struct {
		part, voice, measure int
		onset                ikr.Rational
	}
	type slot struct {
		event  int
		symbol string
		keyCtx string
	}

	gather := func(s *ikr.Score) map[key]slot {
		out := make(map[key]slot)
		for pi, part := range s.Parts {
			for vi, voice := range part.Voices {
				for _, measure := range voice.Measures {
					for ei, e := range measure.Events {
						if h, ok := e.(ikr.HarmonyEvent); ok {
							k := key{part: pi, voice: vi, measure: measure.Number, onset: h.T}
							out[k] = slot{event: ei, symbol: h.Symbol, keyCtx: h.Key}
						}
					}
				}
			}
		}
		return out
	}

	before := gather(original)
	after := gather(candidate)

	var changes []harmonyChange
	for pi, part := range candidate.Parts {
		for vi, voice := range part.Voices {
			for _, measure := range voice.Measures {
				for _, e := range measure.Events {
					h, ok := e.(ikr.HarmonyEvent)
					if !ok {
						continue
					}
					k := key{part: pi, voice: vi, measure: measure.Number, onset: h.T}
					a := after[k]
					b, existed := before[k]
					if existed && b.symbol == a.symbol && b.keyCtx == a.keyCtx {
						continue
					}
					change := harmonyChange{
						part: pi, voice: vi, measure: measure.Number,
						event: a.event, onset: h.T, after: a.symbol,
					}
					if existed {
						change.before = b.symbol
					}
					changes = append(changes, change)
				}
			}
		}
	}
	// Removals: present before, gone after.
	for pi, part := range original.Parts {
		for vi, voice := range part.Voices {
			for _, measure := range voice.Measures {
				for _, e := range measure.Events {
					h, ok := e.(ikr.HarmonyEvent)
					if !ok {
						continue
					}
					k := key{part: pi, voice: vi, measure: measure.Number, onset: h.T}
					if _, still := after[k]; !still {
						changes = append(changes, harmonyChange{
							part: pi, voice: vi, measure: measure.Number,
							event: -1, onset: h.T, before: h.Symbol,
						})
					}
				}
			}
		}
	}
	return changes
}

// excusedByReharm reports whether a pitch change at the given onset
// is covered by a contemporaneous harmonic change: harmonic_reharm is
// set and some new or altered Harmony event exists in the same part
// and measure at or before the note's onset.
func (c *checker) excusedByReharm(part, measure int, onset ikr.Rational) bool {
	if !c.flags.Has(FlagHarmonicReharm) {
		return false
	}
	for _, ch := range c.harmonyChanges {
		if ch.part == part && ch.measure == measure && ch.after != "" && ch.onset.Cmp(onset) <= 0 {
			return true
		}
	}
	return false
}

// checkHarmony enforces the harmonic rules.
//
// With harmonic_reharm unset, no new, altered, or removed Harmony
// events are permitted. With it set, harmonic change must flow purely
// through Harmony events - a pitch change with no covering Harmony
// event is an implicit (and therefore illegal) harmonic change,
// reported by checkTranspose via excusedByReharm.
func (c *checker) checkHarmony() {
	if !c.flags.Has(FlagHarmonicReharm) {
		for _, ch := range c.harmonyChanges {
			loc := indexer.Ref{Part: ch.part, Voice: ch.voice, Measure: ch.measure}
			if ch.event >= 0 {
				loc.Event = ch.event
			}
			switch {
			case ch.before == "":
				c.add(flagViolation(ErrHarmonyChanged, FlagHarmonicReharm, loc,
					"harmony %q added with harmonic_reharm unset", ch.after))
			case ch.after == "":
				c.add(flagViolation(ErrHarmonyChanged, FlagHarmonicReharm, loc,
					"harmony %q removed with harmonic_reharm unset", ch.before))
			default:
				c.add(flagViolation(ErrHarmonyChanged, FlagHarmonicReharm, loc,
					"harmony changed %q -> %q with harmonic_reharm unset", ch.before, ch.after))
			}
		}
		return
	}

	// Reharmonization in play: pitch edits not covered by any harmonic
	// change in their part+measure are implicit harmonic changes.
	c.eachMeasurePair(func(pi, vi int, om, nm ikr.Measure) {
		origNotes := notesOf(om)
		candNotes := notesOf(nm)
		n := len(origNotes)
		if len(candNotes) < n {
			n = len(candNotes)
		}
		for i := 0; i < n; i++ {
			orig, cand := origNotes[i].note, candNotes[i].note
			if orig.Pitch == cand.Pitch {
				continue
			}
			if c.excusedByReharm(pi, nm.Number, cand.T) {
				continue
			}
			if c.flags.Has(FlagTranspose) {
				// The uniform-interval rule governs; checkTranspose owns it.
				continue
			}
			c.add(flagViolation(ErrImplicitHarmony, FlagHarmonicReharm,
				indexer.Ref{Part: pi, Voice: vi, Measure: nm.Number, Event: candNotes[i].index},
				"pitch changed %s -> %s with no Harmony event describing the new function",
				orig.Pitch, cand.Pitch))
		}
	})
}
