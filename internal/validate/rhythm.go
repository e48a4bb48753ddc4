package validate

import (
	"github.com/aldhelm/cantus/internal/ikr"
	"github.com/aldhelm/cantus/internal/indexer"
)

// timedEvent is one Note/Rest slot in a measure's time partition.
type timedEvent struct {
	index int
	onset ikr.Rational
	dur   ikr.Rational
}

func timedOf(m ikr.Measure) []timedEvent {
	var out []timedEvent
	for i, e := range m.Events {
		if ikr.HasDuration(e) {
			out = append(out, timedEvent{index: i, onset: e.Onset(), dur: ikr.Duration(e)})
		}
	}
	return out
}

// checkRhythm enforces the timing rules.
//
// With rhythm_simplify unset, the onset/duration sequence of every
// Voice+Measure must be unchanged. With it set, the sum of durations
// per measure must still equal the original sum and the relative
// order must be preserved (ordering itself is an integrity invariant;
// a broken candidate is already reported by checkIntegrity).
func (c *checker) checkRhythm() {
	simplifying := c.flags.Has(FlagRhythmSimplify)

	c.eachMeasurePair(func(pi, vi int, om, nm ikr.Measure) {
		origTimed := timedOf(om)
		candTimed := timedOf(nm)
		loc := indexer.Ref{Part: pi, Voice: vi, Measure: nm.Number}

		if simplifying {
			origSum, candSum := ikr.Zero, ikr.Zero
			for _, t := range origTimed {
				origSum = origSum.Add(t.dur)
			}
			for _, t := range candTimed {
				candSum = candSum.Add(t.dur)
			}
			if origSum.Cmp(candSum) != 0 {
				c.add(flagViolation(ErrDurationSum, FlagRhythmSimplify, loc,
					"measure duration sum changed: %s -> %s", origSum, candSum))
			}
			return
		}

		if len(origTimed) != len(candTimed) {
			c.add(flagViolation(ErrNoteCountChanged, FlagRhythmSimplify, loc,
				"timed event count changed with rhythm_simplify unset: %d -> %d",
				len(origTimed), len(candTimed)))
			return
		}
		for i := range origTimed {
			o, n := origTimed[i], candTimed[i]
			if o.onset.Cmp(n.onset) != 0 || o.dur.Cmp(n.dur) != 0 {
				eventLoc := loc
				eventLoc.Event = n.index
				c.add(flagViolation(ErrTimingChanged, FlagRhythmSimplify, eventLoc,
					"timing changed with rhythm_simplify unset: t=%s dur=%s -> t=%s dur=%s",
					o.onset, o.dur, n.onset, n.dur))
			}
		}
	})
}
