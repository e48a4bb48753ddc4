package validate

import (
	"github.com/aldhelm/cantus/internal/ikr"
	"github.com/aldhelm/cantus/internal/indexer"
)

// checkStyle enforces the content-shape rules.
//
// With style_change unset, no event additions beyond strict content
// edits are permitted: the per-measure sequence of event types must
// be unchanged and lyric text must survive verbatim. Harmony events
// are excluded here - their change category belongs to
// harmonic_reharm and is reported by checkHarmony.
func (c *checker) checkStyle() {
	if c.flags.Has(FlagStyleChange) {
		return
	}

	// rhythm_simplify legitimately changes the timed event sequence;
	// when it is active the shape check covers point events only.
	includeTimed := !c.flags.Has(FlagRhythmSimplify)

	c.eachMeasurePair(func(pi, vi int, om, nm ikr.Measure) {
		loc := indexer.Ref{Part: pi, Voice: vi, Measure: nm.Number}

		origShape := shapeOf(om, includeTimed)
		candShape := shapeOf(nm, includeTimed)
		if len(origShape) != len(candShape) {
			c.add(flagViolation(ErrContentChanged, FlagStyleChange, loc,
				"event count changed with style_change unset: %d -> %d",
				len(origShape), len(candShape)))
			return
		}
		for i := range origShape {
			if origShape[i] != candShape[i] {
				eventLoc := loc
				eventLoc.Event = i
				c.add(flagViolation(ErrContentChanged, FlagStyleChange, eventLoc,
					"event type changed with style_change unset: %s -> %s",
					origShape[i], candShape[i]))
			}
		}

		origLyrics := lyricsOf(om)
		candLyrics := lyricsOf(nm)
		n := len(origLyrics)
		if len(candLyrics) < n {
			n = len(candLyrics)
		}
		for i := 0; i < n; i++ {
			if origLyrics[i].note.Text != candLyrics[i].note.Text {
				eventLoc := loc
				eventLoc.Event = candLyrics[i].index
				c.add(flagViolation(ErrContentChanged, FlagStyleChange, eventLoc,
					"lyric changed with style_change unset: %q -> %q",
					origLyrics[i].note.Text, candLyrics[i].note.Text))
			}
		}
	})
}

// shapeOf returns the type sequence of non-harmony events.
func shapeOf(m ikr.Measure, includeTimed bool) []ikr.EventType {
	var out []ikr.EventType
	for _, e := range m.Events {
		if e.Type() == ikr.EventHarmony {
			continue
		}
		if !includeTimed && ikr.HasDuration(e) {
			continue
		}
		out = append(out, e.Type())
	}
	return out
}

type positionedLyric struct {
	index int
	note  ikr.LyricEvent
}

func lyricsOf(m ikr.Measure) []positionedLyric {
	var out []positionedLyric
	for i, e := range m.Events {
		if l, ok := e.(ikr.LyricEvent); ok {
			out = append(out, positionedLyric{index: i, note: l})
		}
	}
	return out
}
