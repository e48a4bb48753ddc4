package validate

import (
	"github.com/aldhelm/cantus/internal/ikr"
	"github.com/aldhelm/cantus/internal/indexer"
)

// Check compares an original snapshot against a candidate under the
// active flags. Categories run in order: structural preservation,
// then candidate event integrity, then flag compliance. Structural
// mismatches are fatal and short-circuit the rest - position-addressed
// comparisons are meaningless on differently-shaped trees. Within the
// remaining categories all violations are collected for diagnostics.
//
// The candidate is never mutated; on a failing result the caller
// simply keeps the original.
func Check(original, candidate *ikr.Score, flags FlagSet) Result {
	c := &checker{original: original, candidate: candidate, flags: flags}

	c.checkStructure()
	if len(c.violations) > 0 {
		return Result{Pass: false, Violations: c.violations}
	}

	c.checkIntegrity()
	c.harmonyChanges = collectHarmonyChanges(original, candidate)
	c.checkTranspose()
	c.checkRhythm()
	c.checkHarmony()
	c.checkStyle()

	return Result{Pass: len(c.violations) == 0, Violations: c.violations}
}

type checker struct {
	original  *ikr.Score
	candidate *ikr.Score
	flags     FlagSet

	violations     []Violation
	harmonyChanges []harmonyChange
}

func (c *checker) add(v Violation) {
	c.violations = append(c.violations, v)
}

// checkStructure verifies that part/voice/measure counts and all
// header identifiers are identical, and that score-global attributes
// survive (the style tag may move under style_change).
func (c *checker) checkStructure() {
	o, n := c.original, c.candidate

	origAttrs, candAttrs := o.Attrs, n.Attrs
	if c.flags.Has(FlagStyleChange) {
		// Style tag is the one attribute style_change may touch.
		candAttrs.Style = origAttrs.Style
	}
	if origAttrs != candAttrs {
		c.add(structural(ErrAttrsChanged, indexer.Ref{},
			"score attributes changed: %+v -> %+v", o.Attrs, n.Attrs))
	}

	if len(o.Parts) != len(n.Parts) {
		c.add(structural(ErrPartCount, indexer.Ref{},
			"part count changed: %d -> %d", len(o.Parts), len(n.Parts)))
		return
	}
	for pi := range o.Parts {
		op, np := o.Parts[pi], n.Parts[pi]
		if op.Name != np.Name {
			c.add(structural(ErrPartName, indexer.Ref{Part: pi},
				"part renamed: %q -> %q", op.Name, np.Name))
		}
		if len(op.Voices) != len(np.Voices) {
			c.add(structural(ErrVoiceCount, indexer.Ref{Part: pi},
				"voice count changed in part %q: %d -> %d", op.Name, len(op.Voices), len(np.Voices)))
			continue
		}
		for vi := range op.Voices {
			ov, nv := op.Voices[vi], np.Voices[vi]
			if ov.Index != nv.Index {
				c.add(structural(ErrVoiceIndex, indexer.Ref{Part: pi, Voice: vi},
					"voice index changed: %d -> %d", ov.Index, nv.Index))
			}
			if len(ov.Measures) != len(nv.Measures) {
				c.add(structural(ErrMeasureCount, indexer.Ref{Part: pi, Voice: vi},
					"measure count changed: %d -> %d", len(ov.Measures), len(nv.Measures)))
				continue
			}
			for mi := range ov.Measures {
				if ov.Measures[mi].Number != nv.Measures[mi].Number {
					c.add(structural(ErrMeasureNumber, indexer.Ref{Part: pi, Voice: vi, Measure: ov.Measures[mi].Number},
						"measure number changed: %d -> %d", ov.Measures[mi].Number, nv.Measures[mi].Number))
				}
			}
		}
	}
}

// checkIntegrity verifies the candidate's measure invariants. The
// capacity comes from the original's time signature - global
// attributes are authoritative on the original side.
func (c *checker) checkIntegrity() {
	capacity, err := c.original.Capacity()
	if err != nil {
		c.add(integrity(indexer.Ref{}, "%v", err))
		return
	}
	for pi, part := range c.candidate.Parts {
		for vi, voice := range part.Voices {
			for _, measure := range voice.Measures {
				for _, ie := range ikr.CheckMeasure(measure, capacity) {
					c.add(integrity(
						indexer.Ref{Part: pi, Voice: vi, Measure: ie.MeasureNumber, Event: ie.EventIndex},
						"%s", ie.Message))
				}
			}
		}
	}
}

// eachMeasurePair walks aligned measures of the two same-shaped trees.
func (c *checker) eachMeasurePair(fn func(pi, vi int, om, nm ikr.Measure)) {
	for pi := range c.original.Parts {
		for vi := range c.original.Parts[pi].Voices {
			ov := c.original.Parts[pi].Voices[vi]
			nv := c.candidate.Parts[pi].Voices[vi]
			for mi := range ov.Measures {
				fn(pi, vi, ov.Measures[mi], nv.Measures[mi])
			}
		}
	}
}

// positionedNote pairs a note with its event index in the measure.
type positionedNote struct {
	index int
	note  ikr.NoteEvent
}

func notesOf(m ikr.Measure) []positionedNote {
	var out []positionedNote
	for i, e := range m.Events {
		if note, ok := e.(ikr.NoteEvent); ok {
			out = append(out, positionedNote{index: i, note: note})
		}
	}
	return out
}
