package diff

import (
	"fmt"

	"github.com/aldhelm/cantus/internal/ikr"
	"github.com/aldhelm/cantus/internal/indexer"
)

// Analyze computes the ordered semantic change list between two
// structurally-validated snapshots. Same inputs always yield the same
// entry sequence, grouping, and wording.
//
// Returns ErrShapeMismatch if the trees differ in shape - that is a
// defect upstream, not a user-facing condition.
func Analyze(before, after *ikr.Score) ([]Entry, error) {
	if !sameShape(before, after) {
		return nil, ErrShapeMismatch
	}

	a := &analyzer{
		before: before,
		after:  after,
		index:  indexer.Build(after),
	}

	a.scoreAttrs()
	grouped := a.transposition()
	a.measures(grouped)

	return a.entries, nil
}

type analyzer struct {
	before  *ikr.Score
	after   *ikr.Score
	index   *indexer.Index
	entries []Entry
}

func (a *analyzer) add(e Entry) {
	a.entries = append(a.entries, e)
}

// sameShape checks part/voice/measure counts and header identifiers.
func sameShape(x, y *ikr.Score) bool {
	if len(x.Parts) != len(y.Parts) {
		return false
	}
	for pi := range x.Parts {
		if x.Parts[pi].Name != y.Parts[pi].Name || len(x.Parts[pi].Voices) != len(y.Parts[pi].Voices) {
			return false
		}
		for vi := range x.Parts[pi].Voices {
			xv, yv := x.Parts[pi].Voices[vi], y.Parts[pi].Voices[vi]
			if xv.Index != yv.Index || len(xv.Measures) != len(yv.Measures) {
				return false
			}
			for mi := range xv.Measures {
				if xv.Measures[mi].Number != yv.Measures[mi].Number {
					return false
				}
			}
		}
	}
	return true
}

// scoreAttrs emits score-level facts: key, meter, tempo, style.
func (a *analyzer) scoreAttrs() {
	b, c := a.before.Attrs, a.after.Attrs
	if b.Key != c.Key {
		a.add(Entry{Level: LevelScore, Change: ChangeAttrs,
			Description: fmt.Sprintf("Key changed: %s → %s", b.Key, c.Key)})
	}
	if b.Time != c.Time {
		a.add(Entry{Level: LevelScore, Change: ChangeAttrs,
			Description: fmt.Sprintf("Meter changed: %s → %s", b.Time, c.Time)})
	}
	if b.Tempo != c.Tempo {
		a.add(Entry{Level: LevelScore, Change: ChangeAttrs,
			Description: fmt.Sprintf("Tempo changed: %d → %d", b.Tempo, c.Tempo)})
	}
	if b.Style != c.Style {
		a.add(Entry{Level: LevelScore, Change: ChangeAttrs,
			Description: fmt.Sprintf("Style adapted: %s → %s", b.Style, c.Style)})
	}
}

// notePair is one position-aligned note comparison.
type notePair struct {
	ref          indexer.Ref
	before, next ikr.NoteEvent
}

func (a *analyzer) notePairs() []notePair {
	var pairs []notePair
	eachMeasurePair(a.before, a.after, func(pi, vi int, bm, am ikr.Measure) {
		bNotes := notesIn(bm)
		aNotes := notesIn(am)
		n := len(bNotes)
		if len(aNotes) < n {
			n = len(aNotes)
		}
		for i := 0; i < n; i++ {
			pairs = append(pairs, notePair{
				ref:    indexer.Ref{Part: pi, Voice: vi, Measure: am.Number, Event: aNotes[i].index},
				before: bNotes[i].note,
				next:   aNotes[i].note,
			})
		}
	})
	return pairs
}

// transposition applies the grouping rule: when every note in the
// score shows the same nonzero pitch delta, one score-level entry
// replaces the per-note pitch entries. Reports whether grouping
// happened.
func (a *analyzer) transposition() bool {
	pairs := a.notePairs()
	if len(pairs) == 0 {
		return false
	}
	delta := pairs[0].next.Pitch.SemitonesFrom(pairs[0].before.Pitch)
	if delta == 0 {
		return false
	}
	refs := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p.next.Pitch.SemitonesFrom(p.before.Pitch) != delta {
			return false
		}
		refs = append(refs, a.index.ID(p.ref))
	}
	a.add(Entry{
		Level:       LevelScore,
		Change:      ChangeTransposition,
		Description: fmt.Sprintf("Transposed by %+d semitones", delta),
		Refs:        refs,
	})
	return true
}

// measures walks aligned measures emitting measure-level rhythm notes
// followed by event-level changes in onset order.
func (a *analyzer) measures(transposed bool) {
	eachMeasurePair(a.before, a.after, func(pi, vi int, bm, am ikr.Measure) {
		if !sameTiming(bm, am) {
			a.add(Entry{
				Level:  LevelMeasure,
				Change: ChangeRhythm,
				Description: fmt.Sprintf("%s, Measure %d: rhythm changed: %s → %s",
					a.after.Parts[pi].Name, am.Number, rhythmPattern(bm), rhythmPattern(am)),
				Refs: a.timedRefs(pi, vi, am),
			})
		}
		a.noteChanges(pi, vi, bm, am, transposed)
		a.harmonyChanges(pi, vi, bm, am)
		a.lyricChanges(pi, vi, bm, am)
	})
}

func (a *analyzer) timedRefs(pi, vi int, m ikr.Measure) []string {
	var refs []string
	for ei, e := range m.Events {
		if ikr.HasDuration(e) {
			refs = append(refs, a.index.ID(indexer.Ref{Part: pi, Voice: vi, Measure: m.Number, Event: ei}))
		}
	}
	return refs
}

func (a *analyzer) noteChanges(pi, vi int, bm, am ikr.Measure, transposed bool) {
	bNotes := notesIn(bm)
	aNotes := notesIn(am)
	n := len(bNotes)
	if len(aNotes) < n {
		n = len(aNotes)
	}

	loc := fmt.Sprintf("%s, Measure %d", a.after.Parts[pi].Name, am.Number)

	for i := 0; i < n; i++ {
		b, c := bNotes[i].note, aNotes[i].note
		if transposed || b.Pitch == c.Pitch {
			continue
		}
		ref := indexer.Ref{Part: pi, Voice: vi, Measure: am.Number, Event: aNotes[i].index}
		a.add(Entry{
			Level:  LevelEvent,
			Change: ChangePitch,
			Description: fmt.Sprintf("%s: pitch changed: %s → %s (%s)",
				loc, b.Pitch, c.Pitch, IntervalName(c.Pitch.SemitonesFrom(b.Pitch))),
			Refs: []string{a.index.ID(ref)},
		})
	}

	for i := n; i < len(aNotes); i++ {
		c := aNotes[i].note
		ref := indexer.Ref{Part: pi, Voice: vi, Measure: am.Number, Event: aNotes[i].index}
		a.add(Entry{
			Level:  LevelEvent,
			Change: ChangeContent,
			Description: fmt.Sprintf("%s: added note: %s (%s)",
				loc, c.Pitch, DurationName(c.Dur)),
			Refs: []string{a.index.ID(ref)},
		})
	}
	for i := n; i < len(bNotes); i++ {
		b := bNotes[i].note
		a.add(Entry{
			Level:  LevelEvent,
			Change: ChangeContent,
			Description: fmt.Sprintf("%s: removed note: %s (%s)",
				loc, b.Pitch, DurationName(b.Dur)),
		})
	}
}

func (a *analyzer) harmonyChanges(pi, vi int, bm, am ikr.Measure) {
	bHarm := harmoniesIn(bm)
	aHarm := harmoniesIn(am)
	loc := fmt.Sprintf("%s, Measure %d", a.after.Parts[pi].Name, am.Number)

	// Walk the after side in onset order, then report removals.
	for ei, e := range am.Events {
		h, ok := e.(ikr.HarmonyEvent)
		if !ok {
			continue
		}
		ref := indexer.Ref{Part: pi, Voice: vi, Measure: am.Number, Event: ei}
		prev, existed := bHarm[h.T]
		switch {
		case !existed:
			a.add(Entry{
				Level:       LevelEvent,
				Change:      ChangeHarmony,
				Description: fmt.Sprintf("%s: added harmony: %s", loc, h.Symbol),
				Refs:        []string{a.index.ID(ref)},
			})
		case prev.Symbol != h.Symbol || prev.Key != h.Key:
			a.add(Entry{
				Level:       LevelEvent,
				Change:      ChangeHarmony,
				Description: fmt.Sprintf("%s: harmony changed: %s → %s", loc, prev.Symbol, h.Symbol),
				Refs:        []string{a.index.ID(ref)},
			})
		}
	}
	for _, e := range bm.Events {
		h, ok := e.(ikr.HarmonyEvent)
		if !ok {
			continue
		}
		if _, still := aHarm[h.T]; !still {
			a.add(Entry{
				Level:       LevelEvent,
				Change:      ChangeHarmony,
				Description: fmt.Sprintf("%s: removed harmony: %s", loc, h.Symbol),
			})
		}
	}
}

func (a *analyzer) lyricChanges(pi, vi int, bm, am ikr.Measure) {
	bLyr := lyricsIn(bm)
	aLyr := lyricsIn(am)
	n := len(bLyr)
	if len(aLyr) < n {
		n = len(aLyr)
	}
	loc := fmt.Sprintf("%s, Measure %d", a.after.Parts[pi].Name, am.Number)

	for i := 0; i < n; i++ {
		if bLyr[i].note.Text == aLyr[i].note.Text {
			continue
		}
		ref := indexer.Ref{Part: pi, Voice: vi, Measure: am.Number, Event: aLyr[i].index}
		a.add(Entry{
			Level:  LevelEvent,
			Change: ChangeLyric,
			Description: fmt.Sprintf("%s: lyric changed: %q → %q",
				loc, bLyr[i].note.Text, aLyr[i].note.Text),
			Refs: []string{a.index.ID(ref)},
		})
	}
	for i := n; i < len(aLyr); i++ {
		ref := indexer.Ref{Part: pi, Voice: vi, Measure: am.Number, Event: aLyr[i].index}
		a.add(Entry{
			Level:       LevelEvent,
			Change:      ChangeLyric,
			Description: fmt.Sprintf("%s: added lyric: %q", loc, aLyr[i].note.Text),
			Refs:        []string{a.index.ID(ref)},
		})
	}
	for i := n; i < len(bLyr); i++ {
		a.add(Entry{
			Level:       LevelEvent,
			Change:      ChangeLyric,
			Description: fmt.Sprintf("%s: removed lyric: %q", loc, bLyr[i].note.Text),
		})
	}
}

// sameTiming reports whether the timed (Note/Rest) onset/duration
// sequences match. Equivalent rational forms are normalized at
// construction, so no round-trip artifacts leak through here.
func sameTiming(x, y ikr.Measure) bool {
	xt, yt := timingOf(x), timingOf(y)
	if len(xt) != len(yt) {
		return false
	}
	for i := range xt {
		if xt[i] != yt[i] {
			return false
		}
	}
	return true
}

type timing struct {
	onset ikr.Rational
	dur   ikr.Rational
}

func timingOf(m ikr.Measure) []timing {
	var out []timing
	for _, e := range m.Events {
		if ikr.HasDuration(e) {
			out = append(out, timing{onset: e.Onset(), dur: ikr.Duration(e)})
		}
	}
	return out
}

type positioned[E ikr.Event] struct {
	index int
	note  E
}

func notesIn(m ikr.Measure) []positioned[ikr.NoteEvent] {
	var out []positioned[ikr.NoteEvent]
	for i, e := range m.Events {
		if n, ok := e.(ikr.NoteEvent); ok {
			out = append(out, positioned[ikr.NoteEvent]{index: i, note: n})
		}
	}
	return out
}

func lyricsIn(m ikr.Measure) []positioned[ikr.LyricEvent] {
	var out []positioned[ikr.LyricEvent]
	for i, e := range m.Events {
		if l, ok := e.(ikr.LyricEvent); ok {
			out = append(out, positioned[ikr.LyricEvent]{index: i, note: l})
		}
	}
	return out
}

func harmoniesIn(m ikr.Measure) map[ikr.Rational]ikr.HarmonyEvent {
	out := make(map[ikr.Rational]ikr.HarmonyEvent)
	for _, e := range m.Events {
		if h, ok := e.(ikr.HarmonyEvent); ok {
			out[h.T] = h
		}
	}
	return out
}

func eachMeasurePair(before, after *ikr.Score, fn func(pi, vi int, bm, am ikr.Measure)) {
	for pi := range before.Parts {
		for vi := range before.Parts[pi].Voices {
			bv := before.Parts[pi].Voices[vi]
			av := after.Parts[pi].Voices[vi]
			for mi := range bv.Measures {
				fn(pi, vi, bv.Measures[mi], av.Measures[mi])
			}
		}
	}
}
