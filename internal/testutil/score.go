// Package testutil provides helpers for building score fixtures in tests.
package testutil

import "github.com/aldhelm/cantus/internal/ikr"

// ScoreBuilder assembles a score fixture incrementally. Builders keep
// test setup readable: one call per structural element, in score order.
//
// The zero builder is not usable; start with NewScore.
type ScoreBuilder struct {
	score   *ikr.Score
	part    *ikr.Part
	voice   *ikr.Voice
	measure *ikr.Measure
}

// NewScore starts a builder with 4/4 time and no parts.
func NewScore() *ScoreBuilder {
	return &ScoreBuilder{
		score: &ikr.Score{
			Attrs: ikr.Attrs{Time: "4/4"},
		},
	}
}

// Attrs replaces the score-global attributes.
func (b *ScoreBuilder) Attrs(attrs ikr.Attrs) *ScoreBuilder {
	b.score.Attrs = attrs
	return b
}

// Part opens a new part. Subsequent Voice, Measure, and event calls
// target it.
func (b *ScoreBuilder) Part(name string) *ScoreBuilder {
	b.score.Parts = append(b.score.Parts, ikr.Part{Name: name})
	b.part = &b.score.Parts[len(b.score.Parts)-1]
	b.voice = nil
	b.measure = nil
	return b
}

// Voice opens a new voice in the current part.
func (b *ScoreBuilder) Voice(index int) *ScoreBuilder {
	if b.part == nil {
		panic("testutil: Voice before Part")
	}
	b.part.Voices = append(b.part.Voices, ikr.Voice{Index: index})
	b.voice = &b.part.Voices[len(b.part.Voices)-1]
	b.measure = nil
	return b
}

// Measure opens a new measure in the current voice.
func (b *ScoreBuilder) Measure(number int) *ScoreBuilder {
	if b.voice == nil {
		panic("testutil: Measure before Voice")
	}
	b.voice.Measures = append(b.voice.Measures, ikr.Measure{Number: number})
	b.measure = &b.voice.Measures[len(b.voice.Measures)-1]
	return b
}

// Note appends a note event to the current measure. The onset,
// duration, and pitch are given as TLR-style literals ("1/4", "C4")
// so fixtures read like the text format.
func (b *ScoreBuilder) Note(onset, duration, pitch string) *ScoreBuilder {
	b.append(ikr.NoteEvent{
		T:     mustRational(onset),
		Dur:   mustRational(duration),
		Pitch: mustPitch(pitch),
	})
	return b
}

// TiedNote appends a note event with a tie marker ("start" or "stop").
func (b *ScoreBuilder) TiedNote(onset, duration, pitch, tie string) *ScoreBuilder {
	b.append(ikr.NoteEvent{
		T:     mustRational(onset),
		Dur:   mustRational(duration),
		Pitch: mustPitch(pitch),
		Tie:   tie,
	})
	return b
}

// Rest appends a rest event to the current measure.
func (b *ScoreBuilder) Rest(onset, duration string) *ScoreBuilder {
	b.append(ikr.RestEvent{
		T:   mustRational(onset),
		Dur: mustRational(duration),
	})
	return b
}

// Harmony appends a harmony event to the current measure.
func (b *ScoreBuilder) Harmony(onset, symbol string) *ScoreBuilder {
	b.append(ikr.HarmonyEvent{
		T:      mustRational(onset),
		Symbol: symbol,
	})
	return b
}

// Lyric appends a lyric event to the current measure.
func (b *ScoreBuilder) Lyric(onset, text string) *ScoreBuilder {
	b.append(ikr.LyricEvent{
		T:    mustRational(onset),
		Text: text,
	})
	return b
}

// Build returns the assembled score. The builder must not be reused
// afterwards; internal pointers alias the returned tree.
func (b *ScoreBuilder) Build() *ikr.Score {
	return b.score
}

func (b *ScoreBuilder) append(ev ikr.Event) {
	if b.measure == nil {
		panic("testutil: event before Measure")
	}
	b.measure.Events = append(b.measure.Events, ev)
}

func mustRational(s string) ikr.Rational {
	r, err := ikr.ParseRational(s)
	if err != nil {
		panic("testutil: bad rational literal " + s)
	}
	return r
}

func mustPitch(s string) ikr.Pitch {
	p, err := ikr.ParsePitch(s)
	if err != nil {
		panic("testutil: bad pitch literal " + s)
	}
	return p
}
