package ikr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScore() *Score {
	return &Score{
		Attrs: Attrs{Key: "C", Time: "4/4", Tempo: 90},
		Parts: []Part{{
			Name: "Soprano",
			Voices: []Voice{{
				Index: 0,
				Measures: []Measure{{
					Number: 1,
					Events: []Event{
						HarmonyEvent{T: Zero, Symbol: "C"},
						note("0", "1/2", "E4"),
						note("1/2", "1/2", "F4"),
					},
				}},
			}},
		}},
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := testScore()
	c := s.Clone()

	require.True(t, Equal(s, c))

	// Mutating the clone must not touch the receiver.
	c.Parts[0].Voices[0].Measures[0].Events[1] = note("0", "1/2", "G4")
	c.Parts[0].Name = "Alto"

	assert.Equal(t, "Soprano", s.Parts[0].Name)
	assert.Equal(t, note("0", "1/2", "E4"), s.Parts[0].Voices[0].Measures[0].Events[1])
}

func TestWithAttrs(t *testing.T) {
	s := testScore()
	c := s.WithAttrs(Attrs{Key: "D", Time: "3/4", Style: "jazz"})

	assert.Equal(t, Attrs{Key: "C", Time: "4/4", Tempo: 90}, s.Attrs)
	assert.Equal(t, Attrs{Key: "D", Time: "3/4", Style: "jazz"}, c.Attrs)
	assert.True(t, Equal(&Score{Attrs: c.Attrs, Parts: s.Parts}, c))
}

func TestMapNotes(t *testing.T) {
	s := testScore()
	up := s.MapNotes(func(n NoteEvent) NoteEvent {
		n.Pitch.Octave++
		return n
	})

	// Original untouched.
	assert.Equal(t, note("0", "1/2", "E4"), s.Parts[0].Voices[0].Measures[0].Events[1])
	assert.Equal(t, note("0", "1/2", "E5"), up.Parts[0].Voices[0].Measures[0].Events[1])
	// Non-note events pass through.
	assert.Equal(t, HarmonyEvent{T: Zero, Symbol: "C"}, up.Parts[0].Voices[0].Measures[0].Events[0])
}

func TestEqual(t *testing.T) {
	a := testScore()
	b := testScore()
	assert.True(t, Equal(a, b))

	b.Parts[0].Voices[0].Measures[0].Events[2] = note("1/2", "1/2", "G4")
	assert.False(t, Equal(a, b))

	c := testScore()
	c.Attrs.Tempo = 120
	assert.False(t, Equal(a, c))
}

func TestEqualNormalizedRationals(t *testing.T) {
	a := testScore()
	b := testScore()
	// 2/4 normalizes to 1/2 at construction, so these stay equal.
	b.Parts[0].Voices[0].Measures[0].Events[2] = NoteEvent{
		T: NewRational(2, 4), Dur: NewRational(2, 4), Pitch: Pitch{'F', 0, 4},
	}
	assert.True(t, Equal(a, b))
}
