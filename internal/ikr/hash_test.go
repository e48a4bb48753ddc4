package ikr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreIDDeterministic(t *testing.T) {
	a := testScore()
	b := testScore()

	assert.Equal(t, ScoreID(a), ScoreID(b))
	assert.Len(t, ScoreID(a), 64) // hex SHA-256
}

func TestScoreIDSensitiveToContent(t *testing.T) {
	base := testScore()

	pitch := base.MapNotes(func(n NoteEvent) NoteEvent {
		n.Pitch.Alter = 1
		return n
	})
	assert.NotEqual(t, ScoreID(base), ScoreID(pitch))

	attrs := base.WithAttrs(Attrs{Key: "D", Time: "4/4", Tempo: 90})
	assert.NotEqual(t, ScoreID(base), ScoreID(attrs))

	renamed := base.Clone()
	renamed.Parts[0].Name = "Alto"
	assert.NotEqual(t, ScoreID(base), ScoreID(renamed))
}

func TestScoreIDNormalizedRationals(t *testing.T) {
	a := testScore()
	b := testScore()
	b.Parts[0].Voices[0].Measures[0].Events[1] = NoteEvent{
		T: NewRational(0, 8), Dur: NewRational(2, 4), Pitch: Pitch{'E', 0, 4},
	}

	// Equivalent rational forms hash identically.
	assert.Equal(t, ScoreID(a), ScoreID(b))
}

func TestScoreIDTieSensitive(t *testing.T) {
	a := testScore()
	b := testScore()
	n := b.Parts[0].Voices[0].Measures[0].Events[1].(NoteEvent)
	n.Tie = "start"
	b.Parts[0].Voices[0].Measures[0].Events[1] = n

	assert.NotEqual(t, ScoreID(a), ScoreID(b))
}
