package ikr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func note(t, dur string, pitch string) NoteEvent {
	on, err := ParseRational(t)
	if err != nil {
		panic(err)
	}
	d, err := ParseRational(dur)
	if err != nil {
		panic(err)
	}
	p, err := ParsePitch(pitch)
	if err != nil {
		panic(err)
	}
	return NoteEvent{T: on, Dur: d, Pitch: p}
}

func TestCheckMeasureValid(t *testing.T) {
	m := Measure{Number: 1, Events: []Event{
		note("0", "1/4", "C4"),
		note("1/4", "1/4", "D4"),
		note("2/4", "1/2", "E4"),
	}}

	errs := CheckMeasure(m, NewRational(1, 1))
	assert.Empty(t, errs)
}

func TestCheckMeasurePointEventsShareOnsets(t *testing.T) {
	// Harmony and Lyric are point markers; they may share onsets with
	// timed events without overlapping.
	m := Measure{Number: 1, Events: []Event{
		HarmonyEvent{T: Zero, Symbol: "C"},
		note("0", "1/2", "E4"),
		LyricEvent{T: Zero, Text: "la"},
		note("1/2", "1/2", "F4"),
	}}

	errs := CheckMeasure(m, NewRational(1, 1))
	assert.Empty(t, errs)
}

func TestCheckMeasureNegativeOnset(t *testing.T) {
	m := Measure{Number: 2, Events: []Event{
		NoteEvent{T: NewRational(-1, 4), Dur: NewRational(1, 4), Pitch: Pitch{'C', 0, 4}},
	}}

	errs := CheckMeasure(m, NewRational(1, 1))
	require.Len(t, errs, 1)
	assert.Equal(t, 2, errs[0].MeasureNumber)
	assert.Equal(t, 0, errs[0].EventIndex)
	assert.Contains(t, errs[0].Message, "non-negative")
}

func TestCheckMeasureOnsetOutsideCapacity(t *testing.T) {
	m := Measure{Number: 1, Events: []Event{
		note("3/4", "1/4", "C4"),
	}}

	errs := CheckMeasure(m, NewRational(3, 4))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "outside measure capacity")
}

func TestCheckMeasureUnordered(t *testing.T) {
	m := Measure{Number: 1, Events: []Event{
		note("1/2", "1/4", "C4"),
		note("0", "1/4", "D4"),
	}}

	errs := CheckMeasure(m, NewRational(1, 1))
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "ordered by onset")
}

func TestCheckMeasureOverlap(t *testing.T) {
	m := Measure{Number: 1, Events: []Event{
		note("0", "1/2", "C4"),
		note("1/4", "1/4", "D4"),
	}}

	errs := CheckMeasure(m, NewRational(1, 1))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "overlaps")
}

func TestCheckMeasureZeroDuration(t *testing.T) {
	m := Measure{Number: 1, Events: []Event{
		NoteEvent{T: Zero, Dur: Zero, Pitch: Pitch{'C', 0, 4}},
	}}

	errs := CheckMeasure(m, NewRational(1, 1))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "positive")
}

func TestCheckMeasureTotalExceedsCapacity(t *testing.T) {
	m := Measure{Number: 1, Events: []Event{
		note("0", "1/2", "C4"),
		note("1/2", "1/2", "D4"),
	}}

	errs := CheckMeasure(m, NewRational(3, 4))
	require.NotEmpty(t, errs)
	last := errs[len(errs)-1]
	assert.Contains(t, last.Message, "exceeds measure capacity")
}

func TestCheckMeasureCollectsAllViolations(t *testing.T) {
	m := Measure{Number: 1, Events: []Event{
		note("1/2", "1/4", "C4"),
		note("0", "1/2", "D4"), // unordered
		NoteEvent{T: NewRational(3, 4), Dur: Zero, Pitch: Pitch{'E', 0, 4}}, // zero duration
	}}

	errs := CheckMeasure(m, NewRational(1, 1))
	assert.GreaterOrEqual(t, len(errs), 2)
}

func TestCheckScoreEmptyParts(t *testing.T) {
	s := &Score{Attrs: Attrs{Time: "4/4"}}

	errs := CheckScore(s)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "at least one part")
}

func TestCheckScoreBadTimeSignature(t *testing.T) {
	s := &Score{
		Attrs: Attrs{Time: "fast"},
		Parts: []Part{{Name: "Soprano"}},
	}

	errs := CheckScore(s)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "invalid time signature")
}

func TestCapacityFromTimeSignature(t *testing.T) {
	tests := []struct {
		time string
		want Rational
	}{
		{"4/4", NewRational(1, 1)},
		{"3/4", NewRational(3, 4)},
		{"6/8", NewRational(3, 4)},
		{"2/2", NewRational(1, 1)},
	}
	for _, tt := range tests {
		s := &Score{Attrs: Attrs{Time: tt.time}}
		got, err := s.Capacity()
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "time %s", tt.time)
	}
}
