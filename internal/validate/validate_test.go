package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldhelm/cantus/internal/ikr"
	"github.com/aldhelm/cantus/internal/testutil"
)

func mustPitch(s string) ikr.Pitch {
	p, err := ikr.ParsePitch(s)
	if err != nil {
		panic(err)
	}
	return p
}

// mapPitches clones the score, rewriting pitches per the given table.
func mapPitches(s *ikr.Score, table map[string]string) *ikr.Score {
	return s.MapNotes(func(n ikr.NoteEvent) ikr.NoteEvent {
		if to, ok := table[n.Pitch.String()]; ok {
			n.Pitch = mustPitch(to)
		}
		return n
	})
}

func codes(r Result) []string {
	out := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		out[i] = v.Code
	}
	return out
}

func TestCheckIdentityPasses(t *testing.T) {
	original := testutil.Chorale()
	candidate := original.Clone()

	r := Check(original, candidate, FlagSet{})
	assert.True(t, r.Pass)
	assert.Empty(t, r.Violations)
}

func TestCheckPartCountChanged(t *testing.T) {
	original := testutil.Chorale()
	candidate := original.Clone()
	candidate.Parts = candidate.Parts[:1]

	r := Check(original, candidate, FlagSet{})
	require.False(t, r.Pass)
	require.Len(t, r.Violations, 1)
	assert.Equal(t, ErrPartCount, r.Violations[0].Code)
	assert.Equal(t, KindStructural, r.Violations[0].Kind)
}

func TestCheckPartRenamed(t *testing.T) {
	original := testutil.Chorale()
	candidate := original.Clone()
	candidate.Parts[1].Name = "Basso"

	r := Check(original, candidate, FlagSet{})
	require.False(t, r.Pass)
	require.Len(t, r.Violations, 1)
	assert.Equal(t, ErrPartName, r.Violations[0].Code)
	assert.Equal(t, 1, r.Violations[0].Location.Part)
}

func TestCheckMeasureCountChanged(t *testing.T) {
	original := testutil.Chorale()
	candidate := original.Clone()
	candidate.Parts[1].Voices[0].Measures = candidate.Parts[1].Voices[0].Measures[:1]

	r := Check(original, candidate, FlagSet{})
	require.False(t, r.Pass)
	assert.Contains(t, codes(r), ErrMeasureCount)
}

func TestCheckAttrsChanged(t *testing.T) {
	original := testutil.Chorale()
	candidate := original.WithAttrs(ikr.Attrs{Key: "C", Time: "4/4", Tempo: 120})

	r := Check(original, candidate, FlagSet{})
	require.False(t, r.Pass)
	require.Len(t, r.Violations, 1)
	assert.Equal(t, ErrAttrsChanged, r.Violations[0].Code)
}

func TestCheckStructuralShortCircuits(t *testing.T) {
	// A renamed part plus a pitch change reports only the structural
	// violation; flag checks never run on differently-shaped trees.
	original := testutil.Chorale()
	candidate := mapPitches(original, map[string]string{"E4": "G4"})
	candidate.Parts[0].Name = "Treble"

	r := Check(original, candidate, FlagSet{})
	require.False(t, r.Pass)
	assert.Equal(t, []string{ErrPartName}, codes(r))
}

func TestCheckCandidateIntegrity(t *testing.T) {
	original := testutil.Quarters()
	candidate := original.Clone()
	// Pull the second note back onto the first, creating an overlap.
	n := candidate.Parts[0].Voices[0].Measures[0].Events[1].(ikr.NoteEvent)
	n.T = ikr.NewRational(1, 8)
	candidate.Parts[0].Voices[0].Measures[0].Events[1] = n

	r := Check(original, candidate, FlagSet{})
	require.False(t, r.Pass)
	assert.Contains(t, codes(r), ErrIntegrity)
}

func TestCheckInvalidTimeSignature(t *testing.T) {
	original := testutil.Quarters().WithAttrs(ikr.Attrs{Time: "swing"})
	candidate := original.Clone()

	r := Check(original, candidate, FlagSet{})
	require.False(t, r.Pass)
	require.Len(t, r.Violations, 1)
	assert.Equal(t, ErrIntegrity, r.Violations[0].Code)
	assert.Equal(t, KindIntegrity, r.Violations[0].Kind)
}

func TestViolationError(t *testing.T) {
	original := testutil.Quarters()
	candidate := mapPitches(original, map[string]string{"C4": "C#4"})

	r := Check(original, candidate, FlagSet{})
	require.Len(t, r.Violations, 1)
	assert.Equal(t,
		"[V300] FlagViolation(transpose, Part=0/Voice=0/Measure=1/Event=0): pitch changed C4 -> C#4 with transpose unset",
		r.Violations[0].Error())
}
