package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldhelm/cantus/internal/ikr"
	"github.com/aldhelm/cantus/internal/testutil"
)

func TestStyleLyricChangedWithoutFlag(t *testing.T) {
	original := testutil.Chorale()
	candidate := original.Clone()
	m := &candidate.Parts[0].Voices[0].Measures[0]
	m.Events[1] = ikr.LyricEvent{T: ikr.Zero, Text: "Glo-"}

	r := Check(original, candidate, FlagSet{})
	require.False(t, r.Pass)
	require.Len(t, r.Violations, 1)

	v := r.Violations[0]
	assert.Equal(t, ErrContentChanged, v.Code)
	assert.Equal(t, FlagStyleChange, v.Flag)
	assert.Contains(t, v.Message, `"Lau-" -> "Glo-"`)
}

func TestStyleLyricAddedWithoutFlag(t *testing.T) {
	original := testutil.Chorale()
	candidate := original.Clone()
	m := &candidate.Parts[1].Voices[0].Measures[0]
	m.Events = append([]ikr.Event{ikr.LyricEvent{T: ikr.Zero, Text: "Ah"}}, m.Events...)

	r := Check(original, candidate, FlagSet{})
	require.False(t, r.Pass)
	require.Len(t, r.Violations, 1)
	assert.Equal(t, ErrContentChanged, r.Violations[0].Code)
	assert.Contains(t, r.Violations[0].Message, "event count changed")
}

func TestStyleChangeAllowsLyricEdits(t *testing.T) {
	original := testutil.Chorale()
	candidate := original.Clone()
	m := &candidate.Parts[0].Voices[0].Measures[0]
	m.Events[1] = ikr.LyricEvent{T: ikr.Zero, Text: "Glo-"}

	r := Check(original, candidate, NewFlagSet(FlagStyleChange))
	assert.True(t, r.Pass, "violations: %v", r.Violations)
}

func TestStyleChangeAllowsStyleAttr(t *testing.T) {
	original := testutil.Chorale()
	candidate := original.Clone()
	candidate.Attrs.Style = "jazz"

	r := Check(original, candidate, NewFlagSet(FlagStyleChange))
	assert.True(t, r.Pass, "violations: %v", r.Violations)

	r = Check(original, candidate, FlagSet{})
	require.False(t, r.Pass)
	assert.Equal(t, []string{ErrAttrsChanged}, codes(r))
}

func TestStyleChangeDoesNotCoverOtherAttrs(t *testing.T) {
	original := testutil.Chorale()
	candidate := original.Clone()
	candidate.Attrs.Style = "jazz"
	candidate.Attrs.Tempo = 140

	r := Check(original, candidate, NewFlagSet(FlagStyleChange))
	require.False(t, r.Pass)
	assert.Equal(t, []string{ErrAttrsChanged}, codes(r))
}
