package indexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldhelm/cantus/internal/ikr"
	"github.com/aldhelm/cantus/internal/testutil"
)

func TestBuildAssignsSequentialIDs(t *testing.T) {
	idx := Build(testutil.Quarters())

	require.Equal(t, 4, idx.Len())
	entries := idx.Entries()
	assert.Equal(t, "event_1", entries[0].ID)
	assert.Equal(t, "event_4", entries[3].ID)
}

func TestBuildTraversalOrder(t *testing.T) {
	idx := Build(testutil.Chorale())

	// Soprano holds 10 events over two measures, Bass the remaining 3.
	require.Equal(t, 13, idx.Len())

	first := idx.Entries()[0]
	assert.Equal(t, Ref{Part: 0, Voice: 0, Measure: 1, Event: 0}, first.Ref)
	assert.IsType(t, ikr.HarmonyEvent{}, first.Event)

	last := idx.Entries()[12]
	assert.Equal(t, "event_13", last.ID)
	assert.Equal(t, Ref{Part: 1, Voice: 0, Measure: 2, Event: 0}, last.Ref)
}

func TestBuildDeterministic(t *testing.T) {
	a := Build(testutil.Chorale())
	b := Build(testutil.Chorale())

	assert.Equal(t, a.Entries(), b.Entries())
}

func TestByID(t *testing.T) {
	idx := Build(testutil.Quarters())

	e, ok := idx.ByID("event_2")
	require.True(t, ok)
	assert.Equal(t, Ref{Part: 0, Voice: 0, Measure: 1, Event: 1}, e.Ref)

	_, ok = idx.ByID("event_99")
	assert.False(t, ok)
}

func TestByRef(t *testing.T) {
	idx := Build(testutil.Quarters())

	ref := Ref{Part: 0, Voice: 0, Measure: 1, Event: 3}
	e, ok := idx.ByRef(ref)
	require.True(t, ok)
	assert.Equal(t, "event_4", e.ID)
	assert.Equal(t, "event_4", idx.ID(ref))

	assert.Equal(t, "", idx.ID(Ref{Part: 5, Voice: 0, Measure: 1, Event: 0}))
}

func TestRefString(t *testing.T) {
	ref := Ref{Part: 0, Voice: 0, Measure: 1, Event: 0}
	assert.Equal(t, "Part=0/Voice=0/Measure=1/Event=0", ref.String())
}

func TestFormatRef(t *testing.T) {
	idx := Build(testutil.Chorale())

	assert.Equal(t, "Soprano, Voice 0, Measure 1, event_3", idx.FormatRef("event_3"))
	assert.Equal(t, "Bass, Voice 0, Measure 2, event_13", idx.FormatRef("event_13"))
	assert.Equal(t, "unknown event: event_99", idx.FormatRef("event_99"))
}

func TestBuildEmptyScore(t *testing.T) {
	idx := Build(&ikr.Score{})

	assert.Equal(t, 0, idx.Len())
	assert.Empty(t, idx.Entries())
}
