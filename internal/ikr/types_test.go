package ikr

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventSealed(t *testing.T) {
	// Compile-time check: all four variants implement Event.
	var _ Event = NoteEvent{}
	var _ Event = RestEvent{}
	var _ Event = HarmonyEvent{}
	var _ Event = LyricEvent{}
}

func TestHasDuration(t *testing.T) {
	assert.True(t, HasDuration(NoteEvent{}))
	assert.True(t, HasDuration(RestEvent{}))
	assert.False(t, HasDuration(HarmonyEvent{}))
	assert.False(t, HasDuration(LyricEvent{}))
}

func TestDuration(t *testing.T) {
	assert.Equal(t, NewRational(1, 4), Duration(note("0", "1/4", "C4")))
	assert.Equal(t, NewRational(1, 2), Duration(RestEvent{T: Zero, Dur: NewRational(1, 2)}))
	assert.Equal(t, Zero, Duration(HarmonyEvent{T: Zero, Symbol: "C"}))
	assert.Equal(t, Zero, Duration(LyricEvent{T: Zero, Text: "la"}))
}

func TestMeasureJSONRoundTrip(t *testing.T) {
	m := Measure{Number: 3, Events: []Event{
		HarmonyEvent{T: Zero, Symbol: "G7", Key: "C major"},
		NoteEvent{T: Zero, Dur: NewRational(1, 2), Pitch: Pitch{'E', 0, 4}, Tie: "start"},
		RestEvent{T: NewRational(1, 2), Dur: NewRational(1, 4)},
		LyricEvent{T: Zero, Text: "Glo-"},
	}}

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var back Measure
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, m, back)
}

func TestMeasureJSONTypeTags(t *testing.T) {
	m := Measure{Number: 1, Events: []Event{
		note("0", "1/4", "C4"),
		RestEvent{T: NewRational(1, 4), Dur: NewRational(1, 4)},
	}}

	data, err := json.Marshal(m)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"type":"note"`)
	assert.Contains(t, string(data), `"type":"rest"`)
}

func TestMeasureJSONUnknownType(t *testing.T) {
	var m Measure
	err := json.Unmarshal([]byte(`{"number":1,"events":[{"type":"glissando","t":"0"}]}`), &m)
	assert.Error(t, err)
}

func TestScoreJSONRoundTrip(t *testing.T) {
	s := testScore()

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var back Score
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, Equal(s, &back))
}
