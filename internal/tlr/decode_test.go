package tlr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldhelm/cantus/internal/ikr"
	"github.com/aldhelm/cantus/internal/testutil"
)

func TestDecodeValidScore(t *testing.T) {
	input := `PART Soprano
VOICE 0
MEASURE 1
HARMONY t=0 symbol=C
NOTE t=0 dur=1/2 pitch=E4
NOTE t=1/2 dur=1/4 pitch=F4
REST t=3/4 dur=1/4`

	score, errs := Decode(input)
	require.Empty(t, errs)
	require.Len(t, score.Parts, 1)

	part := score.Parts[0]
	assert.Equal(t, "Soprano", part.Name)
	require.Len(t, part.Voices, 1)
	require.Len(t, part.Voices[0].Measures, 1)

	m := part.Voices[0].Measures[0]
	assert.Equal(t, 1, m.Number)
	require.Len(t, m.Events, 4)
	assert.Equal(t, ikr.HarmonyEvent{T: ikr.Zero, Symbol: "C"}, m.Events[0])
	assert.Equal(t, ikr.RestEvent{T: ikr.NewRational(3, 4), Dur: ikr.NewRational(1, 4)}, m.Events[3])
}

func TestDecodeCarriesNoAttrs(t *testing.T) {
	score, errs := Decode("PART A\nVOICE 0\nMEASURE 1\nNOTE t=0 dur=1/4 pitch=C4")
	require.Empty(t, errs)
	assert.Equal(t, ikr.Attrs{}, score.Attrs)
}

func TestDecodeTieAttribute(t *testing.T) {
	input := `PART Soprano
VOICE 0
MEASURE 1
NOTE t=0 dur=1/2 pitch=E4 tie=start
MEASURE 2
NOTE t=0 dur=1/2 pitch=E4 tie=stop`

	score, errs := Decode(input)
	require.Empty(t, errs)

	measures := score.Parts[0].Voices[0].Measures
	assert.Equal(t, "start", measures[0].Events[0].(ikr.NoteEvent).Tie)
	assert.Equal(t, "stop", measures[1].Events[0].(ikr.NoteEvent).Tie)
}

func TestDecodeHarmonyKeySpansLine(t *testing.T) {
	score, errs := Decode("PART A\nVOICE 0\nMEASURE 1\nHARMONY t=0 symbol=Am key=E minor")
	require.Empty(t, errs)

	h := score.Parts[0].Voices[0].Measures[0].Events[0].(ikr.HarmonyEvent)
	assert.Equal(t, "Am", h.Symbol)
	assert.Equal(t, "E minor", h.Key)
}

func TestDecodeLyricTextSpansLine(t *testing.T) {
	score, errs := Decode("PART A\nVOICE 0\nMEASURE 1\nLYRIC t=0 text=in ex-cel-sis")
	require.Empty(t, errs)

	l := score.Parts[0].Voices[0].Measures[0].Events[0].(ikr.LyricEvent)
	assert.Equal(t, "in ex-cel-sis", l.Text)
}

func TestDecodeNormalizesUnicode(t *testing.T) {
	// Combining diaeresis collapses to the precomposed form.
	score, errs := Decode("PART Chöre\nVOICE 0\nMEASURE 1\nNOTE t=0 dur=1/4 pitch=C4")
	require.Empty(t, errs)
	assert.Equal(t, "Chöre", score.Parts[0].Name)
}

func TestDecodeIgnoresBlankLinesAndWhitespace(t *testing.T) {
	input := "\nPART A\n\n  VOICE 0\nMEASURE 1\n\n  NOTE t=0 dur=1/4 pitch=C4\n\n"
	score, errs := Decode(input)
	require.Empty(t, errs)
	require.Len(t, score.Parts, 1)
	assert.Len(t, score.Parts[0].Voices[0].Measures[0].Events, 1)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode string
		wantLine int
	}{
		{
			name:     "part without name",
			input:    "PART",
			wantCode: ErrBadHeader,
			wantLine: 1,
		},
		{
			name:     "voice with extra fields",
			input:    "PART A\nVOICE 0 1\nMEASURE 1\nNOTE t=0 dur=1/4 pitch=C4",
			wantCode: ErrBadHeader,
			wantLine: 2,
		},
		{
			name:     "voice index not a number",
			input:    "PART A\nVOICE one\nMEASURE 1\nNOTE t=0 dur=1/4 pitch=C4",
			wantCode: ErrBadHeader,
			wantLine: 2,
		},
		{
			name:     "measure number zero",
			input:    "PART A\nVOICE 0\nMEASURE 0\nNOTE t=0 dur=1/4 pitch=C4",
			wantCode: ErrBadHeader,
			wantLine: 3,
		},
		{
			name:     "voice before part",
			input:    "VOICE 0\nMEASURE 1\nNOTE t=0 dur=1/4 pitch=C4",
			wantCode: ErrHeaderOrder,
			wantLine: 1,
		},
		{
			name:     "measure before voice",
			input:    "PART A\nMEASURE 1\nNOTE t=0 dur=1/4 pitch=C4",
			wantCode: ErrHeaderOrder,
			wantLine: 2,
		},
		{
			name:     "event outside measure",
			input:    "PART A\nVOICE 0\nNOTE t=0 dur=1/4 pitch=C4",
			wantCode: ErrEventOutside,
			wantLine: 3,
		},
		{
			name:     "unknown event type",
			input:    "PART A\nVOICE 0\nMEASURE 1\nGLISSANDO t=0 dur=1/4",
			wantCode: ErrUnknownEvent,
			wantLine: 4,
		},
		{
			name:     "note missing pitch",
			input:    "PART A\nVOICE 0\nMEASURE 1\nNOTE t=0 dur=1/4",
			wantCode: ErrBadAttribute,
			wantLine: 4,
		},
		{
			name:     "note with unknown attribute",
			input:    "PART A\nVOICE 0\nMEASURE 1\nNOTE t=0 dur=1/4 pitch=C4 vol=9",
			wantCode: ErrBadAttribute,
			wantLine: 4,
		},
		{
			name:     "invalid tie value",
			input:    "PART A\nVOICE 0\nMEASURE 1\nNOTE t=0 dur=1/4 pitch=C4 tie=hold",
			wantCode: ErrBadAttribute,
			wantLine: 4,
		},
		{
			name:     "float onset",
			input:    "PART A\nVOICE 0\nMEASURE 1\nNOTE t=0.25 dur=1/4 pitch=C4",
			wantCode: ErrBadRational,
			wantLine: 4,
		},
		{
			name:     "negative onset",
			input:    "PART A\nVOICE 0\nMEASURE 1\nNOTE t=-1/4 dur=1/4 pitch=C4",
			wantCode: ErrNegativeOnset,
			wantLine: 4,
		},
		{
			name:     "zero duration",
			input:    "PART A\nVOICE 0\nMEASURE 1\nNOTE t=0 dur=0 pitch=C4",
			wantCode: ErrBadDuration,
			wantLine: 4,
		},
		{
			name:     "bad pitch",
			input:    "PART A\nVOICE 0\nMEASURE 1\nNOTE t=0 dur=1/4 pitch=H4",
			wantCode: ErrBadPitch,
			wantLine: 4,
		},
		{
			name:     "overlapping notes",
			input:    "PART A\nVOICE 0\nMEASURE 1\nNOTE t=0 dur=1/2 pitch=C4\nNOTE t=1/4 dur=1/4 pitch=D4",
			wantCode: ErrOverlap,
			wantLine: 5,
		},
		{
			name:     "onsets out of order",
			input:    "PART A\nVOICE 0\nMEASURE 1\nNOTE t=1/2 dur=1/4 pitch=C4\nLYRIC t=0 text=la",
			wantCode: ErrOverlap,
			wantLine: 5,
		},
		{
			name:     "voice with no measures",
			input:    "PART A\nVOICE 0",
			wantCode: ErrEmptyScope,
			wantLine: 2,
		},
		{
			name:     "duplicate voice index",
			input:    "PART A\nVOICE 0\nMEASURE 1\nNOTE t=0 dur=1/4 pitch=C4\nVOICE 0\nMEASURE 1\nNOTE t=0 dur=1/4 pitch=C4",
			wantCode: ErrDuplicateScope,
			wantLine: 5,
		},
		{
			name:     "duplicate measure number",
			input:    "PART A\nVOICE 0\nMEASURE 1\nNOTE t=0 dur=1/4 pitch=C4\nMEASURE 1\nNOTE t=0 dur=1/4 pitch=C4",
			wantCode: ErrDuplicateScope,
			wantLine: 5,
		},
		{
			name:     "prose line",
			input:    "Here is the transformed score:",
			wantCode: ErrUnparsableLine,
			wantLine: 1,
		},
		{
			name:     "empty input",
			input:    "",
			wantCode: ErrEmptyInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, errs := Decode(tt.input)
			assert.Nil(t, score)
			require.NotEmpty(t, errs)

			found := false
			for _, pe := range errs {
				if pe.Code == tt.wantCode {
					found = true
					if tt.wantLine > 0 {
						assert.Equal(t, tt.wantLine, pe.Line)
					}
				}
			}
			assert.True(t, found, "want code %s in %v", tt.wantCode, errs)
		})
	}
}

func TestDecodeCollectsAllErrors(t *testing.T) {
	input := `PART A
VOICE 0
MEASURE 1
NOTE t=0 dur=0 pitch=C4
NOTE t=1/4 dur=1/4 pitch=H4
GLISSANDO t=1/2`

	_, errs := Decode(input)
	require.Len(t, errs, 3)
	assert.Equal(t, ErrBadDuration, errs[0].Code)
	assert.Equal(t, ErrBadPitch, errs[1].Code)
	assert.Equal(t, ErrUnknownEvent, errs[2].Code)
}

func TestParseErrorMessage(t *testing.T) {
	pe := ParseError{Line: 3, Code: ErrBadRational, Message: "invalid onset"}
	assert.Equal(t, "[T105] line 3: invalid onset", pe.Error())
}

func TestParseErrorsMessage(t *testing.T) {
	errs := ParseErrors{
		{Line: 1, Code: ErrBadHeader, Message: "a"},
		{Line: 2, Code: ErrBadPitch, Message: "b"},
	}
	assert.Equal(t, "2 parse errors: [T100] line 1: a; [T108] line 2: b", errs.Error())
	assert.Equal(t, errs[0], errs.First())
}

func TestDecodeRoundTrip(t *testing.T) {
	original := testutil.Chorale()

	decoded, errs := Decode(Encode(original))
	require.Empty(t, errs)
	assert.Equal(t, original.Parts, decoded.Parts)
}
