package ikr

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Pitch is a pitch in Scientific Pitch Notation semantics:
// a letter step A-G, a chromatic alteration, and an octave
// (C4 = middle C).
type Pitch struct {
	Step   byte // 'A'..'G'
	Alter  int  // -2..+2 (bb, b, natural, #, x)
	Octave int  // SPN octave, C4 = middle C
}

// stepSemitones maps a step letter to its semitone offset from C.
var stepSemitones = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// ParsePitch parses an SPN literal: C4, F#5, Bb3, Cx4, Dbb3.
// The accidental sits between the step and the octave digit(s).
func ParsePitch(s string) (Pitch, error) {
	if len(s) < 2 {
		return Pitch{}, fmt.Errorf("invalid pitch %q", s)
	}
	step := s[0]
	if _, ok := stepSemitones[step]; !ok {
		return Pitch{}, fmt.Errorf("invalid pitch step in %q, want A-G", s)
	}

	// Split accidental from octave: octave is the trailing digit run
	// (optionally negative is not supported; SPN octaves here are 0-9).
	i := 1
	for i < len(s) && !isDigit(s[i]) {
		i++
	}
	if i == len(s) {
		return Pitch{}, fmt.Errorf("missing octave in pitch %q", s)
	}
	accidental := s[1:i]
	octave, err := strconv.Atoi(s[i:])
	if err != nil {
		return Pitch{}, fmt.Errorf("invalid octave in pitch %q", s)
	}

	var alter int
	switch accidental {
	case "":
		alter = 0
	case "#":
		alter = 1
	case "b":
		alter = -1
	case "x":
		alter = 2
	case "bb":
		alter = -2
	default:
		return Pitch{}, fmt.Errorf("invalid accidental %q in pitch %q", accidental, s)
	}

	return Pitch{Step: step, Alter: alter, Octave: octave}, nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// String renders the SPN literal form.
func (p Pitch) String() string {
	var accidental string
	switch p.Alter {
	case 1:
		accidental = "#"
	case -1:
		accidental = "b"
	case 2:
		accidental = "x"
	case -2:
		accidental = "bb"
	}
	return string(p.Step) + accidental + strconv.Itoa(p.Octave)
}

// MarshalJSON encodes the pitch as its SPN literal form.
func (p Pitch) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes the SPN literal form.
func (p *Pitch) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePitch(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MIDI returns the MIDI note number (C4 = 60).
func (p Pitch) MIDI() int {
	return (p.Octave+1)*12 + stepSemitones[p.Step] + p.Alter
}

// SemitonesFrom returns the signed semitone distance from o to p.
func (p Pitch) SemitonesFrom(o Pitch) int {
	return p.MIDI() - o.MIDI()
}
