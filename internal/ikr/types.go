package ikr

import (
	"encoding/json"
	"fmt"
)

// EventType tags the closed set of event variants.
type EventType string

const (
	EventNote    EventType = "note"
	EventRest    EventType = "rest"
	EventHarmony EventType = "harmony"
	EventLyric   EventType = "lyric"
)

// Event is a sealed interface over the four event variants.
// Only NoteEvent, RestEvent, HarmonyEvent, and LyricEvent implement
// it, so type switches in the validator and diff analyzer are
// exhaustive by construction.
type Event interface {
	event() // Sealed - only these types implement it

	// Type returns the variant tag.
	Type() EventType

	// Onset returns the event position within its measure.
	Onset() Rational
}

// NoteEvent is a sounded pitch with exact onset and duration.
// Tie is "" (none), "start", or "stop".
type NoteEvent struct {
	T     Rational `json:"t"`
	Dur   Rational `json:"dur"`
	Pitch Pitch    `json:"pitch"`
	Tie   string   `json:"tie,omitempty"`
}

func (NoteEvent) event()            {}
func (NoteEvent) Type() EventType   { return EventNote }
func (e NoteEvent) Onset() Rational { return e.T }

// RestEvent is silence with exact onset and duration.
type RestEvent struct {
	T   Rational `json:"t"`
	Dur Rational `json:"dur"`
}

func (RestEvent) event()            {}
func (RestEvent) Type() EventType   { return EventRest }
func (e RestEvent) Onset() Rational { return e.T }

// HarmonyEvent declares a harmonic function at an onset. Harmony
// events are the only legal channel for expressing harmonic change.
// Key is an optional key context such as "E minor".
type HarmonyEvent struct {
	T      Rational `json:"t"`
	Symbol string   `json:"symbol"`
	Key    string   `json:"key,omitempty"`
}

func (HarmonyEvent) event()            {}
func (HarmonyEvent) Type() EventType   { return EventHarmony }
func (e HarmonyEvent) Onset() Rational { return e.T }

// LyricEvent aligns a syllable of text to an onset.
type LyricEvent struct {
	T    Rational `json:"t"`
	Text string   `json:"text"`
}

func (LyricEvent) event()            {}
func (LyricEvent) Type() EventType   { return EventLyric }
func (e LyricEvent) Onset() Rational { return e.T }

// HasDuration reports whether the event occupies time in the measure
// partition (Note and Rest do; Harmony and Lyric are point markers).
func HasDuration(e Event) bool {
	switch e.(type) {
	case NoteEvent, RestEvent:
		return true
	default:
		return false
	}
}

// Duration returns the event duration, or Zero for point events.
func Duration(e Event) Rational {
	switch ev := e.(type) {
	case NoteEvent:
		return ev.Dur
	case RestEvent:
		return ev.Dur
	default:
		return Zero
	}
}

// Measure is an ordered sequence of events identified by a 1-based
// number unique within its voice.
type Measure struct {
	Number int     `json:"number"`
	Events []Event `json:"events"`
}

// Voice is an ordered sequence of measures identified by an index
// unique within its part.
type Voice struct {
	Index    int       `json:"index"`
	Measures []Measure `json:"measures"`
}

// Part is a named voice group (e.g. "Soprano"), owned exclusively by
// its score.
type Part struct {
	Name   string  `json:"name"`
	Voices []Voice `json:"voices"`
}

// Attrs holds score-global attributes. Time is the governing time
// signature ("4/4"); measure capacity derives from it. Tempo and
// Style are optional.
type Attrs struct {
	Key   string `json:"key,omitempty"`
	Time  string `json:"time"`
	Tempo int    `json:"tempo,omitempty"`
	Style string `json:"style,omitempty"`
}

// Score is the root of the IKR tree. Invariant: at least one part.
type Score struct {
	Attrs Attrs  `json:"attrs"`
	Parts []Part `json:"parts"`
}

// Capacity returns the measure capacity implied by the score's time
// signature, e.g. "4/4" -> 1, "3/4" -> 3/4, "6/8" -> 3/4.
func (s *Score) Capacity() (Rational, error) {
	r, err := ParseRational(s.Attrs.Time)
	if err != nil || r.Sign() <= 0 {
		return Zero, fmt.Errorf("invalid time signature %q", s.Attrs.Time)
	}
	return r, nil
}

// taggedEvent is the JSON envelope for the sealed Event variant.
type taggedEvent struct {
	Type EventType       `json:"type"`
	Body json.RawMessage `json:"-"`
}

// MarshalJSON encodes a measure with type-tagged events.
func (m Measure) MarshalJSON() ([]byte, error) {
	type rawMeasure struct {
		Number int               `json:"number"`
		Events []json.RawMessage `json:"events"`
	}
	raw := rawMeasure{Number: m.Number, Events: make([]json.RawMessage, 0, len(m.Events))}
	for i, e := range m.Events {
		body, err := marshalTagged(e)
		if err != nil {
			return nil, fmt.Errorf("measure %d event %d: %w", m.Number, i, err)
		}
		raw.Events = append(raw.Events, body)
	}
	return json.Marshal(raw)
}

func marshalTagged(e Event) ([]byte, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	// Splice the type tag into the object.
	tag := fmt.Sprintf(`{"type":%q,`, e.Type())
	if string(body) == "{}" {
		tag = fmt.Sprintf(`{"type":%q`, e.Type())
	}
	return append([]byte(tag), body[1:]...), nil
}

// UnmarshalJSON decodes a measure with type-tagged events.
func (m *Measure) UnmarshalJSON(data []byte) error {
	type rawMeasure struct {
		Number int               `json:"number"`
		Events []json.RawMessage `json:"events"`
	}
	var raw rawMeasure
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Number = raw.Number
	m.Events = make([]Event, 0, len(raw.Events))
	for i, body := range raw.Events {
		e, err := unmarshalTagged(body)
		if err != nil {
			return fmt.Errorf("measure %d event %d: %w", raw.Number, i, err)
		}
		m.Events = append(m.Events, e)
	}
	return nil
}

func unmarshalTagged(data []byte) (Event, error) {
	var probe struct {
		Type EventType `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}
	switch probe.Type {
	case EventNote:
		var e NoteEvent
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		return e, nil
	case EventRest:
		var e RestEvent
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		return e, nil
	case EventHarmony:
		var e HarmonyEvent
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		return e, nil
	case EventLyric:
		var e LyricEvent
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", probe.Type)
	}
}
