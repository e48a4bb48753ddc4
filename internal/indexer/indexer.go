// Package indexer assigns stable identifiers to score events for
// cross-referencing in diffs and explanations.
//
// Indexing is stateless and side-effect free: IDs are assigned in
// fixed traversal order (parts, voices, measures, events), so
// re-indexing an unchanged score always yields identical IDs.
package indexer

import (
	"fmt"

	"github.com/aldhelm/cantus/internal/ikr"
)

// Ref addresses one event by its structural position.
type Ref struct {
	Part    int `json:"part"`    // part index within the score
	Voice   int `json:"voice"`   // voice index within the part
	Measure int `json:"measure"` // 1-based measure number
	Event   int `json:"event"`   // onset-order index within the measure
}

// String renders the canonical location form used in violations and
// diff refs: "Part=0/Voice=0/Measure=1/Event=0".
func (r Ref) String() string {
	return fmt.Sprintf("Part=%d/Voice=%d/Measure=%d/Event=%d", r.Part, r.Voice, r.Measure, r.Event)
}

// Entry is one indexed event with its position and ID.
type Entry struct {
	ID    string
	Ref   Ref
	Event ikr.Event
}

// Index maps stable event IDs to positions and back.
type Index struct {
	entries []Entry
	byID    map[string]int
	byRef   map[Ref]int

	partNames []string
}

// Build indexes every event in the score. IDs are "event_N" with N
// counting from 1 in traversal order.
func Build(s *ikr.Score) *Index {
	idx := &Index{
		byID:  make(map[string]int),
		byRef: make(map[Ref]int),
	}
	next := 1
	for pi, part := range s.Parts {
		idx.partNames = append(idx.partNames, part.Name)
		for vi, voice := range part.Voices {
			for _, measure := range voice.Measures {
				for ei, e := range measure.Events {
					ref := Ref{Part: pi, Voice: vi, Measure: measure.Number, Event: ei}
					entry := Entry{ID: fmt.Sprintf("event_%d", next), Ref: ref, Event: e}
					idx.byID[entry.ID] = len(idx.entries)
					idx.byRef[ref] = len(idx.entries)
					idx.entries = append(idx.entries, entry)
					next++
				}
			}
		}
	}
	return idx
}

// Len returns the number of indexed events.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Entries returns all entries in traversal order.
func (idx *Index) Entries() []Entry {
	return idx.entries
}

// ByID looks up an event by its stable ID.
func (idx *Index) ByID(id string) (Entry, bool) {
	i, ok := idx.byID[id]
	if !ok {
		return Entry{}, false
	}
	return idx.entries[i], true
}

// ByRef looks up an event by its structural position.
func (idx *Index) ByRef(ref Ref) (Entry, bool) {
	i, ok := idx.byRef[ref]
	if !ok {
		return Entry{}, false
	}
	return idx.entries[i], true
}

// ID returns the stable ID for a position, or "" if absent.
func (idx *Index) ID(ref Ref) string {
	if e, ok := idx.ByRef(ref); ok {
		return e.ID
	}
	return ""
}

// FormatRef renders a human-readable reference for an event ID,
// e.g. "Soprano, Voice 0, Measure 12, event_3".
func (idx *Index) FormatRef(id string) string {
	e, ok := idx.ByID(id)
	if !ok {
		return fmt.Sprintf("unknown event: %s", id)
	}
	name := fmt.Sprintf("Part %d", e.Ref.Part)
	if e.Ref.Part < len(idx.partNames) {
		name = idx.partNames[e.Ref.Part]
	}
	return fmt.Sprintf("%s, Voice %d, Measure %d, %s", name, e.Ref.Voice, e.Ref.Measure, id)
}
