package ikr

// Clone returns a deep copy of the score. Events are value types, so
// copying the slices is sufficient; the result shares no mutable
// state with the receiver. All edits in this codebase go through
// Clone so that "original" and "candidate" snapshots never alias.
func (s *Score) Clone() *Score {
	out := &Score{Attrs: s.Attrs, Parts: make([]Part, len(s.Parts))}
	for pi, part := range s.Parts {
		np := Part{Name: part.Name, Voices: make([]Voice, len(part.Voices))}
		for vi, voice := range part.Voices {
			nv := Voice{Index: voice.Index, Measures: make([]Measure, len(voice.Measures))}
			for mi, measure := range voice.Measures {
				nm := Measure{Number: measure.Number, Events: make([]Event, len(measure.Events))}
				copy(nm.Events, measure.Events)
				nv.Measures[mi] = nm
			}
			np.Voices[vi] = nv
		}
		out.Parts[pi] = np
	}
	return out
}

// WithAttrs returns a copy of the score carrying the given global
// attributes. Used when a decoded candidate adopts the original's
// key, meter, tempo, and style.
func (s *Score) WithAttrs(attrs Attrs) *Score {
	out := s.Clone()
	out.Attrs = attrs
	return out
}

// MapNotes returns a copy of the score with fn applied to every note.
// fn receives a copy and returns the replacement; the receiver is
// untouched.
func (s *Score) MapNotes(fn func(NoteEvent) NoteEvent) *Score {
	out := s.Clone()
	for pi := range out.Parts {
		for vi := range out.Parts[pi].Voices {
			for mi := range out.Parts[pi].Voices[vi].Measures {
				events := out.Parts[pi].Voices[vi].Measures[mi].Events
				for ei, e := range events {
					if note, ok := e.(NoteEvent); ok {
						events[ei] = fn(note)
					}
				}
			}
		}
	}
	return out
}

// Equal reports whether two scores are structurally and content-wise
// identical. Rationals are normalized at construction, so equivalent
// duration forms compare equal.
func Equal(a, b *Score) bool {
	if a.Attrs != b.Attrs || len(a.Parts) != len(b.Parts) {
		return false
	}
	for pi := range a.Parts {
		pa, pb := a.Parts[pi], b.Parts[pi]
		if pa.Name != pb.Name || len(pa.Voices) != len(pb.Voices) {
			return false
		}
		for vi := range pa.Voices {
			va, vb := pa.Voices[vi], pb.Voices[vi]
			if va.Index != vb.Index || len(va.Measures) != len(vb.Measures) {
				return false
			}
			for mi := range va.Measures {
				ma, mb := va.Measures[mi], vb.Measures[mi]
				if ma.Number != mb.Number || len(ma.Events) != len(mb.Events) {
					return false
				}
				for ei := range ma.Events {
					if ma.Events[ei] != mb.Events[ei] {
						return false
					}
				}
			}
		}
	}
	return true
}
