package pipeline

import "github.com/aldhelm/cantus/internal/ikr"

// History is a caller-owned, append-only list of immutable score
// snapshots with a cursor. Accepting a candidate after an undo
// truncates the redo tail, like an editor's undo stack. Snapshots
// are never mutated, so aliasing between history entries is safe.
type History struct {
	snapshots []*ikr.Score
	cursor    int
}

// NewHistory starts a history at the initial snapshot.
func NewHistory(initial *ikr.Score) *History {
	return &History{snapshots: []*ikr.Score{initial}}
}

// Current returns the snapshot under the cursor.
func (h *History) Current() *ikr.Score {
	return h.snapshots[h.cursor]
}

// Accept appends an accepted candidate and moves the cursor to it.
// Any redo tail beyond the cursor is discarded.
func (h *History) Accept(s *ikr.Score) {
	h.snapshots = append(h.snapshots[:h.cursor+1], s)
	h.cursor = len(h.snapshots) - 1
}

// Undo moves the cursor back one snapshot. Reports whether it moved.
func (h *History) Undo() bool {
	if h.cursor == 0 {
		return false
	}
	h.cursor--
	return true
}

// Redo moves the cursor forward one snapshot. Reports whether it moved.
func (h *History) Redo() bool {
	if h.cursor == len(h.snapshots)-1 {
		return false
	}
	h.cursor++
	return true
}

// Len returns the number of snapshots held.
func (h *History) Len() int {
	return len(h.snapshots)
}
