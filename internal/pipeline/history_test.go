package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldhelm/cantus/internal/testutil"
)

func TestHistoryAcceptAndUndo(t *testing.T) {
	initial := testutil.Quarters()
	h := NewHistory(initial)

	assert.Same(t, initial, h.Current())
	assert.Equal(t, 1, h.Len())
	assert.False(t, h.Undo(), "nothing before the initial snapshot")

	second := testutil.Chorale()
	h.Accept(second)
	assert.Same(t, second, h.Current())
	assert.Equal(t, 2, h.Len())

	require.True(t, h.Undo())
	assert.Same(t, initial, h.Current())
	require.True(t, h.Redo())
	assert.Same(t, second, h.Current())
	assert.False(t, h.Redo(), "already at the newest snapshot")
}

func TestHistoryAcceptTruncatesRedoTail(t *testing.T) {
	first := testutil.Quarters()
	second := testutil.Chorale()
	third := testutil.Quarters()

	h := NewHistory(first)
	h.Accept(second)
	require.True(t, h.Undo())

	h.Accept(third)
	assert.Equal(t, 2, h.Len())
	assert.Same(t, third, h.Current())
	assert.False(t, h.Redo(), "redo tail discarded on accept")

	require.True(t, h.Undo())
	assert.Same(t, first, h.Current())
}
